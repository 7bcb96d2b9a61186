package scenes

import (
	"context"
	"fmt"
	"image/color"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/entities"
	"github.com/decker502/wqscroll/pkg/gate"
	"github.com/decker502/wqscroll/pkg/sequencer"
	"github.com/decker502/wqscroll/pkg/systems"
	"github.com/decker502/wqscroll/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"
)

// WaterQualitySceneOptions 水质场景的构造参数
type WaterQualitySceneOptions struct {
	Metrics  []config.Metric
	Sequence *config.SequenceConfig

	ReducedMotion  bool
	ScrubSmoothing bool

	// MetricsPath 非空且 Watch 为 true 时，监视该文件并在变更后重建区块
	MetricsPath string
	Watch       bool

	// Seed 粒子随机种子，0 表示每次随机
	Seed uint64
	// ShowHUD 在左上角显示进度和阶段信息
	ShowHUD bool

	Logger *zap.Logger
	// Input 输入来源，nil 时读取 Ebiten 的键盘和滚轮
	Input InputSource
}

type gateOutcome struct {
	result gate.Result
	err    error
}

// WaterQualityScene 承载滚动区块的场景
//
// 就绪闸门在后台协程中等待，结果经由通道交回帧循环；
// 时间轴状态只在帧循环协程上读写。
type WaterQualityScene struct {
	opts   WaterQualitySceneOptions
	cfg    *config.SequenceConfig
	logger *zap.Logger
	input  InputSource

	metrics   []config.Metric
	reduced   bool
	formatter *utils.NumberFormatter

	em     *ecs.EntityManager
	layout entities.SectionLayout
	markup sequencer.Markup
	seq    *sequencer.Sequencer
	render *systems.RenderSystem
	scroll *systems.ScrollSystem

	gate      *gate.Gate
	gateCh    chan gateOutcome
	ready     bool
	signalled bool

	animationReady atomic.Bool
	viewportReady  atomic.Bool

	watcher *config.MetricsWatcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// NewWaterQualityScene 创建水质场景并启动就绪闸门
//
// 区块实体在第一次 Resize（视口尺寸已知）时创建。
func NewWaterQualityScene(opts WaterQualitySceneOptions) (*WaterQualityScene, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Sequence
	if cfg == nil {
		cfg = config.DefaultSequenceConfig()
	}
	if err := config.ValidateMetrics(opts.Metrics); err != nil {
		return nil, fmt.Errorf("water quality scene: %w", err)
	}
	input := opts.Input
	if input == nil {
		input = EbitenInput(config.GameWindowHeight)
	}

	scrub := 0.0
	if opts.ScrubSmoothing {
		scrub = cfg.Pin.ScrubSeconds
	}

	s := &WaterQualityScene{
		opts:      opts,
		cfg:       cfg,
		logger:    logger,
		input:     input,
		metrics:   opts.Metrics,
		reduced:   opts.ReducedMotion,
		formatter: utils.NewNumberFormatter(cfg.Locale),
		scroll:    systems.NewScrollSystem(scrub, config.TPS),
		gateCh:    make(chan gateOutcome, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if opts.Watch && opts.MetricsPath != "" {
		w, err := config.NewMetricsWatcher(opts.MetricsPath, logger)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("water quality scene: %w", err)
		}
		s.watcher = w
		w.Start(ctx)
	}

	s.gate = gate.New(s,
		gate.WithInterval(cfg.Gate.Interval()),
		gate.WithMaxAttempts(cfg.Gate.MaxAttempts),
		gate.WithLogger(logger.Named("gate")))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.gate.Await(ctx)
		s.gateCh <- gateOutcome{result: res, err: err}
	}()

	return s, nil
}

// AnimationReady 实现 gate.Capabilities：帧循环已开始
func (s *WaterQualityScene) AnimationReady() bool {
	return s.animationReady.Load()
}

// ViewportReady 实现 gate.Capabilities：视口尺寸已知
func (s *WaterQualityScene) ViewportReady() bool {
	return s.viewportReady.Load()
}

// Resize 实现 game.Resizable，尺寸变化时重建区块
func (s *WaterQualityScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.layout = entities.DefaultSectionLayout()
	s.layout.Width = float64(width)
	s.layout.ViewportHeight = float64(height)
	s.layout.Top = float64(height)
	s.layout.SpanRatio = s.cfg.Pin.SpanRatio
	s.viewportReady.Store(true)
	s.rebuild()
}

// rebuild 用当前指标和偏好重新创建区块，已就绪时立即初始化
func (s *WaterQualityScene) rebuild() {
	if s.seq != nil {
		s.seq.Dispose()
	}
	s.em = ecs.NewEntityManager()
	s.markup = entities.NewWaterQualitySection(s.em, s.metrics, s.layout, s.formatter)
	s.render = systems.NewRenderSystem(s.em, s.markup.PinContainer)
	s.scroll.SetMaxScroll(s.layout.PageHeight() - s.layout.ViewportHeight)

	seq, err := sequencer.New(s.em, s.markup, s.metrics, s.cfg,
		sequencer.WithLogger(s.logger.Named("sequencer")),
		sequencer.WithRand(s.newRand()),
		sequencer.WithReducedMotion(s.reduced))
	if err != nil {
		s.logger.Error("failed to create sequencer", zap.Error(err))
		s.seq = nil
		return
	}
	s.seq = seq
	if s.ready {
		s.initSequencer()
	}
}

func (s *WaterQualityScene) newRand() *rand.Rand {
	if s.opts.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(s.opts.Seed, s.opts.Seed^0x9e3779b97f4a7c15))
}

func (s *WaterQualityScene) initSequencer() {
	if s.seq == nil {
		return
	}
	if err := s.seq.Init(); err != nil {
		s.logger.Error("sequence init failed, showing static section", zap.Error(err))
		return
	}
	s.scroll.Jump(s.seq.Pin().Progress(s.scroll.ScrollY(), s.layout.ViewportHeight))
	s.seq.SetProgress(s.scroll.Current())
}

func (s *WaterQualityScene) onGate(out gateOutcome) {
	switch {
	case out.err != nil:
		s.logger.Debug("gate cancelled", zap.Error(out.err))
	case out.result == gate.TimedOut:
		s.logger.Debug("capabilities unavailable, leaving section static")
	default:
		s.ready = true
		s.initSequencer()
	}
}

// Update 处理闸门结果、热重载和滚动输入，并驱动时间轴
func (s *WaterQualityScene) Update(deltaTime float64) {
	s.animationReady.Store(true)
	if !s.signalled && s.viewportReady.Load() {
		s.gate.Signal()
		s.signalled = true
	}

	select {
	case out := <-s.gateCh:
		s.onGate(out)
	default:
	}

	if s.watcher != nil {
		select {
		case metrics := <-s.watcher.Updates():
			s.logger.Info("metrics changed, rebuilding section", zap.Int("count", len(metrics)))
			s.metrics = metrics
			s.rebuild()
		default:
		}
	}

	if s.em == nil {
		return
	}

	in := s.input()
	if in.ToggleReducedMotion {
		s.reduced = !s.reduced
		s.logger.Info("reduced motion toggled", zap.Bool("enabled", s.reduced))
		s.rebuild()
	}
	s.applyScroll(in)

	if s.seq != nil {
		vh := s.layout.ViewportHeight
		s.scroll.SetTarget(s.seq.Pin().Progress(s.scroll.ScrollY(), vh))
		s.seq.SetProgress(s.scroll.Update())
		s.seq.Tick(deltaTime)
		s.render.SetScroll(s.scroll.ScrollY(), s.seq.Pin().PinOffset(s.scroll.ScrollY(), vh))
	} else {
		s.render.SetScroll(s.scroll.ScrollY(), 0)
	}
}

func (s *WaterQualityScene) applyScroll(in Input) {
	switch {
	case in.Home:
		s.scroll.ScrollTo(0)
	case in.End:
		s.scroll.ScrollTo(s.layout.PageHeight())
	default:
		s.scroll.ScrollBy(in.Delta)
	}
}

// Draw 绘制区块和可选的调试信息
func (s *WaterQualityScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x06, G: 0x10, B: 0x1c, A: 0xff})
	if s.render == nil {
		return
	}
	s.render.Draw(screen)

	if s.opts.ShowHUD {
		ebitenutil.DebugPrintAt(screen, s.hudText(), 8, 8)
	}
}

func (s *WaterQualityScene) hudText() string {
	if s.seq == nil {
		return "sequencer unavailable"
	}
	return fmt.Sprintf("scroll %.0f  progress %.3f -> %.3f  %s  phases %d  FPS %.0f",
		s.scroll.ScrollY(), s.scroll.Target(), s.scroll.Current(),
		s.seq.State(), s.seq.PhaseCount(), ebiten.ActualFPS())
}

// Sequencer 返回当前的序列器
func (s *WaterQualityScene) Sequencer() *sequencer.Sequencer {
	return s.seq
}

// ReducedMotion 返回当前的减少动态效果偏好
func (s *WaterQualityScene) ReducedMotion() bool {
	return s.reduced
}

// Dispose 实现 game.Disposable：停止闸门和文件监视协程并撤销时间轴
func (s *WaterQualityScene) Dispose() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		if s.watcher != nil {
			s.watcher.Wait()
		}
		if s.seq != nil {
			s.seq.Dispose()
		}
		s.logger.Debug("scene disposed")
	})
}
