// Package sequencer 把区块元素、指标注册表和序列配置编排成一条滚动时间轴
//
// 生命周期：New → Init（一次）→ UpdateScroll / SetProgress / Tick → Dispose。
// 所有方法都应在宿主的帧循环协程上调用。
package sequencer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/timeline"
	"github.com/decker502/wqscroll/pkg/utils"
	"go.uber.org/zap"
)

// State 序列器所处的阶段
type State int

const (
	StateIdle          State = iota // 尚未初始化，元素保持静态可见状态
	StateAnimated                   // 时间轴已构建
	StateReducedMotion              // 减少动态效果，元素直接处于最终状态
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimated:
		return "animated"
	case StateReducedMotion:
		return "reducedMotion"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}

// Option 配置 Sequencer
type Option func(*Sequencer)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand 设置粒子使用的随机源
func WithRand(rng *rand.Rand) Option {
	return func(s *Sequencer) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithReducedMotion 设置减少动态效果偏好（初始化时读取一次）
func WithReducedMotion(reduced bool) Option {
	return func(s *Sequencer) {
		s.reducedMotion = reduced
	}
}

// Sequencer 滚动序列编排器
type Sequencer struct {
	em      *ecs.EntityManager
	markup  Markup
	metrics []config.Metric
	cfg     *config.SequenceConfig

	logger        *zap.Logger
	rng           *rand.Rand
	reducedMotion bool
	formatter     *utils.NumberFormatter

	state     State
	tl        *timeline.Timeline
	units     []RevealUnit
	particles []ecs.EntityID
}

// New 创建序列器，指标不合法时立即返回包装了 config.ErrInvalidMetric 的错误
func New(em *ecs.EntityManager, markup Markup, metrics []config.Metric, cfg *config.SequenceConfig, opts ...Option) (*Sequencer, error) {
	if err := config.ValidateMetrics(metrics); err != nil {
		return nil, fmt.Errorf("sequencer: %w", err)
	}
	if cfg == nil {
		cfg = config.DefaultSequenceConfig()
	}

	s := &Sequencer{
		em:      em,
		markup:  markup,
		metrics: metrics,
		cfg:     cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.formatter = utils.NewNumberFormatter(cfg.Locale)
	return s, nil
}

// Init 初始化序列，重复调用无效果
//
// 减少动态效果时直接写入最终状态；否则写入隐藏的开场状态、拆分标题、
// 生成粒子和波纹并构建时间轴。构建失败时元素恢复为可见的最终状态。
func (s *Sequencer) Init() error {
	if s.state != StateIdle {
		return nil
	}

	if s.reducedMotion {
		n := ApplyReducedMotion(s.em, s.markup, s.metrics, s.formatter)
		s.state = StateReducedMotion
		s.logger.Info("reduced motion, showing final state", zap.Int("elements", n))
		return nil
	}

	if err := s.splitHeading(); err != nil {
		return err
	}
	s.prime()
	s.particles = SpawnParticles(s.em, s.markup.Container, s.cfg.Particles, s.rng)

	tl, err := s.build()
	if err != nil {
		s.removeParticles()
		ApplyReducedMotion(s.em, s.markup, s.metrics, s.formatter)
		s.state = StateReducedMotion
		return fmt.Errorf("sequencer: build timeline: %w", err)
	}
	s.tl = tl
	s.state = StateAnimated
	s.tl.Update(0)

	s.logger.Info("timeline ready",
		zap.Int("phases", tl.PhaseCount()),
		zap.Int("loops", len(tl.Loops())),
		zap.Int("words", len(s.units)),
		zap.Int("particles", len(s.particles)))
	return nil
}

func (s *Sequencer) splitHeading() error {
	units, err := SplitIntoUnits(s.em, s.markup.Heading)
	switch {
	case errors.Is(err, ErrNoText):
		s.logger.Debug("heading missing, skipping word reveal")
		return nil
	case err != nil:
		return fmt.Errorf("sequencer: split heading: %w", err)
	}

	words := s.cfg.Phases.Words
	for _, u := range units {
		if rc, ok := ecs.GetComponent[*components.RevealUnitComponent](s.em, u.Entity); ok {
			rc.Offset = words.At + float64(u.Index)*words.Stagger
		}
	}
	s.units = units
	return nil
}

// prime 写入时间轴开始前的隐藏状态
// 静态标记本身是完全可见的，只有成功初始化后才会被隐藏
func (s *Sequencer) prime() {
	intro := s.cfg.Intro
	set := func(id ecs.EntityID, fn func(v *components.VisualComponent)) {
		if vis, ok := ecs.GetComponent[*components.VisualComponent](s.em, id); ok {
			fn(vis)
		}
	}

	for _, u := range s.units {
		set(u.Entity, func(v *components.VisualComponent) {
			v.Opacity = 0
			v.Blur = intro.WordBlur
		})
	}
	set(s.markup.Subtitle, func(v *components.VisualComponent) {
		v.Opacity = 0
		v.Y = intro.SubtitleOffsetY
	})
	set(s.markup.Summary, func(v *components.VisualComponent) {
		v.Opacity = 0
		v.Y = intro.SummaryOffsetY
	})
	for i, d := range s.markup.Droplets {
		set(d.Marker, func(v *components.VisualComponent) {
			v.Opacity = 0
			v.Y = intro.DropletOffsetY
			v.Scale = intro.DropletScale
		})
		if counter, ok := ecs.GetComponent[*components.CounterComponent](s.em, d.ValueSlot); ok && i < len(s.metrics) {
			counter.Current = 0
			counter.Decimals = s.metrics[i].Decimals
			counter.Unit = s.metrics[i].Unit
			counter.Displayed = s.formatter.Format(0, counter.Decimals)
		}
	}
}

func (s *Sequencer) build() (*timeline.Timeline, error) {
	ph := s.cfg.Phases
	b := timeline.NewBuilder(s.em,
		timeline.WithLogger(s.logger.Named("timeline")),
		timeline.WithFormatter(s.formatter))

	for _, u := range s.units {
		b.To("word:"+u.Word, u.Entity, ph.Words.At+float64(u.Index)*ph.Words.Stagger, ph.Words.Duration, ph.Words.Ease,
			timeline.Val(timeline.PropOpacity, 1),
			timeline.Val(timeline.PropBlur, 0))
	}

	b.To("subtitle", s.markup.Subtitle, ph.Subtitle.At, ph.Subtitle.Duration, ph.Subtitle.Ease,
		timeline.Val(timeline.PropOpacity, 1),
		timeline.Val(timeline.PropY, 0))

	b.FromTo("hint-in", s.markup.ScrollHint, ph.HintIn.At, ph.HintIn.Duration, ph.HintIn.Ease,
		timeline.Effect{Prop: timeline.PropOpacity, From: 0, To: 1})
	b.To("hint-out", s.markup.ScrollHint, ph.HintOut.At, ph.HintOut.Duration, ph.HintOut.Ease,
		timeline.Val(timeline.PropOpacity, 0))

	b.To("bottle-tilt", s.markup.Bottle, ph.BottleTilt.At, ph.BottleTilt.Duration, ph.BottleTilt.Ease,
		timeline.Val(timeline.PropRotation, ph.BottleTilt.Rotation))

	b.To("water-level", s.markup.WaterLevel, ph.WaterLevel.At, ph.WaterLevel.Duration, ph.WaterLevel.Ease,
		timeline.Val(timeline.PropAttrY, ph.WaterLevel.AttrY),
		timeline.Val(timeline.PropAttrHeight, ph.WaterLevel.Height))

	for i, d := range s.markup.Droplets {
		start := ph.Droplets.At + float64(i)*ph.Droplets.Stagger
		b.To(fmt.Sprintf("droplet:%d", i), d.Marker, start, ph.Droplets.Duration, ph.Droplets.Ease,
			timeline.Val(timeline.PropOpacity, 1),
			timeline.Val(timeline.PropY, 0),
			timeline.Val(timeline.PropScale, 1))

		if i >= len(s.metrics) {
			s.logger.Debug("droplet has no metric", zap.Int("index", i))
			continue
		}
		m := s.metrics[i]
		b.CountUp("count:"+m.ID, d.ValueSlot, 0, m.Value, m.Decimals,
			start+ph.Counters.Delay, ph.Counters.Duration, ph.Counters.Ease)
	}

	b.To("summary", s.markup.Summary, ph.Summary.At, ph.Summary.Duration, ph.Summary.Ease,
		timeline.Val(timeline.PropOpacity, 1),
		timeline.Val(timeline.PropY, 0))

	b.To("bottle-return", s.markup.Bottle, ph.BottleReturn.At, ph.BottleReturn.Duration, ph.BottleReturn.Ease,
		timeline.Val(timeline.PropRotation, ph.BottleReturn.Rotation))

	for _, id := range s.particles {
		if spec, ok := particleLoop(s.em, id, s.cfg.Particles.Ease); ok {
			b.Loop(spec)
		}
	}
	for _, spec := range rippleLoops(s.markup.Ripples, s.cfg.Ripples) {
		b.Loop(spec)
	}

	return b.Build(timeline.NewPinRegion(s.pinStart(), s.cfg.Pin.SpanRatio))
}

// pinStart 区块顶部在页面中的位置
func (s *Sequencer) pinStart() float64 {
	if layout, ok := ecs.GetComponent[*components.LayoutComponent](s.em, s.markup.Container); ok {
		return layout.Y
	}
	return 0
}

// UpdateScroll 根据页面滚动偏移和视口高度驱动时间轴
func (s *Sequencer) UpdateScroll(scrollY, viewportHeight float64) {
	if s.tl != nil {
		s.tl.UpdateScroll(scrollY, viewportHeight)
	}
}

// SetProgress 直接设置进度（平滑后的播放头、调试工具）
func (s *Sequencer) SetProgress(p float64) {
	if s.tl != nil {
		s.tl.Update(p)
	}
}

// Tick 推进粒子和波纹循环 dt 秒
func (s *Sequencer) Tick(dt float64) {
	if s.tl != nil {
		s.tl.Advance(dt)
	}
}

// Progress 返回最近一次写入的进度，未动画化时为 -1
func (s *Sequencer) Progress() float64 {
	if s.tl == nil {
		return -1
	}
	return s.tl.Progress()
}

// Pin 返回固定区段，未动画化时为默认区段
func (s *Sequencer) Pin() timeline.PinRegion {
	if s.tl == nil {
		return timeline.NewPinRegion(s.pinStart(), s.cfg.Pin.SpanRatio)
	}
	return s.tl.Pin()
}

// Timeline 返回内部时间轴，未动画化时为 nil
func (s *Sequencer) Timeline() *timeline.Timeline {
	return s.tl
}

// PhaseCount 返回时间轴的阶段数量
func (s *Sequencer) PhaseCount() int {
	if s.tl == nil {
		return 0
	}
	return s.tl.PhaseCount()
}

// State 返回当前状态
func (s *Sequencer) State() State {
	return s.state
}

// Units 返回拆分出的单词
func (s *Sequencer) Units() []RevealUnit {
	return s.units
}

// Particles 返回粒子实体
func (s *Sequencer) Particles() []ecs.EntityID {
	return s.particles
}

// Metrics 返回指标注册表
func (s *Sequencer) Metrics() []config.Metric {
	return s.metrics
}

// Dispose 撤销时间轴并移除粒子，重复调用无效果
func (s *Sequencer) Dispose() {
	if s.state == StateDisposed {
		return
	}
	if s.tl != nil {
		s.tl.Dispose()
	}
	s.removeParticles()
	s.state = StateDisposed
	s.logger.Debug("sequencer disposed")
}

func (s *Sequencer) removeParticles() {
	if len(s.particles) == 0 {
		return
	}
	for _, id := range s.particles {
		s.em.DestroyEntity(id)
	}
	s.em.RemoveMarkedEntities()
	s.particles = nil
}
