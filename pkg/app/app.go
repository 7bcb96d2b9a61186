// Package app 提供应用的核心包装器
//
// 该包把启动逻辑从 main 包提取出来：加载指标和序列配置、
// 读取持久化偏好、创建水质场景，并实现 ebiten.Game 接口。
package app

import (
	"fmt"
	"image/color"

	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/game"
	"github.com/decker502/wqscroll/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

const (
	// AppName gdata 存储目录名
	AppName = "wqscroll"

	defaultMetricsPath  = "data/metrics.yaml"
	defaultSequencePath = "data/sequence.yaml"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 显示调试信息（HUD）
	Verbose bool
	// ReducedMotion 强制减少动态效果，false 时使用保存的偏好
	ReducedMotion bool
	// MetricsPath 磁盘上的指标文件，为空则使用内嵌的 data/metrics.yaml
	MetricsPath string
	// SequencePath 磁盘上的序列配置，为空则使用内嵌的 data/sequence.yaml
	SequencePath string
	// Watch 监视 MetricsPath 并热重载
	Watch bool
	// Seed 粒子随机种子，0 表示随机
	Seed uint64
	// Logger 日志记录器，可为 nil
	Logger *zap.Logger
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	logger          *zap.Logger
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	scene           *scenes.WaterQualityScene
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	root := cfg.Logger
	if root == nil {
		root = zap.NewNop()
	}
	logger := root.Named("app")

	metrics, err := loadMetrics(cfg.MetricsPath)
	if err != nil {
		return nil, fmt.Errorf("指标加载失败: %w", err)
	}
	sequence, err := loadSequence(cfg.SequencePath)
	if err != nil {
		return nil, fmt.Errorf("序列配置加载失败: %w", err)
	}
	logger.Info("configuration loaded",
		zap.Int("metrics", len(metrics)),
		zap.String("locale", sequence.Locale))

	// 存储不可用时降级为仅内存设置
	store, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		logger.Warn("persistent storage unavailable, preferences will not be saved", zap.Error(err))
		store = nil
	}
	settingsManager := game.NewSettingsManager(store, root)
	settings := settingsManager.GetSettings()
	if settings.Locale != "" {
		sequence.Locale = settings.Locale
	}
	if settings.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	scene, err := scenes.NewWaterQualityScene(scenes.WaterQualitySceneOptions{
		Metrics:        metrics,
		Sequence:       sequence,
		ReducedMotion:  cfg.ReducedMotion || settings.ReducedMotion,
		ScrubSmoothing: settings.ScrubSmoothing,
		MetricsPath:    cfg.MetricsPath,
		Watch:          cfg.Watch,
		Seed:           cfg.Seed,
		ShowHUD:        cfg.Verbose,
		Logger:         root,
	})
	if err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	sceneManager := game.NewSceneManager(root)
	sceneManager.SwitchTo(scene)

	return &App{
		logger:          logger,
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		scene:           scene,
		verbose:         cfg.Verbose,
	}, nil
}

func loadMetrics(path string) ([]config.Metric, error) {
	if path == "" {
		return config.LoadMetrics(defaultMetricsPath)
	}
	return config.LoadMetricsFile(path)
}

func loadSequence(path string) (*config.SequenceConfig, error) {
	if path == "" {
		return config.LoadSequenceConfig(defaultSequencePath)
	}
	return config.LoadSequenceConfigFile(path)
}

// Update 更新逻辑
// 每个 tick 调用一次（每秒 config.TPS 次）
func (a *App) Update() error {
	// 退出全屏后需要等待几帧才能正确设置窗口大小
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settingsManager.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settingsManager.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / config.TPS)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸，并把视口尺寸转发给当前场景
//
// 逻辑尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放。
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.sceneManager.Resize(config.GameWindowWidth, config.GameWindowHeight)
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 释放场景并保存偏好
func (a *App) Close() error {
	a.settingsManager.SetReducedMotion(a.scene.ReducedMotion())
	a.sceneManager.Close()
	if err := a.settingsManager.Save(); err != nil {
		return fmt.Errorf("偏好保存失败: %w", err)
	}
	return nil
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细输出
func (a *App) IsVerbose() bool {
	return a.verbose
}
