// Package gate 等待宿主能力就绪后才允许初始化动画
//
// Gate 先立即探测一次，之后每隔 Interval 重试，最多 MaxAttempts 次。
// 宿主也可以直接调用 Signal 宣告就绪，不必等到下一次轮询。
// 超时不是错误：调用方保持区块的静态可见状态即可。
package gate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultInterval 两次探测之间的间隔
	DefaultInterval = 100 * time.Millisecond
	// DefaultMaxAttempts 首次探测之后的最大重试次数
	DefaultMaxAttempts = 50
)

// Result 等待结果
type Result int

const (
	Ready Result = iota
	TimedOut
)

func (r Result) String() string {
	switch r {
	case Ready:
		return "ready"
	case TimedOut:
		return "timedOut"
	}
	return "unknown"
}

// Capabilities 报告宿主的两项能力是否可用
// 实现必须能被等待协程并发调用
type Capabilities interface {
	// AnimationReady 宿主的帧循环已经开始
	AnimationReady() bool
	// ViewportReady 宿主已经知道视口尺寸
	ViewportReady() bool
}

// Clock 提供等待用的定时通道，测试中可替换为假时钟
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Option 配置 Gate
type Option func(*Gate)

// WithInterval 设置探测间隔
func WithInterval(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithMaxAttempts 设置最大重试次数（不含首次探测）
func WithMaxAttempts(n int) Option {
	return func(g *Gate) {
		if n >= 0 {
			g.maxAttempts = n
		}
	}
}

// WithClock 替换时钟
func WithClock(c Clock) Option {
	return func(g *Gate) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Gate 就绪闸门
type Gate struct {
	caps        Capabilities
	interval    time.Duration
	maxAttempts int
	clock       Clock
	logger      *zap.Logger

	signal     chan struct{}
	signalOnce sync.Once

	mu     sync.Mutex
	probes int
}

// New 创建就绪闸门，caps 为 nil 时只能通过 Signal 就绪
func New(caps Capabilities, opts ...Option) *Gate {
	g := &Gate{
		caps:        caps,
		interval:    DefaultInterval,
		maxAttempts: DefaultMaxAttempts,
		clock:       realClock{},
		logger:      zap.NewNop(),
		signal:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Signal 宣告宿主已就绪，可重复调用
func (g *Gate) Signal() {
	g.signalOnce.Do(func() { close(g.signal) })
}

// Probes 返回已执行的探测次数
func (g *Gate) Probes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.probes
}

func (g *Gate) probe() bool {
	g.mu.Lock()
	g.probes++
	g.mu.Unlock()

	if g.caps == nil {
		return false
	}
	anim, view := g.caps.AnimationReady(), g.caps.ViewportReady()
	if !anim || !view {
		g.logger.Debug("capabilities not ready", zap.Bool("animation", anim), zap.Bool("viewport", view))
		return false
	}
	return true
}

// Await 阻塞直到就绪、超时或 ctx 取消
//
// 超时返回 (TimedOut, nil)；ctx 取消返回 ctx.Err()。
func (g *Gate) Await(ctx context.Context) (Result, error) {
	select {
	case <-g.signal:
		return Ready, nil
	default:
	}
	if g.probe() {
		g.logger.Debug("ready on first probe")
		return Ready, nil
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return TimedOut, ctx.Err()
		case <-g.signal:
			g.logger.Debug("ready signalled", zap.Int("attempt", attempt))
			return Ready, nil
		case <-g.clock.After(g.interval):
		}
		if g.probe() {
			g.logger.Debug("ready", zap.Int("attempt", attempt))
			return Ready, nil
		}
	}

	g.logger.Debug("gave up waiting for capabilities",
		zap.Int("attempts", g.maxAttempts),
		zap.Duration("waited", time.Duration(g.maxAttempts)*g.interval))
	return TimedOut, nil
}
