package systems

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/decker502/wqscroll/pkg/utils"
)

// snapEpsilon 播放头与目标的距离和速度都小于该值时直接对齐
const snapEpsilon = 1e-4

// ScrollSystem 维护页面滚动位置，并让播放头平滑追赶滚动进度
//
// 平滑使用临界阻尼弹簧：scrubSeconds 秒内基本追上目标，不会越过。
// scrubSeconds 为 0 时播放头直接等于目标进度。
type ScrollSystem struct {
	scrollY   float64
	maxScroll float64

	smoothing bool
	spring    harmonica.Spring
	target    float64
	current   float64
	velocity  float64
}

// NewScrollSystem 创建滚动系统
//
// 参数:
//   - scrubSeconds: 播放头追赶时间（秒），0 关闭平滑
//   - tps: 每秒更新次数（与宿主的 TPS 一致）
func NewScrollSystem(scrubSeconds float64, tps int) *ScrollSystem {
	s := &ScrollSystem{}
	if scrubSeconds > 0 && tps > 0 {
		s.smoothing = true
		// 临界阻尼下 ω = 2π/T 时约 T 秒达到目标的 98%
		s.spring = harmonica.NewSpring(harmonica.FPS(tps), 2*math.Pi/scrubSeconds, 1.0)
	}
	return s
}

// Smoothing 返回是否启用了平滑
func (s *ScrollSystem) Smoothing() bool {
	return s.smoothing
}

// SetMaxScroll 设置可滚动的最大距离（页面高度 - 视口高度）
func (s *ScrollSystem) SetMaxScroll(limit float64) {
	if limit < 0 {
		limit = 0
	}
	s.maxScroll = limit
	s.ScrollTo(s.scrollY)
}

// ScrollBy 按增量滚动，结果限制在 [0, maxScroll]
func (s *ScrollSystem) ScrollBy(delta float64) {
	s.ScrollTo(s.scrollY + delta)
}

// ScrollTo 滚动到指定位置，结果限制在 [0, maxScroll]
func (s *ScrollSystem) ScrollTo(y float64) {
	s.scrollY = math.Max(0, math.Min(y, s.maxScroll))
}

// ScrollY 返回当前滚动位置
func (s *ScrollSystem) ScrollY() float64 {
	return s.scrollY
}

// SetTarget 设置播放头的目标进度
func (s *ScrollSystem) SetTarget(p float64) {
	s.target = utils.Clamp01(p)
	if !s.smoothing {
		s.current = s.target
	}
}

// Jump 让播放头立即到达 p，不经过平滑
func (s *ScrollSystem) Jump(p float64) {
	s.target = utils.Clamp01(p)
	s.current = s.target
	s.velocity = 0
}

// Target 返回目标进度
func (s *ScrollSystem) Target() float64 {
	return s.target
}

// Update 推进一帧并返回平滑后的进度
func (s *ScrollSystem) Update() float64 {
	if !s.smoothing || s.Settled() {
		s.current = s.target
		s.velocity = 0
		return s.current
	}

	s.current, s.velocity = s.spring.Update(s.current, s.velocity, s.target)
	s.current = utils.Clamp01(s.current)
	if math.Abs(s.current-s.target) < snapEpsilon && math.Abs(s.velocity) < snapEpsilon {
		s.current = s.target
		s.velocity = 0
	}
	return s.current
}

// Current 返回平滑后的进度
func (s *ScrollSystem) Current() float64 {
	return s.current
}

// Settled 返回播放头是否已经到达目标
func (s *ScrollSystem) Settled() bool {
	return s.current == s.target && s.velocity == 0
}
