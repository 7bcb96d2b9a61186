package timeline

import "github.com/decker502/wqscroll/pkg/utils"

// DefaultSpanRatio 固定区段滚动距离与视口高度之比
const DefaultSpanRatio = 2.5

// PinRegion 固定视口区段的边界
//
// 区块顶部到达视口顶部时（scrollY == Start）进度为 0，
// 再滚动 SpanRatio × 视口高度后进度为 1，区间外进度被限制在 [0,1]。
type PinRegion struct {
	Start     float64 // 区块顶部在页面坐标中的位置
	SpanRatio float64
}

// NewPinRegion 创建固定区段，spanRatio ≤ 0 时使用默认值
func NewPinRegion(start, spanRatio float64) PinRegion {
	if spanRatio <= 0 {
		spanRatio = DefaultSpanRatio
	}
	return PinRegion{Start: start, SpanRatio: spanRatio}
}

// Span 返回固定区段的滚动长度
func (r PinRegion) Span(viewportHeight float64) float64 {
	return r.SpanRatio * viewportHeight
}

// End 返回固定区段结束时的滚动位置
func (r PinRegion) End(viewportHeight float64) float64 {
	return r.Start + r.Span(viewportHeight)
}

// Progress 把滚动偏移映射为进度 [0,1]
func (r PinRegion) Progress(scrollY, viewportHeight float64) float64 {
	span := r.Span(viewportHeight)
	if span <= 0 {
		if scrollY >= r.Start {
			return 1
		}
		return 0
	}
	return utils.Clamp01((scrollY - r.Start) / span)
}

// PinOffset 返回区块为保持"固定"需要向下补偿的距离
// 固定区段之前为 0，之后保持在 Span
func (r PinRegion) PinOffset(scrollY, viewportHeight float64) float64 {
	offset := scrollY - r.Start
	if offset < 0 {
		return 0
	}
	if span := r.Span(viewportHeight); offset > span {
		return span
	}
	return offset
}
