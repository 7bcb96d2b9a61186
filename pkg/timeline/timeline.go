// Package timeline 实现滚动进度驱动的阶段调度器
//
// Timeline 是一个显式持有的值：构建一次，持有全部阶段，
// 通过 Update(progress) 驱动、Dispose() 销毁，没有全局的动画注册表。
//
// 条目分为两类：
//   - 阶段（KindTween / KindCountUp）：由进度标量驱动，幂等且可逆，
//     向回拖动进度会把属性恢复到对应的插值或初始值；
//   - 循环（KindLoop）：由经过的时间驱动（Advance），与进度无关，永久重复。
//
// 阶段按 (目标, 属性) 分成轨道。给定进度下，轨道由起点不晚于该进度的最后一个阶段决定；
// 没有这样的阶段时写入轨道第一个阶段的起始值。因此求值只取决于进度，与添加顺序无关。
package timeline

import (
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/utils"
	"go.uber.org/zap"
)

type trackRef struct {
	phase  *Phase
	effect int
}

type track struct {
	target ecs.EntityID
	prop   Property
	refs   []trackRef
}

// Timeline 主时间轴
type Timeline struct {
	phases []*Phase
	loops  []*Loop
	tracks []track

	pin      PinRegion
	duration float64
	progress float64

	formatter *utils.NumberFormatter
	logger    *zap.Logger
	disposed  bool
}

// Update 把进度 p（限制到 [0,1]）映射到所有阶段并写入目标
//
// 由宿主在每次滚动/尺寸变化回调中同步调用，不分配内存（计数文本变化时除外）。
func (tl *Timeline) Update(p float64) {
	if tl.disposed {
		return
	}
	p = utils.Clamp01(p)
	tl.progress = p

	for ti := range tl.tracks {
		refs := tl.tracks[ti].refs
		gov := -1
		for j := range refs {
			if p < refs[j].phase.Start {
				break
			}
			gov = j
		}
		if gov < 0 {
			refs[0].phase.apply(refs[0].effect, 0, tl.formatter)
			continue
		}
		ref := refs[gov]
		ref.phase.apply(ref.effect, ref.phase.LocalProgress(p), tl.formatter)
	}
}

// UpdateScroll 根据滚动偏移和视口高度计算进度并更新
func (tl *Timeline) UpdateScroll(scrollY, viewportHeight float64) {
	tl.Update(tl.pin.Progress(scrollY, viewportHeight))
}

// Advance 推进所有循环条目 dt 秒
func (tl *Timeline) Advance(dt float64) {
	if tl.disposed || dt <= 0 {
		return
	}
	for _, l := range tl.loops {
		l.advance(dt)
	}
}

// Progress 返回最近一次 Update 的进度，尚未更新时为 -1
func (tl *Timeline) Progress() float64 {
	return tl.progress
}

// Duration 返回编写时的时间轴总时长（秒）
func (tl *Timeline) Duration() float64 {
	return tl.duration
}

// Pin 返回固定区段定义
func (tl *Timeline) Pin() PinRegion {
	return tl.pin
}

// Phases 返回全部阶段（只读）
func (tl *Timeline) Phases() []*Phase {
	return tl.phases
}

// Loops 返回全部循环条目（只读）
func (tl *Timeline) Loops() []*Loop {
	return tl.loops
}

// PhaseCount 返回阶段数量
func (tl *Timeline) PhaseCount() int {
	return len(tl.phases)
}

// States 把每个阶段在当前进度下的状态追加到 dst[:0] 并返回
func (tl *Timeline) States(dst []PhaseState) []PhaseState {
	dst = dst[:0]
	p := utils.Clamp01(tl.progress)
	for _, ph := range tl.phases {
		dst = append(dst, ph.StateAt(p))
	}
	return dst
}

// Dispose 撤销所有阶段和循环，之后 Update/Advance 不再写入任何目标
func (tl *Timeline) Dispose() {
	if tl.disposed {
		return
	}
	tl.disposed = true
	for _, ph := range tl.phases {
		ph.visual = nil
		ph.counter = nil
	}
	for _, l := range tl.loops {
		l.visual = nil
	}
	tl.tracks = nil
	tl.logger.Debug("timeline disposed", zap.Int("phases", len(tl.phases)), zap.Int("loops", len(tl.loops)))
}

// Disposed 返回时间轴是否已销毁
func (tl *Timeline) Disposed() bool {
	return tl.disposed
}
