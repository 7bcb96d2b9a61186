package timeline

import (
	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/utils"
)

// Kind 时间轴条目的种类
type Kind int

const (
	// KindTween 随滚动进度可逆插值的属性补间
	KindTween Kind = iota
	// KindCountUp 随滚动进度可逆插值的计数器
	KindCountUp
	// KindLoop 与进度无关、永久循环的补间（粒子、波纹）
	KindLoop
)

func (k Kind) String() string {
	switch k {
	case KindTween:
		return "tween"
	case KindCountUp:
		return "countUp"
	case KindLoop:
		return "loop"
	}
	return "unknown"
}

// PhaseState 阶段在给定进度下的状态
type PhaseState int

const (
	StatePending  PhaseState = iota // progress < Start
	StateActive                     // Start ≤ progress ≤ End
	StateComplete                   // progress > End
)

func (s PhaseState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// Phase 进度子区间 [Start, End] 上对一个目标的一组属性插值
//
// 构建后只读。At/Duration 是编写时的时间轴秒，Start/End 是归一化后的进度。
type Phase struct {
	Name     string
	Kind     Kind
	Target   ecs.EntityID
	Effects  []Effect
	EaseName string

	At       float64
	Duration float64
	Start    float64
	End      float64

	// 计数器专用
	Decimals int

	ease    utils.EasingFunc
	visual  *components.VisualComponent
	counter *components.CounterComponent

	lastRounded float64
	hasRounded  bool
}

// StateAt 返回阶段在 progress 处的状态
func (p *Phase) StateAt(progress float64) PhaseState {
	switch {
	case progress < p.Start:
		return StatePending
	case progress > p.End:
		return StateComplete
	default:
		return StateActive
	}
}

// LocalProgress 返回阶段内的线性进度 [0,1]
func (p *Phase) LocalProgress(progress float64) float64 {
	if p.End <= p.Start {
		if progress >= p.Start {
			return 1
		}
		return 0
	}
	return utils.Clamp01((progress - p.Start) / (p.End - p.Start))
}

// EasedProgress 返回缓动后的阶段内进度
func (p *Phase) EasedProgress(progress float64) float64 {
	local := p.LocalProgress(progress)
	if local >= 1 {
		return 1
	}
	return p.ease(local)
}

// ValueAt 返回第 i 个效果在 progress 处的值（不写入目标）
func (p *Phase) ValueAt(i int, progress float64) float64 {
	e := &p.Effects[i]
	local := p.LocalProgress(progress)
	if local >= 1 {
		return e.To
	}
	return e.From + (e.To-e.From)*p.ease(local)
}

// apply 把第 i 个效果在阶段内进度 local 处的值写入目标
func (p *Phase) apply(i int, local float64, f *utils.NumberFormatter) {
	e := &p.Effects[i]
	if p.Kind == KindCountUp {
		p.applyCounter(e, local, f)
		return
	}
	if p.visual == nil {
		return
	}
	v := e.To
	if local < 1 {
		v = e.From + (e.To-e.From)*p.ease(local)
	}
	e.Prop.Set(p.visual, v)
}
