package timeline

import (
	"math"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/utils"
)

// LoopSpec 描述一个永久循环的补间
//
// 与 Phase 不同，循环由经过的时间驱动（Timeline.Advance），与滚动进度无关。
// Delay 只在第一次开始前生效；Yoyo 为 true 时奇数周期反向播放。
type LoopSpec struct {
	Name     string
	Target   ecs.EntityID
	To       []PropValue
	Duration float64
	Delay    float64
	Yoyo     bool
	Ease     string
}

// Loop 构建后的循环条目
type Loop struct {
	Name     string
	Target   ecs.EntityID
	Effects  []Effect
	Duration float64
	Delay    float64
	Yoyo     bool
	EaseName string

	ease    utils.EasingFunc
	visual  *components.VisualComponent
	elapsed float64
}

// Elapsed 返回循环已运行的时间（秒）
func (l *Loop) Elapsed() float64 {
	return l.elapsed
}

// Cycle 返回当前所处的周期序号，延迟期间为 -1
func (l *Loop) Cycle() int {
	t := l.elapsed - l.Delay
	if t < 0 {
		return -1
	}
	return int(math.Floor(t / l.Duration))
}

// localAt 返回时间 t（已减去延迟）处的周期内进度
func (l *Loop) localAt(t float64) float64 {
	cycle := t / l.Duration
	n := math.Floor(cycle)
	local := cycle - n
	if l.Yoyo && int64(n)%2 == 1 {
		local = 1 - local
	}
	return local
}

func (l *Loop) advance(dt float64) {
	if l.visual == nil {
		return
	}
	l.elapsed += dt
	t := l.elapsed - l.Delay
	if t < 0 {
		return
	}
	eased := l.ease(l.localAt(t))
	for i := range l.Effects {
		e := &l.Effects[i]
		e.Prop.Set(l.visual, e.From+(e.To-e.From)*eased)
	}
}
