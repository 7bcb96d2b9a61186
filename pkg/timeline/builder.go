package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/utils"
	"go.uber.org/zap"
)

var (
	// ErrOverlappingPhases 两个阶段在重叠的进度区间内写同一目标的同一属性
	ErrOverlappingPhases = errors.New("overlapping phases on the same property")
	// ErrInvalidPhase 阶段参数不合法（负的起点、非正时长、未知缓动）
	ErrInvalidPhase = errors.New("invalid phase")
)

// overlapEpsilon 首尾相接的阶段不算重叠
const overlapEpsilon = 1e-9

// Option 配置 Builder
type Option func(*Builder)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithFormatter 设置计数器的数值格式化器
func WithFormatter(f *utils.NumberFormatter) Option {
	return func(b *Builder) {
		if f != nil {
			b.formatter = f
		}
	}
}

// Builder 按时间轴秒编写阶段，Build 时归一化为进度并校验
//
// 目标实体缺失或没有对应组件时，只跳过引用它的阶段（记录在 Skipped 中）。
// 参数错误是粘滞的：第一个错误会由 Build 返回。
type Builder struct {
	em        *ecs.EntityManager
	logger    *zap.Logger
	formatter *utils.NumberFormatter

	phases  []*Phase
	loops   []*Loop
	skipped []string
	err     error
}

// NewBuilder 创建时间轴构建器
func NewBuilder(em *ecs.EntityManager, opts ...Option) *Builder {
	b := &Builder{
		em:        em,
		logger:    zap.NewNop(),
		formatter: utils.NewNumberFormatter("en"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Skipped 返回因目标缺失而跳过的条目名称
func (b *Builder) Skipped() []string {
	return b.skipped
}

func (b *Builder) fail(err error) bool {
	if b.err == nil {
		b.err = err
	}
	return false
}

func (b *Builder) skip(name string, target ecs.EntityID) bool {
	b.skipped = append(b.skipped, name)
	b.logger.Debug("skipping entry with missing target", zap.String("entry", name), zap.Uint64("target", uint64(target)))
	return false
}

func (b *Builder) newPhase(name string, kind Kind, target ecs.EntityID, at, duration float64, ease string) (*Phase, bool) {
	if at < 0 || duration <= 0 {
		return nil, b.fail(fmt.Errorf("%w: %s: at=%v duration=%v", ErrInvalidPhase, name, at, duration))
	}
	fn, err := utils.ParseEasing(ease)
	if err != nil {
		return nil, b.fail(fmt.Errorf("%w: %s: %v", ErrInvalidPhase, name, err))
	}
	return &Phase{
		Name:     name,
		Kind:     kind,
		Target:   target,
		EaseName: ease,
		At:       at,
		Duration: duration,
		ease:     fn,
	}, true
}

// To 添加一个补间阶段，起始值取自同轨道上一个阶段的终值，没有则取目标当前值
func (b *Builder) To(name string, target ecs.EntityID, at, duration float64, ease string, values ...PropValue) bool {
	visual, ok := ecs.GetComponent[*components.VisualComponent](b.em, target)
	if !ok {
		return b.skip(name, target)
	}
	ph, ok := b.newPhase(name, KindTween, target, at, duration, ease)
	if !ok {
		return false
	}
	ph.visual = visual
	ph.Effects = make([]Effect, 0, len(values))
	for _, v := range values {
		ph.Effects = append(ph.Effects, Effect{Prop: v.Prop, From: v.Prop.Get(visual), To: v.Value, fromCurrent: true})
	}
	b.phases = append(b.phases, ph)
	return true
}

// FromTo 添加一个显式给出起止值的补间阶段
func (b *Builder) FromTo(name string, target ecs.EntityID, at, duration float64, ease string, effects ...Effect) bool {
	visual, ok := ecs.GetComponent[*components.VisualComponent](b.em, target)
	if !ok {
		return b.skip(name, target)
	}
	ph, ok := b.newPhase(name, KindTween, target, at, duration, ease)
	if !ok {
		return false
	}
	for _, e := range effects {
		if e.Prop == PropCounter {
			return b.fail(fmt.Errorf("%w: %s: counter property requires CountUp", ErrInvalidPhase, name))
		}
	}
	ph.visual = visual
	ph.Effects = append([]Effect(nil), effects...)
	b.phases = append(b.phases, ph)
	return true
}

// CountUp 添加一个计数阶段：数值从 from 增长到 to，按 decimals 位小数显示
func (b *Builder) CountUp(name string, target ecs.EntityID, from, to float64, decimals int, at, duration float64, ease string) bool {
	counter, ok := ecs.GetComponent[*components.CounterComponent](b.em, target)
	if !ok {
		return b.skip(name, target)
	}
	if decimals < 0 {
		return b.fail(fmt.Errorf("%w: %s: decimals cannot be negative", ErrInvalidPhase, name))
	}
	ph, ok := b.newPhase(name, KindCountUp, target, at, duration, ease)
	if !ok {
		return false
	}
	ph.counter = counter
	ph.Decimals = decimals
	ph.Effects = []Effect{{Prop: PropCounter, From: from, To: to}}
	b.phases = append(b.phases, ph)
	return true
}

// Loop 添加一个永久循环条目，起始值取自目标当前值
func (b *Builder) Loop(spec LoopSpec) bool {
	visual, ok := ecs.GetComponent[*components.VisualComponent](b.em, spec.Target)
	if !ok {
		return b.skip(spec.Name, spec.Target)
	}
	if spec.Duration <= 0 || spec.Delay < 0 {
		return b.fail(fmt.Errorf("%w: loop %s: duration=%v delay=%v", ErrInvalidPhase, spec.Name, spec.Duration, spec.Delay))
	}
	fn, err := utils.ParseEasing(spec.Ease)
	if err != nil {
		return b.fail(fmt.Errorf("%w: loop %s: %v", ErrInvalidPhase, spec.Name, err))
	}

	l := &Loop{
		Name:     spec.Name,
		Target:   spec.Target,
		Duration: spec.Duration,
		Delay:    spec.Delay,
		Yoyo:     spec.Yoyo,
		EaseName: spec.Ease,
		ease:     fn,
		visual:   visual,
	}
	for _, v := range spec.To {
		l.Effects = append(l.Effects, Effect{Prop: v.Prop, From: v.Prop.Get(visual), To: v.Value})
	}
	b.loops = append(b.loops, l)
	return true
}

type trackKey struct {
	target ecs.EntityID
	prop   Property
}

// Build 归一化阶段区间、按轨道分组并校验，返回可驱动的时间轴
func (b *Builder) Build(pin PinRegion) (*Timeline, error) {
	if b.err != nil {
		return nil, b.err
	}

	total := 0.0
	for _, ph := range b.phases {
		if end := ph.At + ph.Duration; end > total {
			total = end
		}
	}
	for _, ph := range b.phases {
		ph.Start = ph.At / total
		ph.End = (ph.At + ph.Duration) / total
	}

	index := make(map[trackKey]int)
	var tracks []track
	for _, ph := range b.phases {
		for i, e := range ph.Effects {
			key := trackKey{target: ph.Target, prop: e.Prop}
			ti, ok := index[key]
			if !ok {
				ti = len(tracks)
				index[key] = ti
				tracks = append(tracks, track{target: ph.Target, prop: e.Prop})
			}
			tracks[ti].refs = append(tracks[ti].refs, trackRef{phase: ph, effect: i})
		}
	}

	for ti := range tracks {
		refs := tracks[ti].refs
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].phase.At < refs[j].phase.At })

		for j := 1; j < len(refs); j++ {
			prev, cur := refs[j-1].phase, refs[j].phase
			if cur.At < prev.At+prev.Duration-overlapEpsilon {
				return nil, fmt.Errorf("%w: %q and %q both write %s of entity %d",
					ErrOverlappingPhases, prev.Name, cur.Name, tracks[ti].prop, tracks[ti].target)
			}
			e := &cur.Effects[refs[j].effect]
			if e.fromCurrent {
				e.From = prev.Effects[refs[j-1].effect].To
			}
		}
	}

	tl := &Timeline{
		phases:    b.phases,
		loops:     b.loops,
		tracks:    tracks,
		pin:       pin,
		duration:  total,
		formatter: b.formatter,
		logger:    b.logger,
		progress:  -1,
	}

	b.logger.Debug("timeline built",
		zap.Int("phases", len(b.phases)),
		zap.Int("tracks", len(tracks)),
		zap.Int("loops", len(b.loops)),
		zap.Float64("duration", total),
		zap.Strings("skipped", b.skipped))

	return tl, nil
}
