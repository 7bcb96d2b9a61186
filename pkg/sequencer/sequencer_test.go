package sequencer_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/entities"
	"github.com/decker502/wqscroll/pkg/sequencer"
	"github.com/decker502/wqscroll/pkg/timeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	em      *ecs.EntityManager
	markup  sequencer.Markup
	metrics []config.Metric
	seq     *sequencer.Sequencer
}

func newHarness(t *testing.T, metrics []config.Metric, cfg *config.SequenceConfig, opts ...sequencer.Option) *harness {
	t.Helper()
	em := ecs.NewEntityManager()
	markup := entities.NewWaterQualitySection(em, metrics, entities.DefaultSectionLayout(), nil)
	opts = append([]sequencer.Option{sequencer.WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	seq, err := sequencer.New(em, markup, metrics, cfg, opts...)
	require.NoError(t, err)
	return &harness{em: em, markup: markup, metrics: metrics, seq: seq}
}

func (h *harness) visual(t *testing.T, id ecs.EntityID) *components.VisualComponent {
	t.Helper()
	vis, ok := ecs.GetComponent[*components.VisualComponent](h.em, id)
	require.True(t, ok)
	return vis
}

func (h *harness) counter(t *testing.T, i int) *components.CounterComponent {
	t.Helper()
	c, ok := ecs.GetComponent[*components.CounterComponent](h.em, h.markup.Droplets[i].ValueSlot)
	require.True(t, ok)
	return c
}

func TestNewRejectsInvalidMetrics(t *testing.T) {
	em := ecs.NewEntityManager()
	metrics := []config.Metric{{ID: "ph", Value: 7.2, Decimals: -1}}

	_, err := sequencer.New(em, sequencer.Markup{}, metrics, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidMetric))
}

func TestInitBuildsTimeline(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	assert.Equal(t, sequencer.StateIdle, h.seq.State())
	assert.Zero(t, h.seq.PhaseCount())

	require.NoError(t, h.seq.Init())
	assert.Equal(t, sequencer.StateAnimated, h.seq.State())

	// 5 个单词 + 副标题 + 提示进出 + 瓶身倾斜/回正 + 水位 + 5 水滴 + 5 计数 + 汇总
	assert.Equal(t, 22, h.seq.PhaseCount())
	assert.Len(t, h.seq.Units(), 5)
	assert.Len(t, h.seq.Particles(), sequencer.ParticleCount)
	assert.Len(t, h.seq.Timeline().Loops(), sequencer.ParticleCount+entities.DefaultRippleRing)
	assert.InDelta(t, 3.1, h.seq.Timeline().Duration(), 1e-9)
}

func TestInitIsIdempotent(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())
	tl := h.seq.Timeline()
	entityCount := h.em.Count()

	require.NoError(t, h.seq.Init())
	assert.Same(t, tl, h.seq.Timeline())
	assert.Equal(t, entityCount, h.em.Count())
	assert.Len(t, h.seq.Particles(), sequencer.ParticleCount)
}

func TestIntroStateIsHidden(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())

	for _, u := range h.seq.Units() {
		vis := h.visual(t, u.Entity)
		assert.Equal(t, 0.0, vis.Opacity, u.Word)
		assert.Equal(t, 8.0, vis.Blur, u.Word)
	}
	sub := h.visual(t, h.markup.Subtitle)
	assert.Equal(t, 0.0, sub.Opacity)
	assert.Equal(t, 20.0, sub.Y)
	for i, d := range h.markup.Droplets {
		vis := h.visual(t, d.Marker)
		assert.Equal(t, 0.0, vis.Opacity)
		assert.Equal(t, -40.0, vis.Y)
		assert.Equal(t, 0.6, vis.Scale)
		assert.Equal(t, 0.0, h.counter(t, i).Current)
	}
	assert.Equal(t, "0.0", h.counter(t, 0).Displayed)
	assert.Equal(t, "0", h.counter(t, 1).Displayed)
	assert.Equal(t, 0.0, h.visual(t, h.markup.ScrollHint).Opacity)
}

func TestFinalState(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())
	h.seq.SetProgress(1)

	for _, u := range h.seq.Units() {
		vis := h.visual(t, u.Entity)
		assert.Equal(t, 1.0, vis.Opacity)
		assert.Equal(t, 0.0, vis.Blur)
	}
	want := []string{"7.2", "50", "35", "10", "8.0"}
	for i, m := range h.metrics {
		c := h.counter(t, i)
		assert.Equal(t, m.Value, c.Current, m.ID)
		assert.Equal(t, want[i], c.Displayed, m.ID)

		vis := h.visual(t, h.markup.Droplets[i].Marker)
		assert.Equal(t, components.VisualComponent{Opacity: 1, Scale: 1}, *vis)
	}

	bottle := h.visual(t, h.markup.Bottle)
	assert.Equal(t, 0.0, bottle.Rotation)
	water := h.visual(t, h.markup.WaterLevel)
	assert.Equal(t, 240.0, water.AttrY)
	assert.Equal(t, 30.0, water.AttrHeight)

	summary := h.visual(t, h.markup.Summary)
	assert.Equal(t, 1.0, summary.Opacity)
	assert.Equal(t, 0.0, summary.Y)
	assert.Equal(t, 0.0, h.visual(t, h.markup.ScrollHint).Opacity)
}

// 瓶身在倾斜与回正之间保持倾斜
func TestBottleHoldsTiltBetweenPhases(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())

	h.seq.SetProgress(2.0 / 3.1)
	assert.Equal(t, -15.0, h.visual(t, h.markup.Bottle).Rotation)
}

func TestScrubbingIsMonotonicAndReversible(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())

	water := h.visual(t, h.markup.WaterLevel)
	drop := h.visual(t, h.markup.Droplets[2].Marker)
	word := h.visual(t, h.seq.Units()[4].Entity)
	count := h.counter(t, 1)

	var prevWater, prevDrop, prevWord, prevCount float64
	for i := 0; i <= 300; i++ {
		h.seq.SetProgress(float64(i) / 300)
		require.GreaterOrEqual(t, water.AttrY, prevWater)
		require.GreaterOrEqual(t, drop.Opacity, prevDrop)
		require.GreaterOrEqual(t, word.Opacity, prevWord)
		require.GreaterOrEqual(t, count.Current, prevCount)
		prevWater, prevDrop, prevWord, prevCount = water.AttrY, drop.Opacity, word.Opacity, count.Current
	}

	h.seq.SetProgress(0.4)
	mid := snapshot(h)
	h.seq.SetProgress(0.9)
	h.seq.SetProgress(0.4)
	if diff := cmp.Diff(mid, snapshot(h)); diff != "" {
		t.Errorf("state after scrubbing back differs (-want +got):\n%s", diff)
	}

	h.seq.SetProgress(0)
	assert.Equal(t, 60.0, water.AttrY)
	assert.Equal(t, "0", count.Displayed)
}

func snapshot(h *harness) []components.VisualComponent {
	var out []components.VisualComponent
	for _, id := range ecs.GetEntitiesWith1[*components.VisualComponent](h.em) {
		if ecs.HasComponent[*components.ParticleComponent](h.em, id) || ecs.HasComponent[*components.RippleComponent](h.em, id) {
			continue
		}
		vis, _ := ecs.GetComponent[*components.VisualComponent](h.em, id)
		out = append(out, *vis)
	}
	return out
}

func TestUpdateScrollUsesPinRegion(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())
	layout := entities.DefaultSectionLayout()

	h.seq.UpdateScroll(layout.Top-100, layout.ViewportHeight)
	assert.Equal(t, 0.0, h.seq.Progress())

	h.seq.UpdateScroll(layout.Top+layout.ViewportHeight*1.25, layout.ViewportHeight)
	assert.InDelta(t, 0.5, h.seq.Progress(), 1e-9)

	h.seq.UpdateScroll(layout.Top+layout.ViewportHeight*10, layout.ViewportHeight)
	assert.Equal(t, 1.0, h.seq.Progress())
}

func TestLargeValuesAreGrouped(t *testing.T) {
	metrics := []config.Metric{
		{ID: "conductivity", Value: 12500, Decimals: 0, Unit: "uS/cm", Label: "Conductivity"},
		{ID: "hardness", Value: 999.5, Decimals: 1, Unit: "mg/L", Label: "Hardness"},
	}
	h := newHarness(t, metrics, nil)
	require.NoError(t, h.seq.Init())
	h.seq.SetProgress(1)

	assert.Equal(t, "12,500", h.counter(t, 0).Displayed)
	assert.Equal(t, "999.5", h.counter(t, 1).Displayed)
}

func TestReducedMotion(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil, sequencer.WithReducedMotion(true))
	require.NoError(t, h.seq.Init())

	assert.Equal(t, sequencer.StateReducedMotion, h.seq.State())
	assert.Zero(t, h.seq.PhaseCount())
	assert.Nil(t, h.seq.Timeline())
	assert.Empty(t, h.seq.Particles())
	assert.Empty(t, ecs.GetEntitiesWith1[*components.ParticleComponent](h.em))

	for _, id := range []ecs.EntityID{h.markup.Heading, h.markup.Subtitle, h.markup.Summary} {
		vis := h.visual(t, id)
		assert.Equal(t, 1.0, vis.Opacity)
		assert.Equal(t, 0.0, vis.Y)
		assert.Equal(t, 0.0, vis.Blur)
	}
	want := []string{"7.2", "50", "35", "10", "8.0"}
	for i, d := range h.markup.Droplets {
		assert.Equal(t, components.NeutralVisual(), *h.visual(t, d.Marker))
		assert.Equal(t, want[i], h.counter(t, i).Displayed)
	}

	// 没有时间轴，驱动调用什么也不做
	h.seq.SetProgress(0.5)
	h.seq.Tick(1)
	assert.Equal(t, -1.0, h.seq.Progress())
}

func TestApplyReducedMotionResetsPrimedState(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())
	h.seq.SetProgress(0)

	n := sequencer.ApplyReducedMotion(h.em, h.markup, h.metrics, nil)
	// 标题 + 5 个单词 + 副标题 + 汇总 + 5 水滴 + 5 计数器
	assert.Equal(t, 18, n)
	for _, u := range h.seq.Units() {
		assert.Equal(t, 1.0, h.visual(t, u.Entity).Opacity)
	}
}

func TestParticleField(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())

	ids := h.seq.Particles()
	require.Len(t, ids, 12)
	for _, id := range ids {
		p, ok := ecs.GetComponent[*components.ParticleComponent](h.em, id)
		require.True(t, ok)
		assert.True(t, p.XPercent >= 0 && p.XPercent < 100)
		assert.True(t, p.YPercent >= 0 && p.YPercent < 100)
		assert.True(t, p.Size >= 3 && p.Size < 9)
		assert.True(t, p.Opacity >= 0.1 && p.Opacity < 0.3)
		assert.True(t, p.DriftY <= -30 && p.DriftY > -80)
		assert.True(t, p.DriftX >= -15 && p.DriftX < 15)
		assert.True(t, p.Lifetime >= 3 && p.Lifetime < 7)
		assert.True(t, p.Delay >= 0 && p.Delay < 3)
		assert.Less(t, p.VelocityY(), 0.0)
	}

	// 同一种子生成同样的粒子
	again := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, again.seq.Init())
	for i, id := range again.seq.Particles() {
		a, _ := ecs.GetComponent[*components.ParticleComponent](h.em, ids[i])
		b, _ := ecs.GetComponent[*components.ParticleComponent](again.em, id)
		assert.Equal(t, *a, *b)
	}
}

func TestParticlesAreIndependentOfProgress(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())
	h.seq.Tick(5)

	p := h.visual(t, h.seq.Particles()[0])
	before := *p
	h.seq.SetProgress(0.7)
	h.seq.SetProgress(0.1)
	assert.Equal(t, before, *p)
}

func TestRipplesOscillate(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())

	ring0 := h.visual(t, h.markup.Ripples[0])
	ring1 := h.visual(t, h.markup.Ripples[1])

	h.seq.Tick(0.5)
	assert.Greater(t, ring0.Scale, 1.0)
	assert.Equal(t, 1.0, ring1.Scale, "second ring starts after its delay")

	// 第一个环 2 秒到达最大，之后往回
	h.seq.Tick(1.5)
	assert.InDelta(t, 1.5, ring0.Scale, 1e-9)
	assert.InDelta(t, 0.3, ring0.Opacity, 1e-9)
	h.seq.Tick(1)
	assert.Less(t, ring0.Scale, 1.5)
}

func TestMissingTargetsAreTolerated(t *testing.T) {
	em := ecs.NewEntityManager()
	metrics := config.DefaultMetrics()
	markup := entities.NewWaterQualitySection(em, metrics, entities.DefaultSectionLayout(), nil)
	markup.Bottle = 0
	markup.Subtitle = 0
	markup.Heading = 0
	markup.Droplets[3].ValueSlot = 0

	seq, err := sequencer.New(em, markup, metrics, nil)
	require.NoError(t, err)
	require.NoError(t, seq.Init())

	// 22 - 5 单词 - 副标题 - 倾斜 - 回正 - 1 计数
	assert.Equal(t, 13, seq.PhaseCount())
	seq.SetProgress(1)
	c, _ := ecs.GetComponent[*components.CounterComponent](em, markup.Droplets[0].ValueSlot)
	assert.Equal(t, "7.2", c.Displayed)
}

func TestMoreDropletsThanMetrics(t *testing.T) {
	em := ecs.NewEntityManager()
	metrics := config.DefaultMetrics()
	markup := entities.NewWaterQualitySection(em, metrics, entities.DefaultSectionLayout(), nil)

	seq, err := sequencer.New(em, markup, metrics[:3], nil)
	require.NoError(t, err)
	require.NoError(t, seq.Init())
	// 5 个水滴阶段，只有 3 个计数阶段
	assert.Equal(t, 20, seq.PhaseCount())
}

func TestBuildFailureLeavesSectionVisible(t *testing.T) {
	cfg := config.DefaultSequenceConfig()
	cfg.Phases.BottleReturn.At = 1.0 // 与倾斜阶段 [0.5, 1.5] 重叠

	h := newHarness(t, config.DefaultMetrics(), cfg)
	err := h.seq.Init()
	require.Error(t, err)
	assert.ErrorIs(t, err, timeline.ErrOverlappingPhases)

	assert.Equal(t, sequencer.StateReducedMotion, h.seq.State())
	assert.Empty(t, h.seq.Particles())
	for _, u := range h.seq.Units() {
		assert.Equal(t, 1.0, h.visual(t, u.Entity).Opacity)
	}
	assert.Equal(t, "7.2", h.counter(t, 0).Displayed)
}

func TestDispose(t *testing.T) {
	h := newHarness(t, config.DefaultMetrics(), nil)
	require.NoError(t, h.seq.Init())
	h.seq.SetProgress(0.3)
	before := snapshot(h)

	h.seq.Dispose()
	h.seq.Dispose()
	assert.Equal(t, sequencer.StateDisposed, h.seq.State())
	assert.Empty(t, ecs.GetEntitiesWith1[*components.ParticleComponent](h.em))

	h.seq.SetProgress(1)
	h.seq.Tick(2)
	assert.Empty(t, cmp.Diff(before, snapshot(h)))

	// 已销毁的序列器不会重新初始化
	require.NoError(t, h.seq.Init())
	assert.Equal(t, sequencer.StateDisposed, h.seq.State())
}
