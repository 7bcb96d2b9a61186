package timeline

import (
	"testing"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLoop(t *testing.T, spec LoopSpec, initial components.VisualComponent) (*Timeline, *components.VisualComponent) {
	t.Helper()
	em := ecs.NewEntityManager()
	spec.Target = newVisual(em, initial)
	b := NewBuilder(em)
	require.True(t, b.Loop(spec))
	tl, err := b.Build(NewPinRegion(0, 2.5))
	require.NoError(t, err)
	vis, _ := ecs.GetComponent[*components.VisualComponent](em, spec.Target)
	return tl, vis
}

func TestLoopDelayAndRepeat(t *testing.T) {
	tl, vis := buildLoop(t, LoopSpec{
		Name:     "particle",
		To:       []PropValue{Val(PropY, -40), Val(PropOpacity, 0)},
		Duration: 2,
		Delay:    1,
		Ease:     "none",
	}, components.VisualComponent{Opacity: 0.2, Scale: 1})

	// 延迟期间不写入
	tl.Advance(0.5)
	assert.Equal(t, 0.0, vis.Y)
	assert.Equal(t, 0.2, vis.Opacity)
	assert.Equal(t, -1, tl.Loops()[0].Cycle())

	// t = 1.0 → 周期内进度 0.5
	tl.Advance(1.5)
	assert.InDelta(t, -20, vis.Y, 1e-9)
	assert.InDelta(t, 0.1, vis.Opacity, 1e-9)

	// 第二个周期从头开始（无往返），延迟不再生效
	tl.Advance(2)
	assert.InDelta(t, -20, vis.Y, 1e-9)
	assert.Equal(t, 1, tl.Loops()[0].Cycle())
}

func TestLoopYoyo(t *testing.T) {
	tl, vis := buildLoop(t, LoopSpec{
		Name:     "ripple",
		To:       []PropValue{Val(PropScale, 2)},
		Duration: 1,
		Yoyo:     true,
		Ease:     "none",
	}, components.NeutralVisual())

	tl.Advance(0.25)
	assert.InDelta(t, 1.25, vis.Scale, 1e-9)

	// 奇数周期反向
	tl.Advance(1.0)
	assert.InDelta(t, 1.75, vis.Scale, 1e-9)

	tl.Advance(1.0)
	assert.InDelta(t, 1.25, vis.Scale, 1e-9)
	assert.InDelta(t, 2.25, tl.Loops()[0].Elapsed(), 1e-9)
}

func TestLoopIndependentOfProgress(t *testing.T) {
	tl, vis := buildLoop(t, LoopSpec{
		Name:     "ripple",
		To:       []PropValue{Val(PropScale, 2)},
		Duration: 1,
		Ease:     "none",
	}, components.NeutralVisual())

	tl.Advance(0.5)
	scale := vis.Scale
	tl.Update(0)
	tl.Update(1)
	assert.Equal(t, scale, vis.Scale)
}
