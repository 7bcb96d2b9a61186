package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPinRegionProgress(t *testing.T) {
	pin := NewPinRegion(600, 2.5)
	const viewport = 800.0 // 区段长度 2000

	tests := []struct {
		name    string
		scrollY float64
		want    float64
	}{
		{"区块顶部未到视口顶部", 100, 0},
		{"刚好到达", 600, 0},
		{"四分之一", 1100, 0.25},
		{"一半", 1600, 0.5},
		{"结束", 2600, 1},
		{"结束之后", 5000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pin.Progress(tt.scrollY, viewport), 1e-9)
		})
	}

	assert.Equal(t, 2600.0, pin.End(viewport))
	assert.Equal(t, 0.0, pin.PinOffset(100, viewport))
	assert.Equal(t, 400.0, pin.PinOffset(1000, viewport))
	assert.Equal(t, 2000.0, pin.PinOffset(9000, viewport))
}

func TestPinRegionDefaults(t *testing.T) {
	assert.Equal(t, DefaultSpanRatio, NewPinRegion(0, 0).SpanRatio)

	// 视口高度未知时退化为阶跃
	pin := NewPinRegion(100, 2.5)
	assert.Equal(t, 0.0, pin.Progress(50, 0))
	assert.Equal(t, 1.0, pin.Progress(100, 0))
}

func TestTimelineUpdateScroll(t *testing.T) {
	f := newFixture()
	tl := f.build(t)
	tl.UpdateScroll(1000, 800) // pin 起点 0，区段 2000
	assert.InDelta(t, 0.5, tl.Progress(), 1e-9)
}
