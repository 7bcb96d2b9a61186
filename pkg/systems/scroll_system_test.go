package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrollBounds(t *testing.T) {
	s := NewScrollSystem(0, 60)
	s.SetMaxScroll(1000)

	s.ScrollBy(-50)
	assert.Equal(t, 0.0, s.ScrollY())
	s.ScrollBy(400)
	assert.Equal(t, 400.0, s.ScrollY())
	s.ScrollTo(5000)
	assert.Equal(t, 1000.0, s.ScrollY())

	// 页面变短时滚动位置随之收缩
	s.SetMaxScroll(600)
	assert.Equal(t, 600.0, s.ScrollY())
	s.SetMaxScroll(-1)
	assert.Equal(t, 0.0, s.ScrollY())
}

func TestScrubWithoutSmoothing(t *testing.T) {
	s := NewScrollSystem(0, 60)
	assert.False(t, s.Smoothing())

	s.SetTarget(0.4)
	assert.Equal(t, 0.4, s.Current())
	assert.Equal(t, 0.4, s.Update())

	s.SetTarget(2)
	assert.Equal(t, 1.0, s.Update())
}

func TestScrubSmoothingConverges(t *testing.T) {
	s := NewScrollSystem(1, 60)
	assert.True(t, s.Smoothing())

	s.SetTarget(1)
	first := s.Update()
	assert.Greater(t, first, 0.0)
	assert.Less(t, first, 1.0, "smoothed playhead lags the target")

	prev := first
	for i := 0; i < 59; i++ {
		p := s.Update()
		assert.GreaterOrEqual(t, p, prev, "critically damped spring does not reverse")
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}
	assert.Greater(t, prev, 0.95, "after one scrub period the playhead is close")

	for i := 0; i < 600 && !s.Settled(); i++ {
		s.Update()
	}
	assert.True(t, s.Settled())
	assert.Equal(t, 1.0, s.Current())
}

func TestJumpSkipsSmoothing(t *testing.T) {
	s := NewScrollSystem(1, 60)
	s.SetTarget(0.8)
	s.Update()

	s.Jump(0.25)
	assert.Equal(t, 0.25, s.Current())
	assert.True(t, s.Settled())
	assert.Equal(t, 0.25, s.Update())
}
