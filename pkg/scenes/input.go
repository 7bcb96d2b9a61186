package scenes

import (
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input 一帧内的滚动输入
type Input struct {
	Delta               float64 // 滚动增量（像素，正值向下）
	Home                bool
	End                 bool
	ToggleReducedMotion bool
}

// InputSource 每帧读取一次输入
type InputSource func() Input

// EbitenInput 从滚轮、触摸和键盘读取输入
//
// 滚轮每格滚动 WheelStep，单指拖动按拖动距离滚动，方向键按住连续滚动，
// PageUp/PageDown 与空格翻页，Home/End 跳到两端，M 切换减少动态效果。
func EbitenInput(viewportHeight float64) InputSource {
	page := viewportHeight * config.PageScrollRatio
	var drag touchDrag
	return func() Input {
		var in Input
		_, wy := ebiten.Wheel()
		in.Delta -= wy * config.WheelStep
		in.Delta += drag.update()

		if ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyJ) {
			in.Delta += config.KeyScrollSpeed
		}
		if ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyK) {
			in.Delta -= config.KeyScrollSpeed
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			in.Delta += page
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
			in.Delta -= page
		}
		in.Home = inpututil.IsKeyJustPressed(ebiten.KeyHome)
		in.End = inpututil.IsKeyJustPressed(ebiten.KeyEnd)
		in.ToggleReducedMotion = inpututil.IsKeyJustPressed(ebiten.KeyM)
		return in
	}
}

// touchDrag 跟踪第一根手指的纵向拖动
type touchDrag struct {
	id     ebiten.TouchID
	active bool
	lastY  int
	ids    []ebiten.TouchID
}

// update 返回本帧的滚动增量，手指上移时页面向下滚动
func (d *touchDrag) update() float64 {
	if d.active && inpututil.IsTouchJustReleased(d.id) {
		d.active = false
	}
	if !d.active {
		d.ids = inpututil.AppendJustPressedTouchIDs(d.ids[:0])
		if len(d.ids) == 0 {
			return 0
		}
		d.id = d.ids[0]
		d.active = true
		_, d.lastY = ebiten.TouchPosition(d.id)
		return 0
	}
	_, y := ebiten.TouchPosition(d.id)
	delta := d.lastY - y
	d.lastY = y
	return float64(delta)
}
