package systems

import (
	"image/color"
	"math"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// bottleMargin 瓶身离屏图像下方为波纹预留的高度
const bottleMargin = 80

// Placement 元素解析后的页面位置和累计透明度
type Placement struct {
	X, Y    float64
	Opacity float64
}

// RenderSystem 绘制区块实体
//
// 元素位置 = 沿父链累加的布局位置 + 可视偏移，透明度沿父链相乘。
// 固定容器在固定区段内向下补偿 pinOffset，使其在视口中保持不动。
// 瓶身及其子元素（水位、波纹）先画到离屏图像上，再整体旋转。
type RenderSystem struct {
	em        *ecs.EntityManager
	pin       ecs.EntityID
	pinOffset float64
	scrollY   float64

	face     text.Face
	textOpts text.DrawOptions
	bottle   *ebiten.Image
}

// NewRenderSystem 创建渲染系统
//
// 参数:
//   - em: 实体管理器
//   - pin: 固定容器实体，0 表示没有固定区段
func NewRenderSystem(em *ecs.EntityManager, pin ecs.EntityID) *RenderSystem {
	return &RenderSystem{
		em:   em,
		pin:  pin,
		face: text.NewGoXFace(basicfont.Face7x13),
	}
}

// SetScroll 设置当前滚动位置和固定容器的补偿距离
func (s *RenderSystem) SetScroll(scrollY, pinOffset float64) {
	s.scrollY = scrollY
	s.pinOffset = pinOffset
}

// Resolve 沿父链解析元素的页面位置和透明度
func (s *RenderSystem) Resolve(id ecs.EntityID) Placement {
	p := Placement{Opacity: 1}
	for cur := id; cur != 0; {
		layout, ok := ecs.GetComponent[*components.LayoutComponent](s.em, cur)
		if !ok {
			break
		}
		p.X += layout.X
		p.Y += layout.Y
		if vis, ok := ecs.GetComponent[*components.VisualComponent](s.em, cur); ok {
			p.X += vis.X
			p.Y += vis.Y
			p.Opacity *= vis.Opacity
		}
		if cur == s.pin {
			p.Y += s.pinOffset
		}
		cur = layout.Parent
	}
	return p
}

func (s *RenderSystem) isBottleChild(layout *components.LayoutComponent) bool {
	parent, ok := ecs.GetComponent[*components.LayoutComponent](s.em, layout.Parent)
	return ok && parent.Kind == components.ShapeBottle
}

// Draw 按创建顺序绘制全部元素
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.LayoutComponent, *components.VisualComponent](s.em) {
		layout, _ := ecs.GetComponent[*components.LayoutComponent](s.em, id)
		vis, _ := ecs.GetComponent[*components.VisualComponent](s.em, id)
		if layout.Kind == components.ShapeNone || s.isBottleChild(layout) {
			continue
		}

		p := s.Resolve(id)
		if p.Opacity <= 0 {
			continue
		}
		x, y := p.X, p.Y-s.scrollY

		switch layout.Kind {
		case components.ShapeRect:
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(layout.Width), float32(layout.Height), fade(layout.Color, p.Opacity), false)
		case components.ShapeCircle:
			r := layout.Width / 2 * vis.Scale
			vector.DrawFilledCircle(screen, float32(x+layout.Width/2), float32(y+layout.Height/2), float32(r), fade(layout.Color, p.Opacity), true)
		case components.ShapeRing:
			r := layout.Width / 2 * vis.Scale
			vector.StrokeCircle(screen, float32(x+layout.Width/2), float32(y+layout.Height/2), float32(r), 2, fade(layout.Color, p.Opacity), true)
		case components.ShapeText:
			s.drawText(screen, id, layout, vis, x, y, p.Opacity)
		case components.ShapeBottle:
			s.drawBottle(screen, id, layout, vis, x, y, p.Opacity)
		}
	}
}

func (s *RenderSystem) drawText(screen *ebiten.Image, id ecs.EntityID, layout *components.LayoutComponent, vis *components.VisualComponent, x, y, opacity float64) {
	content := ""
	if counter, ok := ecs.GetComponent[*components.CounterComponent](s.em, id); ok {
		content = counter.Displayed
		if counter.Unit != "" {
			content += " " + counter.Unit
		}
	} else if tc, ok := ecs.GetComponent[*components.TextComponent](s.em, id); ok && !tc.Split {
		content = tc.Content
	}
	if content == "" {
		return
	}

	// 模糊用几份错位的半透明副本近似
	if vis.Blur > 0.5 {
		spread := vis.Blur / 2
		for _, d := range [4][2]float64{{-spread, 0}, {spread, 0}, {0, -spread}, {0, spread}} {
			s.drawString(screen, content, layout.Color, x+d[0], y+d[1], vis.Scale, opacity*0.2)
		}
		opacity *= 1 - math.Min(vis.Blur/8, 1)*0.6
	}
	s.drawString(screen, content, layout.Color, x, y, vis.Scale, opacity)
}

func (s *RenderSystem) drawString(screen *ebiten.Image, str string, c color.RGBA, x, y, scale, opacity float64) {
	s.textOpts.GeoM.Reset()
	s.textOpts.GeoM.Scale(scale, scale)
	s.textOpts.GeoM.Translate(x, y)
	s.textOpts.ColorScale.Reset()
	s.textOpts.ColorScale.ScaleWithColor(c)
	s.textOpts.ColorScale.ScaleAlpha(float32(opacity))
	text.Draw(screen, str, s.face, &s.textOpts)
}

func (s *RenderSystem) drawBottle(screen *ebiten.Image, id ecs.EntityID, layout *components.LayoutComponent, vis *components.VisualComponent, x, y, opacity float64) {
	w, h := int(layout.Width), int(layout.Height)+bottleMargin
	if s.bottle == nil || s.bottle.Bounds().Dx() != w || s.bottle.Bounds().Dy() != h {
		s.bottle = ebiten.NewImage(w, h)
	}
	img := s.bottle
	img.Clear()

	bw, bh := float32(layout.Width), float32(layout.Height)
	neck := bw * 0.35
	vector.DrawFilledRect(img, (bw-neck)/2, 0, neck, bh*0.1, layout.Color, true)
	vector.StrokeRect(img, 2, bh*0.1, bw-4, bh*0.9-2, 3, layout.Color, true)

	for _, child := range ecs.GetEntitiesWith2[*components.LayoutComponent, *components.VisualComponent](s.em) {
		cl, _ := ecs.GetComponent[*components.LayoutComponent](s.em, child)
		if cl.Parent != id {
			continue
		}
		cv, _ := ecs.GetComponent[*components.VisualComponent](s.em, child)
		switch cl.Kind {
		case components.ShapeRect:
			vector.DrawFilledRect(img, float32(cl.X), float32(cv.AttrY), float32(cl.Width), float32(cv.AttrHeight), fade(cl.Color, cv.Opacity), false)
		case components.ShapeRing:
			r := cl.Width / 2 * cv.Scale
			vector.StrokeCircle(img, float32(cl.X+cl.Width/2), float32(cl.Y+cl.Height/2), float32(r), 2, fade(cl.Color, cv.Opacity), true)
		}
	}

	op := &ebiten.DrawImageOptions{}
	cx, cy := layout.Width/2, layout.Height/2
	op.GeoM.Translate(-cx, -cy)
	op.GeoM.Scale(vis.Scale, vis.Scale)
	op.GeoM.Rotate(vis.Rotation * math.Pi / 180)
	op.GeoM.Translate(x+cx, y+cy)
	op.ColorScale.ScaleAlpha(float32(opacity))
	screen.DrawImage(img, op)
}

// fade 按透明度缩放预乘颜色
func fade(c color.RGBA, opacity float64) color.RGBA {
	a := math.Max(0, math.Min(opacity, 1))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
