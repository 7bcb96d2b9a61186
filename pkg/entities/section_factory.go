package entities

import (
	"fmt"
	"image/color"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/sequencer"
	"github.com/decker502/wqscroll/pkg/utils"
)

// 区块默认文案
const (
	HeadingText    = "What's really in your water?"
	SubtitleText   = "Lab-tested quality, drop by drop"
	SummaryFormat  = "%d of %d parameters within safe drinking-water limits"
	ScrollHintText = "scroll to explore"
)

// 配色
var (
	ColorBackground = color.RGBA{R: 0x0b, G: 0x1d, B: 0x33, A: 0xff}
	ColorText       = color.RGBA{R: 0xf2, G: 0xf7, B: 0xfb, A: 0xff}
	ColorMuted      = color.RGBA{R: 0x8f, G: 0xa8, B: 0xc0, A: 0xff}
	ColorBottle     = color.RGBA{R: 0xd8, G: 0xec, B: 0xf8, A: 0xff}
	ColorWater      = color.RGBA{R: 0x3a, G: 0xa6, B: 0xe8, A: 0xff}
	ColorDroplet    = color.RGBA{R: 0x5c, G: 0xc2, B: 0xf2, A: 0xff}
	ColorRipple     = color.RGBA{R: 0x7f, G: 0xd1, B: 0xf7, A: 0xff}
)

// 瓶身尺寸，水位的 AttrY / AttrHeight 以瓶身顶部为原点
const (
	BottleWidth       = 120.0
	BottleHeight      = 300.0
	WaterLevelY       = 60.0
	WaterLevelHeight  = 210.0
	DropletSpacing    = 72.0
	DropletRadius     = 22.0
	DefaultRippleRing = 3
)

// SectionLayout 区块在页面中的几何参数
type SectionLayout struct {
	Width          float64 // 区块宽度
	ViewportHeight float64 // 固定容器高度（视口高度）
	Top            float64 // 区块顶部在页面中的位置
	SpanRatio      float64 // 固定区段长度 = SpanRatio × ViewportHeight
	Ripples        int     // 波纹圆环数量
}

// DefaultSectionLayout 返回 960x640 视口下的默认布局，区块前留出一屏引导内容
func DefaultSectionLayout() SectionLayout {
	return SectionLayout{
		Width:          960,
		ViewportHeight: 640,
		Top:            640,
		SpanRatio:      2.5,
		Ripples:        DefaultRippleRing,
	}
}

// PageHeight 返回整页高度：引导内容 + 区块（固定区段 + 一屏）+ 一屏尾部
func (l SectionLayout) PageHeight() float64 {
	return l.Top + l.sectionHeight() + l.ViewportHeight
}

func (l SectionLayout) sectionHeight() float64 {
	return l.ViewportHeight * (1 + l.SpanRatio)
}

// NewWaterQualitySection 创建水质区块的全部实体
//
// 创建出的元素处于静态、完全可见的状态（计数器显示目标值），
// 序列器初始化成功后才会把它们切换为开场的隐藏状态。
//
// 参数:
//   - em: 实体管理器
//   - metrics: 指标注册表，每个指标对应一个水滴
//   - layout: 区块几何参数
//   - f: 数值格式化器，nil 时使用英文格式
//
// 返回:
//   - sequencer.Markup: 各元素的实体句柄
func NewWaterQualitySection(em *ecs.EntityManager, metrics []config.Metric, layout SectionLayout, f *utils.NumberFormatter) sequencer.Markup {
	if f == nil {
		f = utils.NewNumberFormatter("en")
	}
	var m sequencer.Markup

	m.Container = newElement(em, components.LayoutComponent{
		Y: layout.Top, Width: layout.Width, Height: layout.sectionHeight(),
		Kind: components.ShapeRect, Color: ColorBackground,
	})
	m.PinContainer = newElement(em, components.LayoutComponent{
		Width: layout.Width, Height: layout.ViewportHeight,
		Parent: m.Container,
	})

	m.Heading = newText(em, m.PinContainer, HeadingText, 48, 48, ColorText)
	m.Subtitle = newText(em, m.PinContainer, SubtitleText, 48, 76, ColorMuted)

	bottleX := layout.Width*0.28 - BottleWidth/2
	bottleY := (layout.ViewportHeight - BottleHeight) / 2
	m.Bottle = newElement(em, components.LayoutComponent{
		X: bottleX, Y: bottleY, Width: BottleWidth, Height: BottleHeight,
		Kind: components.ShapeBottle, Color: ColorBottle,
		Parent: m.PinContainer,
	})

	m.WaterLevel = em.CreateEntity()
	em.AddComponent(m.WaterLevel, &components.LayoutComponent{
		X: 8, Width: BottleWidth - 16,
		Kind: components.ShapeRect, Color: ColorWater,
		Parent: m.Bottle,
	})
	water := components.NeutralVisual()
	water.AttrY = WaterLevelY
	water.AttrHeight = WaterLevelHeight
	em.AddComponent(m.WaterLevel, &water)

	for i := 0; i < layout.Ripples; i++ {
		size := 40 + float64(i)*16
		id := newElement(em, components.LayoutComponent{
			X: (BottleWidth - size) / 2, Y: BottleHeight + 24 - size/2,
			Width: size, Height: size,
			Kind: components.ShapeRing, Color: ColorRipple,
			Parent: m.Bottle,
		})
		em.AddComponent(id, &components.RippleComponent{Index: i})
		m.Ripples = append(m.Ripples, id)
	}

	dropletX := layout.Width * 0.55
	dropletTop := (layout.ViewportHeight - DropletSpacing*float64(len(metrics))) / 2
	for i, metric := range metrics {
		marker := newElement(em, components.LayoutComponent{
			X: dropletX, Y: dropletTop + float64(i)*DropletSpacing,
			Width: DropletRadius * 2, Height: DropletRadius * 2,
			Kind: components.ShapeCircle, Color: ColorDroplet,
			Parent: m.PinContainer,
		})
		label := newText(em, marker, metric.Label, DropletRadius*2+16, 2, ColorText)
		newText(em, label, metric.Description, 0, components.GlyphHeight+4, ColorMuted)

		slot := newText(em, marker, "", DropletRadius*2+16+float64(components.GlyphWidth*(len(metric.Label)+2)), 2, ColorWater)
		em.AddComponent(slot, &components.CounterComponent{
			Current:   metric.Value,
			Displayed: f.Format(metric.Value, metric.Decimals),
			Decimals:  metric.Decimals,
			Unit:      metric.Unit,
		})
		em.AddComponent(marker, &components.MarkerComponent{Index: i, ValueSlot: slot})
		m.Droplets = append(m.Droplets, sequencer.Droplet{Marker: marker, ValueSlot: slot})
	}

	summary := fmt.Sprintf(SummaryFormat, len(metrics), len(metrics))
	m.Summary = newText(em, m.PinContainer, summary, 48, layout.ViewportHeight-72, ColorText)
	m.ScrollHint = newText(em, m.PinContainer, ScrollHintText,
		(layout.Width-float64(components.GlyphWidth*len(ScrollHintText)))/2, layout.ViewportHeight-32, ColorMuted)
	return m
}

func newElement(em *ecs.EntityManager, layout components.LayoutComponent) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &layout)
	vis := components.NeutralVisual()
	em.AddComponent(id, &vis)
	return id
}

func newText(em *ecs.EntityManager, parent ecs.EntityID, content string, x, y float64, c color.RGBA) ecs.EntityID {
	id := newElement(em, components.LayoutComponent{
		X: x, Y: y,
		Width:  float64(components.GlyphWidth * len(content)),
		Height: components.GlyphHeight,
		Kind:   components.ShapeText,
		Color:  c,
		Parent: parent,
	})
	em.AddComponent(id, &components.TextComponent{Content: content})
	return id
}
