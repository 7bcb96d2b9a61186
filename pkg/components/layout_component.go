package components

import (
	"image/color"

	"github.com/decker502/wqscroll/pkg/ecs"
)

// ShapeKind 决定渲染层如何绘制一个元素
type ShapeKind int

const (
	ShapeNone   ShapeKind = iota // 仅作为容器，不绘制
	ShapeText                    // 文本（TextComponent）
	ShapeRect                    // 填充矩形
	ShapeCircle                  // 填充圆
	ShapeRing                    // 圆环（波纹）
	ShapeBottle                  // 瓶身轮廓
)

// LayoutComponent 描述元素在区块内的布局位置（区块坐标系，像素）
type LayoutComponent struct {
	X, Y          float64
	Width, Height float64
	Kind          ShapeKind
	Color         color.RGBA
	Parent        ecs.EntityID // 父元素，0 表示直接属于区块
}

// 文本按等宽字形排版，与渲染层使用的 7x13 位图字体一致
const (
	GlyphWidth  = 7
	GlyphHeight = 13
)
