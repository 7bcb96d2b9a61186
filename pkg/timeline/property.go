package timeline

import "github.com/decker502/wqscroll/pkg/components"

// Property 阶段可以写入的可视属性
type Property int

const (
	PropOpacity Property = iota
	PropBlur
	PropX
	PropY
	PropScale
	PropRotation
	PropAttrY
	PropAttrHeight
	// PropCounter 计数器数值，写入 CounterComponent 而不是 VisualComponent
	PropCounter
)

var propertyNames = [...]string{
	PropOpacity:    "opacity",
	PropBlur:       "blur",
	PropX:          "x",
	PropY:          "y",
	PropScale:      "scale",
	PropRotation:   "rotation",
	PropAttrY:      "attrY",
	PropAttrHeight: "attrHeight",
	PropCounter:    "counter",
}

func (p Property) String() string {
	if p < 0 || int(p) >= len(propertyNames) {
		return "unknown"
	}
	return propertyNames[p]
}

// Get 读取 v 上的属性值
func (p Property) Get(v *components.VisualComponent) float64 {
	switch p {
	case PropOpacity:
		return v.Opacity
	case PropBlur:
		return v.Blur
	case PropX:
		return v.X
	case PropY:
		return v.Y
	case PropScale:
		return v.Scale
	case PropRotation:
		return v.Rotation
	case PropAttrY:
		return v.AttrY
	case PropAttrHeight:
		return v.AttrHeight
	}
	return 0
}

// Set 把 x 写入 v 的属性
// 透明度被限制在 [0,1]，模糊半径不小于 0，回弹曲线不会让元素"超过"完全可见
func (p Property) Set(v *components.VisualComponent, x float64) {
	switch p {
	case PropOpacity:
		if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		v.Opacity = x
	case PropBlur:
		if x < 0 {
			x = 0
		}
		v.Blur = x
	case PropX:
		v.X = x
	case PropY:
		v.Y = x
	case PropScale:
		v.Scale = x
	case PropRotation:
		v.Rotation = x
	case PropAttrY:
		v.AttrY = x
	case PropAttrHeight:
		v.AttrHeight = x
	}
}

// PropValue 目标属性值，用于 Builder.To
type PropValue struct {
	Prop  Property
	Value float64
}

// Val 构造 PropValue
func Val(p Property, v float64) PropValue {
	return PropValue{Prop: p, Value: v}
}

// Effect 一个属性从 From 到 To 的变化
type Effect struct {
	Prop Property
	From float64
	To   float64

	// fromCurrent 为 true 时 From 在构建时由同轨道上一个阶段的 To 决定
	fromCurrent bool
}
