package components

// VisualComponent 存储元素的可视属性，由序列器写入、渲染层读取
//
// 偏移和缩放都相对于元素的布局位置（LayoutComponent），
// 零值之外的"静态"状态见 NeutralVisual。
type VisualComponent struct {
	X        float64 // 水平偏移（像素）
	Y        float64 // 垂直偏移（像素）
	Scale    float64 // 缩放倍数（1.0 = 原始大小）
	Rotation float64 // 旋转角度（度，负值为逆时针）
	Opacity  float64 // 透明度 0-1
	Blur     float64 // 模糊半径（像素）

	// 填充层（水位）的矩形属性，仅对水位元素有意义
	AttrY      float64
	AttrHeight float64
}

// NeutralVisual 返回完全可见、无变换的可视状态
// 这也是未动画化的静态标记状态
func NeutralVisual() VisualComponent {
	return VisualComponent{Scale: 1, Opacity: 1}
}

// Reset 把变换和透明度恢复为中性状态，保留填充层属性
func (v *VisualComponent) Reset() {
	v.X = 0
	v.Y = 0
	v.Scale = 1
	v.Rotation = 0
	v.Opacity = 1
	v.Blur = 0
}
