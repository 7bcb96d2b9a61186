package components

// ParticleComponent 是一个环境漂浮粒子的生成参数
//
// 所有字段在生成时随机确定，之后整个循环周期内保持不变。
// 实际的位移和透明度由循环补间写入 VisualComponent。
type ParticleComponent struct {
	XPercent float64 // 区块宽度的百分比 [0, 100)
	YPercent float64 // 区块高度的百分比 [0, 100)
	Size     float64 // 直径（像素）
	Opacity  float64 // 初始透明度

	DriftX   float64 // 一个周期内的水平位移（像素）
	DriftY   float64 // 一个周期内的垂直位移（像素，负值向上）
	Lifetime float64 // 一个周期的时长（秒）
	Delay    float64 // 首次开始前的延迟（秒）
}

// VelocityX 返回平均水平速度（像素/秒）
func (p *ParticleComponent) VelocityX() float64 {
	if p.Lifetime <= 0 {
		return 0
	}
	return p.DriftX / p.Lifetime
}

// VelocityY 返回平均垂直速度（像素/秒）
func (p *ParticleComponent) VelocityY() float64 {
	if p.Lifetime <= 0 {
		return 0
	}
	return p.DriftY / p.Lifetime
}

// RippleComponent 标记一个同心波纹圆环
type RippleComponent struct {
	Index int
}
