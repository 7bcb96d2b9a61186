package components

import "github.com/decker502/wqscroll/pkg/ecs"

// CounterComponent 是水滴数值槽的计数状态
//
// Current 在计数阶段内连续变化，阶段结束时必须精确等于目标值；
// Displayed 是按小数位数格式化后的文本。
type CounterComponent struct {
	Current   float64
	Displayed string
	Decimals  int
	Unit      string
}

// MarkerComponent 标记一个水滴，Index 对应指标注册表中的位置
type MarkerComponent struct {
	Index     int
	ValueSlot ecs.EntityID // 数值槽（CounterComponent 所在实体）
}
