package sequencer

import "github.com/decker502/wqscroll/pkg/ecs"

// Droplet 一个水滴标记及其数值槽
type Droplet struct {
	Marker    ecs.EntityID
	ValueSlot ecs.EntityID
}

// Markup 区块中各个元素的句柄
//
// 零值 EntityID 表示元素不存在，引用它的阶段会被跳过。
// Droplets 按顺序与指标注册表一一对应。
type Markup struct {
	Container    ecs.EntityID
	PinContainer ecs.EntityID
	Heading      ecs.EntityID
	Subtitle     ecs.EntityID
	Bottle       ecs.EntityID
	WaterLevel   ecs.EntityID
	Droplets     []Droplet
	Summary      ecs.EntityID
	ScrollHint   ecs.EntityID
	Ripples      []ecs.EntityID
}
