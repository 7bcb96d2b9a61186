package components

import "github.com/decker502/wqscroll/pkg/ecs"

// TextComponent 存储元素的文本内容
type TextComponent struct {
	Content string
	// Split 为 true 时，文本已被拆分为 RevealUnit 子实体，父元素自身不再绘制文本
	Split bool
}

// RevealUnitComponent 标记一个由标题拆分出来的单词
type RevealUnitComponent struct {
	Parent ecs.EntityID // 原始标题元素
	Index  int          // 阅读顺序中的位置
	Offset float64      // 交错偏移（时间轴秒）
}
