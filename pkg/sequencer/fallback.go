package sequencer

import (
	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/utils"
)

// ApplyReducedMotion 不构建时间轴，直接把所有元素写成最终状态
//
// 标题（及已拆出的单词）、副标题、水滴和汇总栏完全可见且无变换，
// 计数器显示格式化后的目标值。f 为 nil 时使用英文格式。返回被写入的元素数量。
func ApplyReducedMotion(em *ecs.EntityManager, m Markup, metrics []config.Metric, f *utils.NumberFormatter) int {
	if f == nil {
		f = utils.NewNumberFormatter("en")
	}
	n := 0
	reveal := func(id ecs.EntityID) {
		if vis, ok := ecs.GetComponent[*components.VisualComponent](em, id); ok {
			vis.Reset()
			n++
		}
	}

	reveal(m.Heading)
	for _, id := range unitsOf(em, m.Heading) {
		reveal(id)
	}
	reveal(m.Subtitle)
	reveal(m.Summary)

	for i, d := range m.Droplets {
		reveal(d.Marker)
		if i >= len(metrics) {
			continue
		}
		if counter, ok := ecs.GetComponent[*components.CounterComponent](em, d.ValueSlot); ok {
			counter.Current = metrics[i].Value
			counter.Displayed = f.Format(metrics[i].Value, metrics[i].Decimals)
			n++
		}
	}
	return n
}
