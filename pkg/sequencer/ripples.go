package sequencer

import (
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/timeline"
)

// rippleLoops 为每个同心圆环生成往返振荡的循环，第 i 个环更大、更慢、更晚开始
func rippleLoops(rings []ecs.EntityID, cfg config.RippleConfig) []timeline.LoopSpec {
	specs := make([]timeline.LoopSpec, 0, len(rings))
	for i, ring := range rings {
		fi := float64(i)
		specs = append(specs, timeline.LoopSpec{
			Name:   "ripple",
			Target: ring,
			To: []timeline.PropValue{
				timeline.Val(timeline.PropScale, cfg.ScaleBase+fi*cfg.ScaleStep),
				timeline.Val(timeline.PropOpacity, cfg.Opacity),
			},
			Duration: cfg.DurationBase + fi*cfg.DurationStep,
			Delay:    fi * cfg.DelayStep,
			Yoyo:     true,
			Ease:     cfg.Ease,
		})
	}
	return specs
}
