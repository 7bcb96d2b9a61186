package sequencer

import (
	"image/color"
	"math/rand/v2"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/ecs"
	"github.com/decker502/wqscroll/pkg/timeline"
)

// ParticleCount 环境粒子的数量
const ParticleCount = 12

var particleColor = color.RGBA{R: 0x9c, G: 0xd8, B: 0xf5, A: 0xff}

// SpawnParticles 在容器内生成 ParticleCount 个粒子实体
//
// 位置、大小、透明度和运动参数在生成时随机确定，之后保持不变。
// 容器有布局组件时，百分比位置换算为容器内的像素坐标。
func SpawnParticles(em *ecs.EntityManager, container ecs.EntityID, cfg config.ParticleFieldConfig, rng *rand.Rand) []ecs.EntityID {
	var width, height float64
	if layout, ok := ecs.GetComponent[*components.LayoutComponent](em, container); ok {
		width, height = layout.Width, layout.Height
	}

	ids := make([]ecs.EntityID, 0, ParticleCount)
	for i := 0; i < ParticleCount; i++ {
		p := &components.ParticleComponent{
			XPercent: rng.Float64() * 100,
			YPercent: rng.Float64() * 100,
			Size:     cfg.Size.At(rng.Float64()),
			Opacity:  cfg.Opacity.At(rng.Float64()),
		}
		p.DriftY = -cfg.Rise.At(rng.Float64())
		p.DriftX = (rng.Float64() - 0.5) * cfg.Drift
		p.Lifetime = cfg.Duration.At(rng.Float64())
		p.Delay = cfg.Delay.At(rng.Float64())

		id := em.CreateEntity()
		em.AddComponent(id, p)
		em.AddComponent(id, &components.LayoutComponent{
			X:      p.XPercent / 100 * width,
			Y:      p.YPercent / 100 * height,
			Width:  p.Size,
			Height: p.Size,
			Kind:   components.ShapeCircle,
			Color:  particleColor,
			Parent: container,
		})
		em.AddComponent(id, &components.VisualComponent{Scale: 1, Opacity: p.Opacity})
		ids = append(ids, id)
	}
	return ids
}

// particleLoop 粒子的永久漂浮循环：上升、横向漂移并淡出
func particleLoop(em *ecs.EntityManager, id ecs.EntityID, ease string) (timeline.LoopSpec, bool) {
	p, ok := ecs.GetComponent[*components.ParticleComponent](em, id)
	if !ok {
		return timeline.LoopSpec{}, false
	}
	return timeline.LoopSpec{
		Name:   "particle",
		Target: id,
		To: []timeline.PropValue{
			timeline.Val(timeline.PropY, p.DriftY),
			timeline.Val(timeline.PropX, p.DriftX),
			timeline.Val(timeline.PropOpacity, 0),
		},
		Duration: p.Lifetime,
		Delay:    p.Delay,
		Ease:     ease,
	}, true
}
