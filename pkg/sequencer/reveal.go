package sequencer

import (
	"errors"
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/decker502/wqscroll/pkg/components"
	"github.com/decker502/wqscroll/pkg/ecs"
)

var (
	// ErrAlreadySplit 元素的文本已经被拆分过
	ErrAlreadySplit = errors.New("text already split into reveal units")
	// ErrNoText 元素不存在或没有文本
	ErrNoText = errors.New("element has no text")
)

// RevealUnit 由标题拆出的一个单词
type RevealUnit struct {
	Entity ecs.EntityID
	Word   string
	Index  int
}

// SplitIntoUnits 把元素的文本按空白拆分为单词实体，顺序即阅读顺序
//
// 每个单词成为元素的子实体，带有自己的文本、布局和可视组件；
// 之后父元素不再绘制自身文本。同一元素第二次调用返回 ErrAlreadySplit。
func SplitIntoUnits(em *ecs.EntityManager, element ecs.EntityID) ([]RevealUnit, error) {
	text, ok := ecs.GetComponent[*components.TextComponent](em, element)
	if !ok {
		return nil, ErrNoText
	}
	if text.Split {
		return nil, ErrAlreadySplit
	}

	words := strings.Fields(text.Content)
	if len(words) == 0 {
		return nil, ErrNoText
	}

	var tint color.RGBA
	if layout, ok := ecs.GetComponent[*components.LayoutComponent](em, element); ok {
		tint = layout.Color
	}

	units := make([]RevealUnit, 0, len(words))
	cursor := 0.0
	for i, word := range words {
		id := em.CreateEntity()
		width := float64(utf8.RuneCountInString(word) * components.GlyphWidth)

		em.AddComponent(id, &components.TextComponent{Content: word})
		em.AddComponent(id, &components.RevealUnitComponent{Parent: element, Index: i})
		em.AddComponent(id, &components.LayoutComponent{
			X:      cursor,
			Width:  width,
			Height: components.GlyphHeight,
			Kind:   components.ShapeText,
			Color:  tint,
			Parent: element,
		})
		vis := components.NeutralVisual()
		em.AddComponent(id, &vis)

		cursor += width + components.GlyphWidth
		units = append(units, RevealUnit{Entity: id, Word: word, Index: i})
	}

	text.Split = true
	return units, nil
}

// unitsOf 返回元素已经拆出的单词实体，按阅读顺序
func unitsOf(em *ecs.EntityManager, element ecs.EntityID) []ecs.EntityID {
	var ids []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.RevealUnitComponent](em) {
		unit, _ := ecs.GetComponent[*components.RevealUnitComponent](em, id)
		if unit.Parent == element {
			ids = append(ids, id)
		}
	}
	return ids
}
