package timeline

import (
	"github.com/decker502/wqscroll/pkg/utils"
)

// CountValue 计数器在阶段内缓动进度 eased 处的数值，已按 decimals 四舍五入
// eased ≥ 1 时精确返回 to
func CountValue(from, to, eased float64, decimals int) float64 {
	if eased >= 1 {
		return to
	}
	return utils.RoundTo(utils.Lerp(from, to, eased), decimals)
}

func (p *Phase) applyCounter(e *Effect, local float64, f *utils.NumberFormatter) {
	if p.counter == nil {
		return
	}

	eased := 1.0
	if local < 1 {
		eased = p.ease(local)
	}
	raw := e.To
	if eased < 1 {
		raw = utils.Lerp(e.From, e.To, eased)
	}
	p.counter.Current = raw

	rounded := CountValue(e.From, e.To, eased, p.Decimals)

	// 数值没变就不重新格式化，滚动热路径上避免分配
	if p.hasRounded && rounded == p.lastRounded {
		return
	}
	p.lastRounded = rounded
	p.hasRounded = true
	p.counter.Displayed = f.Format(rounded, p.Decimals)
}
