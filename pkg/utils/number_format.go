package utils

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// GroupingThreshold 绝对值达到该值的数字使用千位分隔符
const GroupingThreshold = 1000

// NumberFormatter 按区域设置格式化计数器数值
type NumberFormatter struct {
	printer *message.Printer
}

// NewNumberFormatter 创建格式化器，locale 为 BCP 47 标签（如 "en"、"de"）
// 无法解析的标签回退到英语
func NewNumberFormatter(locale string) *NumberFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &NumberFormatter{printer: message.NewPrinter(tag)}
}

// Format 把 value 按 decimals 位小数格式化
//
// |value| >= 1000 时使用区域千位分隔符（"12,500"），否则输出恰好 decimals 位小数（"7.2"、"50"）。
func (f *NumberFormatter) Format(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	value = RoundTo(value, decimals)
	if math.Abs(value) >= GroupingThreshold {
		return f.printer.Sprint(number.Decimal(value, number.Scale(decimals)))
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// RoundTo 把 value 四舍五入到 decimals 位小数，-0 归一为 0
func RoundTo(value float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	p := math.Pow10(decimals)
	r := math.Round(value*p) / p
	if r == 0 {
		return 0
	}
	return r
}
