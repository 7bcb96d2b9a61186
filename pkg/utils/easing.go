package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Easing Functions (缓动函数)
//
// 缓动函数用于控制动画的速度曲线，使动画看起来更自然。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值（t=0 → 0，t=1 → 1）。
// back 系列曲线在中途会超过 1。
//
// 曲线名称沿用时间轴配置里的写法：power1 = 二次方，power2 = 三次方，power3 = 四次方。
//
// 参考：https://easings.net/

// EasingFunc 缓动函数类型
type EasingFunc func(t float64) float64

// DefaultBackOvershoot back 曲线的默认回弹强度
const DefaultBackOvershoot = 1.70158

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseInQuad 二次方缓入 (power1.in)
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutQuad 二次方缓出 (power1.out)
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInOutQuad 二次方缓入缓出 (power1.inOut)
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// EaseInCubic 三次方缓入 (power2.in)
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic 三次方缓出 (power2.out)
// 特点：开始快，结束慢（推荐用于"显现"类动画）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出 (power2.inOut)
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseInQuart 四次方缓入 (power3.in)
func EaseInQuart(t float64) float64 {
	return t * t * t * t
}

// EaseOutQuart 四次方缓出 (power3.out)
func EaseOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

// EaseInOutQuart 四次方缓入缓出 (power3.inOut)
func EaseInOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 4)/2
}

// EaseInSine 正弦缓入
func EaseInSine(t float64) float64 {
	return 1 - math.Cos(t*math.Pi/2)
}

// EaseOutSine 正弦缓出
func EaseOutSine(t float64) float64 {
	return math.Sin(t * math.Pi / 2)
}

// EaseInOutSine 正弦缓入缓出（波纹呼吸效果）
// 公式：f(t) = -(cos(πt) - 1) / 2
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// EaseOutBack 返回带回弹的缓出曲线，s 为回弹强度
// 公式：f(t) = 1 + (s+1)(t-1)³ + s(t-1)²
func EaseOutBack(s float64) EasingFunc {
	return func(t float64) float64 {
		u := t - 1
		return 1 + (s+1)*u*u*u + s*u*u
	}
}

var namedEasings = map[string]EasingFunc{
	"none":         EaseLinear,
	"linear":       EaseLinear,
	"power1.in":    EaseInQuad,
	"power1.out":   EaseOutQuad,
	"power1.inOut": EaseInOutQuad,
	"power2.in":    EaseInCubic,
	"power2.out":   EaseOutCubic,
	"power2.inOut": EaseInOutCubic,
	"power3.in":    EaseInQuart,
	"power3.out":   EaseOutQuart,
	"power3.inOut": EaseInOutQuart,
	"sine.in":      EaseInSine,
	"sine.out":     EaseOutSine,
	"sine.inOut":   EaseInOutSine,
	"back.out":     EaseOutBack(DefaultBackOvershoot),
}

// ParseEasing 根据名称返回缓动函数
//
// 支持的写法：
//   - "none" / "linear"
//   - "power1" ~ "power3"（不带后缀时等同于 ".out"），以及 ".in" / ".out" / ".inOut"
//   - "sine.in" / "sine.out" / "sine.inOut"
//   - "back.out" 或带参数的 "back.out(1.4)"
//
// 空字符串返回默认曲线 power1.out。
func ParseEasing(name string) (EasingFunc, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return EaseOutQuad, nil
	}

	if strings.HasPrefix(name, "back.out(") && strings.HasSuffix(name, ")") {
		arg := strings.TrimSuffix(strings.TrimPrefix(name, "back.out("), ")")
		s, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid back.out overshoot %q: %w", arg, err)
		}
		return EaseOutBack(s), nil
	}

	if !strings.Contains(name, ".") && strings.HasPrefix(name, "power") {
		name += ".out"
	}

	fn, ok := namedEasings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// MustParseEasing 与 ParseEasing 相同，但名称无效时 panic
// 仅用于代码中写死的曲线名称
func MustParseEasing(name string) EasingFunc {
	fn, err := ParseEasing(name)
	if err != nil {
		panic(err)
	}
	return fn
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 把 t 限制在 [0, 1] 范围内
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
