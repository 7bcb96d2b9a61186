package config

import (
	"fmt"
	"os"
	"time"

	"github.com/decker502/wqscroll/pkg/embedded"
	"github.com/decker502/wqscroll/pkg/utils"
	"gopkg.in/yaml.v3"
)

// DefaultSequencePath 内嵌序列配置的路径
const DefaultSequencePath = "data/sequence.yaml"

// Range 闭开区间 [Min, Max)，YAML 中写作 [min, max]
type Range struct {
	Min float64
	Max float64
}

// UnmarshalYAML 把两元素序列解析为区间
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("range must be a [min, max] sequence: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("range must have exactly 2 values, got %d", len(pair))
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// MarshalYAML 把区间输出为 [min, max]
func (r Range) MarshalYAML() (any, error) {
	return []float64{r.Min, r.Max}, nil
}

// Span 返回区间宽度
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// At 返回 Min + u·(Max-Min)，u ∈ [0,1)
func (r Range) At(u float64) float64 {
	return r.Min + u*r.Span()
}

// PinConfig 固定区段配置
type PinConfig struct {
	SpanRatio    float64 `yaml:"spanRatio"`    // 滚动距离 = SpanRatio × 视口高度
	ScrubSeconds float64 `yaml:"scrubSeconds"` // 播放头平滑时间，0 = 直接跟随
}

// GateConfig 就绪门轮询配置
type GateConfig struct {
	IntervalMs  int `yaml:"intervalMs"`
	MaxAttempts int `yaml:"maxAttempts"`
}

// Interval 返回轮询间隔
func (g GateConfig) Interval() time.Duration {
	return time.Duration(g.IntervalMs) * time.Millisecond
}

// IntroConfig 时间轴开始前写入的"隐藏"初始状态
type IntroConfig struct {
	WordBlur        float64 `yaml:"wordBlur"`
	SubtitleOffsetY float64 `yaml:"subtitleOffsetY"`
	SummaryOffsetY  float64 `yaml:"summaryOffsetY"`
	DropletOffsetY  float64 `yaml:"dropletOffsetY"`
	DropletScale    float64 `yaml:"dropletScale"`
}

// PhaseSpec 一个阶段在时间轴上的位置
// Rotation / AttrY / Height 仅对瓶身和水位阶段有意义
type PhaseSpec struct {
	At       float64 `yaml:"at"`
	Stagger  float64 `yaml:"stagger,omitempty"`
	Delay    float64 `yaml:"delay,omitempty"`
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
	Rotation float64 `yaml:"rotation,omitempty"`
	AttrY    float64 `yaml:"attrY,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
}

// PhaseLayout 主时间轴的阶段布局
type PhaseLayout struct {
	Words        PhaseSpec `yaml:"words"`
	Subtitle     PhaseSpec `yaml:"subtitle"`
	HintIn       PhaseSpec `yaml:"hintIn"`
	HintOut      PhaseSpec `yaml:"hintOut"`
	BottleTilt   PhaseSpec `yaml:"bottleTilt"`
	WaterLevel   PhaseSpec `yaml:"waterLevel"`
	Droplets     PhaseSpec `yaml:"droplets"`
	Counters     PhaseSpec `yaml:"counters"`
	Summary      PhaseSpec `yaml:"summary"`
	BottleReturn PhaseSpec `yaml:"bottleReturn"`
}

// ParticleFieldConfig 环境粒子的随机范围
type ParticleFieldConfig struct {
	Size     Range   `yaml:"size"`
	Opacity  Range   `yaml:"opacity"`
	Rise     Range   `yaml:"rise"`  // 一个周期上升的距离（像素）
	Drift    float64 `yaml:"drift"` // 水平漂移总幅度，实际取 (u-0.5)·Drift
	Duration Range   `yaml:"duration"`
	Delay    Range   `yaml:"delay"`
	Ease     string  `yaml:"ease"`
}

// RippleConfig 波纹振荡参数，第 i 个圆环按 Base + i·Step 计算
type RippleConfig struct {
	ScaleBase    float64 `yaml:"scaleBase"`
	ScaleStep    float64 `yaml:"scaleStep"`
	Opacity      float64 `yaml:"opacity"`
	DurationBase float64 `yaml:"durationBase"`
	DurationStep float64 `yaml:"durationStep"`
	DelayStep    float64 `yaml:"delayStep"`
	Ease         string  `yaml:"ease"`
}

// SequenceConfig 滚动序列的完整配置
type SequenceConfig struct {
	Locale    string              `yaml:"locale"`
	Pin       PinConfig           `yaml:"pin"`
	Gate      GateConfig          `yaml:"gate"`
	Intro     IntroConfig         `yaml:"intro"`
	Phases    PhaseLayout         `yaml:"phases"`
	Particles ParticleFieldConfig `yaml:"particles"`
	Ripples   RippleConfig        `yaml:"ripples"`
}

// DefaultSequenceConfig 返回默认配置，与 data/sequence.yaml 一致
func DefaultSequenceConfig() *SequenceConfig {
	return &SequenceConfig{
		Locale: "en",
		Pin:    PinConfig{SpanRatio: 2.5, ScrubSeconds: 1.0},
		Gate:   GateConfig{IntervalMs: 100, MaxAttempts: 50},
		Intro: IntroConfig{
			WordBlur:        8,
			SubtitleOffsetY: 20,
			SummaryOffsetY:  20,
			DropletOffsetY:  -40,
			DropletScale:    0.6,
		},
		Phases: PhaseLayout{
			Words:        PhaseSpec{At: 0.05, Stagger: 0.08, Duration: 0.3, Ease: "power2.out"},
			Subtitle:     PhaseSpec{At: 0.4, Duration: 0.5, Ease: "power2.out"},
			HintIn:       PhaseSpec{At: 0, Duration: 0.3, Ease: "power1.out"},
			HintOut:      PhaseSpec{At: 0.6, Duration: 0.3, Ease: "power1.out"},
			BottleTilt:   PhaseSpec{At: 0.5, Duration: 1.0, Ease: "power2.inOut", Rotation: -15},
			WaterLevel:   PhaseSpec{At: 0.5, Duration: 1.5, Ease: "power1.in", AttrY: 240, Height: 30},
			Droplets:     PhaseSpec{At: 0.8, Stagger: 0.25, Duration: 0.6, Ease: "back.out(1.4)"},
			Counters:     PhaseSpec{Delay: 0.15, Duration: 0.8, Ease: "power2.out"},
			Summary:      PhaseSpec{At: 2.2, Duration: 0.5, Ease: "power2.out"},
			BottleReturn: PhaseSpec{At: 2.5, Duration: 0.6, Ease: "power2.inOut", Rotation: 0},
		},
		Particles: ParticleFieldConfig{
			Size:     Range{Min: 3, Max: 9},
			Opacity:  Range{Min: 0.1, Max: 0.3},
			Rise:     Range{Min: 30, Max: 80},
			Drift:    30,
			Duration: Range{Min: 3, Max: 7},
			Delay:    Range{Min: 0, Max: 3},
			Ease:     "power1.out",
		},
		Ripples: RippleConfig{
			ScaleBase:    1.5,
			ScaleStep:    0.3,
			Opacity:      0.3,
			DurationBase: 2.0,
			DurationStep: 0.5,
			DelayStep:    0.8,
			Ease:         "sine.inOut",
		},
	}
}

// LoadSequenceConfig 从内嵌资源加载序列配置，未写出的字段保留默认值
func LoadSequenceConfig(path string) (*SequenceConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence config %s: %w", path, err)
	}
	return ParseSequenceConfig(data, path)
}

// LoadSequenceConfigFile 从磁盘加载序列配置
func LoadSequenceConfigFile(path string) (*SequenceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence config %s: %w", path, err)
	}
	return ParseSequenceConfig(data, path)
}

// ParseSequenceConfig 解析序列配置 YAML
func ParseSequenceConfig(data []byte, source string) (*SequenceConfig, error) {
	cfg := DefaultSequenceConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sequence YAML from %s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sequence config in %s: %w", source, err)
	}
	return cfg, nil
}

// Validate 验证配置的合法性
func (c *SequenceConfig) Validate() error {
	if c.Pin.SpanRatio <= 0 {
		return fmt.Errorf("pin.spanRatio must be positive, got %v", c.Pin.SpanRatio)
	}
	if c.Pin.ScrubSeconds < 0 {
		return fmt.Errorf("pin.scrubSeconds cannot be negative, got %v", c.Pin.ScrubSeconds)
	}
	if c.Gate.IntervalMs <= 0 {
		return fmt.Errorf("gate.intervalMs must be positive, got %d", c.Gate.IntervalMs)
	}
	if c.Gate.MaxAttempts < 0 {
		return fmt.Errorf("gate.maxAttempts cannot be negative, got %d", c.Gate.MaxAttempts)
	}

	phases := map[string]PhaseSpec{
		"words":        c.Phases.Words,
		"subtitle":     c.Phases.Subtitle,
		"hintIn":       c.Phases.HintIn,
		"hintOut":      c.Phases.HintOut,
		"bottleTilt":   c.Phases.BottleTilt,
		"waterLevel":   c.Phases.WaterLevel,
		"droplets":     c.Phases.Droplets,
		"counters":     c.Phases.Counters,
		"summary":      c.Phases.Summary,
		"bottleReturn": c.Phases.BottleReturn,
	}
	for name, p := range phases {
		if p.At < 0 || p.Delay < 0 || p.Stagger < 0 {
			return fmt.Errorf("phase %s: at/delay/stagger cannot be negative", name)
		}
		if p.Duration <= 0 {
			return fmt.Errorf("phase %s: duration must be positive, got %v", name, p.Duration)
		}
		if _, err := utils.ParseEasing(p.Ease); err != nil {
			return fmt.Errorf("phase %s: %w", name, err)
		}
	}

	ranges := map[string]Range{
		"particles.size":     c.Particles.Size,
		"particles.opacity":  c.Particles.Opacity,
		"particles.rise":     c.Particles.Rise,
		"particles.duration": c.Particles.Duration,
		"particles.delay":    c.Particles.Delay,
	}
	for name, r := range ranges {
		if r.Min > r.Max {
			return fmt.Errorf("%s: min %v greater than max %v", name, r.Min, r.Max)
		}
	}
	if c.Particles.Duration.Min <= 0 {
		return fmt.Errorf("particles.duration must be positive")
	}
	if _, err := utils.ParseEasing(c.Particles.Ease); err != nil {
		return fmt.Errorf("particles: %w", err)
	}

	if c.Ripples.DurationBase <= 0 || c.Ripples.DurationStep < 0 || c.Ripples.DelayStep < 0 {
		return fmt.Errorf("ripples: durationBase must be positive and steps non-negative")
	}
	if _, err := utils.ParseEasing(c.Ripples.Ease); err != nil {
		return fmt.Errorf("ripples: %w", err)
	}
	return nil
}
