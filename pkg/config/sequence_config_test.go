package config

import (
	"os"
	"testing"

	"github.com/decker502/wqscroll/pkg/embedded"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// 内嵌的 sequence.yaml 必须与代码中的默认值一致
func TestLoadSequenceConfigMatchesDefaults(t *testing.T) {
	embedded.Init(os.DirFS("../.."))

	cfg, err := LoadSequenceConfig(DefaultSequencePath)
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultSequenceConfig(), cfg); diff != "" {
		t.Errorf("data/sequence.yaml drifted from DefaultSequenceConfig (-default +file):\n%s", diff)
	}
}

func TestParseSequenceConfigPartialOverride(t *testing.T) {
	cfg, err := ParseSequenceConfig([]byte(`
pin:
  spanRatio: 3
phases:
  summary: { at: 2.0, duration: 0.4, ease: power3.out }
particles:
  size: [2, 4]
`), "override")
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Pin.SpanRatio)
	// 未覆盖的字段保留默认值
	assert.Equal(t, 1.0, cfg.Pin.ScrubSeconds)
	assert.Equal(t, 50, cfg.Gate.MaxAttempts)
	assert.Equal(t, PhaseSpec{At: 2.0, Duration: 0.4, Ease: "power3.out"}, cfg.Phases.Summary)
	assert.Equal(t, Range{Min: 2, Max: 4}, cfg.Particles.Size)
	assert.Equal(t, Range{Min: 0.1, Max: 0.3}, cfg.Particles.Opacity)
}

func TestParseSequenceConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"负的 spanRatio", "pin: { spanRatio: -1 }"},
		{"零间隔", "gate: { intervalMs: 0 }"},
		{"未知缓动", "phases: { subtitle: { at: 0.4, duration: 0.5, ease: wobble } }"},
		{"零时长", "phases: { summary: { at: 2.2, duration: 0, ease: power2.out } }"},
		{"区间反转", "particles: { size: [9, 3] }"},
		{"区间元素个数错误", "particles: { size: [1, 2, 3] }"},
		{"负的平滑时间", "pin: { scrubSeconds: -0.5 }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSequenceConfig([]byte(tt.yaml), "test")
			assert.Error(t, err)
		})
	}
}

func TestRangeYAMLRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Size Range `yaml:"size"`
	}{Size: Range{Min: 3, Max: 9}})
	require.NoError(t, err)
	assert.Equal(t, "size:\n    - 3\n    - 9\n", string(out))

	r := Range{Min: 3, Max: 9}
	assert.InDelta(t, 6.0, r.At(0.5), 1e-9)
	assert.InDelta(t, 6.0, r.Span(), 1e-9)
}

func TestGateInterval(t *testing.T) {
	g := GateConfig{IntervalMs: 100, MaxAttempts: 50}
	assert.Equal(t, int64(100_000_000), g.Interval().Nanoseconds())
}
