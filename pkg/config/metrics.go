package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/decker502/wqscroll/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultMetricsPath 内嵌指标注册表的路径
const DefaultMetricsPath = "data/metrics.yaml"

// ErrInvalidMetric 指标数据不合法（非有限目标值、负小数位数、缺少 ID 等）
// 属于构建期契约错误，初始化时立即失败
var ErrInvalidMetric = errors.New("invalid metric")

// Metric 单个水质指标
// 加载后不可修改，按索引对应区块中的水滴
type Metric struct {
	ID          string  `yaml:"id"`
	Value       float64 `yaml:"value"`    // 计数目标值
	Decimals    int     `yaml:"decimals"` // 显示的小数位数 (≥0)
	Unit        string  `yaml:"unit"`
	Label       string  `yaml:"label"`
	Description string  `yaml:"description"`
}

// MetricsConfig 指标配置文件结构
type MetricsConfig struct {
	Metrics []Metric `yaml:"metrics"`
}

// DefaultMetrics 返回内置的五项水质指标
func DefaultMetrics() []Metric {
	return []Metric{
		{ID: "ph", Value: 7.2, Decimals: 1, Unit: "pH", Label: "pH Level", Description: "Optimal balance"},
		{ID: "tds", Value: 50, Decimals: 0, Unit: "mg/L", Label: "TDS", Description: "Total dissolved solids"},
		{ID: "calcium", Value: 35, Decimals: 0, Unit: "mg/L", Label: "Calcium", Description: "Essential mineral"},
		{ID: "magnesium", Value: 10, Decimals: 0, Unit: "mg/L", Label: "Magnesium", Description: "For strong bones"},
		{ID: "alkalinity", Value: 8.0, Decimals: 1, Unit: "pH", Label: "Alkalinity", Description: "Ionized & balanced"},
	}
}

// LoadMetrics 从内嵌资源加载指标注册表
func LoadMetrics(path string) ([]Metric, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file %s: %w", path, err)
	}
	return ParseMetrics(data, path)
}

// LoadMetricsFile 从磁盘加载指标注册表（用于 --metrics 覆盖和热重载）
func LoadMetricsFile(path string) ([]Metric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics file %s: %w", path, err)
	}
	return ParseMetrics(data, path)
}

// ParseMetrics 解析并验证指标 YAML，source 仅用于错误信息
func ParseMetrics(data []byte, source string) ([]Metric, error) {
	var cfg MetricsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse metrics YAML from %s: %w", source, err)
	}

	if err := ValidateMetrics(cfg.Metrics); err != nil {
		return nil, fmt.Errorf("invalid metrics in %s: %w", source, err)
	}

	return cfg.Metrics, nil
}

// ValidateMetrics 验证指标列表
// 返回的错误都包装了 ErrInvalidMetric
func ValidateMetrics(metrics []Metric) error {
	seen := make(map[string]bool, len(metrics))
	for i, m := range metrics {
		if m.ID == "" {
			return fmt.Errorf("%w: metric #%d has empty id", ErrInvalidMetric, i)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate metric id %q", ErrInvalidMetric, m.ID)
		}
		seen[m.ID] = true

		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			return fmt.Errorf("%w: metric %s: value must be finite, got %v", ErrInvalidMetric, m.ID, m.Value)
		}
		if m.Decimals < 0 {
			return fmt.Errorf("%w: metric %s: decimals cannot be negative, got %d", ErrInvalidMetric, m.ID, m.Decimals)
		}
	}
	return nil
}
