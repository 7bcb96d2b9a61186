package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberFormatterFormat(t *testing.T) {
	f := NewNumberFormatter("en")

	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"pH 一位小数", 7.2, 1, "7.2"},
		{"TDS 整数", 50, 0, "50"},
		{"补齐小数位", 8, 1, "8.0"},
		{"四舍五入", 34.96, 0, "35"},
		{"接近千位不分组", 999.4, 0, "999"},
		{"千位分组", 1000, 0, "1,000"},
		{"大数分组", 12500, 0, "12,500"},
		{"分组且保留小数", 1234.5, 1, "1,234.5"},
		{"负零归一", -0.01, 1, "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.value, tt.decimals))
		})
	}
}

func TestNumberFormatterUnknownLocale(t *testing.T) {
	f := NewNumberFormatter("not a locale!!")
	assert.Equal(t, "2,048", f.Format(2048, 0))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 7.2, RoundTo(7.2000000001, 1))
	assert.Equal(t, 50.0, RoundTo(49.6, 0))
	assert.Equal(t, 0.0, RoundTo(-0.04, 1))
	assert.Equal(t, 3.0, RoundTo(2.5, -2))
}
