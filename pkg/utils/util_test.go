package utils

import (
	"testing"
)

func TestRoundTo(t *testing.T) {
	t.Run("小数点以下3桁に丸める", func(t *testing.T) {
		if got := RoundTo(0.123456, 3); got != 0.123 {
			t.Errorf("expected 0.123, got %v", got)
		}
	})

	t.Run("浮動小数点の誤差を吸収する", func(t *testing.T) {
		// 0.1 + 0.2 = 0.30000000000000004
		if got := RoundTo(0.1+0.2, 3); got != 0.3 {
			t.Errorf("expected 0.3, got %v", got)
		}
	})

	t.Run("四捨五入される", func(t *testing.T) {
		if got := RoundTo(1.0006, 3); got != 1.001 {
			t.Errorf("expected 1.001, got %v", got)
		}
	})
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"範囲内", 1.5, 1.5},
		{"下限未満", 0.01, 0.05},
		{"上限超過", 9, 8},
		{"境界値", 8, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, 0.05, 8); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
