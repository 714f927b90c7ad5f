package utils

import "math"

// RoundTo は v を小数点以下 digits 桁に丸めます。
// 浮動小数点の誤差でレイアウトが揺れないよう、ズーム値の保存前に使います。
func RoundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// Clamp は v を [lo, hi] の範囲に収めます。
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
