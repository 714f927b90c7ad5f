package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/shouni/image-viewport-kit/pkg/utils"
)

// 既定のズーム設定です。下限・上限の値そのものに根拠は記録されていないため、
// 再計算せずに設定値として保持します。
const (
	DefaultMinZoom    = 0.05
	DefaultMaxZoom    = 8.0
	DefaultButtonStep = 0.25
	DefaultWheelStep  = 0.1
	DefaultPrecision  = 3

	// MaxPrecision を超える桁数では丸めの係数が float64 の精度を失います。
	MaxPrecision = 9

	// NativeZoom はピクセル等倍表示の倍率です。
	NativeZoom = 1.0
	// PanThreshold を超えるとカーソルはパン表示になります。
	PanThreshold = 0.99
)

// fitEpsilon は Fit の計算結果が 0 以下に丸められた場合の代替値です。
const fitEpsilon = 0.001

var ErrInvalidLimits = errors.New("invalid zoom limits")

// Limits はズーム値の範囲と操作ステップをまとめた設定です。
type Limits struct {
	MinZoom    float64
	MaxZoom    float64
	ButtonStep float64 // +/- ボタン1回分
	WheelStep  float64 // ホイール1ノッチ分
	Precision  int     // 丸める小数点以下の桁数
}

// DefaultLimits は既定値の Limits を返します。
func DefaultLimits() Limits {
	return Limits{
		MinZoom:    DefaultMinZoom,
		MaxZoom:    DefaultMaxZoom,
		ButtonStep: DefaultButtonStep,
		WheelStep:  DefaultWheelStep,
		Precision:  DefaultPrecision,
	}
}

// Validate は設定値の整合性を検証します。
func (l Limits) Validate() error {
	switch {
	case math.IsNaN(l.MinZoom) || math.IsNaN(l.MaxZoom):
		return fmt.Errorf("%w: zoom range must be a number", ErrInvalidLimits)
	case l.MinZoom <= 0:
		return fmt.Errorf("%w: min zoom must be positive, got %v", ErrInvalidLimits, l.MinZoom)
	case l.MaxZoom <= l.MinZoom:
		return fmt.Errorf("%w: max zoom %v must exceed min zoom %v", ErrInvalidLimits, l.MaxZoom, l.MinZoom)
	case NativeZoom < l.MinZoom || NativeZoom > l.MaxZoom:
		return fmt.Errorf("%w: range [%v, %v] must contain native zoom", ErrInvalidLimits, l.MinZoom, l.MaxZoom)
	case !(l.ButtonStep > 0) || !(l.WheelStep > 0):
		return fmt.Errorf("%w: zoom steps must be positive", ErrInvalidLimits)
	case l.Precision < 0 || l.Precision > MaxPrecision:
		return fmt.Errorf("%w: precision must be in [0, %d], got %d", ErrInvalidLimits, MaxPrecision, l.Precision)
	}
	return nil
}

// Normalize はズーム値を範囲内に収めてから丸めます。
// 範囲外の値はエラーではなく、黙って丸め込みます。何度適用しても結果は変わりません。
// NaN は下限として扱います。
func (l Limits) Normalize(zoom float64) float64 {
	if math.IsNaN(zoom) {
		zoom = l.MinZoom
	}
	return utils.RoundTo(utils.Clamp(zoom, l.MinZoom, l.MaxZoom), l.Precision)
}

// WheelDelta はホイールの縦移動量をズームの増減量に変換します。
// 負の値 (上スクロール) はズームイン、正の値はズームアウト、0 は変化なしです。
func (l Limits) WheelDelta(deltaY float64) float64 {
	switch {
	case deltaY < 0:
		return l.WheelStep
	case deltaY > 0:
		return -l.WheelStep
	default:
		return 0
	}
}
