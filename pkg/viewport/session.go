package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/shouni/image-viewport-kit/pkg/domain"
)

var (
	ErrInvalidDimensions = errors.New("natural dimensions must be positive")
	ErrEmptySource       = errors.New("image source is required")
)

// Open はセッションを生成し、現在のビューポートに合わせた Fit 倍率を初期値にします。
// 寸法が不正な場合は未定義のズームでセッションを作らず、即座にエラーを返します。
func (l Limits) Open(source string, naturalWidth, naturalHeight int, vp domain.ViewportSize) (domain.ViewerSession, error) {
	if source == "" {
		return domain.ViewerSession{}, ErrEmptySource
	}
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return domain.ViewerSession{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, naturalWidth, naturalHeight)
	}

	s := domain.ViewerSession{
		ImageSource:   source,
		NaturalWidth:  naturalWidth,
		NaturalHeight: naturalHeight,
	}
	return l.FitToViewport(s, vp), nil
}

// SetZoom はズーム値を範囲内に収め、丸めて設定します。スクロール位置には触れません。
// NaN が渡された場合は現在のズーム値を維持します。
func (l Limits) SetZoom(s domain.ViewerSession, zoom float64) domain.ViewerSession {
	if math.IsNaN(zoom) {
		zoom = s.Zoom
	}
	s.Zoom = l.Normalize(zoom)
	return s
}

// ZoomBy は現在のズーム値に delta を加えます。
func (l Limits) ZoomBy(s domain.ViewerSession, delta float64) domain.ViewerSession {
	return l.SetZoom(s, s.Zoom+delta)
}

// FitToViewport は「現在の」ビューポートサイズで Fit を再計算して適用します。
func (l Limits) FitToViewport(s domain.ViewerSession, vp domain.ViewportSize) domain.ViewerSession {
	return l.SetZoom(s, fitWithPrecision(s.NaturalWidth, s.NaturalHeight, vp, l.Precision))
}

// ResetToNative はピクセル等倍 (1.0) にします。
func (l Limits) ResetToNative(s domain.ViewerSession) domain.ViewerSession {
	s.Zoom = NativeZoom
	return s
}

// 以下は DefaultLimits を使うショートカットです。

func Open(source string, naturalWidth, naturalHeight int, vp domain.ViewportSize) (domain.ViewerSession, error) {
	return DefaultLimits().Open(source, naturalWidth, naturalHeight, vp)
}

func SetZoom(s domain.ViewerSession, zoom float64) domain.ViewerSession {
	return DefaultLimits().SetZoom(s, zoom)
}

func ZoomBy(s domain.ViewerSession, delta float64) domain.ViewerSession {
	return DefaultLimits().ZoomBy(s, delta)
}

func FitToViewport(s domain.ViewerSession, vp domain.ViewportSize) domain.ViewerSession {
	return DefaultLimits().FitToViewport(s, vp)
}

func ResetToNative(s domain.ViewerSession) domain.ViewerSession {
	return DefaultLimits().ResetToNative(s)
}
