package viewport

import (
	"math"

	"github.com/shouni/image-viewport-kit/pkg/domain"
	"github.com/shouni/image-viewport-kit/pkg/utils"
)

// Fit は画像全体がビューポートに収まる最大の倍率 min(vw/nw, vh/nh, 1.0) を
// 小数点以下3桁に丸めて返します。等倍を超えて拡大することはありません。
// ビューポートが縮退している場合や計算結果が有限でない場合は 1.0 を返します。
func Fit(naturalWidth, naturalHeight int, vp domain.ViewportSize) float64 {
	return fitWithPrecision(naturalWidth, naturalHeight, vp, DefaultPrecision)
}

func fitWithPrecision(naturalWidth, naturalHeight int, vp domain.ViewportSize, precision int) float64 {
	if vp.Degenerate() || naturalWidth <= 0 || naturalHeight <= 0 {
		return NativeZoom
	}

	z := math.Min(
		float64(vp.Width)/float64(naturalWidth),
		float64(vp.Height)/float64(naturalHeight),
	)
	z = math.Min(z, NativeZoom)
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return NativeZoom
	}

	z = utils.RoundTo(z, precision)
	if z <= 0 {
		return fitEpsilon
	}
	return z
}

// Geometry は現在のズームとビューポートから描画サイズを導出します。
func Geometry(s domain.ViewerSession, vp domain.ViewportSize) domain.ViewportGeometry {
	return domain.ViewportGeometry{
		ViewportWidth:  vp.Width,
		ViewportHeight: vp.Height,
		RenderedWidth:  float64(s.NaturalWidth) * s.Zoom,
		RenderedHeight: float64(s.NaturalHeight) * s.Zoom,
	}
}

// CenterOffset は描画された画像がビューポートの中央に来るスクロール位置を返します。
// 各軸とも [0, max(0, rendered-viewport)] に収めます。
func CenterOffset(g domain.ViewportGeometry) domain.ScrollOffset {
	return domain.ScrollOffset{
		X: centerAxis(g.RenderedWidth, g.ViewportWidth),
		Y: centerAxis(g.RenderedHeight, g.ViewportHeight),
	}
}

func centerAxis(rendered float64, viewport int) int {
	overflow := rendered - float64(viewport)
	if overflow <= 0 {
		return 0
	}
	return clampInt(int(math.Round(overflow/2)), 0, int(math.Ceil(overflow)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AffordanceOf はズーム値に応じたカーソル表示を返します。
func AffordanceOf(s domain.ViewerSession) domain.Affordance {
	if s.Zoom > PanThreshold {
		return domain.AffordancePan
	}
	return domain.AffordanceZoomIn
}
