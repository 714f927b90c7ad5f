package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/shouni/image-viewport-kit/pkg/domain"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var ErrEmptyViewport = errors.New("viewport has no visible area")

// Backdrop はオーバーレイの背景色です。
var Backdrop = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}

// RenderViewport は zoom 倍で描画した画像のうち、スクロール位置 scroll から
// ビューポート分だけ見えている範囲を JPEG で返します。
// 描画サイズがビューポートより小さい軸では、画像を中央に置きます。
func RenderViewport(data []byte, zoom float64, scroll domain.ScrollOffset, vp domain.ViewportSize, quality int) ([]byte, error) {
	if vp.Degenerate() {
		return nil, ErrEmptyViewport
	}
	if zoom <= 0 {
		return nil, fmt.Errorf("zoom must be positive, got %v", zoom)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sb := src.Bounds()

	dst := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Backdrop), image.Point{}, draw.Src)

	tx := padding(float64(sb.Dx())*zoom, vp.Width) - float64(scroll.X) - float64(sb.Min.X)*zoom
	ty := padding(float64(sb.Dy())*zoom, vp.Height) - float64(scroll.Y) - float64(sb.Min.Y)*zoom
	s2d := f64.Aff3{
		zoom, 0, tx,
		0, zoom, ty,
	}
	draw.ApproxBiLinear.Transform(dst, s2d, src, sb, draw.Over, nil)

	return EncodeJPEG(dst, quality)
}

func padding(rendered float64, viewport int) float64 {
	if gap := float64(viewport) - rendered; gap > 0 {
		return gap / 2
	}
	return 0
}
