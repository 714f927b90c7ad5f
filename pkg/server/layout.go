package server

import (
	"math"

	"github.com/shouni/image-viewport-kit/pkg/domain"
)

// virtualLayout はブラウザのスクロールコンテナを模したヘッドレスのレイアウトです。
// viewport.Layout と viewport.InputSource を実装します。
//
// スクロール範囲は commit で確定した描画サイズから求めます。ズーム直後は
// 古い描画サイズのままなので、ブラウザと同じく1フレーム遅れて範囲が変わります。
type virtualLayout struct {
	viewport domain.ViewportSize
	laidOut  domain.ViewportGeometry
	scroll   domain.ScrollOffset

	nextID   int
	handlers map[int]func(domain.InputEvent)
}

func newVirtualLayout(vp domain.ViewportSize) *virtualLayout {
	return &virtualLayout{
		viewport: vp,
		handlers: make(map[int]func(domain.InputEvent)),
	}
}

func (l *virtualLayout) ViewportSize() domain.ViewportSize { return l.viewport }

func (l *virtualLayout) ScrollBounds() (int, int) {
	return overflow(l.laidOut.RenderedWidth, l.viewport.Width),
		overflow(l.laidOut.RenderedHeight, l.viewport.Height)
}

func (l *virtualLayout) ScrollTo(offset domain.ScrollOffset) {
	maxX, maxY := l.ScrollBounds()
	l.scroll = domain.ScrollOffset{
		X: min(max(offset.X, 0), maxX),
		Y: min(max(offset.Y, 0), maxY),
	}
}

// commit は画像要素が新しいサイズでレイアウトされたことを記録します。
func (l *virtualLayout) commit(g domain.ViewportGeometry) {
	l.laidOut = g
	// 縮んだ場合はブラウザと同じくスクロール位置を範囲内に戻す
	l.ScrollTo(l.scroll)
}

func (l *virtualLayout) resize(vp domain.ViewportSize) {
	l.viewport = vp
	l.ScrollTo(l.scroll)
}

func (l *virtualLayout) Subscribe(handler func(domain.InputEvent)) func() {
	id := l.nextID
	l.nextID++
	l.handlers[id] = handler
	return func() { delete(l.handlers, id) }
}

// emit は購読中のハンドラにイベントを配送します。
// ハンドラ内で購読解除されても安全なように、先に一覧をコピーします。
func (l *virtualLayout) emit(ev domain.InputEvent) int {
	hs := make([]func(domain.InputEvent), 0, len(l.handlers))
	for _, h := range l.handlers {
		hs = append(hs, h)
	}
	for _, h := range hs {
		h(ev)
	}
	return len(hs)
}

func overflow(rendered float64, viewport int) int {
	if d := math.Ceil(rendered) - float64(viewport); d > 0 {
		return int(d)
	}
	return 0
}
