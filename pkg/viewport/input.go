package viewport

import (
	"github.com/shouni/image-viewport-kit/pkg/domain"
)

// Handle は入力イベントを操作に変換して適用します。
// 閉じている間のイベントや対応しないイベントは無視し、false を返します。
func (c *Controller) Handle(ev domain.InputEvent) bool {
	if c.state != StateOpen {
		return false
	}

	switch e := ev.(type) {
	case domain.WheelEvent:
		delta := c.limits.WheelDelta(e.DeltaY)
		if delta == 0 {
			return false
		}
		_, err := c.ZoomBy(delta)
		return err == nil
	case domain.ButtonEvent:
		return c.handleAction(e.Action)
	case domain.KeyEvent:
		if e.Key != domain.KeyEscape {
			return false
		}
		c.close("escape")
		return true
	case domain.OverlayClickEvent:
		c.close("overlay")
		return true
	}
	return false
}

func (c *Controller) handleAction(a domain.Action) bool {
	var err error
	switch a {
	case domain.ActionZoomIn:
		_, err = c.ZoomBy(c.limits.ButtonStep)
	case domain.ActionZoomOut:
		_, err = c.ZoomBy(-c.limits.ButtonStep)
	case domain.ActionFit:
		_, err = c.FitToViewport()
	case domain.ActionNative:
		_, err = c.ResetToNative()
	case domain.ActionClose:
		c.close("button")
	default:
		return false
	}
	return err == nil
}

// dispatch は InputSource に登録するハンドラです。
func (c *Controller) dispatch(ev domain.InputEvent) {
	c.Handle(ev)
}
