package viewport

import (
	"testing"

	"github.com/shouni/image-viewport-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, layout *mockLayout, opts ...Option) *Controller {
	t.Helper()
	c, err := NewController(layout, opts...)
	require.NoError(t, err, "failed to create controller")
	return c
}

func TestNewController(t *testing.T) {
	t.Run("layout が nil の場合はエラー", func(t *testing.T) {
		_, err := NewController(nil)
		assert.Error(t, err)
	})

	t.Run("不正な Limits はエラー", func(t *testing.T) {
		l := DefaultLimits()
		l.MinZoom = 0
		_, err := NewController(&mockLayout{}, WithLimits(l))
		assert.ErrorIs(t, err, ErrInvalidLimits)
	})

	t.Run("初期状態は Closed", func(t *testing.T) {
		c := newTestController(t, &mockLayout{viewport: desktop})
		assert.Equal(t, StateClosed, c.State())
		_, open := c.Session()
		assert.False(t, open)
	})
}

func TestController_OpenAndCenter(t *testing.T) {
	layout := &mockLayout{viewport: domain.ViewportSize{Width: 1000, Height: 900}}
	c := newTestController(t, layout)

	s, err := c.Open("/Real_GDP.png", 4000, 2000)
	require.NoError(t, err)
	assert.Equal(t, 0.25, s.Zoom)
	assert.Equal(t, StateOpen, c.State())
	assert.True(t, c.Pending(), "センタリングはレイアウト確定まで保留される")
	assert.Empty(t, layout.scrolls, "第1段階ではスクロールを書き込まない")

	// 第2段階: 1000x500 で描画されたので横だけはみ出さない
	layout.maxX, layout.maxY = 0, 0
	offset, done := c.LayoutComplete()
	assert.True(t, done)
	assert.Equal(t, domain.ScrollOffset{}, offset)
	assert.False(t, c.Pending())
	require.Len(t, layout.scrolls, 1)

	t.Run("予約がなければ何もしない", func(t *testing.T) {
		_, done := c.LayoutComplete()
		assert.False(t, done)
		assert.Len(t, layout.scrolls, 1)
	})
}

func TestController_ResetToNativeCenters(t *testing.T) {
	layout := &mockLayout{viewport: domain.ViewportSize{Width: 1000, Height: 900}}
	c := newTestController(t, layout)

	_, err := c.Open("/Real_GDP.png", 2000, 1000)
	require.NoError(t, err)
	c.LayoutComplete()

	s, err := c.ResetToNative()
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Zoom)
	assert.True(t, c.Pending())

	layout.maxX, layout.maxY = 1000, 100
	offset, done := c.LayoutComplete()
	require.True(t, done)
	assert.Equal(t, domain.ScrollOffset{X: 500, Y: 50}, offset)
	assert.Equal(t, offset, layout.scrolls[len(layout.scrolls)-1])
}

func TestController_CenterClampedToScrollBounds(t *testing.T) {
	layout := &mockLayout{viewport: domain.ViewportSize{Width: 1000, Height: 900}}
	c := newTestController(t, layout)

	_, err := c.Open("/Real_GDP.png", 2000, 1000)
	require.NoError(t, err)
	_, err = c.ResetToNative()
	require.NoError(t, err)

	// ホストのスクロール範囲がまだ古いサイズのまま
	layout.maxX, layout.maxY = 200, 10
	offset, _ := c.LayoutComplete()
	assert.Equal(t, domain.ScrollOffset{X: 200, Y: 10}, offset)
}

func TestController_IncrementalZoomKeepsScroll(t *testing.T) {
	layout := &mockLayout{viewport: desktop}
	c := newTestController(t, layout)

	_, err := c.Open("/Real_GDP.png", 2000, 1000)
	require.NoError(t, err)
	c.LayoutComplete()

	_, err = c.ZoomBy(DefaultButtonStep)
	require.NoError(t, err)
	_, err = c.SetZoom(2)
	require.NoError(t, err)

	assert.False(t, c.Pending(), "増減操作ではセンタリングしない")
	_, done := c.LayoutComplete()
	assert.False(t, done)
	assert.Len(t, layout.scrolls, 1)
}

func TestController_FitAfterResize(t *testing.T) {
	layout := &mockLayout{viewport: desktop}
	c := newTestController(t, layout)

	_, err := c.Open("/Real_GDP.png", 2000, 1000)
	require.NoError(t, err)
	_, _ = c.SetZoom(4)

	layout.viewport = domain.ViewportSize{Width: 400, Height: 900}
	s, err := c.FitToViewport()
	require.NoError(t, err)
	assert.Equal(t, 0.2, s.Zoom)
	assert.True(t, c.Pending())
}

func TestController_ClosedRejectsMutations(t *testing.T) {
	c := newTestController(t, &mockLayout{viewport: desktop})

	_, err := c.SetZoom(2)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.ZoomBy(1)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.FitToViewport()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.ResetToNative()
	assert.ErrorIs(t, err, ErrClosed)

	// Close は無条件に受け付ける
	c.Close()
	assert.Equal(t, StateClosed, c.State())
}

func TestController_ReopenDoesNotLeakState(t *testing.T) {
	in := newMockInput()
	c := newTestController(t, &mockLayout{viewport: desktop}, WithInputSource(in))

	_, err := c.Open("/a.png", 2000, 1000)
	require.NoError(t, err)
	_, _ = c.SetZoom(6)
	c.Close()

	s, err := c.Open("/b.png", 400, 300)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Zoom)
	assert.Equal(t, "/b.png", s.ImageSource)

	t.Run("開いたまま再度 Open すると前のセッションは閉じられる", func(t *testing.T) {
		_, _ = c.SetZoom(3)
		s, err := c.Open("/c.png", 2000, 1000)
		require.NoError(t, err)
		assert.Equal(t, 0.5, s.Zoom)
		assert.Equal(t, 3, in.subscribed)
		assert.Equal(t, 2, in.unsubscribed)
		assert.Len(t, in.handlers, 1)
	})
}

func TestController_FailedOpenKeepsState(t *testing.T) {
	in := newMockInput()
	c := newTestController(t, &mockLayout{viewport: desktop}, WithInputSource(in))

	_, err := c.Open("/a.png", 2000, 1000)
	require.NoError(t, err)

	_, err = c.Open("/broken.png", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	s, open := c.Session()
	assert.True(t, open)
	assert.Equal(t, "/a.png", s.ImageSource)
	assert.Equal(t, 0, in.unsubscribed)
}

func TestController_Snapshot(t *testing.T) {
	c := newTestController(t, &mockLayout{viewport: desktop})

	t.Run("閉じている場合", func(t *testing.T) {
		snap := c.Snapshot()
		assert.Equal(t, StateClosed, snap.State)
		assert.Equal(t, domain.ViewerSession{}, snap.Session)
	})

	t.Run("開いている場合はジオメトリとカーソルを含む", func(t *testing.T) {
		_, err := c.Open("/Real_GDP.png", 2000, 1000)
		require.NoError(t, err)

		snap := c.Snapshot()
		assert.Equal(t, StateOpen, snap.State)
		assert.Equal(t, 1000.0, snap.Geometry.RenderedWidth)
		assert.Equal(t, 500.0, snap.Geometry.RenderedHeight)
		assert.Equal(t, domain.AffordanceZoomIn, snap.Affordance)
		assert.True(t, snap.Pending)

		_, _ = c.ResetToNative()
		assert.Equal(t, domain.AffordancePan, c.Snapshot().Affordance)
	})
}
