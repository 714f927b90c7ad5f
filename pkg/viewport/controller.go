package viewport

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/image-viewport-kit/pkg/domain"
)

var ErrClosed = errors.New("viewer is closed")

// Layout はホストのレイアウトシステムです。
// セッションが開いている間、スクロール位置を書き込むのは Controller だけです。
type Layout interface {
	// ViewportSize は呼び出し時点のスクロールコンテナの可視サイズを返します。
	ViewportSize() domain.ViewportSize
	// ScrollBounds は現在のレイアウトでのスクロール可能な最大値を返します。
	ScrollBounds() (maxX, maxY int)
	// ScrollTo はスクロール位置を書き込みます。
	ScrollTo(offset domain.ScrollOffset)
}

// InputSource はホストの入力イベントの購読窓口です。
type InputSource interface {
	Subscribe(handler func(domain.InputEvent)) (unsubscribe func())
}

// State は Controller の状態です。
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// Snapshot はホストに返す現在の表示状態です。
type Snapshot struct {
	State      State
	Session    domain.ViewerSession
	Geometry   domain.ViewportGeometry
	Affordance domain.Affordance
	Pending    bool
}

// Controller は1つの Viewer のズーム状態とセンタリングを管理します。
// 入力は単一の論理スレッドから順に届く前提のため、並行利用には対応していません。
type Controller struct {
	limits Limits
	layout Layout
	input  InputSource
	logger *slog.Logger

	state       State
	session     domain.ViewerSession
	pending     bool
	unsubscribe func()
}

// Option は Controller の任意設定です。
type Option func(*Controller)

func WithLimits(l Limits) Option {
	return func(c *Controller) { c.limits = l }
}

// WithInputSource を指定すると、Open の間だけ入力イベントを購読します。
func WithInputSource(in InputSource) Option {
	return func(c *Controller) { c.input = in }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController は依存関係を注入して Controller を生成します。初期状態は Closed です。
func NewController(layout Layout, opts ...Option) (*Controller, error) {
	if layout == nil {
		return nil, fmt.Errorf("layout is required")
	}

	c := &Controller{
		limits: DefaultLimits(),
		layout: layout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.limits.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) State() State { return c.state }

// Pending はセンタリング待ち (レイアウト確定待ち) かどうかを返します。
func (c *Controller) Pending() bool { return c.pending }

// Session は開いているセッションを返します。
func (c *Controller) Session() (domain.ViewerSession, bool) {
	return c.session, c.state == StateOpen
}

// Snapshot は現在のビューポートで導出したジオメトリを含む状態を返します。
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{State: c.state, Pending: c.pending}
	if c.state != StateOpen {
		return snap
	}
	snap.Session = c.session
	snap.Geometry = Geometry(c.session, c.layout.ViewportSize())
	snap.Affordance = AffordanceOf(c.session)
	return snap
}

// Open は新しいセッションを開き、センタリングをレイアウト確定後に予約します。
// 既に開いている場合は先に閉じるため、前のセッションの状態は引き継がれません。
// 寸法が不正な場合は状態を変更せずにエラーを返します。
func (c *Controller) Open(source string, naturalWidth, naturalHeight int) (domain.ViewerSession, error) {
	s, err := c.limits.Open(source, naturalWidth, naturalHeight, c.layout.ViewportSize())
	if err != nil {
		return domain.ViewerSession{}, fmt.Errorf("viewer open failed: %w", err)
	}

	if c.state == StateOpen {
		c.close("reopen")
	}

	c.session = s
	c.state = StateOpen
	c.pending = true
	if c.input != nil {
		c.unsubscribe = c.input.Subscribe(c.dispatch)
	}

	c.logger.Debug("viewer opened",
		"source", s.ImageSource, "natural_width", s.NaturalWidth, "natural_height", s.NaturalHeight, "zoom", s.Zoom)
	return s, nil
}

// Close はセッションを破棄します。どの状態からでも無条件に受け付けます。
func (c *Controller) Close() {
	c.close("close")
}

func (c *Controller) close(reason string) {
	if c.state == StateClosed {
		return
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.logger.Debug("viewer closed", "source", c.session.ImageSource, "reason", reason)
	c.session = domain.ViewerSession{}
	c.state = StateClosed
	c.pending = false
}

// SetZoom はズーム値を設定します。スクロール位置はネイティブのスクロールに任せます。
func (c *Controller) SetZoom(zoom float64) (domain.ViewerSession, error) {
	return c.mutate(func(s domain.ViewerSession) domain.ViewerSession {
		return c.limits.SetZoom(s, zoom)
	}, false)
}

func (c *Controller) ZoomBy(delta float64) (domain.ViewerSession, error) {
	return c.mutate(func(s domain.ViewerSession) domain.ViewerSession {
		return c.limits.ZoomBy(s, delta)
	}, false)
}

// FitToViewport は現在のビューポートで Fit をやり直し、センタリングを予約します。
func (c *Controller) FitToViewport() (domain.ViewerSession, error) {
	return c.mutate(func(s domain.ViewerSession) domain.ViewerSession {
		return c.limits.FitToViewport(s, c.layout.ViewportSize())
	}, true)
}

// ResetToNative は等倍表示にし、センタリングを予約します。
func (c *Controller) ResetToNative() (domain.ViewerSession, error) {
	return c.mutate(c.limits.ResetToNative, true)
}

func (c *Controller) mutate(fn func(domain.ViewerSession) domain.ViewerSession, recenter bool) (domain.ViewerSession, error) {
	if c.state != StateOpen {
		return domain.ViewerSession{}, ErrClosed
	}
	prev := c.session.Zoom
	c.session = fn(c.session)
	if recenter {
		c.pending = true
	}
	c.logger.Debug("viewer zoom changed", "from", prev, "to", c.session.Zoom, "recenter", recenter)
	return c.session, nil
}

// LayoutComplete はセンタリングの第2段階です。
// ホストが新しいサイズで画像要素のレイアウトを終えた後に呼び出すと、
// 確定したスクロール範囲を読み取ってスクロール位置を書き込みます。
// 予約がない場合は何もしません。
func (c *Controller) LayoutComplete() (domain.ScrollOffset, bool) {
	if c.state != StateOpen || !c.pending {
		return domain.ScrollOffset{}, false
	}
	c.pending = false

	offset := CenterOffset(Geometry(c.session, c.layout.ViewportSize()))
	maxX, maxY := c.layout.ScrollBounds()
	offset.X = clampInt(offset.X, 0, max(maxX, 0))
	offset.Y = clampInt(offset.Y, 0, max(maxY, 0))

	c.layout.ScrollTo(offset)
	c.logger.Debug("viewer centered", "scroll_x", offset.X, "scroll_y", offset.Y)
	return offset, true
}
