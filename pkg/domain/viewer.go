package domain

// ViewerSession は開いている Viewer の一時的な状態です。
// Open で生成され Close で破棄されます。永続化はしません。
type ViewerSession struct {
	ImageSource   string
	NaturalWidth  int // セッション中は不変
	NaturalHeight int // セッション中は不変
	Zoom          float64
}

// ViewportSize はスクロールコンテナの可視領域のピクセルサイズです。
type ViewportSize struct {
	Width  int
	Height int
}

// Degenerate はコンテナが非表示などで寸法を持たない場合に true を返します。
func (v ViewportSize) Degenerate() bool {
	return v.Width <= 0 || v.Height <= 0
}

// ViewportGeometry は必要な時に導出されるジオメトリで、保存はしません。
type ViewportGeometry struct {
	ViewportWidth  int
	ViewportHeight int
	RenderedWidth  float64
	RenderedHeight float64
}

// ScrollOffset はスクロールコンテナのスクロール位置です。
type ScrollOffset struct {
	X int
	Y int
}

// Affordance はカーソル表示のヒントです。機能には影響しません。
type Affordance string

const (
	AffordancePan    Affordance = "grab"
	AffordanceZoomIn Affordance = "zoom-in"
)
