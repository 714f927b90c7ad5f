package domain

// InputEvent はホストの UI ランタイムから届く離散的な入力イベントです。
type InputEvent interface {
	inputEvent()
}

// Action はボタン操作の種類です。
type Action string

const (
	ActionZoomIn  Action = "zoom_in"
	ActionZoomOut Action = "zoom_out"
	ActionFit     Action = "fit"
	ActionNative  Action = "native"
	ActionClose   Action = "close"
)

// KeyEscape は Viewer を閉じるグローバルショートカットです。
const KeyEscape = "Escape"

// WheelEvent はホイールの縦方向の移動量です。負の値は上方向 (ズームイン) です。
type WheelEvent struct {
	DeltaY float64
}

// ButtonEvent はツールバーボタンの押下です。
type ButtonEvent struct {
	Action Action
}

// KeyEvent はキー押下です。Key は DOM の KeyboardEvent.key と同じ表記です。
type KeyEvent struct {
	Key string
}

// OverlayClickEvent は画像の外側 (オーバーレイ) のクリックです。
type OverlayClickEvent struct{}

func (WheelEvent) inputEvent()        {}
func (ButtonEvent) inputEvent()       {}
func (KeyEvent) inputEvent()          {}
func (OverlayClickEvent) inputEvent() {}
