package viewport

import (
	"github.com/shouni/image-viewport-kit/pkg/domain"
)

// --- Mocks ---

// mockLayout は Layout を実装します。
type mockLayout struct {
	viewport domain.ViewportSize
	maxX     int
	maxY     int
	scrolls  []domain.ScrollOffset
}

func (m *mockLayout) ViewportSize() domain.ViewportSize { return m.viewport }

func (m *mockLayout) ScrollBounds() (int, int) { return m.maxX, m.maxY }

func (m *mockLayout) ScrollTo(offset domain.ScrollOffset) {
	m.scrolls = append(m.scrolls, offset)
}

// mockInput は InputSource を実装し、購読と解除の回数を記録します。
type mockInput struct {
	nextID       int
	handlers     map[int]func(domain.InputEvent)
	subscribed   int
	unsubscribed int
}

func newMockInput() *mockInput {
	return &mockInput{handlers: make(map[int]func(domain.InputEvent))}
}

func (m *mockInput) Subscribe(handler func(domain.InputEvent)) func() {
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	m.subscribed++
	return func() {
		delete(m.handlers, id)
		m.unsubscribed++
	}
}

// emit は購読中のハンドラへイベントを配送します。
func (m *mockInput) emit(ev domain.InputEvent) {
	hs := make([]func(domain.InputEvent), 0, len(m.handlers))
	for _, h := range m.handlers {
		hs = append(hs, h)
	}
	for _, h := range hs {
		h(ev)
	}
}
