package server

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shouni/image-viewport-kit/pkg/domain"
)

type mockProber struct {
	data       []byte
	width      int
	height     int
	err        error
	probeCalls int
	fetchCalls int
}

func (m *mockProber) Probe(_ context.Context, source string) (*domain.ImageMetadata, error) {
	m.probeCalls++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ImageMetadata{
		Source:   source,
		Width:    m.width,
		Height:   m.height,
		Format:   "png",
		MimeType: "image/png",
		Size:     len(m.data),
	}, nil
}

func (m *mockProber) Fetch(_ context.Context, _ string) ([]byte, error) {
	m.fetchCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

type mockCaptioner struct {
	text string
	err  error
}

func (m *mockCaptioner) Describe(_ context.Context, _ []byte) (string, error) {
	return m.text, m.err
}

func newPNGProber(t *testing.T, w, h int) *mockProber {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return &mockProber{data: buf.Bytes(), width: w, height: h}
}
