package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shouni/image-viewport-kit/pkg/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 75, cfg.JPEGQuality)
	assert.Equal(t, 32<<20, cfg.MaxBytes)
	assert.Equal(t, int64(40_000_000), cfg.MaxPixels)
	assert.Empty(t, cfg.PublicDir)

	l, err := cfg.Limits()
	require.NoError(t, err)
	assert.Equal(t, viewport.DefaultLimits(), l)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VIEWER_ADDR", "127.0.0.1:9000")
	t.Setenv("VIEWER_ZOOM_MAX", "4")
	t.Setenv("VIEWER_WHEEL_STEP", "0.2")
	t.Setenv("VIEWER_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	l, err := cfg.Limits()
	require.NoError(t, err)
	assert.Equal(t, 4.0, l.MaxZoom)
	assert.Equal(t, 0.2, l.WheelStep)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"数値でないタイムアウト", "VIEWER_FETCH_TIMEOUT", "soon"},
		{"下限が上限より大きい", "VIEWER_ZOOM_MIN", "9"},
		{"JPEG品質が範囲外", "VIEWER_JPEG_QUALITY", "0"},
		{"サイズ上限が0", "VIEWER_MAX_BYTES", "0"},
		{"画素数上限が負", "VIEWER_MAX_PIXELS", "-1"},
		{"下限がNaN", "VIEWER_ZOOM_MIN", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "verbose"}.SlogLevel())
}
