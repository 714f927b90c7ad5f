package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shouni/image-viewport-kit/pkg/viewport"
)

// Config は viewer-server の設定です。すべて環境変数から読み込みます。
type Config struct {
	Addr         string        `env:"VIEWER_ADDR" envDefault:":8080"`
	FetchTimeout time.Duration `env:"VIEWER_FETCH_TIMEOUT" envDefault:"15s"`
	CacheTTL     time.Duration `env:"VIEWER_CACHE_TTL" envDefault:"10m"`
	CachePurge   time.Duration `env:"VIEWER_CACHE_PURGE" envDefault:"30m"`
	LogLevel     string        `env:"VIEWER_LOG_LEVEL" envDefault:"info"`
	JPEGQuality  int           `env:"VIEWER_JPEG_QUALITY" envDefault:"75"`
	CaptionModel string        `env:"VIEWER_CAPTION_MODEL" envDefault:"gemini-2.5-flash"`
	PublicDir    string        `env:"VIEWER_PUBLIC_DIR"`
	MaxBytes     int           `env:"VIEWER_MAX_BYTES" envDefault:"33554432"`
	MaxPixels    int64         `env:"VIEWER_MAX_PIXELS" envDefault:"40000000"`

	ZoomMin   float64 `env:"VIEWER_ZOOM_MIN" envDefault:"0.05"`
	ZoomMax   float64 `env:"VIEWER_ZOOM_MAX" envDefault:"8.0"`
	ZoomStep  float64 `env:"VIEWER_ZOOM_STEP" envDefault:"0.25"`
	WheelStep float64 `env:"VIEWER_WHEEL_STEP" envDefault:"0.1"`
}

// ParseEnv は環境変数から target に設定を読み込みます。
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load は Config を読み込み、値を検証します。
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Limits(); err != nil {
		return Config{}, err
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return Config{}, fmt.Errorf("VIEWER_JPEG_QUALITY must be in [1, 100], got %d", cfg.JPEGQuality)
	}
	if cfg.MaxBytes <= 0 {
		return Config{}, fmt.Errorf("VIEWER_MAX_BYTES must be positive, got %d", cfg.MaxBytes)
	}
	if cfg.MaxPixels <= 0 {
		return Config{}, fmt.Errorf("VIEWER_MAX_PIXELS must be positive, got %d", cfg.MaxPixels)
	}
	return cfg, nil
}

// Limits はズーム関連の設定を viewport.Limits に変換して検証します。
func (c Config) Limits() (viewport.Limits, error) {
	l := viewport.DefaultLimits()
	l.MinZoom = c.ZoomMin
	l.MaxZoom = c.ZoomMax
	l.ButtonStep = c.ZoomStep
	l.WheelStep = c.WheelStep
	if err := l.Validate(); err != nil {
		return viewport.Limits{}, err
	}
	return l, nil
}

// SlogLevel はログレベルの文字列を slog.Level に変換します。未知の値は info 扱いです。
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
