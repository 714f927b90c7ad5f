package probe

import (
	"errors"
)

const (
	cacheKeyMetadata = "probe_meta:"
	cacheKeyData     = "probe_data:"

	defaultMaxBytes = 32 << 20
	// defaultMaxPixels はデコード時に確保する画素数の上限です (RGBA で約 160MB)。
	defaultMaxPixels = 40_000_000
)

var (
	// ErrProbeFailed は「このリソースでは Viewer を開けない」ことを表します。
	// ホストはこのエラーを利用者に表示し、Viewer を開いてはいけません。
	ErrProbeFailed       = errors.New("cannot open viewer for this resource")
	ErrNotAnImage        = errors.New("resource is not an image")
	ErrUnsupportedSource = errors.New("unsupported image source")
	ErrUnsafeURL         = errors.New("unsafe url")
	ErrTooLarge          = errors.New("image exceeds size limit")
)
