package imgutil

import (
	"bytes"
	"fmt"
	"image"
)

// DecodeDimensions は画像全体をデコードせずに、ヘッダから固有のピクセルサイズを読み取ります。
func DecodeDimensions(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}
