package imgutil

import (
	"bytes"
	"image"
	"image/jpeg"
)

// CompressToJPEG は画像データ (PNG, GIF, JPEG, WebP 等) を JPEG 形式に圧縮します。
// image.Decode が対応するフォーマットに加え、formats.go で登録した形式に対応しています。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return EncodeJPEG(img, quality)
}

// EncodeJPEG はデコード済みの画像を JPEG にエンコードします。
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
