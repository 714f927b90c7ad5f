package domain

// ImageMetadata は画像メタデータプローブの結果です。
// Viewer を開く前に、ホストが非同期に取得しておく必要があります。
type ImageMetadata struct {
	Source   string
	Width    int
	Height   int
	Format   string // image.DecodeConfig が返すフォーマット名 (png, jpeg, webp など)
	MimeType string
	Size     int // バイト数
}

// Valid は寸法が Viewer を開ける値かどうかを返します。
func (m ImageMetadata) Valid() bool {
	return m.Width > 0 && m.Height > 0
}
