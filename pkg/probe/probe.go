package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/shouni/image-viewport-kit/pkg/domain"
	"github.com/shouni/image-viewport-kit/pkg/imgutil"
)

// Prober は画像メタデータプローブです。画像を取得し、固有のピクセルサイズを読み取ります。
// Viewer を開く前にホストが呼び出し、失敗した場合は Viewer を開きません。
type Prober struct {
	httpClient HTTPClient
	reader     ObjectReader
	cache      ImageCacher
	expiration time.Duration
	localDir   string
	maxBytes   int
	maxPixels  int64
}

// Option は Prober の任意設定です。
type Option func(*Prober)

// WithObjectReader は gs:// のソースを読み込むリーダーを設定します。
func WithObjectReader(r ObjectReader) Option {
	return func(p *Prober) { p.reader = r }
}

// WithCache はプローブ結果と画像データのキャッシュを設定します。nil の場合はキャッシュしません。
func WithCache(c ImageCacher, ttl time.Duration) Option {
	return func(p *Prober) {
		p.cache = c
		p.expiration = ttl
	}
}

// WithLocalDir はパス形式のソース ("/Real_GDP.png" など) を解決するディレクトリを設定します。
// 設定しない場合、パス形式のソースは ErrUnsupportedSource になります。
func WithLocalDir(dir string) Option {
	return func(p *Prober) { p.localDir = dir }
}

// WithMaxBytes は取得する画像データの上限を設定します。
func WithMaxBytes(n int) Option {
	return func(p *Prober) { p.maxBytes = n }
}

// WithMaxPixels は画像の画素数 (幅 x 高さ) の上限を設定します。
// ヘッダだけ巨大な画像をデコードしてメモリを使い果たさないよう、取得時に検査します。
func WithMaxPixels(n int64) Option {
	return func(p *Prober) { p.maxPixels = n }
}

// NewProber は依存関係を注入して Prober を初期化します。
func NewProber(httpClient HTTPClient, opts ...Option) (*Prober, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}

	p := &Prober{
		httpClient: httpClient,
		maxBytes:   defaultMaxBytes,
		maxPixels:  defaultMaxPixels,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Probe は source の画像を取得し、メタデータを返します。
// 失敗はすべて ErrProbeFailed でラップされます。
func (p *Prober) Probe(ctx context.Context, source string) (*domain.ImageMetadata, error) {
	if p.cache != nil {
		if val, ok := p.cache.Get(cacheKeyMetadata + source); ok {
			if meta, ok := val.(domain.ImageMetadata); ok {
				return &meta, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "source", source, "type", fmt.Sprintf("%T", val))
		}
	}

	data, err := p.Fetch(ctx, source)
	if err != nil {
		slog.WarnContext(ctx, "画像の取得に失敗しました", "source", source, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		p.evict(source)
		return nil, fmt.Errorf("%w: %w (detected %s)", ErrProbeFailed, ErrNotAnImage, mime.String())
	}

	w, h, format, err := imgutil.DecodeDimensions(data)
	if err != nil {
		p.evict(source)
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	meta := domain.ImageMetadata{
		Source:   source,
		Width:    w,
		Height:   h,
		Format:   format,
		MimeType: mime.String(),
		Size:     len(data),
	}
	if !meta.Valid() {
		p.evict(source)
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrProbeFailed, w, h)
	}

	if p.cache != nil {
		p.cache.Set(cacheKeyMetadata+source, meta, p.expiration)
	}
	slog.InfoContext(ctx, "画像メタデータを取得しました", "source", source, "width", w, "height", h, "format", format)
	return &meta, nil
}

// Fetch は source の画像データを返します。取得したデータはキャッシュされます。
func (p *Prober) Fetch(ctx context.Context, source string) ([]byte, error) {
	if p.cache != nil {
		if val, ok := p.cache.Get(cacheKeyData + source); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
		}
	}

	data, err := p.fetchImageData(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(data) > p.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	// デコードできないデータは Probe 側で判定する
	if w, h, _, err := imgutil.DecodeDimensions(data); err == nil && int64(w)*int64(h) > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, w, h)
	}

	if p.cache != nil {
		p.cache.Set(cacheKeyData+source, data, p.expiration)
	}
	return data, nil
}

// evict は画像として扱えなかった source のキャッシュを破棄します。
func (p *Prober) evict(source string) {
	if p.cache == nil {
		return
	}
	p.cache.Delete(cacheKeyMetadata + source)
	p.cache.Delete(cacheKeyData + source)
}

func (p *Prober) fetchImageData(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if safe, err := IsSafeURL(source); err != nil || !safe {
			return nil, fmt.Errorf("%w: %w", ErrUnsafeURL, err)
		}
		return p.httpClient.FetchBytes(ctx, source)

	case strings.HasPrefix(source, "gs://"):
		if p.reader == nil {
			return nil, fmt.Errorf("%w: no object reader configured for %s", ErrUnsupportedSource, source)
		}
		rc, err := p.reader.Open(ctx, source)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return p.readLimited(rc)

	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)

	default:
		return p.readLocal(source)
	}
}

// readLocal は localDir の外に出られない os.Root 経由でパスを開きます。
func (p *Prober) readLocal(source string) ([]byte, error) {
	if p.localDir == "" {
		return nil, fmt.Errorf("%w: local paths are disabled", ErrUnsupportedSource)
	}

	root, err := os.OpenRoot(p.localDir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(strings.TrimPrefix(source, "/"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.readLimited(f)
}

func (p *Prober) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(p.maxBytes)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > p.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, p.maxBytes)
	}
	return data, nil
}
