package probe

import (
	"context"
	"io"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// HTTPClient は、URL から画像データを取得するためのインターフェースです。
// httpkit.ClientInterface がこれを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ObjectReader は、gs:// などのオブジェクトストレージから読み込むためのインターフェースです。
// remoteio.InputReader がこれを満たします。
type ObjectReader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// ImageCacher は、プローブ結果と画像データをキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
	// Delete は、指定されたキーのアイテムを削除します。
	Delete(key string)
}

var (
	_ HTTPClient   = (httpkit.ClientInterface)(nil)
	_ ObjectReader = (remoteio.InputReader)(nil)
)
