package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultExpiration    = 10 * time.Minute
	defaultPurgeInterval = 30 * time.Minute
)

// Cache は go-cache をラップしたインメモリのキャッシュです。
// probe.ImageCacher を満たします。
type Cache struct {
	c *cache.Cache
}

// CacheOption は Cache の任意設定です。
type CacheOption func(*options)

type options struct {
	expiration    time.Duration
	purgeInterval time.Duration
}

// WithExpiration は Set で期限に 0 (cache.DefaultExpiration) を渡した場合の既定の期限を設定します。
func WithExpiration(d time.Duration) CacheOption {
	return func(o *options) { o.expiration = d }
}

// WithPurgeInterval は期限切れの項目を掃除する間隔を設定します。
func WithPurgeInterval(d time.Duration) CacheOption {
	return func(o *options) { o.purgeInterval = d }
}

// New は Cache を生成します。
func New(opts ...CacheOption) *Cache {
	o := options{expiration: defaultExpiration, purgeInterval: defaultPurgeInterval}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{c: cache.New(o.expiration, o.purgeInterval)}
}

// Get は key に紐づく値を取得します。
func (c *Cache) Get(key string) (any, bool) {
	return c.c.Get(key)
}

// Set は key と値を有効期限 d で保存します。
func (c *Cache) Set(key string, value any, d time.Duration) {
	c.c.Set(key, value, d)
}

// Delete は key を削除します。
func (c *Cache) Delete(key string) {
	c.c.Delete(key)
}
