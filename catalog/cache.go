// C:\Users\wasab\OneDrive\デスクトップ\SHOP\catalog\cache.go
package catalog

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"shop/config"
	"shop/database"
	"shop/feed"
	"shop/model"
)

// テストから差し替えられるように変数にしておく
var getConfig = config.GetConfig

// Fetcher は価格シートの生ペイロードを取得します。HTTP直取得
// （HTTPFetcher）とポータル経由（automation.PortalFetcher）の2実装があります。
type Fetcher interface {
	Fetch() (io.ReadCloser, error)
}

// RefreshError はフェッチまたはパースの失敗を包みます。失敗時も
// 直前のカタログはそのまま保持されるため、呼び出し側は古いデータで
// 継続するか再試行するかを選べます。
type RefreshError struct {
	Cause error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("catalog refresh failed: %v", e.Cause)
}

func (e *RefreshError) Unwrap() error { return e.Cause }

// Cache は価格カタログのTTLキャッシュです。リフレッシュは同時に
// 1つしか走らず、成功時はカタログ全体を原子的に差し替えます。
// TTLとフィードのエンコーディングは毎回設定から読むので、
// 設定変更は再起動なしで次のリフレッシュから反映されます。
type Cache struct {
	mu      sync.Mutex
	fetcher Fetcher
	db      *sqlx.DB // nil の場合はスナップショット永続化なし
	current *model.Catalog

	now func() time.Time
}

func New(fetcher Fetcher, db *sqlx.DB) *Cache {
	c := &Cache{
		fetcher: fetcher,
		db:      db,
		now:     time.Now,
	}
	c.loadSnapshot()
	return c
}

// loadSnapshot は前回終了時のカタログをDBから復元します。起動直後、
// 最初のリフレッシュが終わる前でも価格を表示できるようにするためです。
func (c *Cache) loadSnapshot() {
	if c.db == nil {
		return
	}
	cat, err := database.LoadCatalogSnapshot(c.db)
	if err != nil {
		log.Printf("WARN: failed to load catalog snapshot: %v", err)
		return
	}
	if cat != nil {
		c.current = cat
		log.Printf("Catalog snapshot restored: %d items (fetched %s)", len(cat.Entries), cat.FetchedAt.Format(time.RFC3339))
	}
}

// Refresh はカタログを更新して返します。force が false でキャッシュが
// TTL内なら、フェッチせずにキャッシュを返します。失敗時は直前の
// カタログを保持したまま *RefreshError を返します。
func (c *Cache) Refresh(force bool) (*model.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := getConfig()
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if !force && c.current != nil && c.now().Sub(c.current.FetchedAt) < ttl {
		log.Println("Using cached prices")
		return c.current.Clone(), nil
	}

	body, err := c.fetcher.Fetch()
	if err != nil {
		return c.current.Clone(), &RefreshError{Cause: err}
	}
	defer body.Close()

	cat, err := feed.Parse(feed.PayloadReader(body, cfg.FeedEncoding))
	if err != nil {
		return c.current.Clone(), &RefreshError{Cause: err}
	}
	cat.FetchedAt = c.now()

	c.current = cat
	log.Printf("Prices fetched successfully: %d items", len(cat.Entries))

	if c.db != nil {
		if err := database.SaveCatalogSnapshot(c.db, cat); err != nil {
			log.Printf("WARN: failed to persist catalog snapshot: %v", err)
		}
	}
	return cat.Clone(), nil
}

// Price は品目の単価を返します。カタログ未取得や未知の品目は
// ok=false になります（エラーではありません）。
func (c *Cache) Price(name string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Price(name)
}

// Snapshot は現在のカタログのコピーを返します。未取得なら nil。
func (c *Cache) Snapshot() *model.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}
