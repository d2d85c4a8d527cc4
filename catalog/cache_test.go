// C:\Users\wasab\OneDrive\デスクトップ\SHOP\catalog\cache_test.go
package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/config"
	"shop/database"
	"shop/feed"
	"shop/model"
)

type fakeFetcher struct {
	payload string
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch() (io.ReadCloser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.payload)), nil
}

const testPayload = "Total Money 500\nDiamond,100,120\nGold,50,75\n"

func stubConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	old := getConfig
	getConfig = func() config.Config { return *cfg }
	t.Cleanup(func() { getConfig = old })
}

func newTestCache(t *testing.T, f Fetcher, ttl time.Duration) *Cache {
	t.Helper()
	stubConfig(t, &config.Config{CacheTTLSeconds: int(ttl / time.Second)})
	return New(f, nil)
}

func TestRefresh_CacheHitWithinTTL(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cache := newTestCache(t, fetcher, 300*time.Second)

	_, err := cache.Refresh(false)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	// TTL内の再リフレッシュはフェッチしない
	cat, err := cache.Refresh(false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Len(t, cat.Entries, 2)
}

func TestRefresh_ForceBypassesTTL(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cache := newTestCache(t, fetcher, 300*time.Second)

	_, err := cache.Refresh(false)
	require.NoError(t, err)

	_, err = cache.Refresh(true)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestRefresh_TTLExpiry(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cache := newTestCache(t, fetcher, 300*time.Second)

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Refresh(false)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	now = now.Add(301 * time.Second)
	_, err = cache.Refresh(false)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestRefresh_FetchFailureRetainsPrevious(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cache := newTestCache(t, fetcher, 300*time.Second)

	_, err := cache.Refresh(false)
	require.NoError(t, err)

	fetcher.err = fmt.Errorf("connection refused")
	cat, err := cache.Refresh(true)

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)

	// 直前のカタログはそのまま使える
	require.NotNil(t, cat)
	assert.Len(t, cat.Entries, 2)
	price, ok := cache.Price("Diamond")
	assert.True(t, ok)
	assert.Equal(t, 120, price)
}

func TestRefresh_ParseFailureRetainsPrevious(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cache := newTestCache(t, fetcher, 300*time.Second)

	_, err := cache.Refresh(false)
	require.NoError(t, err)

	fetcher.payload = "Total Money 500\n,1,2\n"
	_, err = cache.Refresh(true)

	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.True(t, errors.Is(err, feed.ErrNoValidRows))

	price, ok := cache.Price("Gold")
	assert.True(t, ok)
	assert.Equal(t, 75, price)
}

func TestRefresh_FailureWithoutPreviousCatalog(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("connection refused")}
	cache := newTestCache(t, fetcher, 300*time.Second)

	cat, err := cache.Refresh(false)
	var refreshErr *RefreshError
	require.ErrorAs(t, err, &refreshErr)
	assert.Nil(t, cat)
	assert.Nil(t, cache.Snapshot())
}

func TestPrice_UnknownItem(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cache := newTestCache(t, fetcher, 300*time.Second)

	// カタログ未取得でもエラーにはならない
	_, ok := cache.Price("Diamond")
	assert.False(t, ok)

	_, err := cache.Refresh(false)
	require.NoError(t, err)

	_, ok = cache.Price("Bedrock")
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cache := newTestCache(t, fetcher, 300*time.Second)

	_, err := cache.Refresh(false)
	require.NoError(t, err)

	snap := cache.Snapshot()
	snap.Entries["Diamond"] = model.CatalogEntry{Name: "Diamond", UnitPrice: 1}

	price, ok := cache.Price("Diamond")
	require.True(t, ok)
	assert.Equal(t, 120, price)
}

func TestRefresh_TTLChangeAppliesWithoutRestart(t *testing.T) {
	fetcher := &fakeFetcher{payload: testPayload}
	cfg := config.Config{CacheTTLSeconds: 300}
	stubConfig(t, &cfg)
	cache := New(fetcher, nil)

	_, err := cache.Refresh(false)
	require.NoError(t, err)
	_, err = cache.Refresh(false)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)

	// TTLを0に変えると、キャッシュを作り直さなくても次の
	// リフレッシュから効く
	cfg.CacheTTLSeconds = 0
	_, err = cache.Refresh(false)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestWarmStartFromSnapshot(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	// :memory: はコネクションごとに別DBになるため1本に固定する
	db.SetMaxOpenConns(1)
	require.NoError(t, database.InitDatabase(db))

	stubConfig(t, &config.Config{CacheTTLSeconds: 300})
	fetcher := &fakeFetcher{payload: testPayload}
	cache := New(fetcher, db)
	_, err = cache.Refresh(false)
	require.NoError(t, err)

	// 同じDBから作り直すと、フェッチなしで前回のカタログが見える
	restored := New(&fakeFetcher{err: fmt.Errorf("offline")}, db)
	price, ok := restored.Price("Diamond")
	assert.True(t, ok)
	assert.Equal(t, 120, price)
	assert.Equal(t, 500, restored.Snapshot().MoneySupply)
}
