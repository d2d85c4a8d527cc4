// C:\Users\wasab\OneDrive\デスクトップ\SHOP\catalog\fetch.go
package catalog

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPFetcher は公開URLから価格シートをGETで取得します。
// URL が空の場合は設定の feedUrl をフェッチのたびに参照するので、
// 設定変更は再起動なしで反映されます。
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		URL: url,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (f *HTTPFetcher) Fetch() (io.ReadCloser, error) {
	url := f.URL
	if url == "" {
		url = getConfig().FeedURL
	}
	resp, err := f.Client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("feed request returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
