// C:\Users\wasab\OneDrive\デスクトップ\SHOP\automation\automation.go
package automation

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"

	"shop/catalog"
	"shop/config"
)

// テストから差し替えられるように変数にしておく
var getConfig = config.GetConfig

// FeedFetcher は設定に応じてフェッチ経路を毎回選び直します。
// portalUrl が設定されていればブラウザ経由、なければ公開URLからの
// GETです。設定変更は再起動なしで次のフェッチから反映されます。
type FeedFetcher struct {
	direct catalog.Fetcher
	portal catalog.Fetcher
}

func NewFeedFetcher() *FeedFetcher {
	return &FeedFetcher{
		direct: catalog.NewHTTPFetcher(""),
		portal: &PortalFetcher{},
	}
}

func (f *FeedFetcher) Fetch() (io.ReadCloser, error) {
	if getConfig().PortalURL != "" {
		log.Println("Using portal fetcher for the price feed.")
		return f.portal.Fetch()
	}
	return f.direct.Fetch()
}

// PortalFetcher はログインが必要なポータルから価格シートを取得する
// フェッチャーです。公開URL（HTTP直取得）が使えるなら不要で、
// portalUrl が設定されている場合だけ選択されます。
type PortalFetcher struct{}

func (f *PortalFetcher) Fetch() (io.ReadCloser, error) {
	cfg := getConfig()
	data, err := DownloadPriceSheet(cfg.PortalURL, cfg.PortalUserID, cfg.PortalPassword, cfg.DownloadDir)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// DownloadPriceSheet はブラウザを起動してポータルへログインし、
// 価格シートのCSVエクスポートをダウンロードして返します。
// 取得したファイルは saveDir にも保存します（取込失敗時の手動確認用）。
func DownloadPriceSheet(portalURL, userID, password, saveDir string) ([]byte, error) {
	if portalURL == "" {
		return nil, fmt.Errorf("portal URL is not configured")
	}
	if _, err := os.Stat(saveDir); os.IsNotExist(err) {
		if err := os.MkdirAll(saveDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create download dir: %w", err)
		}
	}

	u := launcher.New().
		Headless(true).
		Leakless(false).
		MustLaunch()

	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	log.Printf("Opening portal %s ...", portalURL)
	page := browser.MustPage(portalURL)
	page.MustWaitStable()

	if userID != "" {
		if err := rod.Try(func() {
			page.MustElement("input[name='userid'], input[type='email'], input[name='username']").MustInput(userID)
		}); err != nil {
			return nil, fmt.Errorf("user id field not found: %v", err)
		}
		if err := rod.Try(func() {
			page.MustElement("input[name='password'], input[type='password']").MustInput(password)
		}); err != nil {
			return nil, fmt.Errorf("password field not found: %v", err)
		}

		loginBtn, err := page.ElementR("input, button, a", "Sign in|Log in|Login")
		if err == nil {
			loginBtn.MustClick()
		} else {
			page.KeyActions().Press(input.Enter).MustDo()
		}
		page.MustWaitStable()
	}

	wait := browser.MustWaitDownload()
	go page.MustHandleDialog()

	log.Println("Looking for the CSV export link...")
	exportEl, err := page.ElementR("a, input, button", "CSV|Export|Download")
	if err != nil {
		return nil, fmt.Errorf("CSV export link not found (login may have failed): %v", err)
	}
	exportEl.MustClick()

	log.Println("Waiting for download...")
	done := make(chan []byte, 1)
	go func() {
		defer func() { _ = recover() }()
		done <- wait()
	}()

	var data []byte
	select {
	case data = <-done:
	case <-time.After(60 * time.Second):
		return nil, fmt.Errorf("timed out waiting for the price sheet download")
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("downloaded price sheet is empty")
	}

	savePath := filepath.Join(saveDir, fmt.Sprintf("prices_%s.csv", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(savePath, data, 0644); err != nil {
		log.Printf("WARN: failed to save downloaded sheet to %s: %v", savePath, err)
	} else {
		log.Printf("Price sheet saved: %s (%d bytes)", savePath, len(data))
	}

	return data, nil
}
