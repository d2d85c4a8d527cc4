// C:\Users\wasab\OneDrive\デスクトップ\SHOP\notify\notify.go
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"shop/config"
	"shop/model"
)

// テストから差し替えられるように変数にしておく
var getConfig = config.GetConfig

// Notifier は注文サマリを Discord Webhook へベストエフォートで送ります。
// Send は決してエラーを返さず bool のみを返します。通知の失敗は
// 注文の失敗ではないからです。webhookURL が空の場合は設定の
// notificationWebhookUrl を送信のたびに参照します。
type Notifier struct {
	webhookURL string
	client     *http.Client
}

func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FormatMessage は通知本文（複数行サマリ）を組み立てます。
func FormatMessage(record model.OrderRecord) string {
	return fmt.Sprintf("**New Order** - %s\nPlayer: %s\nItem: %s\nQuantity: %d\nTotal Cost: $%d",
		record.OrderedAt.Format("2006-01-02 15:04:05"),
		record.PlayerName, record.ItemName, record.Quantity, record.TotalCost)
}

// Send は注文サマリを送信し、成否を返します。Webhook URL が未設定の
// 場合は送信を試みずに false を返します。
func (n *Notifier) Send(record model.OrderRecord) bool {
	url := n.webhookURL
	if url == "" {
		url = getConfig().NotificationWebhookURL
	}
	if url == "" {
		log.Println("WARN: notification webhook not configured, skipping")
		return false
	}

	payload, err := json.Marshal(map[string]string{
		"content": FormatMessage(record),
	})
	if err != nil {
		log.Printf("WARN: failed to encode notification payload: %v", err)
		return false
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("WARN: notification send failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("WARN: notification rejected with status %d", resp.StatusCode)
		return false
	}
	return true
}
