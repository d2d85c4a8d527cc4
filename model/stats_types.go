// C:\Users\wasab\OneDrive\デスクトップ\SHOP\model\stats_types.go
package model

import "time"

// ShopStats は統計タブ向けの集計値です。毎回カタログと台帳から
// 再導出され、保持されるカウンタはありません。
type ShopStats struct {
	ItemCount   int       `json:"itemCount"`
	OrdersToday int       `json:"ordersToday"`
	MinPrice    int       `json:"minPrice"`
	MaxPrice    int       `json:"maxPrice"`
	MoneySupply int       `json:"moneySupply"`
	LastFetch   time.Time `json:"lastFetch"`
}
