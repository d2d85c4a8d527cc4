// C:\Users\wasab\OneDrive\デスクトップ\SHOP\stats\stats.go
package stats

import (
	"time"

	"shop/ledger"
	"shop/model"
)

// Collect は統計タブ用の集計値をカタログと台帳から導出します。
// 毎回の再導出で、保持されるカウンタはありません。
func Collect(cat *model.Catalog, led *ledger.Ledger, now time.Time) model.ShopStats {
	s := model.ShopStats{
		OrdersToday: led.CountForDay(now),
	}
	if cat == nil {
		return s
	}

	s.ItemCount = len(cat.Entries)
	s.MoneySupply = cat.MoneySupply
	s.LastFetch = cat.FetchedAt

	first := true
	for _, e := range cat.Entries {
		if first {
			s.MinPrice = e.UnitPrice
			s.MaxPrice = e.UnitPrice
			first = false
			continue
		}
		if e.UnitPrice < s.MinPrice {
			s.MinPrice = e.UnitPrice
		}
		if e.UnitPrice > s.MaxPrice {
			s.MaxPrice = e.UnitPrice
		}
	}
	return s
}
