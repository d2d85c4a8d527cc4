// C:\Users\wasab\OneDrive\デスクトップ\SHOP\model\order_types.go
package model

import "time"

// OrderRecord は確定した注文1件を表します。作成後は不変で、
// 台帳（purchases.log）への追記と order_archive への格納にのみ使われます。
type OrderRecord struct {
	ID               string    `db:"id" json:"id"`
	PlayerName       string    `db:"player_name" json:"playerName"`
	ItemName         string    `db:"item_name" json:"itemName"`
	Quantity         int       `db:"quantity" json:"quantity"`
	UnitPriceAtOrder int       `db:"unit_price_at_order" json:"unitPriceAtOrder"`
	TotalCost        int       `db:"total_cost" json:"totalCost"`
	OrderedAt        time.Time `db:"ordered_at" json:"orderedAt"`
}

// OrderResult は1回の注文確定の結果です。台帳への記録と
// 通知の成否は独立に報告されます（通知失敗は注文の失敗ではない）。
type OrderResult struct {
	Record   OrderRecord `json:"record"`
	Recorded bool        `json:"recorded"`
	Notified bool        `json:"notified"`
}

// ItemTotal は品目ごとの累計集計（order_archive 由来）です。
type ItemTotal struct {
	ItemName      string `db:"item_name" json:"itemName"`
	OrderCount    int    `db:"order_count" json:"orderCount"`
	TotalQuantity int    `db:"total_quantity" json:"totalQuantity"`
	TotalCost     int    `db:"total_cost" json:"totalCost"`
}
