// C:\Users\wasab\OneDrive\デスクトップ\SHOP\database\orders.go
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"shop/model"
)

const orderColumns = `
    id, player_name, item_name, quantity, unit_price_at_order, total_cost, ordered_at`

const insertOrderQuery = `
INSERT INTO order_archive (
    id, player_name, item_name, quantity, unit_price_at_order, total_cost, ordered_at
) VALUES (
    :id, :player_name, :item_name, :quantity, :unit_price_at_order, :total_cost, :ordered_at
)`

// InsertOrderArchive は確定済み注文をアーカイブに追加します。
// アーカイブは purchases.log から導出されるミラーであり、ここが失敗しても
// 注文自体は台帳に記録済みです（呼び出し側は警告ログのみ）。
func InsertOrderArchive(db *sqlx.DB, record model.OrderRecord) error {
	if _, err := db.NamedExec(insertOrderQuery, record); err != nil {
		return fmt.Errorf("failed to insert order archive record: %w", err)
	}
	return nil
}

// ListOrderHistory は新しい順に最大 limit 件の注文を返します。
func ListOrderHistory(db *sqlx.DB, limit int) ([]model.OrderRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.OrderRecord
	query := `SELECT` + orderColumns + `
FROM order_archive ORDER BY ordered_at DESC, id LIMIT ?`
	if err := db.Select(&records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	return records, nil
}

// ItemTotals は品目ごとの注文件数・数量・金額の累計を返します。
func ItemTotals(db *sqlx.DB) ([]model.ItemTotal, error) {
	var totals []model.ItemTotal
	query := `
SELECT item_name,
       COUNT(*)      AS order_count,
       SUM(quantity) AS total_quantity,
       SUM(total_cost) AS total_cost
FROM order_archive
GROUP BY item_name
ORDER BY total_cost DESC`
	if err := db.Select(&totals, query); err != nil {
		return nil, fmt.Errorf("failed to query item totals: %w", err)
	}
	return totals, nil
}
