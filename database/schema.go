// C:\Users\wasab\OneDrive\デスクトップ\SHOP\database\schema.go
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS catalog_snapshot (
    name       TEXT PRIMARY KEY,
    unit_price INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_meta (
    id           INTEGER PRIMARY KEY CHECK (id = 1),
    money_supply INTEGER NOT NULL,
    fetched_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS order_archive (
    id                  TEXT PRIMARY KEY,
    player_name         TEXT NOT NULL,
    item_name           TEXT NOT NULL,
    quantity            INTEGER NOT NULL,
    unit_price_at_order INTEGER NOT NULL,
    total_cost          INTEGER NOT NULL,
    ordered_at          DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_archive_ordered_at
    ON order_archive (ordered_at);
CREATE INDEX IF NOT EXISTS idx_order_archive_item_name
    ON order_archive (item_name);
`

// InitDatabase はデータベーススキーマを適用します。
func InitDatabase(db *sqlx.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
