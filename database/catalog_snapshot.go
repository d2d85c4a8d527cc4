// C:\Users\wasab\OneDrive\デスクトップ\SHOP\database\catalog_snapshot.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"shop/model"
)

// SaveCatalogSnapshot は最後に取得できたカタログを丸ごと保存します。
// 全行削除→再挿入を1トランザクションで行うため、部分的な状態が
// 残ることはありません。
func SaveCatalogSnapshot(db *sqlx.DB, cat *model.Catalog) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM catalog_snapshot`); err != nil {
		return fmt.Errorf("failed to clear catalog snapshot: %w", err)
	}

	for _, entry := range cat.Entries {
		if _, err := tx.NamedExec(
			`INSERT INTO catalog_snapshot (name, unit_price) VALUES (:name, :unit_price)`,
			entry,
		); err != nil {
			return fmt.Errorf("failed to insert snapshot entry %s: %w", entry.Name, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO catalog_meta (id, money_supply, fetched_at) VALUES (1, ?, ?)`,
		cat.MoneySupply, cat.FetchedAt,
	); err != nil {
		return fmt.Errorf("failed to save catalog meta: %w", err)
	}

	return tx.Commit()
}

// LoadCatalogSnapshot は保存済みカタログを復元します。
// 保存されたものがなければ (nil, nil) を返します。
func LoadCatalogSnapshot(db *sqlx.DB) (*model.Catalog, error) {
	var meta struct {
		MoneySupply int       `db:"money_supply"`
		FetchedAt   time.Time `db:"fetched_at"`
	}
	err := db.Get(&meta, `SELECT money_supply, fetched_at FROM catalog_meta WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog meta: %w", err)
	}

	var entries []model.CatalogEntry
	if err := db.Select(&entries, `SELECT name, unit_price FROM catalog_snapshot`); err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	cat := &model.Catalog{
		Entries:     make(map[string]model.CatalogEntry, len(entries)),
		MoneySupply: meta.MoneySupply,
		FetchedAt:   meta.FetchedAt,
	}
	for _, e := range entries {
		cat.Entries[e.Name] = e
	}
	return cat, nil
}
