// C:\Users\wasab\OneDrive\デスクトップ\SHOP\model\catalog_types.go
package model

import "time"

// CatalogEntry は価格表の1品目を表します。
type CatalogEntry struct {
	Name      string `db:"name" json:"name"`
	UnitPrice int    `db:"unit_price" json:"unitPrice"`
}

// Catalog は1回のフェッチで得られた価格表全体を表します。
// リフレッシュ成功時に丸ごと差し替えられ、部分マージは行いません。
type Catalog struct {
	Entries     map[string]CatalogEntry `json:"entries"`
	MoneySupply int                     `json:"moneySupply"`
	FetchedAt   time.Time               `json:"fetchedAt"`
}

// Price は品目の単価を返します。2番目の戻り値が false の場合、
// その品目はカタログに存在しません（0円ではなく「価格不明」として扱うこと）。
func (c *Catalog) Price(name string) (int, bool) {
	if c == nil {
		return 0, false
	}
	e, ok := c.Entries[name]
	if !ok {
		return 0, false
	}
	return e.UnitPrice, true
}

// Clone はディープコピーを返します。リフレッシュによる差し替え中の
// カタログを呼び出し側が観測しないようにするためです。
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	cp := Catalog{
		Entries:     make(map[string]CatalogEntry, len(c.Entries)),
		MoneySupply: c.MoneySupply,
		FetchedAt:   c.FetchedAt,
	}
	for k, v := range c.Entries {
		cp.Entries[k] = v
	}
	return &cp
}
