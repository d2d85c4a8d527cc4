// C:\Users\wasab\OneDrive\デスクトップ\SHOP\stats\handler.go
package stats

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"shop/catalog"
	"shop/ledger"
)

// StatsHandler は統計タブ用の集計値を返します。
func StatsHandler(cache *catalog.Cache, led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := Collect(cache.Snapshot(), led, time.Now())
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			log.Printf("Error encoding stats response: %v", err)
		}
	}
}
