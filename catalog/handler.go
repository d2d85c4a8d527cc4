// C:\Users\wasab\OneDrive\デスクトップ\SHOP\catalog\handler.go
package catalog

import (
	"encoding/json"
	"log"
	"net/http"

	"shop/model"
)

// GetCatalogHandler は現在のカタログのスナップショットを返します。
func GetCatalogHandler(cache *Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat := cache.Snapshot()
		if cat == nil {
			cat = &model.Catalog{Entries: map[string]model.CatalogEntry{}}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(cat); err != nil {
			log.Printf("Error encoding catalog response: %v", err)
		}
	}
}

// RefreshCatalogHandler はカタログのリフレッシュを実行します。
// 失敗しても直前のカタログは保持されるため、502とメッセージを返すだけで
// セッションは継続できます。
func RefreshCatalogHandler(cache *Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Force bool `json:"force"`
		}
		if r.Body != nil {
			// ボディ省略時は force=false として扱う
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		cat, err := cache.Refresh(req.Force)
		if err != nil {
			log.Printf("Error refreshing catalog: %v", err)
			http.Error(w, "Failed to refresh prices: "+err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(cat); err != nil {
			log.Printf("Error encoding catalog response: %v", err)
		}
	}
}
