// C:\Users\wasab\OneDrive\デスクトップ\SHOP\automation\handler.go
package automation

import (
	"encoding/json"
	"log"
	"net/http"

	"shop/catalog"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// PortalRefreshHandler はポータル経由の強制リフレッシュを実行します。
// ブラウザ自動操作を伴うため通常のリフレッシュより時間がかかります。
func PortalRefreshHandler(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		if getConfig().PortalURL == "" {
			writeJSONError(w, "portal URL is not configured, set it in settings first", http.StatusBadRequest)
			return
		}

		log.Println("Starting portal automation...")
		cat, err := cache.Refresh(true)
		if err != nil {
			log.Printf("Automation Error: %v", err)
			writeJSONError(w, "portal refresh failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "success",
			"itemCount": len(cat.Entries),
			"fetchedAt": cat.FetchedAt,
		})
	}
}
