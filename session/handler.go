// C:\Users\wasab\OneDrive\デスクトップ\SHOP\session\handler.go
package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"shop/catalog"
	"shop/database"
	"shop/ledger"
	"shop/notify"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// SelectItemHandler は品目の選択を受け付けます。空の品目名は選択解除です。
func SelectItemHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Item string `json:"item"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Item) == "" {
			sess.Clear()
		} else {
			sess.Select(req.Item)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SetQuantityHandler は数量テキストを受け付けます。検証はしません。
func SetQuantityHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Quantity string `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		sess.SetQuantityText(req.Quantity)
		w.WriteHeader(http.StatusNoContent)
	}
}

// TotalHandler は現在の選択から導出した合計を返します。不完全な
// セッションでもゼロ値で 200 を返します。
func TotalHandler(sess *Session, cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, sess.ComputeTotal(cache.Snapshot()))
	}
}

// SubmitOrderHandler は注文を確定します。台帳追記の成功が注文成立の
// 条件で、通知の成否は結果の notified フィールドで別途報告されます。
func SubmitOrderHandler(sess *Session, cache *catalog.Cache, led *ledger.Ledger, sink *notify.Notifier, db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Player string `json:"player"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Player) == "" {
			writeJSONError(w, "please enter your name", http.StatusBadRequest)
			return
		}

		result, err := sess.Submit(req.Player, cache.Snapshot(), led, sink)
		if err != nil {
			var invalid *InvalidOrderError
			if errors.As(err, &invalid) {
				writeJSONError(w, invalid.Reason, http.StatusBadRequest)
				return
			}
			log.Printf("Error appending order to ledger: %v", err)
			writeJSONError(w, "failed to record order, it was NOT placed", http.StatusInternalServerError)
			return
		}

		if db != nil {
			if err := database.InsertOrderArchive(db, result.Record); err != nil {
				log.Printf("WARN: order %s recorded but archive insert failed: %v", result.Record.ID, err)
			}
		}

		log.Println(ledger.FormatLine(result.Record))
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, result)
	}
}

// RecentOrdersHandler は台帳の末尾 n 行を返します（既定10件）。
func RecentOrdersHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := 10
		if v := r.URL.Query().Get("n"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				n = parsed
			}
		}
		lines := led.Recent(n)
		if lines == nil {
			lines = []string{}
		}
		writeJSON(w, map[string]interface{}{"orders": lines})
	}
}

// OrderHistoryHandler はアーカイブ（DB）から注文履歴を返します。
func OrderHistoryHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		records, err := database.ListOrderHistory(db, limit)
		if err != nil {
			log.Printf("Error querying order history: %v", err)
			writeJSONError(w, "failed to load order history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"orders": records})
	}
}

// ItemTotalsHandler は品目別の累計集計を返します。
func ItemTotalsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := database.ItemTotals(db)
		if err != nil {
			log.Printf("Error querying item totals: %v", err)
			writeJSONError(w, "failed to load item totals", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"items": totals})
	}
}
