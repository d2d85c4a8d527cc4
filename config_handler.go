// C:\Users\wasab\OneDrive\デスクトップ\SHOP\config_handler.go
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"shop/config"
)

// ヘルパー関数: エラーをJSONで返す
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// ConfigHandler は設定の取得（GET）と保存（POST）を処理します。
func ConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg := config.GetConfig()
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cfg)

		case http.MethodPost:
			var newCfg config.Config
			if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
				writeJSONError(w, "invalid request body", http.StatusBadRequest)
				return
			}

			if err := validateURLField(newCfg.FeedURL, "feed URL"); err != nil {
				writeJSONError(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := validateURLField(newCfg.NotificationWebhookURL, "webhook URL"); err != nil {
				writeJSONError(w, err.Error(), http.StatusBadRequest)
				return
			}

			if err := config.SaveConfig(newCfg); err != nil {
				log.Printf("Error saving config: %v", err)
				writeJSONError(w, "failed to save settings", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(config.GetConfig())

		default:
			writeJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}

// validateURLField は空を許容しつつ、指定された場合はURLとして
// 解釈できることだけを確認します。
func validateURLField(raw, label string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &invalidConfigError{label: label}
	}
	return nil
}

type invalidConfigError struct {
	label string
}

func (e *invalidConfigError) Error() string {
	return e.label + " is not a valid URL"
}
