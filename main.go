// C:\Users\wasab\OneDrive\デスクトップ\SHOP\main.go
package main

import (
	"html/template"
	"log"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"shop/automation"
	"shop/catalog"
	"shop/config"
	"shop/database"
	"shop/ledger"
	"shop/notify"
	"shop/session"
)

var appTemplate *template.Template

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
		cfg = config.GetConfig()
	}

	log.Println("Connecting to database...")
	dbConn, err := sqlx.Open("sqlite3", cfg.DatabasePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connection successful.")

	if err := database.InitDatabase(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	// フェッチ経路・台帳パス・Webhook URL は各コンポーネントが
	// 実行のたびに設定を参照する。設定画面での変更は再起動不要。
	cache := catalog.New(automation.NewFeedFetcher(), dbConn)
	led := ledger.New("")
	notifier := notify.New("")
	sess := session.New()

	// 初回リフレッシュは起動をブロックしない。失敗しても復元済み
	// スナップショットがあればそのまま表示できる。
	go func() {
		if _, err := cache.Refresh(false); err != nil {
			log.Printf("WARN: initial price fetch failed: %v", err)
		}
	}()

	appTemplate, err = template.ParseFS(os.DirFS("static"), "index.html")
	if err != nil {
		log.Fatalf("Failed to parse index.html: %v", err)
	}
	log.Println("HTML templates loaded and parsed.")

	mux := http.NewServeMux()

	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir("./static"))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := appTemplate.ExecuteTemplate(w, "index.html", nil); err != nil {
			log.Printf("Error executing main template: %v", err)
		}
	})

	SetupRoutes(mux, dbConn, cache, sess, led, notifier)

	port := ":8080"
	log.Printf("Starting server on http://localhost%s", port)

	openBrowser("http://localhost:8080")

	if err := http.ListenAndServe(port, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
