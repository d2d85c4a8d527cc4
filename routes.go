// C:\Users\wasab\OneDrive\デスクトップ\SHOP\routes.go
package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"shop/automation"
	"shop/catalog"
	"shop/ledger"
	"shop/notify"
	"shop/session"
	"shop/stats"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, cache *catalog.Cache, sess *session.Session, led *ledger.Ledger, notifier *notify.Notifier) {

	mux.HandleFunc("/api/catalog", catalog.GetCatalogHandler(cache))
	mux.HandleFunc("/api/catalog/refresh", catalog.RefreshCatalogHandler(cache))
	mux.HandleFunc("/api/catalog/portal_refresh", automation.PortalRefreshHandler(cache))

	mux.HandleFunc("/api/session/select", session.SelectItemHandler(sess))
	mux.HandleFunc("/api/session/quantity", session.SetQuantityHandler(sess))
	mux.HandleFunc("/api/session/total", session.TotalHandler(sess, cache))

	mux.HandleFunc("/api/orders", session.SubmitOrderHandler(sess, cache, led, notifier, dbConn))
	mux.HandleFunc("/api/orders/recent", session.RecentOrdersHandler(led))
	mux.HandleFunc("/api/orders/history", session.OrderHistoryHandler(dbConn))
	mux.HandleFunc("/api/orders/item_totals", session.ItemTotalsHandler(dbConn))

	mux.HandleFunc("/api/stats", stats.StatsHandler(cache, led))

	mux.HandleFunc("/api/config", ConfigHandler())
}
