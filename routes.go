package main

import (
	"net/http"

	"sprintbox/automation"
	"sprintbox/filters"
	"sprintbox/orders"
	"sprintbox/parsers"
	"sprintbox/removal"
	"sprintbox/reports"
	"sprintbox/session"
	"sprintbox/stats"
	"sprintbox/stock"
)

func SetupRoutes(mux *http.ServeMux, mgr *session.Manager) {

	mux.HandleFunc("/api/pallets/upload", parsers.UploadPalletCSVHandler(mgr))
	mux.HandleFunc("/api/pallets/meta", parsers.TableMetaHandler(mgr))

	mux.HandleFunc("/api/filters/apply", filters.ApplyHandler(mgr))

	mux.HandleFunc("/api/orders/upload", orders.UploadOrdersHandler(mgr))
	mux.HandleFunc("/api/orders", orders.ListOrdersHandler(mgr))
	mux.HandleFunc("/api/orders/manual", orders.AddManualOrderHandler(mgr))
	mux.HandleFunc("/api/orders/clear", orders.ClearOrdersHandler(mgr))
	mux.HandleFunc("/api/orders/compare", orders.CompareHandler(mgr))

	mux.HandleFunc("/api/removal/suggest", removal.SuggestHandler(mgr))
	mux.HandleFunc("/api/removal/commit", removal.CommitHandler(mgr))
	mux.HandleFunc("/api/removal/reset", removal.ResetHandler(mgr))

	mux.HandleFunc("/api/removal/export/xlsx", reports.ExportWorkbookHandler(mgr))
	mux.HandleFunc("/api/removal/export/pids", reports.ExportPIDListHandler(mgr))

	mux.HandleFunc("/api/stock/snapshot", stock.SnapshotHandler(mgr))
	mux.HandleFunc("/api/stock/history", stock.HistoryHandler(mgr))

	mux.HandleFunc("/api/stats/monthly", stats.MonthlyHandler(mgr))
	mux.HandleFunc("/api/stats/top", stats.TopArticlesHandler(mgr))
	mux.HandleFunc("/api/stats/stagnant", stats.StagnantHandler(mgr))

	mux.HandleFunc("/api/automation/download", automation.DownloadReportHandler(mgr))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/config/excluded", ExcludedArticlesHandler())
	mux.HandleFunc("/api/config/packaging", PackagingHandler())
	mux.HandleFunc("/api/config/strategies", StrategiesHandler())
}
