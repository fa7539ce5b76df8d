package stock

import (
	"encoding/json"
	"net/http"
	"time"

	"sprintbox/config"
	"sprintbox/session"
)

type snapshotRequest struct {
	Mandant  string   `json:"mandant"`
	Articles []string `json:"articles"`
	Day      string   `json:"day"` // YYYY-MM-DD, state at start of this day
}

type snapshotResponse struct {
	Rows     []Row          `json:"rows"`
	Articles []ArticleTotal `json:"articles"`
}

// SnapshotHandler reconstructs the stock state at the start of a day.
func SnapshotHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req snapshotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		day, err := time.Parse("2006-01-02", req.Day)
		if err != nil {
			http.Error(w, "invalid day (expected YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)
		table := s.Table()
		if table == nil {
			http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
			return
		}

		rows := Snapshot(table, req.Mandant, req.Articles, day, config.LoadPackaging())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshotResponse{
			Rows:     rows,
			Articles: AggregateByArticle(rows),
		})
	}
}

type historyRequest struct {
	Mandant     string   `json:"mandant"`
	Articles    []string `json:"articles"`
	DateFrom    string   `json:"dateFrom"`
	DateTo      string   `json:"dateTo"`
	CartonsOnly bool     `json:"cartonsOnly"`
}

// HistoryHandler returns the day-by-day stock series over a window.
func HistoryHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req historyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			http.Error(w, "invalid dateFrom (expected YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			http.Error(w, "invalid dateTo (expected YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		if to.Before(from) {
			http.Error(w, "dateTo is before dateFrom", http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)
		table := s.Table()
		if table == nil {
			http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
			return
		}

		points := History(table, req.Mandant, req.Articles, from, to, req.CartonsOnly, config.LoadPackaging())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(points)
	}
}
