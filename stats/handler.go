package stats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"sprintbox/model"
	"sprintbox/session"
)

// MonthlyHandler returns the month-by-month flow for
// ?mandant=&from=YYYY-MM-DD&to=YYYY-MM-DD.
func MonthlyHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, mandant, from, to, ok := statsQuery(mgr, w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Monthly(table, mandant, from, to))
	}
}

type topResponse struct {
	Received []TopArticle `json:"received"`
	Removed  []TopArticle `json:"removed"`
}

// TopArticlesHandler returns the top received and removed articles for a
// window; ?limit= defaults to 5.
func TopArticlesHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, mandant, from, to, ok := statsQuery(mgr, w, r)
		if !ok {
			return
		}
		limit := 5
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(topResponse{
			Received: TopReceived(table, mandant, from, to, limit),
			Removed:  TopRemoved(table, mandant, from, to, limit),
		})
	}
}

// StagnantHandler lists in-stock pallets older than ?olderThanDays=
// (default 90).
func StagnantHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := mgr.FromRequest(w, r)
		table := s.Table()
		if table == nil {
			http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
			return
		}
		mandant := r.URL.Query().Get("mandant")
		if mandant == "" {
			http.Error(w, "mandant is required", http.StatusBadRequest)
			return
		}
		days := 90
		if v := r.URL.Query().Get("olderThanDays"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				days = n
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Stagnant(table, mandant, days, time.Now()))
	}
}

func statsQuery(mgr *session.Manager, w http.ResponseWriter, r *http.Request) (*model.PalletTable, string, time.Time, time.Time, bool) {
	s := mgr.FromRequest(w, r)
	table := s.Table()
	if table == nil {
		http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
		return nil, "", time.Time{}, time.Time{}, false
	}
	q := r.URL.Query()
	mandant := q.Get("mandant")
	if mandant == "" {
		http.Error(w, "mandant is required", http.StatusBadRequest)
		return nil, "", time.Time{}, time.Time{}, false
	}
	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		http.Error(w, "invalid from date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return nil, "", time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		http.Error(w, "invalid to date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return nil, "", time.Time{}, time.Time{}, false
	}
	return table, mandant, from, to, true
}
