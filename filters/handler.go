package filters

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sprintbox/model"
	"sprintbox/session"
)

// applyRequest is the JSON the filter views post. Dates are YYYY-MM-DD,
// times HH:MM (both optional for the time window).
type applyRequest struct {
	Mandant  string   `json:"mandant"`
	Mode     string   `json:"mode"`
	DateFrom string   `json:"dateFrom"`
	DateTo   string   `json:"dateTo"`
	Articles []string `json:"articles"`
	TimeFrom string   `json:"timeFrom"`
	TimeTo   string   `json:"timeTo"`
}

type applyResponse struct {
	Rows         []model.PalletRecord `json:"rows"`
	Removed      []model.PalletRecord `json:"removed"`
	RowCount     int                  `json:"rowCount"`
	RemovedCount int                  `json:"removedCount"`
	TotalQty     float64              `json:"totalQty"`
}

// ApplyHandler runs the current filters over the session table.
func ApplyHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		params, err := req.toParams()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)
		table := s.Table()
		if table == nil {
			http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
			return
		}

		res := Apply(table, params)
		resp := applyResponse{
			Rows:         res.Rows,
			Removed:      res.Removed,
			RowCount:     len(res.Rows),
			RemovedCount: len(res.Removed),
		}
		for _, row := range res.Rows {
			resp.TotalQty += row.Quantity
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func (req applyRequest) toParams() (Params, error) {
	p := Params{
		Mandant:  strings.TrimSpace(req.Mandant),
		Mode:     ModeReceived,
		Articles: req.Articles,
	}
	if req.Mode == string(ModeRemoved) {
		p.Mode = ModeRemoved
	}
	if p.Mandant == "" {
		return p, fmt.Errorf("mandant is required")
	}

	var err error
	if p.DateFrom, err = parseISODate(req.DateFrom); err != nil {
		return p, fmt.Errorf("invalid dateFrom: %w", err)
	}
	if p.DateTo, err = parseISODate(req.DateTo); err != nil {
		return p, fmt.Errorf("invalid dateTo: %w", err)
	}
	if p.DateTo.Before(p.DateFrom) {
		return p, fmt.Errorf("dateTo is before dateFrom")
	}

	if req.TimeFrom != "" && req.TimeTo != "" {
		if p.TimeFrom, err = ParseClock(req.TimeFrom); err != nil {
			return p, fmt.Errorf("invalid timeFrom: %w", err)
		}
		if p.TimeTo, err = ParseClock(req.TimeTo); err != nil {
			return p, fmt.Errorf("invalid timeTo: %w", err)
		}
	}
	return p, nil
}

func parseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into a DayTime.
func ParseClock(s string) (model.DayTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return model.DayTime{}, fmt.Errorf("expected HH:MM, got %q", s)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return model.DayTime{}, fmt.Errorf("expected HH:MM, got %q", s)
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return model.DayTime{}, fmt.Errorf("clock value out of range: %q", s)
	}
	return model.NewDayTime(nums[0], nums[1], nums[2]), nil
}
