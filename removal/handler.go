package removal

import (
	"encoding/json"
	"log"
	"net/http"

	"sprintbox/config"
	"sprintbox/model"
	"sprintbox/orders"
	"sprintbox/session"
)

// ManualSource is the pseudo file name under which hand-entered order
// lines run through the matching engine.
const ManualSource = "manual"

type suggestRequest struct {
	SourceFile string `json:"sourceFile"`
	// Selections overrides the engine's suggestion per article; absent
	// articles keep the suggested pallets.
	Selections map[string][]string `json:"selections"`
}

// SuggestHandler runs the matching engine for one order file against the
// session's working stock and returns the full report.
func SuggestHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req suggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.SourceFile == "" {
			http.Error(w, "sourceFile is required", http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)
		if s.Table() == nil {
			http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
			return
		}

		byFile, _, manual := s.Orders()
		var lines []model.OrderLine
		if req.SourceFile == ManualSource {
			lines = manual
		} else {
			lines = byFile[req.SourceFile]
		}
		if len(lines) == 0 {
			http.Error(w, "No order lines for "+req.SourceFile, http.StatusNotFound)
			return
		}
		aggs := orders.AggregateFile(lines, req.SourceFile)

		strategies := config.LoadStrategies()
		stock := ExcludePIDs(BuildWorkingStock(s.Table(), strategies), s.RemovedPIDs())
		engine := NewEngine(strategies, config.LoadPackaging(), config.GetConfig().QuantityTolerance)
		report := engine.BuildReport(stock, aggs, req.Selections)
		report.SourceFile = req.SourceFile

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

type commitRequest struct {
	PalletIDs []string `json:"palletIds"`
}

type commitResponse struct {
	Committed int `json:"committed"`
	Remaining int `json:"remaining"`
}

// CommitHandler takes the confirmed pallets out of the working stock so
// the next order file cannot pick them again.
func CommitHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req commitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.PalletIDs) == 0 {
			http.Error(w, "palletIds is empty", http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)
		if s.Table() == nil {
			http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
			return
		}

		// Only pallets still in the working stock count; IDs committed
		// earlier or absent from the table are no-ops.
		strategies := config.LoadStrategies()
		stock := ExcludePIDs(BuildWorkingStock(s.Table(), strategies), s.RemovedPIDs())
		inStock := make(map[string]bool, len(stock))
		for _, p := range stock {
			inStock[p.PalletID] = true
		}
		var accepted []string
		for _, id := range req.PalletIDs {
			if inStock[id] {
				accepted = append(accepted, id)
			}
		}

		committed := s.CommitRemoval(accepted)
		mgr.Persist(s)
		log.Printf("removal commit: %d of %d pallets taken from working stock", committed, len(req.PalletIDs))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(commitResponse{
			Committed: committed,
			Remaining: len(stock) - committed,
		})
	}
}

// ResetHandler rebuilds the working stock from the table, undoing every
// commit in this session.
func ResetHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s := mgr.FromRequest(w, r)
		s.ResetRemoval()
		mgr.Persist(s)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "removal state reset"})
	}
}
