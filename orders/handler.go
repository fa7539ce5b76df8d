package orders

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"sprintbox/config"
	"sprintbox/filters"
	"sprintbox/model"
	"sprintbox/session"
)

// UploadOrdersHandler parses one or more order files (xlsx/csv/txt) and
// caches the result in the session. Files that fail to parse are reported
// but do not block the rest.
func UploadOrdersHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			http.Error(w, "No order files in request (field 'files').", http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)

		var uploads []UploadedFile
		var keys []string
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "Failed to open "+fh.Filename+": "+err.Error(), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "Failed to read "+fh.Filename+": "+err.Error(), http.StatusBadRequest)
				return
			}
			uploads = append(uploads, UploadedFile{Name: fh.Filename, Data: data})
			keys = append(keys, fmt.Sprintf("%s:%d", fh.Filename, len(data)))
		}

		lines, errs := ParseFiles(uploads, anchorArticles(s.Table()))
		byFile := make(map[string][]model.OrderLine)
		for _, name := range SourceFiles(lines) {
			byFile[name] = ByFile(lines, name)
		}
		s.SetOrders(strings.Join(keys, "|"), byFile, errs)
		log.Printf("order upload: %d files, %d lines, %d errors", len(uploads), len(lines), len(errs))

		writeOrderState(w, s)
	}
}

// ListOrdersHandler returns the session's cached order state.
func ListOrdersHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOrderState(w, mgr.FromRequest(w, r))
	}
}

type manualOrderRequest struct {
	ArticleCode string  `json:"articleCode"`
	Pallets     int     `json:"pallets"`
	Quantity    float64 `json:"quantity"`
}

// AddManualOrderHandler appends a hand-entered order line.
func AddManualOrderHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req manualOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		code := strings.ToUpper(strings.TrimSpace(req.ArticleCode))
		if code == "" {
			http.Error(w, "articleCode is required", http.StatusBadRequest)
			return
		}
		if req.Pallets <= 0 && req.Quantity <= 0 {
			http.Error(w, "pallets or quantity must be positive", http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)
		s.AddManualOrder(model.OrderLine{
			ArticleCode: code,
			Pallets:     req.Pallets,
			Quantity:    req.Quantity,
		})
		writeOrderState(w, s)
	}
}

// ClearOrdersHandler drops the cached orders; ?manualOnly=true keeps the
// uploaded files and clears only the manual lines.
func ClearOrdersHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s := mgr.FromRequest(w, r)
		if r.URL.Query().Get("manualOnly") == "true" {
			s.ClearManualOrders()
		} else {
			s.ClearOrders()
		}
		writeOrderState(w, s)
	}
}

type orderStateResponse struct {
	Files      []string                     `json:"files"`
	ByFile     map[string][]model.OrderLine `json:"byFile"`
	Aggregates []model.OrderAggregate       `json:"aggregates"`
	Manual     []model.OrderLine            `json:"manual"`
	Errors     []model.OrderParseError      `json:"errors"`
}

func writeOrderState(w http.ResponseWriter, s *session.Session) {
	byFile, errs, manual := s.Orders()

	var all []model.OrderLine
	files := make([]string, 0, len(byFile))
	for name := range byFile {
		files = append(files, name)
	}
	sort.Slice(files, func(i, j int) bool { return NaturalLess(files[i], files[j]) })
	for _, name := range files {
		all = append(all, byFile[name]...)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orderStateResponse{
		Files:      files,
		ByFile:     byFile,
		Aggregates: Aggregate(all, manual),
		Manual:     manual,
		Errors:     errs,
	})
}

// compareRequest bounds the removed-pallet side of the comparison.
type compareRequest struct {
	Mandant  string `json:"mandant"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
}

// CompareHandler joins the aggregated orders against the pallets removed
// in the given window. The article filter never applies here so the
// numbers stay comparable across views.
func CompareHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req compareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			http.Error(w, "invalid dateFrom", http.StatusBadRequest)
			return
		}
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			http.Error(w, "invalid dateTo", http.StatusBadRequest)
			return
		}

		s := mgr.FromRequest(w, r)
		table := s.Table()
		if table == nil {
			http.Error(w, "No pallet data loaded. Upload a CSV first.", http.StatusConflict)
			return
		}

		res := filters.Apply(table, filters.Params{
			Mandant:  strings.TrimSpace(req.Mandant),
			Mode:     filters.ModeRemoved,
			DateFrom: from,
			DateTo:   to,
		})

		byFile, _, manual := s.Orders()
		var all []model.OrderLine
		for _, lines := range byFile {
			all = append(all, lines...)
		}
		aggs := Aggregate(all, manual)

		rows := Compare(aggs, res.Removed, config.LoadExcludedArticles())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	}
}

func anchorArticles(table *model.PalletTable) []string {
	if table == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range table.Rows {
		if row.ArticleCode != "" && !seen[row.ArticleCode] {
			seen[row.ArticleCode] = true
			out = append(out, row.ArticleCode)
		}
	}
	return out
}
