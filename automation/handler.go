package automation

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"sprintbox/config"
	"sprintbox/parsers"
	"sprintbox/session"
)

type downloadRequest struct {
	DateFrom string `json:"dateFrom"` // YYYY-MM-DD
	DateTo   string `json:"dateTo"`
	// AutoLoad parses the downloaded CSV straight into the session.
	AutoLoad bool `json:"autoLoad"`
}

type downloadResponse struct {
	Path      string `json:"path"`
	Loaded    bool   `json:"loaded"`
	Rows      int    `json:"rows,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// DownloadReportHandler runs the portal download with the configured
// credentials. The browser run takes minutes; the request blocks until
// the file is on disk.
func DownloadReportHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req downloadRequest
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

		cfg := config.GetConfig()
		if err := CleanupDownloads(cfg.DownloadDir, 24*time.Hour); err != nil {
			log.Printf("WARN: %v", err)
		}

		path, err := DownloadPalletReport(Request{
			User:     cfg.IhkaUser,
			Password: cfg.IhkaPassword,
			Mandant:  cfg.IhkaMandant,
			DateFrom: from,
			DateTo:   to,
			SaveDir:  cfg.DownloadDir,
			Headless: true,
		})
		if err != nil {
			log.Printf("portal download failed: %v", err)
			http.Error(w, "Download failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		resp := downloadResponse{Path: path}
		if req.AutoLoad {
			f, err := os.Open(path)
			if err != nil {
				http.Error(w, "Downloaded file unreadable: "+err.Error(), http.StatusInternalServerError)
				return
			}
			table, err := parsers.ParsePalletCSV(f)
			f.Close()
			if err != nil {
				http.Error(w, "Downloaded file failed to parse: "+err.Error(), http.StatusBadGateway)
				return
			}
			s := mgr.FromRequest(w, r)
			s.SetTable(table)
			mgr.Persist(s)
			resp.Loaded = true
			resp.Rows = table.Len()
			resp.Signature = table.Signature
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
