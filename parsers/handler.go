package parsers

import (
	"encoding/json"
	"log"
	"net/http"

	"sprintbox/session"
)

type uploadResponse struct {
	Signature string   `json:"signature"`
	Rows      int      `json:"rows"`
	Mandants  []string `json:"mandants"`
}

// UploadPalletCSVHandler ingests the warehouse CSV export and installs
// it as the session's working table.
func UploadPalletCSVHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Failed to read uploaded file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		table, err := ParsePalletCSV(file)
		if err != nil {
			log.Printf("pallet CSV %s rejected: %v", header.Filename, err)
			http.Error(w, "Failed to parse CSV: "+err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("pallet CSV %s loaded: %s", header.Filename, table.Signature)

		s := mgr.FromRequest(w, r)
		s.SetTable(table)
		mgr.Persist(s)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(uploadResponse{
			Signature: table.Signature,
			Rows:      table.Len(),
			Mandants:  table.Mandants(),
		})
	}
}

type tableMetaResponse struct {
	Loaded    bool     `json:"loaded"`
	Signature string   `json:"signature"`
	Rows      int      `json:"rows"`
	Mandants  []string `json:"mandants"`
	Articles  []string `json:"articles,omitempty"`
}

// TableMetaHandler reports what is loaded in the session; pass ?mandant=
// to also get that mandant's article codes.
func TableMetaHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := mgr.FromRequest(w, r)
		table := s.Table()

		resp := tableMetaResponse{}
		if table != nil {
			resp.Loaded = true
			resp.Signature = table.Signature
			resp.Rows = table.Len()
			resp.Mandants = table.Mandants()
			if mandant := r.URL.Query().Get("mandant"); mandant != "" {
				resp.Articles = table.ArticleCodes(mandant)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
