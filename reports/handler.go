package reports

import (
	"fmt"
	"net/http"
	"time"

	"sprintbox/session"
)

// ExportWorkbookHandler streams the removed-pallets workbook for the
// session's committed pallets.
func ExportWorkbookHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := mgr.FromRequest(w, r)
		data, err := RemovedWorkbook(s.Table(), s.RemovedPIDs())
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		name := fmt.Sprintf("usuniete_palety_%s.xlsx", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.Write(data)
	}
}

// ExportPIDListHandler streams the committed pallet IDs as plain text.
func ExportPIDListHandler(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := mgr.FromRequest(w, r)
		pids := s.RemovedPIDs()
		if len(pids) == 0 {
			http.Error(w, "no removed pallets to export", http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="pids.txt"`)
		w.Write(PIDList(pids))
	}
}
