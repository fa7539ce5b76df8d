// Package reports renders the removal results into downloadable files:
// an Excel workbook with the removed pallet rows plus an article summary,
// and a plain-text pallet ID list for the warehouse terminal.
package reports

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"sprintbox/model"
)

const (
	sheetRemoved = "Deleted_Pallets"
	sheetSummary = "Summary"
)

var removedHeaders = []interface{}{
	"MANDANT", "ARTIKELNR", "ARTBEZ1", "QUANTITY", "LHMNR",
	"ZUSTAND", "PLATZ", "CHARGE1", "ANGELEGT AM", "ANGELEGT UM",
}

// RemovedWorkbook builds the export workbook for the pallets committed in
// this session. Rows come from the uploaded table so the export carries
// the same values the user saw on screen.
func RemovedWorkbook(table *model.PalletTable, removedPIDs []string) ([]byte, error) {
	if table == nil || len(removedPIDs) == 0 {
		return nil, fmt.Errorf("no removed pallets to export")
	}

	removed := make(map[string]bool, len(removedPIDs))
	for _, id := range removedPIDs {
		removed[id] = true
	}

	var rows []model.PalletRecord
	for _, r := range table.Rows {
		if removed[r.PalletID] {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("removed pallet IDs not found in the loaded table")
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ArticleCode != rows[j].ArticleCode {
			return rows[i].ArticleCode < rows[j].ArticleCode
		}
		return rows[i].PalletID < rows[j].PalletID
	})

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("WARN: failed to close export workbook: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetRemoved); err != nil {
		return nil, fmt.Errorf("failed to prepare export workbook: %w", err)
	}
	if err := f.SetSheetRow(sheetRemoved, "A1", &removedHeaders); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			r.Mandant, r.ArticleCode, r.Description, r.Quantity, r.PalletID,
			r.StatusCode, r.Location, r.Charge,
			dateCell(r), r.InTime.String(),
		}
		if err := f.SetSheetRow(sheetRemoved, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	if err := writeSummarySheet(f, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, rows []model.PalletRecord) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	head := []interface{}{"ARTIKELNR", "ARTBEZ1", "PALLETS", "QUANTITY"}
	if err := f.SetSheetRow(sheetSummary, "A1", &head); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	type total struct {
		description string
		pallets     int
		quantity    float64
	}
	totals := make(map[string]*total)
	var order []string
	for _, r := range rows {
		t, ok := totals[r.ArticleCode]
		if !ok {
			t = &total{description: r.Description}
			totals[r.ArticleCode] = t
			order = append(order, r.ArticleCode)
		}
		t.pallets++
		t.quantity += r.Quantity
	}

	for i, code := range order {
		t := totals[code]
		row := []interface{}{code, t.description, t.pallets, t.quantity}
		if err := f.SetSheetRow(sheetSummary, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write summary row for %s: %w", code, err)
		}
	}
	return nil
}

func dateCell(r model.PalletRecord) string {
	if r.InDate.IsZero() {
		return ""
	}
	return r.InDate.Format("02.01.2006")
}

// PIDList renders pallet IDs one per line, for pasting into the WMS.
func PIDList(pids []string) []byte {
	return []byte(strings.Join(pids, "\n"))
}
