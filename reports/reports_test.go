package reports

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"sprintbox/model"
)

func exportTable() *model.PalletTable {
	return &model.PalletTable{Rows: []model.PalletRecord{
		{Mandant: "352", ArticleCode: "ART1", Description: "Ware Eins", Quantity: 40, PalletID: "p1", StatusCode: "401", Location: "WE01"},
		{Mandant: "352", ArticleCode: "ART1", Description: "Ware Eins", Quantity: 40, PalletID: "p2", StatusCode: "401", Location: "WE02"},
		{Mandant: "352", ArticleCode: "ART2", Description: "Ware Zwei", Quantity: 33, PalletID: "p3", StatusCode: "401", Location: "HALLE"},
	}}
}

func TestRemovedWorkbook(t *testing.T) {
	data, err := RemovedWorkbook(exportTable(), []string{"p2", "p3"})
	if err != nil {
		t.Fatalf("RemovedWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook unreadable: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Deleted_Pallets")
	if err != nil {
		t.Fatalf("missing Deleted_Pallets sheet: %v", err)
	}
	// Header plus the two removed pallets, sorted by article then ID.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[1][4] != "p2" || rows[2][4] != "p3" {
		t.Errorf("pallet IDs = %q, %q, want p2, p3", rows[1][4], rows[2][4])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("missing Summary sheet: %v", err)
	}
	if len(summary) != 3 {
		t.Fatalf("expected header plus 2 article rows, got %d", len(summary))
	}
	if summary[1][0] != "ART1" || summary[1][2] != "1" {
		t.Errorf("summary row 1 = %v, want ART1 with 1 pallet", summary[1])
	}
}

func TestRemovedWorkbookErrors(t *testing.T) {
	if _, err := RemovedWorkbook(nil, []string{"p1"}); err == nil {
		t.Error("nil table must fail")
	}
	if _, err := RemovedWorkbook(exportTable(), nil); err == nil {
		t.Error("empty PID list must fail")
	}
	if _, err := RemovedWorkbook(exportTable(), []string{"ghost"}); err == nil {
		t.Error("unknown PIDs must fail")
	}
}

func TestPIDList(t *testing.T) {
	got := string(PIDList([]string{"p1", "p2", "p3"}))
	if got != "p1\np2\np3" {
		t.Errorf("PIDList = %q", got)
	}
}
