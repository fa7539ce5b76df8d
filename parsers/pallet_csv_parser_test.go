package parsers

import (
	"bytes"
	"strings"
	"testing"
)

const palletHeader = "MANDANT;ARTIKELNR;ARTBEZ1;QUANTITY;LHMNR;ZUSTAND;PLATZ;CHARGE1;" +
	"ANGELEGT AM;ANGELEGT UM;ANGELEGT VON;GEANDERT AM;GEANDERT UM;BEWEGUNG AM;BEWEGUNG UM"

func TestParsePalletCSV(t *testing.T) {
	csvData := palletHeader + "\n" +
		"352;art1;Ware Eins;1.234,5;P001;401;WE01;CH1;01.02.2026;08:30:00;user;01.02.2026;08:30:00;15.02.2026;10:00:00\n" +
		"352;ART2;Ware Zwei;40;P002;950;021234567;CH2;01.01.2026;07:00:00;user;;;10.01.2026;09:15:00\n"

	table, err := ParsePalletCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParsePalletCSV failed: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if table.Signature != "2x15" {
		t.Errorf("signature = %q, want 2x15", table.Signature)
	}

	inStock := table.Rows[0]
	if inStock.ArticleCode != "ART1" {
		t.Errorf("article code not upper-cased: %q", inStock.ArticleCode)
	}
	if inStock.Quantity != 1234.5 {
		t.Errorf("quantity = %v, want 1234.5 (German format)", inStock.Quantity)
	}
	if inStock.IsDeleted {
		t.Error("status 401 row marked deleted")
	}
	// In-stock rows drop the movement timestamp even when present.
	if !inStock.OutDate.IsZero() || inStock.OutTime.Valid {
		t.Errorf("in-stock row kept removal timestamp: %v %v", inStock.OutDate, inStock.OutTime)
	}

	removed := table.Rows[1]
	if !removed.IsDeleted {
		t.Error("status 950 row not marked deleted")
	}
	if removed.OutDate.IsZero() {
		t.Error("removed row lost its removal date")
	}
	if removed.OutTime.String() != "09:15:00" {
		t.Errorf("removal time = %q, want 09:15:00", removed.OutTime.String())
	}
	if removed.Charge != "CH2" {
		t.Errorf("charge = %q, want CH2", removed.Charge)
	}
}

func TestParsePalletCSVMissingColumns(t *testing.T) {
	csvData := "MANDANT;ARTIKELNR;QUANTITY\n352;ART1;40\n"
	_, err := ParsePalletCSV(strings.NewReader(csvData))
	if err == nil {
		t.Fatal("expected an error for missing columns")
	}
	for _, col := range []string{"ARTBEZ1", "LHMNR", "ZUSTAND", "BEWEGUNG AM"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error does not name missing column %s: %v", col, err)
		}
	}
}

func TestParsePalletCSVLatin1Fallback(t *testing.T) {
	// "Grün" with a raw Latin-1 0xFC byte, not valid UTF-8.
	row := []byte("352;ART1;Gr\xfcn;40;P001;401;WE01;;01.02.2026;08:00:00;u;;;;\n")
	data := append([]byte(palletHeader+"\n"), row...)

	table, err := ParsePalletCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParsePalletCSV failed on Latin-1 input: %v", err)
	}
	if table.Rows[0].Description != "Grün" {
		t.Errorf("description = %q, want Grün", table.Rows[0].Description)
	}
}

func TestParsePalletCSVSkipsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(palletHeader+"\n352;ART1;W;40;P001;401;WE01;;;;;;;;\n")...)
	table, err := ParsePalletCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParsePalletCSV failed on BOM input: %v", err)
	}
	if table.Rows[0].Mandant != "352" {
		t.Errorf("mandant = %q, BOM not skipped", table.Rows[0].Mandant)
	}
}

func TestParsePalletCSVEmpty(t *testing.T) {
	if _, err := ParsePalletCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for an empty file")
	}
}
