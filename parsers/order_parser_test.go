package parsers

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseOrderFileCSV(t *testing.T) {
	data := []byte("Materialnummer;Paletten;Stk pro Pal;Menge\n" +
		"ART1;2;33;66\n" +
		"art2;1;40;\n" +
		"SUMME;;;\n")

	lines, err := ParseOrderFile("bestellung_kw9.csv", data, nil)
	if err != nil {
		t.Fatalf("ParseOrderFile failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	if lines[0].ArticleCode != "ART1" || lines[0].Pallets != 2 || lines[0].Quantity != 66 {
		t.Errorf("line 0 = %+v", lines[0])
	}
	// Missing total is reconstructed from pallets x per-pallet, and the
	// article code is upper-cased.
	if lines[1].ArticleCode != "ART2" || lines[1].Quantity != 40 {
		t.Errorf("line 1 = %+v", lines[1])
	}
	if lines[0].SourceFile != "bestellung_kw9.csv" {
		t.Errorf("source file = %q", lines[0].SourceFile)
	}
}

func TestParseOrderFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "OrderMasterSheet"); err != nil {
		t.Fatal(err)
	}
	rows := [][]interface{}{
		{"Materialnummer", "Paletten", "Menge"},
		{"ART1", 2, 80},
		{"ART2", 1, 40},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("OrderMasterSheet", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	lines, err := ParseOrderFile("order.xlsx", buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("ParseOrderFile failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].ArticleCode != "ART1" || lines[0].Pallets != 2 || lines[0].Quantity != 80 {
		t.Errorf("line 0 = %+v", lines[0])
	}
}

func TestParseOrderFileUnsupportedType(t *testing.T) {
	if _, err := ParseOrderFile("order.pdf", []byte("x"), nil); err == nil {
		t.Fatal("expected an error for unsupported file type")
	}
}

func TestParseOrderFileNoUsableRows(t *testing.T) {
	data := []byte("Materialnummer;Paletten;Menge\nART1;0;0\n")
	if _, err := ParseOrderFile("leer.csv", data, nil); err == nil {
		t.Fatal("expected an error when every row is unusable")
	}
}

func TestParseQuantityGermanFormats(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,5", 1234.5},
		{"12,5", 12.5},
		{"1.5", 1.5},
		{"40", 40},
		{"", 0},
		{"abc", 0},
	}
	for _, c := range cases {
		if got := parseQuantity(c.in); got != c.want {
			t.Errorf("parseQuantity(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
