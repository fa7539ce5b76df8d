package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sprintbox/model"
)

// orderSheetNames are sheet names used by the dispatch master workbook;
// when none is present the first sheet is taken.
var orderSheetNames = []string{"OrderMasterSheet", "Order_Master_Sheet"}

// ParseOrderFile reads one uploaded order file (XLSX, or semicolon CSV/TXT)
// into order lines. The column layout is sniffed per file; anchors are
// article codes known from the loaded warehouse table. A failure concerns
// only this file.
func ParseOrderFile(name string, data []byte, anchors []string) ([]model.OrderLine, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		rows, err = readWorkbookRows(data)
	case ".csv", ".txt":
		rows, err = readDelimitedRows(data)
	default:
		return nil, fmt.Errorf("unsupported order file type: %s", name)
	}
	if err != nil {
		return nil, err
	}

	roles, err := SniffColumns(rows, anchors)
	if err != nil {
		return nil, err
	}

	get := func(row []string, idx int) string {
		if idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var lines []model.OrderLine
	for ri := roles.DataStart; ri < len(rows); ri++ {
		row := rows[ri]
		art := strings.ToUpper(get(row, roles.ArticleCol))
		if art == "" || !looksLikeArticleCode(art) {
			continue
		}

		pallets := int(parseQuantity(get(row, roles.PalletsCol)))
		qty := parseQuantity(get(row, roles.QuantityCol))
		perPallet := parseQuantity(get(row, roles.PerPalletCol))

		// A missing total is reconstructed from pallets x per-pallet.
		if qty == 0 && pallets > 0 && perPallet > 0 {
			qty = float64(pallets) * perPallet
		}
		if pallets <= 0 {
			continue
		}

		lines = append(lines, model.OrderLine{
			ArticleCode: art,
			Pallets:     pallets,
			Quantity:    qty,
			SourceFile:  name,
		})
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no usable order rows in %s", name)
	}
	return lines, nil
}

func readWorkbookRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := ""
	for _, want := range orderSheetNames {
		for _, name := range f.GetSheetList() {
			if name == want {
				sheet = name
				break
			}
		}
		if sheet != "" {
			break
		}
	}
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readDelimitedRows(data []byte) ([][]string, error) {
	reader := csv.NewReader(SkipBOM(bytes.NewReader(data)))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading delimited order file: %w", err)
	}
	return rows, nil
}
