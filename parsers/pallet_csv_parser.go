package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"sprintbox/model"
)

// requiredColumns are the German header names the warehouse export must
// carry. Lookup is case-insensitive after trimming.
var requiredColumns = []string{
	"MANDANT", "ARTIKELNR", "ARTBEZ1", "QUANTITY", "LHMNR", "ZUSTAND",
	"PLATZ", "CHARGE1", "ANGELEGT AM", "ANGELEGT UM", "ANGELEGT VON",
	"GEANDERT AM", "GEANDERT UM", "BEWEGUNG AM", "BEWEGUNG UM",
}

// ParsePalletCSV loads the semicolon-delimited warehouse export into a
// normalized pallet table. The file is read as UTF-8 with a Latin-1
// fallback. Any missing required column aborts the load with an error
// naming the columns; no partial table is returned.
func ParsePalletCSV(r io.Reader) (*model.PalletTable, error) {
	raw, err := io.ReadAll(SkipBOM(r))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if !utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("file is neither valid UTF-8 nor Latin-1: %w", err)
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, name := range header {
		colIndex[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, req := range requiredColumns {
		if _, ok := colIndex[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []model.PalletRecord
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: CSV line %d unreadable (skipped): %v", line, err)
			continue
		}

		get := func(name string) string {
			idx := colIndex[name]
			if idx < len(rec) {
				return strings.TrimSpace(rec[idx])
			}
			return ""
		}

		row := model.PalletRecord{
			Mandant:     get("MANDANT"),
			ArticleCode: strings.ToUpper(get("ARTIKELNR")),
			Description: get("ARTBEZ1"),
			Quantity:    parseQuantity(get("QUANTITY")),
			PalletID:    get("LHMNR"),
			StatusCode:  get("ZUSTAND"),
			Location:    get("PLATZ"),
			Charge:      get("CHARGE1"),
			CreatedBy:   get("ANGELEGT VON"),
			InDate:      parseDate(get("ANGELEGT AM")),
			InTime:      parseDayTime(get("ANGELEGT UM")),
			OutDate:     parseDate(get("BEWEGUNG AM")),
			OutTime:     parseDayTime(get("BEWEGUNG UM")),
			ChangedDate: parseDate(get("GEANDERT AM")),
			ChangedTime: parseDayTime(get("GEANDERT UM")),
		}
		row.IsDeleted = row.StatusCode != model.StatusInStock

		// An in-stock pallet keeps no removal timestamp even when the
		// source carries one: the movement columns then hold the last
		// modification, not a removal.
		if !row.IsDeleted {
			row.OutDate = time.Time{}
			row.OutTime = model.DayTime{}
		}

		rows = append(rows, row)
	}

	return &model.PalletTable{
		Rows:      rows,
		Signature: fmt.Sprintf("%dx%d", len(rows), len(requiredColumns)),
	}, nil
}
