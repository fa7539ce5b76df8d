package parsers

import (
	"fmt"
	"strings"
)

// ColumnRoles is the sniffer's verdict on a loosely structured order
// sheet: which column holds article codes, which the pallet count, which
// the total quantity, and (optionally) which the per-pallet quantity.
// Column indexes are 0-based; PerPalletCol is -1 when not found.
type ColumnRoles struct {
	DataStart    int `json:"dataStart"`
	ArticleCol   int `json:"articleCol"`
	PalletsCol   int `json:"palletsCol"`
	QuantityCol  int `json:"quantityCol"`
	PerPalletCol int `json:"perPalletCol"`
}

// knownArticleHeaders are header strings that directly identify the
// article column in order files from the dispatch side.
var knownArticleHeaders = []string{
	"MATERIALNUMMER",
	"NR MATERIAU",
	"ARTIKELNR",
	"ARTIKELNUMMER",
	"ARTYKUL",
}

// typicalPerPalletValues are piece-per-pallet counts commonly seen in
// dispatch sheets; a numeric column dominated by them is read as the
// per-pallet column.
var typicalPerPalletValues = map[float64]bool{
	11: true, 22: true, 26: true, 33: true,
	40: true, 44: true, 48: true, 96: true,
}

// maxPlausiblePallets bounds what the sniffer accepts as a pallet count.
const maxPlausiblePallets = 32

// headerScanRows is how deep the sniffer looks for a header row before
// falling back to anchor matching.
const headerScanRows = 10

// SniffColumns guesses the column layout of an order sheet. Detection is
// staged: a known header string wins, otherwise the column that best
// matches the anchor article codes (normally the codes present in the
// loaded warehouse table), then the numeric columns to the right are
// classified by value shape. Returns an error when no layout can be
// established.
func SniffColumns(rows [][]string, anchors []string) (ColumnRoles, error) {
	roles := ColumnRoles{ArticleCol: -1, PalletsCol: -1, QuantityCol: -1, PerPalletCol: -1}
	if len(rows) == 0 {
		return roles, fmt.Errorf("sheet is empty")
	}

	// Stage 1: header string match.
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for ri := 0; ri < limit && roles.ArticleCol < 0; ri++ {
		for ci, cell := range rows[ri] {
			v := strings.ToUpper(strings.TrimSpace(cell))
			for _, h := range knownArticleHeaders {
				if v == h {
					roles.ArticleCol = ci
					roles.DataStart = ri + 1
					break
				}
			}
			if roles.ArticleCol >= 0 {
				break
			}
		}
	}

	// Stage 2: anchor value match.
	if roles.ArticleCol < 0 {
		anchorSet := make(map[string]bool, len(anchors))
		for _, a := range anchors {
			anchorSet[strings.ToUpper(strings.TrimSpace(a))] = true
		}
		bestCol, bestHits, bestFirst := -1, 0, 0
		width := sheetWidth(rows)
		for ci := 0; ci < width; ci++ {
			hits, first := 0, -1
			for ri, row := range rows {
				if ci >= len(row) {
					continue
				}
				v := strings.ToUpper(strings.TrimSpace(row[ci]))
				if v == "" || !looksLikeArticleCode(v) {
					continue
				}
				if anchorSet[v] {
					hits++
					if first < 0 {
						first = ri
					}
				}
			}
			if hits > bestHits {
				bestCol, bestHits, bestFirst = ci, hits, first
			}
		}
		if bestCol < 0 {
			return roles, fmt.Errorf("no article column found (no header match, no anchor match)")
		}
		roles.ArticleCol = bestCol
		roles.DataStart = bestFirst
	}

	if roles.DataStart >= len(rows) {
		return roles, fmt.Errorf("no data rows below the detected header")
	}

	// Stage 3: classify up to five columns right of the article column.
	type numericCol struct {
		index   int
		values  []float64
		allInts bool
	}
	var numeric []numericCol
	width := sheetWidth(rows)
	for ci := roles.ArticleCol + 1; ci < width && ci <= roles.ArticleCol+5; ci++ {
		var vals []float64
		nonEmpty := 0
		allInts := true
		for ri := roles.DataStart; ri < len(rows); ri++ {
			if ci >= len(rows[ri]) {
				continue
			}
			cell := strings.TrimSpace(rows[ri][ci])
			if cell == "" {
				continue
			}
			nonEmpty++
			v := parseQuantity(cell)
			if v == 0 && cell != "0" && !strings.HasPrefix(cell, "0,") && !strings.HasPrefix(cell, "0.") {
				continue
			}
			if v != float64(int64(v)) {
				allInts = false
			}
			vals = append(vals, v)
		}
		// A column counts as numeric when most of its filled cells parse.
		if nonEmpty > 0 && len(vals)*2 >= nonEmpty {
			numeric = append(numeric, numericCol{index: ci, values: vals, allInts: allInts})
		}
	}
	if len(numeric) == 0 {
		return roles, fmt.Errorf("no numeric quantity columns right of the article column")
	}

	// Pallet counts are small integers.
	for _, nc := range numeric {
		if !nc.allInts {
			continue
		}
		small := true
		for _, v := range nc.values {
			if v < 0 || v > maxPlausiblePallets {
				small = false
				break
			}
		}
		if small {
			roles.PalletsCol = nc.index
			break
		}
	}

	// Per-pallet quantities match the typical value set.
	for _, nc := range numeric {
		if nc.index == roles.PalletsCol {
			continue
		}
		typical := 0
		for _, v := range nc.values {
			if typicalPerPalletValues[v] {
				typical++
			}
		}
		if len(nc.values) > 0 && typical*2 > len(nc.values) {
			roles.PerPalletCol = nc.index
			break
		}
	}

	// Total quantity is the remaining numeric column.
	for _, nc := range numeric {
		if nc.index != roles.PalletsCol && nc.index != roles.PerPalletCol {
			roles.QuantityCol = nc.index
			break
		}
	}

	if roles.PalletsCol < 0 && roles.QuantityCol < 0 {
		return roles, fmt.Errorf("could not classify any column as pallets or quantity")
	}
	// With a single numeric column, read it as the quantity.
	if roles.QuantityCol < 0 && roles.PerPalletCol < 0 && roles.PalletsCol >= 0 && len(numeric) == 1 {
		roles.QuantityCol = roles.PalletsCol
		roles.PalletsCol = -1
	}

	roles.maybeSwapPalletsAndQuantity(rows)
	return roles, nil
}

// maybeSwapPalletsAndQuantity corrects a misassignment: when the supposed
// pallet count exceeds the supposed quantity on most rows where both are
// positive, the two columns were the other way around.
func (roles *ColumnRoles) maybeSwapPalletsAndQuantity(rows [][]string) {
	if roles.PalletsCol < 0 || roles.QuantityCol < 0 {
		return
	}
	larger, both := 0, 0
	for ri := roles.DataStart; ri < len(rows); ri++ {
		row := rows[ri]
		if roles.PalletsCol >= len(row) || roles.QuantityCol >= len(row) {
			continue
		}
		p := parseQuantity(row[roles.PalletsCol])
		q := parseQuantity(row[roles.QuantityCol])
		if p > 0 && q > 0 {
			both++
			if p > q {
				larger++
			}
		}
	}
	if both > 0 && larger*2 > both {
		roles.PalletsCol, roles.QuantityCol = roles.QuantityCol, roles.PalletsCol
	}
}

func looksLikeArticleCode(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == ' ':
		default:
			return false
		}
	}
	return true
}

func sheetWidth(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
