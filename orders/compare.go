package orders

import (
	"fmt"
	"sort"
	"strings"

	"sprintbox/config"
	"sprintbox/model"
)

// ComparisonRow contrasts what was ordered with what was actually removed
// for one article.
type ComparisonRow struct {
	ArticleCode    string  `json:"articleCode"`
	OrderedPallets int     `json:"orderedPallets"`
	OrderedQty     float64 `json:"orderedQty"`
	RemovedPallets int     `json:"removedPallets"`
	RemovedQty     float64 `json:"removedQty"`
	DiffPallets    int     `json:"diffPallets"`
	DiffQty        float64 `json:"diffQty"`
	Explanation    string  `json:"explanation"`
}

// Compare joins the order aggregate with the removed pallets of the
// current view (outer join: articles appearing on either side show up)
// and keeps only rows with a discrepancy. Excluded articles are held to
// a stricter bar: they show only when both differences are non-zero.
func Compare(aggs []model.OrderAggregate, removed []model.PalletRecord, excluded config.ExcludedArticles) []ComparisonRow {
	type removedTotals struct {
		pallets map[string]bool
		qty     float64
	}
	removedByArt := make(map[string]*removedTotals)
	for _, r := range removed {
		t, ok := removedByArt[r.ArticleCode]
		if !ok {
			t = &removedTotals{pallets: make(map[string]bool)}
			removedByArt[r.ArticleCode] = t
		}
		t.pallets[r.PalletID] = true
		t.qty += r.Quantity
	}

	rows := make(map[string]*ComparisonRow)
	for _, a := range aggs {
		rows[a.ArticleCode] = &ComparisonRow{
			ArticleCode:    a.ArticleCode,
			OrderedPallets: a.Pallets,
			OrderedQty:     a.Quantity,
		}
	}
	for art, t := range removedByArt {
		row, ok := rows[art]
		if !ok {
			row = &ComparisonRow{ArticleCode: art}
			rows[art] = row
		}
		row.RemovedPallets = len(t.pallets)
		row.RemovedQty = t.qty
	}

	var out []ComparisonRow
	for _, row := range rows {
		row.DiffPallets = row.OrderedPallets - row.RemovedPallets
		row.DiffQty = row.OrderedQty - row.RemovedQty

		if excluded.IsExcluded(row.ArticleCode) {
			if row.DiffPallets == 0 || row.DiffQty == 0 {
				continue
			}
		} else if row.DiffPallets == 0 && row.DiffQty == 0 {
			continue
		}

		row.Explanation = explainDiff(row.DiffPallets, row.DiffQty)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DiffPallets != out[j].DiffPallets {
			return out[i].DiffPallets > out[j].DiffPallets
		}
		return out[i].ArticleCode < out[j].ArticleCode
	})
	return out
}

func explainDiff(diffPallets int, diffQty float64) string {
	var msgs []string
	switch {
	case diffPallets > 0:
		msgs = append(msgs, fmt.Sprintf("%d pallets fewer removed than ordered", diffPallets))
	case diffPallets < 0:
		msgs = append(msgs, fmt.Sprintf("%d pallets more removed than ordered", -diffPallets))
	default:
		msgs = append(msgs, "pallet counts match")
	}
	switch {
	case diffQty > 0:
		msgs = append(msgs, fmt.Sprintf("%d pieces short", int(diffQty)))
	case diffQty < 0:
		msgs = append(msgs, fmt.Sprintf("%d pieces over", int(-diffQty)))
	default:
		msgs = append(msgs, "piece counts match")
	}
	return strings.Join(msgs, ", ")
}
