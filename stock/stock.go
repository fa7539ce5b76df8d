// Package stock answers "what was physically in the warehouse at the
// start of a given day": snapshot reconstruction from the movement table,
// per-article aggregation and a daily history series.
package stock

import (
	"sort"
	"time"

	"sprintbox/config"
	"sprintbox/model"
)

// Packaging class labels, as the dispatch side names them.
const (
	ClassCarton = "Kartony"
	ClassOther  = "Inne opakowania"
)

// Row is one pallet in a snapshot with its packaging class attached.
type Row struct {
	model.PalletRecord
	Packaging string `json:"packaging"`
}

// ArticleTotal aggregates a snapshot per article.
type ArticleTotal struct {
	ArticleCode string  `json:"articleCode"`
	Description string  `json:"description"`
	Packaging   string  `json:"packaging"`
	Pallets     int     `json:"pallets"`
	Quantity    float64 `json:"quantity"`
}

// HistoryPoint is one day of the stock history series.
type HistoryPoint struct {
	Date         time.Time `json:"date"`
	TotalPallets int       `json:"totalPallets"`
	Cartons      int       `json:"cartons"`
	Other        int       `json:"other"`
}

// Snapshot reconstructs the stock at the start of day: pallets received
// strictly before it and either still in stock or removed on/after it.
// The result is de-duplicated by pallet ID keeping the latest receipt,
// and optionally narrowed to an article allow-list.
func Snapshot(table *model.PalletTable, mandant string, articles []string, day time.Time, packaging config.Packaging) []Row {
	if table == nil {
		return nil
	}
	day = truncateDay(day)

	allow := make(map[string]bool, len(articles))
	for _, a := range articles {
		allow[a] = true
	}

	latest := make(map[string]model.PalletRecord)
	for _, r := range table.Rows {
		if r.Mandant != mandant {
			continue
		}
		if r.InDate.IsZero() || !truncateDay(r.InDate).Before(day) {
			continue
		}
		inStock := r.StatusCode == model.StatusInStock
		removedLater := !r.OutDate.IsZero() && !truncateDay(r.OutDate).Before(day)
		if !inStock && !removedLater {
			continue
		}
		if len(allow) > 0 && !allow[r.ArticleCode] {
			continue
		}
		prev, ok := latest[r.PalletID]
		if !ok || r.InDate.After(prev.InDate) {
			latest[r.PalletID] = r
		}
	}

	rows := make([]Row, 0, len(latest))
	for _, r := range latest {
		class := ClassOther
		if packaging.IsCarton(r.ArticleCode) {
			class = ClassCarton
		}
		rows = append(rows, Row{PalletRecord: r, Packaging: class})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ArticleCode != rows[j].ArticleCode {
			return rows[i].ArticleCode < rows[j].ArticleCode
		}
		return rows[i].PalletID < rows[j].PalletID
	})
	return rows
}

// AggregateByArticle sums a snapshot per article, largest pallet count
// first.
func AggregateByArticle(rows []Row) []ArticleTotal {
	type key struct {
		article, description, packaging string
	}
	totals := make(map[key]*ArticleTotal)
	var order []key
	for _, r := range rows {
		k := key{r.ArticleCode, r.Description, r.Packaging}
		t, ok := totals[k]
		if !ok {
			t = &ArticleTotal{ArticleCode: r.ArticleCode, Description: r.Description, Packaging: r.Packaging}
			totals[k] = t
			order = append(order, k)
		}
		t.Pallets++
		t.Quantity += r.Quantity
	}
	out := make([]ArticleTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *totals[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pallets != out[j].Pallets {
			return out[i].Pallets > out[j].Pallets
		}
		return out[i].ArticleCode < out[j].ArticleCode
	})
	return out
}

// History builds the daily stock series over [from, to]. With cartonsOnly
// the total only counts carton pallets, matching the dispatch view for
// mandants that track cartons.
func History(table *model.PalletTable, mandant string, articles []string, from, to time.Time, cartonsOnly bool, packaging config.Packaging) []HistoryPoint {
	from, to = truncateDay(from), truncateDay(to)
	if from.After(to) {
		from, to = to, from
	}

	var points []HistoryPoint
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		rows := Snapshot(table, mandant, articles, day, packaging)
		p := HistoryPoint{Date: day}
		for _, r := range rows {
			if r.Packaging == ClassCarton {
				p.Cartons++
			} else {
				p.Other++
			}
		}
		if cartonsOnly {
			p.TotalPallets = p.Cartons
		} else {
			p.TotalPallets = p.Cartons + p.Other
		}
		points = append(points, p)
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
