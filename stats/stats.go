// Package stats computes the dashboard summaries over a loaded pallet
// table: monthly received and removed flows, top articles for a window,
// and stagnant stock that has been sitting past a threshold.
package stats

import (
	"sort"
	"time"

	"sprintbox/model"
)

// MonthlyRow is one month of pallet flow for a mandant.
type MonthlyRow struct {
	Month       string  `json:"month"` // "2006-01"
	Received    int     `json:"received"`
	Removed     int     `json:"removed"`
	ReceivedQty float64 `json:"receivedQty"`
	RemovedQty  float64 `json:"removedQty"`
}

// Monthly buckets receipts by InDate and removals by OutDate over
// [from, to]. Months with no movement in either direction are omitted.
func Monthly(table *model.PalletTable, mandant string, from, to time.Time) []MonthlyRow {
	buckets := make(map[string]*MonthlyRow)
	add := func(day time.Time) *MonthlyRow {
		key := day.Format("2006-01")
		row, ok := buckets[key]
		if !ok {
			row = &MonthlyRow{Month: key}
			buckets[key] = row
		}
		return row
	}

	for _, r := range table.Rows {
		if r.Mandant != mandant {
			continue
		}
		if inWindow(r.InDate, from, to) {
			row := add(r.InDate)
			row.Received++
			row.ReceivedQty += r.Quantity
		}
		if r.IsDeleted && inWindow(r.OutDate, from, to) {
			row := add(r.OutDate)
			row.Removed++
			row.RemovedQty += r.Quantity
		}
	}

	out := make([]MonthlyRow, 0, len(buckets))
	for _, row := range buckets {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopArticle is one line of a top-N ranking.
type TopArticle struct {
	ArticleCode string  `json:"articleCode"`
	Description string  `json:"description"`
	Pallets     int     `json:"pallets"`
	Quantity    float64 `json:"quantity"`
}

// TopReceived ranks articles by pallets received in [from, to].
func TopReceived(table *model.PalletTable, mandant string, from, to time.Time, limit int) []TopArticle {
	return topBy(table, mandant, limit, func(r model.PalletRecord) bool {
		return inWindow(r.InDate, from, to)
	})
}

// TopRemoved ranks articles by pallets removed in [from, to].
func TopRemoved(table *model.PalletTable, mandant string, from, to time.Time, limit int) []TopArticle {
	return topBy(table, mandant, limit, func(r model.PalletRecord) bool {
		return r.IsDeleted && inWindow(r.OutDate, from, to)
	})
}

func topBy(table *model.PalletTable, mandant string, limit int, match func(model.PalletRecord) bool) []TopArticle {
	totals := make(map[string]*TopArticle)
	for _, r := range table.Rows {
		if r.Mandant != mandant || r.ArticleCode == "" || !match(r) {
			continue
		}
		t, ok := totals[r.ArticleCode]
		if !ok {
			t = &TopArticle{ArticleCode: r.ArticleCode, Description: r.Description}
			totals[r.ArticleCode] = t
		}
		t.Pallets++
		t.Quantity += r.Quantity
	}

	out := make([]TopArticle, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pallets != out[j].Pallets {
			return out[i].Pallets > out[j].Pallets
		}
		return out[i].ArticleCode < out[j].ArticleCode
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// StagnantRow is one in-stock pallet older than the threshold.
type StagnantRow struct {
	model.PalletRecord
	AgeDays int `json:"ageDays"`
}

// Stagnant lists in-stock pallets received more than olderThanDays before
// asOf, oldest first.
func Stagnant(table *model.PalletTable, mandant string, olderThanDays int, asOf time.Time) []StagnantRow {
	cutoff := asOf.AddDate(0, 0, -olderThanDays)
	var out []StagnantRow
	for _, r := range table.Rows {
		if r.Mandant != mandant || r.IsDeleted || r.InDate.IsZero() {
			continue
		}
		if r.InDate.Before(cutoff) {
			age := int(asOf.Sub(r.InDate).Hours() / 24)
			out = append(out, StagnantRow{PalletRecord: r, AgeDays: age})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InDate.Before(out[j].InDate) })
	return out
}

func inWindow(day, from, to time.Time) bool {
	if day.IsZero() {
		return false
	}
	return !day.Before(from) && !day.After(to)
}
