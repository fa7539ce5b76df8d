// Package filters narrows the loaded pallet table to the rows matching
// the user's current view. All predicates compose by intersection.
package filters

import (
	"strings"
	"time"

	"sprintbox/model"
)

type Mode string

const (
	// ModeReceived filters on the receipt date/time columns.
	ModeReceived Mode = "received"
	// ModeRemoved filters on the removal date/time columns and implies
	// the pallet is actually removed.
	ModeRemoved Mode = "removed"
)

// Params are the user-selected view filters.
type Params struct {
	Mandant  string    `json:"mandant"`
	Mode     Mode      `json:"mode"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	// Articles is an allow-list; empty means all articles.
	Articles []string `json:"articles"`
	// TimeFrom/TimeTo bound the time of day as [from, to); both must be
	// valid for the window to apply.
	TimeFrom model.DayTime `json:"timeFrom"`
	TimeTo   model.DayTime `json:"timeTo"`
}

// Result splits the filtered rows into the full subset and the removed
// subset, mirroring the two tables the views render.
type Result struct {
	Rows    []model.PalletRecord `json:"rows"`
	Removed []model.PalletRecord `json:"removed"`
	// NoArticleRows ignores the article and time-window filters; the
	// comparison metrics are computed over this wider subset so they do
	// not shift with the article selection.
	NoArticleRows []model.PalletRecord `json:"-"`
}

func (p Params) hasTimeWindow() bool {
	return p.TimeFrom.Valid && p.TimeTo.Valid
}

// Matches evaluates the full predicate for one row.
func (p Params) Matches(r model.PalletRecord) bool {
	if !p.matchesBase(r) {
		return false
	}
	if len(p.Articles) > 0 && !p.articleListed(r.ArticleCode) {
		return false
	}
	if p.hasTimeWindow() {
		if !p.timeField(r).InWindow(p.TimeFrom, p.TimeTo) {
			return false
		}
	}
	return true
}

// matchesBase is the mandant/date/mode part shared with the
// article-independent subset.
func (p Params) matchesBase(r model.PalletRecord) bool {
	if r.Mandant != p.Mandant {
		return false
	}
	if p.Mode == ModeRemoved && !r.IsDeleted {
		return false
	}
	d := p.dateField(r)
	if d.IsZero() {
		return false
	}
	if d.Before(p.DateFrom) || d.After(p.DateTo) {
		return false
	}
	return true
}

func (p Params) dateField(r model.PalletRecord) time.Time {
	if p.Mode == ModeRemoved {
		return r.OutDate
	}
	return r.InDate
}

func (p Params) timeField(r model.PalletRecord) model.DayTime {
	if p.Mode == ModeRemoved {
		return r.OutTime
	}
	return r.InTime
}

func (p Params) articleListed(article string) bool {
	for _, a := range p.Articles {
		if strings.ToUpper(strings.TrimSpace(a)) == article {
			return true
		}
	}
	return false
}

// Apply filters the table. Rows and Removed honor every predicate;
// NoArticleRows honors only mandant, date range and mode.
func Apply(table *model.PalletTable, p Params) Result {
	var res Result
	if table == nil {
		return res
	}
	for _, r := range table.Rows {
		if p.matchesBase(r) {
			res.NoArticleRows = append(res.NoArticleRows, r)
		}
		if !p.Matches(r) {
			continue
		}
		res.Rows = append(res.Rows, r)
		if r.IsDeleted {
			res.Removed = append(res.Removed, r)
		}
	}
	return res
}
