package model

import (
	"fmt"
	"sort"
	"time"
)

// StatusInStock is the ZUSTAND code for a pallet that is physically
// present in the warehouse. Every other code counts as removed.
const StatusInStock = "401"

// DayTime is a time of day without a date, parsed from HH:MM:SS columns.
// The zero value means "absent" (the source cell was empty or unparseable).
type DayTime struct {
	Seconds int  `json:"seconds"`
	Valid   bool `json:"valid"`
}

func NewDayTime(hour, min, sec int) DayTime {
	return DayTime{Seconds: hour*3600 + min*60 + sec, Valid: true}
}

func (t DayTime) String() string {
	if !t.Valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Seconds/3600, (t.Seconds/60)%60, t.Seconds%60)
}

// InWindow reports whether t falls into the half-open window [from, to).
func (t DayTime) InWindow(from, to DayTime) bool {
	if !t.Valid {
		return false
	}
	return t.Seconds >= from.Seconds && t.Seconds < to.Seconds
}

// PalletRecord is one physical pallet unit from the warehouse export.
// Field names follow the internal English names the German source columns
// are mapped to at load time.
type PalletRecord struct {
	Mandant     string    `json:"mandant"`
	ArticleCode string    `json:"articleCode"` // ARTIKELNR, trimmed and upper-cased
	Description string    `json:"description"` // ARTBEZ1
	Quantity    float64   `json:"quantity"`
	PalletID    string    `json:"palletId"` // LHMNR
	StatusCode  string    `json:"statusCode"` // ZUSTAND
	Location    string    `json:"location"`   // PLATZ
	Charge      string    `json:"charge"`     // CHARGE1
	CreatedBy   string    `json:"createdBy"`
	InDate      time.Time `json:"inDate"`
	InTime      DayTime   `json:"inTime"`
	OutDate     time.Time `json:"outDate"`
	OutTime     DayTime   `json:"outTime"`
	ChangedDate time.Time `json:"changedDate"`
	ChangedTime DayTime   `json:"changedTime"`
	IsDeleted   bool      `json:"isDeleted"`
}

// PalletTable is the normalized result of one upload, immutable for the
// session. Signature changes whenever a different file is loaded and is
// used to reset derived working state.
type PalletTable struct {
	Rows      []PalletRecord `json:"rows"`
	Signature string         `json:"signature"`
}

func (t *PalletTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Mandants returns the distinct mandant codes in the table, sorted.
func (t *PalletTable) Mandants() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		if !seen[r.Mandant] {
			seen[r.Mandant] = true
			out = append(out, r.Mandant)
		}
	}
	sort.Strings(out)
	return out
}

// ArticleCodes returns the distinct article codes for one mandant, sorted.
func (t *PalletTable) ArticleCodes(mandant string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		if r.Mandant != mandant || r.ArticleCode == "" {
			continue
		}
		if !seen[r.ArticleCode] {
			seen[r.ArticleCode] = true
			out = append(out, r.ArticleCode)
		}
	}
	sort.Strings(out)
	return out
}
