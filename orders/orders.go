// Package orders aggregates uploaded order files and manual order entries
// into per-article totals and compares them with removed stock.
package orders

import (
	"fmt"
	"sort"
	"strings"

	"sprintbox/model"
	"sprintbox/parsers"
)

// UploadedFile is one order file received from the client.
type UploadedFile struct {
	Name string
	Data []byte
}

// ParseFiles parses every uploaded order file. A file that cannot be
// parsed produces an entry in errs and does not disturb the others.
func ParseFiles(files []UploadedFile, anchors []string) (lines []model.OrderLine, errs []model.OrderParseError) {
	for _, f := range files {
		parsed, err := parsers.ParseOrderFile(f.Name, f.Data, anchors)
		if err != nil {
			errs = append(errs, model.OrderParseError{File: f.Name, Message: err.Error()})
			continue
		}
		lines = append(lines, parsed...)
	}
	return lines, errs
}

// Aggregate sums file lines and manual lines per article. Articles whose
// total pallet count is zero are dropped, matching the file aggregation;
// manual-only articles are kept even with zero pallets so a pure piece
// order still shows up. Output is naturally sorted by article code.
func Aggregate(fileLines, manualLines []model.OrderLine) []model.OrderAggregate {
	type bucket struct {
		pallets    int
		qty        float64
		fileQty    map[string]float64
		manualQty  float64
		fromManual bool
	}
	buckets := make(map[string]*bucket)
	get := func(article string) *bucket {
		b, ok := buckets[article]
		if !ok {
			b = &bucket{fileQty: make(map[string]float64)}
			buckets[article] = b
		}
		return b
	}

	for _, l := range fileLines {
		art := strings.ToUpper(strings.TrimSpace(l.ArticleCode))
		if art == "" {
			continue
		}
		b := get(art)
		b.pallets += l.Pallets
		b.qty += l.Quantity
		b.fileQty[l.SourceFile] += l.Quantity
	}
	for _, l := range manualLines {
		art := strings.ToUpper(strings.TrimSpace(l.ArticleCode))
		if art == "" {
			continue
		}
		b := get(art)
		b.pallets += l.Pallets
		b.qty += l.Quantity
		b.manualQty += l.Quantity
		b.fromManual = true
	}

	var out []model.OrderAggregate
	for art, b := range buckets {
		if b.pallets <= 0 && !b.fromManual {
			continue
		}
		out = append(out, model.OrderAggregate{
			ArticleCode: art,
			Pallets:     b.pallets,
			Quantity:    b.qty,
			Sources:     countSources(b.fileQty, b.manualQty),
			Detail:      describeSources(b.fileQty, b.manualQty),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return NaturalLess(out[i].ArticleCode, out[j].ArticleCode)
	})
	return out
}

func countSources(fileQty map[string]float64, manualQty float64) int {
	n := 0
	for _, q := range fileQty {
		if q != 0 {
			n++
		}
	}
	if manualQty > 0 {
		n++
	}
	return n
}

func describeSources(fileQty map[string]float64, manualQty float64) string {
	names := make([]string, 0, len(fileQty))
	for name, q := range fileQty {
		if q != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s - %d szt.", name, int(fileQty[name])))
	}
	if manualQty > 0 {
		parts = append(parts, fmt.Sprintf("manual - %d szt.", int(manualQty)))
	}
	if len(parts) == 0 {
		return "no order file information"
	}
	return strings.Join(parts, " ; ")
}

// ByFile returns only the lines belonging to one source file, preserving
// file order.
func ByFile(lines []model.OrderLine, sourceFile string) []model.OrderLine {
	var out []model.OrderLine
	for _, l := range lines {
		if l.SourceFile == sourceFile {
			out = append(out, l)
		}
	}
	return out
}

// SourceFiles lists the distinct source files, sorted.
func SourceFiles(lines []model.OrderLine) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lines {
		if !seen[l.SourceFile] {
			seen[l.SourceFile] = true
			out = append(out, l.SourceFile)
		}
	}
	sort.Strings(out)
	return out
}

// AggregateFile sums one file's lines per article, preserving the order
// of first appearance in the file. This is the input shape the removal
// engine works on.
func AggregateFile(lines []model.OrderLine, sourceFile string) []model.OrderAggregate {
	var order []string
	totals := make(map[string]*model.OrderAggregate)
	for _, l := range ByFile(lines, sourceFile) {
		art := strings.ToUpper(strings.TrimSpace(l.ArticleCode))
		if art == "" {
			continue
		}
		agg, ok := totals[art]
		if !ok {
			agg = &model.OrderAggregate{ArticleCode: art}
			totals[art] = agg
			order = append(order, art)
		}
		agg.Pallets += l.Pallets
		agg.Quantity += l.Quantity
	}
	out := make([]model.OrderAggregate, 0, len(order))
	for _, art := range order {
		out = append(out, *totals[art])
	}
	return out
}

// NaturalLess compares article codes so that embedded numbers sort
// numerically ("A2" before "A10").
func NaturalLess(a, b string) bool {
	ai, bi := 0, 0
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	for ai < len(a) && bi < len(b) {
		ca, cb := a[ai], b[bi]
		if isDigit(ca) && isDigit(cb) {
			alen := digitRunLen(a[ai:])
			blen := digitRunLen(b[bi:])
			if c := compareDigitRuns(a[ai:ai+alen], b[bi:bi+blen]); c != 0 {
				return c < 0
			}
			ai += alen
			bi += blen
			continue
		}
		if ca != cb {
			return ca < cb
		}
		ai++
		bi++
	}
	return len(a)-ai < len(b)-bi
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitRunLen(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// compareDigitRuns orders two digit runs numerically without converting
// them, so runs of any length compare correctly.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
