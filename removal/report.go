package removal

import (
	"fmt"
	"math"
	"strings"

	"sprintbox/config"
	"sprintbox/model"
)

// Engine evaluates order aggregates against the session's working stock
// under the currently configured strategies.
type Engine struct {
	Strategies config.Strategies
	Packaging  config.Packaging
	// Tolerance is the absolute quantity difference still counted as a
	// match.
	Tolerance float64
}

func NewEngine(strategies config.Strategies, packaging config.Packaging, tolerance float64) *Engine {
	if tolerance <= 0 {
		tolerance = 0.1
	}
	return &Engine{Strategies: strategies, Packaging: packaging, Tolerance: tolerance}
}

// BuildReport computes the full removal report for one order file's
// aggregates. selections overrides the suggested pallet set per article
// (the user's edit is authoritative); articles absent from selections
// keep the suggestion.
func (e *Engine) BuildReport(stock []StockPallet, aggs []model.OrderAggregate, selections map[string][]string) model.RemovalReport {
	var report model.RemovalReport

	byArticle := make(map[string][]StockPallet)
	for _, p := range stock {
		byArticle[p.ArticleCode] = append(byArticle[p.ArticleCode], p)
	}

	seenPID := make(map[string]bool)
	for _, agg := range aggs {
		candidates := byArticle[agg.ArticleCode]
		isCarton := e.Packaging.IsCarton(agg.ArticleCode)
		palletPriority := e.Strategies.IsPalletPriority(agg.ArticleCode)

		var suggested []string
		if !isCarton {
			suggested = suggestForArticle(candidates, agg, palletPriority)
		}

		suggestion := model.ArticleSuggestion{
			ArticleCode:    agg.ArticleCode,
			TargetPallets:  agg.Pallets,
			TargetQty:      agg.Quantity,
			QtyPerPallet:   agg.QtyPerPallet(),
			IsCarton:       isCarton,
			PalletPriority: palletPriority,
			SuggestedPIDs:  suggested,
		}
		for _, c := range candidates {
			suggestion.Candidates = append(suggestion.Candidates, model.RemovalCandidate{
				PalletID:        c.PalletID,
				Quantity:        c.Quantity,
				Location:        c.Location,
				LocationDisplay: FormatLocation(c.Location),
			})
		}
		report.Suggestions = append(report.Suggestions, suggestion)

		selected := suggested
		if override, ok := selections[agg.ArticleCode]; ok {
			selected = validSelection(override, candidates)
		}

		check := e.Check(candidates, agg, selected, palletPriority)
		report.Checks = append(report.Checks, check)

		if check.SelectedCount == 0 {
			report.EmptyArticles = append(report.EmptyArticles, agg.ArticleCode)
		}
		report.Summary = append(report.Summary, model.SummaryRow{
			ArticleCode: agg.ArticleCode,
			OrderedQty:  agg.Quantity,
			SelectedQty: check.SelectedQty,
			Difference:  check.SelectedQty - agg.Quantity,
		})

		for _, pid := range selected {
			if !seenPID[pid] {
				seenPID[pid] = true
				report.FinalPIDs = append(report.FinalPIDs, pid)
			}
		}
	}

	return report
}

// Check evaluates one article's selection against its order targets.
// Which match governs success depends on the strategy: pallet-priority
// articles are judged on the pallet count, everyone else on the quantity.
func (e *Engine) Check(candidates []StockPallet, agg model.OrderAggregate, selected []string, palletPriority bool) model.SelectionCheck {
	qtyByPID := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		qtyByPID[c.PalletID] = c.Quantity
	}
	total := 0.0
	count := 0
	for _, pid := range selected {
		if q, ok := qtyByPID[pid]; ok {
			total += q
			count++
		}
	}

	check := model.SelectionCheck{
		ArticleCode:    agg.ArticleCode,
		TargetPallets:  agg.Pallets,
		TargetQty:      agg.Quantity,
		SelectedCount:  count,
		SelectedQty:    total,
		PalletsMatch:   count == agg.Pallets,
		QtyMatch:       math.Abs(total-agg.Quantity) < e.Tolerance,
		PalletPriority: palletPriority,
	}
	if palletPriority {
		check.Satisfied = check.PalletsMatch
	} else {
		check.Satisfied = check.QtyMatch
	}
	return check
}

// validSelection keeps only pallet IDs that actually exist among the
// article's candidates, preserving the user's order.
func validSelection(selected []string, candidates []StockPallet) []string {
	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.PalletID] = true
	}
	var out []string
	for _, pid := range selected {
		if known[pid] {
			out = append(out, pid)
		}
	}
	return out
}

// FormatLocation renders rack codes starting with "02" as grouped
// segments (021234567 -> 12-345-67) for readability; other codes pass
// through unchanged.
func FormatLocation(location string) string {
	loc := strings.TrimSpace(location)
	if !strings.HasPrefix(loc, "02") {
		return loc
	}
	clean := loc[2:]
	switch {
	case len(clean) > 5:
		return fmt.Sprintf("%s-%s-%s", clean[:2], clean[2:5], clean[5:])
	case len(clean) > 2:
		return fmt.Sprintf("%s-%s", clean[:2], clean[2:])
	default:
		return clean
	}
}
