// Package removal implements the pallet removal tool: for each ordered
// article it picks the in-stock pallets whose count and quantity best
// satisfy the order, preferring reception/blocking locations and oldest
// receipts.
package removal

import (
	"math"
	"sort"
	"strings"

	"sprintbox/config"
	"sprintbox/model"
)

// StockPallet is one in-stock pallet with its location tier precomputed,
// the unit the engine selects from.
type StockPallet struct {
	model.PalletRecord
	Tier int `json:"tier"`
}

// LocationTier buckets a storage location code:
// 0 for reception/blocking areas, 1 for standard racks, 2 for the rest.
// Lower is preferred.
func LocationTier(location string, s config.Strategies) int {
	loc := strings.ToUpper(strings.TrimSpace(location))
	for _, p := range s.ReceptionPrefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(loc, p) {
			return 0
		}
	}
	for _, p := range s.RackPrefixes {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" && strings.HasPrefix(loc, p) {
			return 1
		}
	}
	return 2
}

// BuildWorkingStock extracts the in-stock pallets from a loaded table and
// computes their location tiers once, for reuse across interactions.
func BuildWorkingStock(table *model.PalletTable, s config.Strategies) []StockPallet {
	if table == nil {
		return nil
	}
	var out []StockPallet
	for _, r := range table.Rows {
		if r.StatusCode != model.StatusInStock {
			continue
		}
		out = append(out, StockPallet{PalletRecord: r, Tier: LocationTier(r.Location, s)})
	}
	return out
}

// ExcludePIDs drops already-committed pallets from the working stock.
func ExcludePIDs(stock []StockPallet, removed []string) []StockPallet {
	if len(removed) == 0 {
		return stock
	}
	gone := make(map[string]bool, len(removed))
	for _, id := range removed {
		gone[id] = true
	}
	var out []StockPallet
	for _, p := range stock {
		if !gone[p.PalletID] {
			out = append(out, p)
		}
	}
	return out
}

// sortCommon orders candidates by (location tier, receipt date), the
// shared base order of all strategies. The sort is stable so equal keys
// keep their upload order.
func sortCommon(candidates []StockPallet) []StockPallet {
	sorted := make([]StockPallet, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Tier != sorted[j].Tier {
			return sorted[i].Tier < sorted[j].Tier
		}
		return sorted[i].InDate.Before(sorted[j].InDate)
	})
	return sorted
}

// pickByStructure (strategy A) prefers pallets whose own quantity is
// closest to the order's implied per-pallet quantity, tie-broken by tier
// then receipt date, and takes the ordered pallet count. Returns the
// picked IDs and the absolute quantity error.
func pickByStructure(candidates []StockPallet, pallets int, qtyPerPallet, targetQty float64) ([]string, float64) {
	sorted := make([]StockPallet, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := math.Abs(sorted[i].Quantity - qtyPerPallet)
		dj := math.Abs(sorted[j].Quantity - qtyPerPallet)
		if di != dj {
			return di < dj
		}
		if sorted[i].Tier != sorted[j].Tier {
			return sorted[i].Tier < sorted[j].Tier
		}
		return sorted[i].InDate.Before(sorted[j].InDate)
	})

	if pallets > len(sorted) {
		pallets = len(sorted)
	}
	if pallets < 0 {
		pallets = 0
	}
	var ids []string
	total := 0.0
	for _, c := range sorted[:pallets] {
		ids = append(ids, c.PalletID)
		total += c.Quantity
	}
	return ids, math.Abs(total - targetQty)
}

// pickByAccumulation (strategy B) walks the common order accumulating
// quantity, keeps the best prefix seen, and stops once the target is
// reached so it never overshoots by continuing. With no candidates or a
// non-positive target the error is the target itself, i.e. as bad as
// selecting nothing.
func pickByAccumulation(sortedCommon []StockPallet, targetQty float64) ([]string, float64) {
	if len(sortedCommon) == 0 || targetQty <= 0 {
		return nil, targetQty
	}

	var best []string
	bestErr := math.Inf(1)
	var walk []string
	total := 0.0
	for _, c := range sortedCommon {
		walk = append(walk, c.PalletID)
		total += c.Quantity
		if err := math.Abs(total - targetQty); err < bestErr {
			bestErr = err
			best = append([]string(nil), walk...)
		}
		if total >= targetQty {
			break
		}
	}
	if len(best) == 0 {
		return nil, targetQty
	}
	return best, bestErr
}

// suggestForArticle runs the per-article algorithm: pallet-priority
// articles take the head of the common order ignoring quantity; everyone
// else gets the better of the two strategies, with strategy A winning
// ties to avoid inflating the pallet count.
func suggestForArticle(candidates []StockPallet, agg model.OrderAggregate, palletPriority bool) []string {
	common := sortCommon(candidates)

	if palletPriority {
		n := agg.Pallets
		if n > len(common) {
			n = len(common)
		}
		if n < 0 {
			n = 0
		}
		var ids []string
		for _, c := range common[:n] {
			ids = append(ids, c.PalletID)
		}
		return ids
	}

	idsA, errA := pickByStructure(candidates, agg.Pallets, agg.QtyPerPallet(), agg.Quantity)
	idsB, errB := pickByAccumulation(common, agg.Quantity)
	if errB < errA {
		return idsB
	}
	return idsA
}
