package orders

import (
	"testing"

	"sprintbox/config"
	"sprintbox/model"
)

func removedPallet(article, pid string, qty float64) model.PalletRecord {
	return model.PalletRecord{ArticleCode: article, PalletID: pid, Quantity: qty, IsDeleted: true}
}

func TestCompareOuterJoin(t *testing.T) {
	aggs := []model.OrderAggregate{
		{ArticleCode: "ART1", Pallets: 2, Quantity: 80}, // removed exactly
		{ArticleCode: "ART2", Pallets: 3, Quantity: 99}, // nothing removed
	}
	removed := []model.PalletRecord{
		removedPallet("ART1", "p1", 40),
		removedPallet("ART1", "p2", 40),
		removedPallet("ART9", "p3", 25), // removed without an order
	}

	rows := Compare(aggs, removed, config.ExcludedArticles{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 discrepancy rows, got %d: %+v", len(rows), rows)
	}

	// Sorted by pallet difference, largest shortfall first.
	if rows[0].ArticleCode != "ART2" || rows[0].DiffPallets != 3 || rows[0].DiffQty != 99 {
		t.Errorf("row 0 = %+v, want ART2 short by 3 pallets / 99 pieces", rows[0])
	}
	if rows[1].ArticleCode != "ART9" || rows[1].DiffPallets != -1 || rows[1].DiffQty != -25 {
		t.Errorf("row 1 = %+v, want ART9 over by 1 pallet / 25 pieces", rows[1])
	}
}

func TestCompareCountsDistinctPallets(t *testing.T) {
	aggs := []model.OrderAggregate{{ArticleCode: "ART1", Pallets: 1, Quantity: 100}}
	// The same pallet appears twice in the view; it counts once, while
	// the quantities still sum.
	removed := []model.PalletRecord{
		removedPallet("ART1", "p1", 40),
		removedPallet("ART1", "p1", 40),
	}
	rows := Compare(aggs, removed, config.ExcludedArticles{})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].RemovedPallets != 1 {
		t.Errorf("RemovedPallets = %d, want 1 (distinct pallet IDs)", rows[0].RemovedPallets)
	}
	if rows[0].RemovedQty != 80 {
		t.Errorf("RemovedQty = %v, want 80", rows[0].RemovedQty)
	}
	if rows[0].DiffPallets != 0 || rows[0].DiffQty != 20 {
		t.Errorf("diffs = %d / %v, want 0 / 20", rows[0].DiffPallets, rows[0].DiffQty)
	}
}

func TestCompareExcludedArticles(t *testing.T) {
	excluded := config.ExcludedArticles{Prefixes: []string{"839"}}

	aggs := []model.OrderAggregate{
		// Pallet count matches, quantity does not: excluded articles stay
		// hidden unless both differences are non-zero.
		{ArticleCode: "83901", Pallets: 1, Quantity: 100},
		{ArticleCode: "83902", Pallets: 2, Quantity: 100},
	}
	removed := []model.PalletRecord{
		removedPallet("83901", "p1", 60),
		removedPallet("83902", "p2", 60),
	}

	rows := Compare(aggs, removed, excluded)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d: %+v", len(rows), rows)
	}
	if rows[0].ArticleCode != "83902" {
		t.Errorf("kept %s, want 83902 (both diffs non-zero)", rows[0].ArticleCode)
	}
}
