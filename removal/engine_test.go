package removal

import (
	"reflect"
	"testing"
	"time"

	"sprintbox/config"
	"sprintbox/model"
)

func testStrategies() config.Strategies {
	return config.Strategies{
		PalletPriority:    config.PrefixStrategy{Prefixes: []string{"202671"}},
		ReceptionPrefixes: []string{"WE", "BL"},
		RackPrefixes:      []string{"2", "02"},
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func pallet(article, pid string, qty float64, location, inDate string) StockPallet {
	rec := model.PalletRecord{
		ArticleCode: article,
		PalletID:    pid,
		Quantity:    qty,
		Location:    location,
		StatusCode:  model.StatusInStock,
		InDate:      day(inDate),
	}
	return StockPallet{PalletRecord: rec, Tier: LocationTier(location, testStrategies())}
}

func TestLocationTier(t *testing.T) {
	s := testStrategies()
	cases := []struct {
		location string
		want     int
	}{
		{"WE01", 0},
		{"BL-AREA", 0},
		{"we01", 0},
		{"021234567", 1},
		{"2A55", 1},
		{"HALLE9", 2},
		{"", 2},
	}
	for _, c := range cases {
		if got := LocationTier(c.location, s); got != c.want {
			t.Errorf("LocationTier(%q) = %d, want %d", c.location, got, c.want)
		}
	}
}

func TestBuildWorkingStockSkipsRemoved(t *testing.T) {
	table := &model.PalletTable{Rows: []model.PalletRecord{
		{PalletID: "A", StatusCode: model.StatusInStock, Location: "WE01"},
		{PalletID: "B", StatusCode: "950", Location: "WE01", IsDeleted: true},
		{PalletID: "C", StatusCode: model.StatusInStock, Location: "HALLE"},
	}}
	stock := BuildWorkingStock(table, testStrategies())
	if len(stock) != 2 {
		t.Fatalf("expected 2 in-stock pallets, got %d", len(stock))
	}
	if stock[0].PalletID != "A" || stock[1].PalletID != "C" {
		t.Errorf("unexpected stock order: %s, %s", stock[0].PalletID, stock[1].PalletID)
	}
	if stock[0].Tier != 0 || stock[1].Tier != 2 {
		t.Errorf("unexpected tiers: %d, %d", stock[0].Tier, stock[1].Tier)
	}
}

func TestExcludePIDs(t *testing.T) {
	stock := []StockPallet{
		pallet("X", "P1", 10, "WE01", "2026-01-01"),
		pallet("X", "P2", 10, "WE01", "2026-01-02"),
		pallet("X", "P3", 10, "WE01", "2026-01-03"),
	}
	got := ExcludePIDs(stock, []string{"P2", "P9"})
	if len(got) != 2 || got[0].PalletID != "P1" || got[1].PalletID != "P3" {
		t.Errorf("ExcludePIDs kept wrong pallets: %+v", got)
	}
	if same := ExcludePIDs(stock, nil); len(same) != 3 {
		t.Errorf("empty exclusion must keep all pallets, got %d", len(same))
	}
}

func TestSortCommonTierThenDate(t *testing.T) {
	stock := []StockPallet{
		pallet("X", "rack-old", 10, "021111111", "2026-01-01"),
		pallet("X", "we-new", 10, "WE01", "2026-03-01"),
		pallet("X", "we-old", 10, "WE02", "2026-01-15"),
		pallet("X", "hall", 10, "HALLE", "2025-12-01"),
	}
	sorted := sortCommon(stock)
	want := []string{"we-old", "we-new", "rack-old", "hall"}
	for i, id := range want {
		if sorted[i].PalletID != id {
			t.Fatalf("position %d: got %s, want %s", i, sorted[i].PalletID, id)
		}
	}
}

func TestPickByStructureExactFit(t *testing.T) {
	// Order: 2 pallets of 40 each. The two 40s must win over the 33.
	stock := []StockPallet{
		pallet("X", "odd", 33, "WE01", "2026-01-01"),
		pallet("X", "fit1", 40, "021111111", "2026-01-05"),
		pallet("X", "fit2", 40, "HALLE", "2026-01-06"),
	}
	ids, errQty := pickByStructure(stock, 2, 40, 80)
	if !reflect.DeepEqual(ids, []string{"fit1", "fit2"}) {
		t.Errorf("pickByStructure ids = %v, want [fit1 fit2]", ids)
	}
	if errQty != 0 {
		t.Errorf("pickByStructure error = %v, want 0", errQty)
	}
}

func TestPickByStructureCapsAtStock(t *testing.T) {
	stock := []StockPallet{pallet("X", "only", 40, "WE01", "2026-01-01")}
	ids, errQty := pickByStructure(stock, 3, 40, 120)
	if len(ids) != 1 {
		t.Fatalf("expected 1 pallet, got %d", len(ids))
	}
	if errQty != 80 {
		t.Errorf("error = %v, want 80", errQty)
	}
}

func TestPickByAccumulationStopsAtTarget(t *testing.T) {
	stock := sortCommon([]StockPallet{
		pallet("X", "a", 30, "WE01", "2026-01-01"),
		pallet("X", "b", 30, "WE01", "2026-01-02"),
		pallet("X", "c", 30, "WE01", "2026-01-03"),
	})
	ids, errQty := pickByAccumulation(stock, 55)
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("ids = %v, want [a b]", ids)
	}
	if errQty != 5 {
		t.Errorf("error = %v, want 5", errQty)
	}
}

func TestPickByAccumulationKeepsBestPrefix(t *testing.T) {
	// 90 overshoots the 50 target worse than stopping at 60 would, but
	// the best prefix is the one closest to the target: [a b] with 60.
	stock := sortCommon([]StockPallet{
		pallet("X", "a", 30, "WE01", "2026-01-01"),
		pallet("X", "b", 30, "WE01", "2026-01-02"),
		pallet("X", "c", 30, "WE01", "2026-01-03"),
	})
	ids, errQty := pickByAccumulation(stock, 50)
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("ids = %v, want [a b]", ids)
	}
	if errQty != 10 {
		t.Errorf("error = %v, want 10", errQty)
	}
}

func TestPickByAccumulationEdgeCases(t *testing.T) {
	ids, errQty := pickByAccumulation(nil, 100)
	if ids != nil || errQty != 100 {
		t.Errorf("empty stock: got (%v, %v), want (nil, 100)", ids, errQty)
	}

	stock := sortCommon([]StockPallet{pallet("X", "a", 30, "WE01", "2026-01-01")})
	ids, errQty = pickByAccumulation(stock, 0)
	if ids != nil || errQty != 0 {
		t.Errorf("zero target: got (%v, %v), want (nil, 0)", ids, errQty)
	}
}

func TestSuggestPrefersAccumulationOnlyWhenStrictlyBetter(t *testing.T) {
	// Both strategies land on the same error; structure (A) must win so
	// the pallet count stays at the ordered value.
	stock := []StockPallet{
		pallet("X", "p1", 40, "WE01", "2026-01-01"),
		pallet("X", "p2", 40, "WE01", "2026-01-02"),
	}
	agg := model.OrderAggregate{ArticleCode: "X", Pallets: 2, Quantity: 80}
	ids := suggestForArticle(stock, agg, false)
	if !reflect.DeepEqual(ids, []string{"p1", "p2"}) {
		t.Errorf("ids = %v, want structure pick [p1 p2]", ids)
	}
}

func TestSuggestAccumulationWins(t *testing.T) {
	// Order says 1 pallet of 100 but stock only has 40s; taking one (A,
	// error 60) loses to accumulating two (B, error 20).
	stock := []StockPallet{
		pallet("X", "p1", 40, "WE01", "2026-01-01"),
		pallet("X", "p2", 40, "WE01", "2026-01-02"),
		pallet("X", "p3", 40, "WE01", "2026-01-03"),
	}
	agg := model.OrderAggregate{ArticleCode: "X", Pallets: 1, Quantity: 100}
	ids := suggestForArticle(stock, agg, false)
	if !reflect.DeepEqual(ids, []string{"p1", "p2"}) {
		t.Errorf("ids = %v, want accumulation pick [p1 p2]", ids)
	}
}

func TestSuggestPalletPriorityIgnoresQuantity(t *testing.T) {
	// Pallet-priority articles take the oldest reception pallets no matter
	// how far the quantities drift from the order.
	stock := []StockPallet{
		pallet("202671A", "huge", 500, "WE01", "2026-01-01"),
		pallet("202671A", "tiny", 1, "WE01", "2026-01-02"),
		pallet("202671A", "rack", 40, "021111111", "2026-01-01"),
	}
	agg := model.OrderAggregate{ArticleCode: "202671A", Pallets: 2, Quantity: 80}
	ids := suggestForArticle(stock, agg, true)
	if !reflect.DeepEqual(ids, []string{"huge", "tiny"}) {
		t.Errorf("ids = %v, want [huge tiny]", ids)
	}
}
