package stats

import (
	"testing"
	"time"

	"sprintbox/model"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func statsTable() *model.PalletTable {
	return &model.PalletTable{Rows: []model.PalletRecord{
		{Mandant: "352", ArticleCode: "ART1", PalletID: "p1", Quantity: 40, InDate: d("2026-01-10")},
		{Mandant: "352", ArticleCode: "ART1", PalletID: "p2", Quantity: 40, InDate: d("2026-01-20"),
			OutDate: d("2026-02-05"), IsDeleted: true},
		{Mandant: "352", ArticleCode: "ART2", PalletID: "p3", Quantity: 33, InDate: d("2026-02-15")},
		{Mandant: "999", ArticleCode: "ART1", PalletID: "p4", Quantity: 40, InDate: d("2026-01-15")},
	}}
}

func TestMonthlyBuckets(t *testing.T) {
	rows := Monthly(statsTable(), "352", d("2026-01-01"), d("2026-03-01"))
	if len(rows) != 2 {
		t.Fatalf("expected 2 months, got %d: %+v", len(rows), rows)
	}

	jan := rows[0]
	if jan.Month != "2026-01" || jan.Received != 2 || jan.Removed != 0 {
		t.Errorf("jan = %+v, want 2 received / 0 removed", jan)
	}
	if jan.ReceivedQty != 80 {
		t.Errorf("jan received qty = %v, want 80", jan.ReceivedQty)
	}

	feb := rows[1]
	if feb.Month != "2026-02" || feb.Received != 1 || feb.Removed != 1 {
		t.Errorf("feb = %+v, want 1 received / 1 removed", feb)
	}
}

func TestMonthlyIgnoresOtherMandants(t *testing.T) {
	rows := Monthly(statsTable(), "999", d("2026-01-01"), d("2026-03-01"))
	if len(rows) != 1 || rows[0].Received != 1 {
		t.Errorf("mandant 999 rows = %+v, want one January receipt", rows)
	}
}

func TestTopReceivedRankingAndLimit(t *testing.T) {
	top := TopReceived(statsTable(), "352", d("2026-01-01"), d("2026-03-01"), 5)
	if len(top) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(top))
	}
	if top[0].ArticleCode != "ART1" || top[0].Pallets != 2 {
		t.Errorf("top[0] = %+v, want ART1 with 2 pallets", top[0])
	}

	limited := TopReceived(statsTable(), "352", d("2026-01-01"), d("2026-03-01"), 1)
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d articles", len(limited))
	}
}

func TestTopRemoved(t *testing.T) {
	top := TopRemoved(statsTable(), "352", d("2026-02-01"), d("2026-02-28"), 5)
	if len(top) != 1 || top[0].ArticleCode != "ART1" || top[0].Pallets != 1 {
		t.Errorf("top removed = %+v, want one ART1 pallet", top)
	}
}

func TestStagnant(t *testing.T) {
	asOf := d("2026-04-20")
	rows := Stagnant(statsTable(), "352", 90, asOf)

	// p1 (100 days old, in stock) qualifies; p2 is removed, p3 is only
	// 64 days old.
	if len(rows) != 1 || rows[0].PalletID != "p1" {
		t.Fatalf("stagnant rows = %+v, want only p1", rows)
	}
	if rows[0].AgeDays != 100 {
		t.Errorf("age = %d days, want 100", rows[0].AgeDays)
	}

	if got := Stagnant(statsTable(), "352", 120, asOf); len(got) != 0 {
		t.Errorf("120-day threshold must exclude everything, got %+v", got)
	}
}
