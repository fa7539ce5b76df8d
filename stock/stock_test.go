package stock

import (
	"testing"
	"time"

	"sprintbox/config"
	"sprintbox/model"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testPackaging() config.Packaging {
	return config.Packaging{KartonyPrefixes: []string{"83090", "ZC"}}
}

func rec(article, pid, status string, in, out string) model.PalletRecord {
	r := model.PalletRecord{
		Mandant:     "352",
		ArticleCode: article,
		PalletID:    pid,
		StatusCode:  status,
		Quantity:    40,
		InDate:      d(in),
		IsDeleted:   status != model.StatusInStock,
	}
	if out != "" {
		r.OutDate = d(out)
	}
	return r
}

func TestSnapshotDayBoundaries(t *testing.T) {
	table := &model.PalletTable{Rows: []model.PalletRecord{
		rec("ART1", "before-instock", "401", "2026-02-01", ""),
		rec("ART1", "same-day", "401", "2026-02-10", ""),
		rec("ART1", "removed-later", "950", "2026-02-01", "2026-02-15"),
		rec("ART1", "removed-on-day", "950", "2026-02-01", "2026-02-10"),
		rec("ART1", "removed-before", "950", "2026-02-01", "2026-02-05"),
	}}

	rows := Snapshot(table, "352", nil, d("2026-02-10"), testPackaging())

	got := make(map[string]bool)
	for _, r := range rows {
		got[r.PalletID] = true
	}
	// Received strictly before the day, and still present at its start:
	// removal on the day itself counts as present (state at day start).
	for _, want := range []string{"before-instock", "removed-later", "removed-on-day"} {
		if !got[want] {
			t.Errorf("snapshot missing %s", want)
		}
	}
	for _, no := range []string{"same-day", "removed-before"} {
		if got[no] {
			t.Errorf("snapshot must not contain %s", no)
		}
	}
}

func TestSnapshotDedupesByPalletID(t *testing.T) {
	table := &model.PalletTable{Rows: []model.PalletRecord{
		rec("ART1", "p1", "401", "2026-01-01", ""),
		rec("ART1", "p1", "401", "2026-01-20", ""),
	}}
	rows := Snapshot(table, "352", nil, d("2026-02-01"), testPackaging())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after dedupe, got %d", len(rows))
	}
	if !rows[0].InDate.Equal(d("2026-01-20")) {
		t.Errorf("dedupe kept %v, want the latest receipt 2026-01-20", rows[0].InDate)
	}
}

func TestSnapshotClassifiesPackaging(t *testing.T) {
	table := &model.PalletTable{Rows: []model.PalletRecord{
		rec("83090X", "carton", "401", "2026-01-01", ""),
		rec("ART1", "other", "401", "2026-01-01", ""),
	}}
	rows := Snapshot(table, "352", nil, d("2026-02-01"), testPackaging())
	classes := map[string]string{}
	for _, r := range rows {
		classes[r.PalletID] = r.Packaging
	}
	if classes["carton"] != ClassCarton {
		t.Errorf("carton class = %q, want %q", classes["carton"], ClassCarton)
	}
	if classes["other"] != ClassOther {
		t.Errorf("other class = %q, want %q", classes["other"], ClassOther)
	}
}

func TestSnapshotArticleAllowList(t *testing.T) {
	table := &model.PalletTable{Rows: []model.PalletRecord{
		rec("ART1", "p1", "401", "2026-01-01", ""),
		rec("ART2", "p2", "401", "2026-01-01", ""),
	}}
	rows := Snapshot(table, "352", []string{"ART2"}, d("2026-02-01"), testPackaging())
	if len(rows) != 1 || rows[0].PalletID != "p2" {
		t.Errorf("allow-list rows = %+v, want only p2", rows)
	}
}

func TestAggregateByArticle(t *testing.T) {
	rows := []Row{
		{PalletRecord: rec("ART1", "p1", "401", "2026-01-01", ""), Packaging: ClassOther},
		{PalletRecord: rec("ART1", "p2", "401", "2026-01-01", ""), Packaging: ClassOther},
		{PalletRecord: rec("ART2", "p3", "401", "2026-01-01", ""), Packaging: ClassOther},
	}
	totals := AggregateByArticle(rows)
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0].ArticleCode != "ART1" || totals[0].Pallets != 2 || totals[0].Quantity != 80 {
		t.Errorf("totals[0] = %+v, want ART1 with 2 pallets / 80", totals[0])
	}
}

func TestHistorySeries(t *testing.T) {
	table := &model.PalletTable{Rows: []model.PalletRecord{
		rec("ART1", "p1", "401", "2026-02-01", ""),
		rec("83090X", "p2", "950", "2026-02-01", "2026-02-03"),
	}}
	points := History(table, "352", nil, d("2026-02-02"), d("2026-02-04"), false, testPackaging())
	if len(points) != 3 {
		t.Fatalf("expected 3 daily points, got %d", len(points))
	}
	// Feb 2 and 3: both pallets present at day start; Feb 4: the carton
	// was removed on Feb 3.
	if points[0].TotalPallets != 2 || points[0].Cartons != 1 {
		t.Errorf("day 1 = %+v, want 2 pallets with 1 carton", points[0])
	}
	if points[1].TotalPallets != 2 {
		t.Errorf("day 2 = %+v, want 2 pallets", points[1])
	}
	if points[2].TotalPallets != 1 || points[2].Cartons != 0 {
		t.Errorf("day 3 = %+v, want 1 pallet and no cartons", points[2])
	}

	cartons := History(table, "352", nil, d("2026-02-02"), d("2026-02-02"), true, testPackaging())
	if cartons[0].TotalPallets != 1 {
		t.Errorf("cartonsOnly total = %d, want 1", cartons[0].TotalPallets)
	}
}
