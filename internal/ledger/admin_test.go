package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/ledger"
)

func TestAddMember(t *testing.T) {
	_, eng := setup(t)
	ctx := context.Background()

	created, err := eng.AddMember(ctx, "小美")
	if err != nil || !created {
		t.Errorf("AddMember(new) = %v, %v", created, err)
	}
	created, err = eng.AddMember(ctx, "小美")
	if err != nil || created {
		t.Errorf("AddMember(existing) = %v, %v", created, err)
	}
	if _, err := eng.AddMember(ctx, company); !errors.Is(err, ledger.ErrReservedMember) {
		t.Errorf("AddMember(company) err = %v, want ErrReservedMember", err)
	}
}

func TestDefineRecurringLocationNeedsItem(t *testing.T) {
	_, eng := setup(t)
	err := eng.DefineRecurringLocation(context.Background(), "板橋店", 300, "電費", weekdays)
	if !errors.Is(err, ledger.ErrUnknownItem) {
		t.Errorf("err = %v, want ErrUnknownItem", err)
	}
}

func TestAddLocationClearsLink(t *testing.T) {
	_, eng := setup(t)
	ctx := context.Background()
	if err := eng.AddLocation(ctx, "台北店", 500); err != nil {
		t.Fatal(err)
	}
	locs, err := eng.Locations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range locs {
		if l.Name == "台北店" && (l.Linked() || !l.OpenDays.Empty() || l.UnitCost != 500) {
			t.Errorf("location = %+v, want plain 500", l)
		}
	}
}

func TestDeleteReferentialIntegrity(t *testing.T) {
	_, eng := setup(t)
	ctx := context.Background()
	record(t, eng, day(time.November, 3), "市集", "小明")

	tests := []struct {
		name string
		del  func() error
		want error
	}{
		{"location with projects", func() error { return eng.DeleteLocation(ctx, "市集") }, ledger.ErrStillReferenced},
		{"item linked to location", func() error { return eng.DeleteRecurringItem(ctx, "房租") }, ledger.ErrStillReferenced},
		{"member in default roster", func() error { return eng.DeleteMember(ctx, "大華") }, ledger.ErrStillReferenced},
		{"company", func() error { return eng.DeleteMember(ctx, company) }, ledger.ErrReservedMember},
		{"missing member", func() error { return eng.DeleteMember(ctx, "路人") }, ledger.ErrNotFound},
		{"missing location", func() error { return eng.DeleteLocation(ctx, "新竹店") }, ledger.ErrNotFound},
		{"missing project", func() error { return eng.DeleteProject(ctx, day(time.November, 9), "市集") }, ledger.ErrNotFound},
		{"missing settlement", func() error { return eng.DeleteSettlement(ctx, november, "房租") }, ledger.ErrNotFound},
	}
	for _, tt := range tests {
		if err := tt.del(); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}

	if err := eng.DeleteProject(ctx, day(time.November, 3), "市集"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := eng.DeleteLocation(ctx, "市集"); err != nil {
		t.Errorf("DeleteLocation after project removal: %v", err)
	}
}

func TestDeleteMemberWithRecords(t *testing.T) {
	_, eng := setup(t)
	ctx := context.Background()
	if _, err := eng.AddMember(ctx, "小美"); err != nil {
		t.Fatal(err)
	}
	record(t, eng, day(time.November, 3), "市集", "小美")
	if err := eng.DeleteMember(ctx, "小美"); !errors.Is(err, ledger.ErrStillReferenced) {
		t.Errorf("err = %v, want ErrStillReferenced", err)
	}
}

func TestDeleteSettlement(t *testing.T) {
	store, eng := setup(t)
	ctx := context.Background()
	capacity := 10
	if _, err := settle(t, eng, 1000, &capacity, nil); err != nil {
		t.Fatal(err)
	}
	if err := eng.DeleteSettlement(ctx, november, "房租"); err != nil {
		t.Fatal(err)
	}
	if recs := settlementRecords(t, store, "2025-11", "房租"); len(recs) != 0 {
		t.Errorf("records left behind: %+v", recs)
	}
	stat, err := eng.Stat(ctx, "小明", november)
	if err != nil || stat != 0 {
		t.Errorf("Stat after delete = %d, %v", stat, err)
	}
}

func TestStatAndReport(t *testing.T) {
	_, eng := setup(t)
	ctx := context.Background()
	record(t, eng, day(time.November, 3), "市集", "小明", "大華", "阿強")
	record(t, eng, day(time.November, 4), "台北店", "小明")
	record(t, eng, day(time.December, 1), "市集", "小明")
	capacity := 20
	if _, err := settle(t, eng, 4000, &capacity, nil); err != nil {
		t.Fatal(err)
	}

	// 166 at 市集, 150 as the only member at 台北店, and a settlement share:
	// deducted 4000*1/20 = 200, remainder 3800 over four parties.
	got, err := eng.Stat(ctx, "小明", november)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(166 + 150 + 950); got != want {
		t.Errorf("Stat(小明, 2025-11) = %d, want %d", got, want)
	}
	if _, err := eng.Stat(ctx, "路人", november); !errors.Is(err, ledger.ErrUnknownMember) {
		t.Errorf("Stat(unknown) err = %v", err)
	}
	if _, err := eng.Stat(ctx, company, november); err != nil {
		t.Errorf("Stat(company) err = %v", err)
	}

	rep, err := eng.Report(ctx, november)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(1000 + 300 + 3800); rep.Total != want {
		t.Errorf("report total = %d, want %d", rep.Total, want)
	}
	var totals int64
	for _, s := range rep.Totals {
		totals += s.Cost
	}
	if totals != rep.Total {
		t.Errorf("per-party totals %d != report total %d", totals, rep.Total)
	}
	kinds := map[records.Kind]int{}
	for _, r := range rep.Rows {
		kinds[r.Kind]++
		if r.Date.Month() != time.November {
			t.Errorf("row outside the month: %+v", r)
		}
	}
	if kinds[records.KindProject] != 6 || kinds[records.KindSettlement] != 4 {
		t.Errorf("row kinds = %v", kinds)
	}
}

func TestReportEmptyMonth(t *testing.T) {
	_, eng := setup(t)
	rep, err := eng.Report(context.Background(), calendar.Month{Year: 2025, Month: time.March})
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Rows) != 0 || rep.Total != 0 {
		t.Errorf("report = %+v, want empty", rep)
	}
}
