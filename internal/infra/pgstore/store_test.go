package pgstore_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/command"
	"github.com/Spok95/costshare-bot/internal/infra/db"
	"github.com/Spok95/costshare-bot/internal/infra/pgstore"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// openTestDB connects to TEST_DATABASE_URL, migrates it and truncates the
// ledger tables. The test is skipped when the variable is unset.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := db.Migrate(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := pool.Exec(ctx, `TRUNCATE records, recurring_settlements, project_members, projects, locations, recurring_items, members`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func TestPostgresLedgerRoundTrip(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	eng := ledger.New(pgstore.New(pool), ledger.Options{Company: "BOSS"})

	if err := eng.EnsureCompany(ctx); err != nil {
		t.Fatal(err)
	}
	for _, m := range []string{"小明", "大華"} {
		if _, err := eng.AddMember(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	if err := eng.DefineRecurringItem(ctx, "房租", []string{"小明", "大華"}); err != nil {
		t.Fatal(err)
	}
	if err := eng.DefineRecurringLocation(ctx, "台北店", 1000, "房租", 0b0111110); err != nil {
		t.Fatal(err)
	}

	date := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	for _, m := range []string{"小明", "大華"} {
		if _, err := eng.RecordExpense(ctx, command.RecordExpense{Date: date, Location: "台北店", Members: []string{m}}); err != nil {
			t.Fatalf("RecordExpense: %v", err)
		}
	}

	var sum int64
	err := pgstore.New(pool).WithinTx(ctx, "", func(ctx context.Context, tx ledger.Tx) error {
		p, err := tx.GetProject(ctx, date, "台北店")
		if err != nil {
			return err
		}
		recs, err := tx.ProjectRecords(ctx, p.ID)
		for _, r := range recs {
			sum += r.Cost
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum != 1000 {
		t.Errorf("project records sum = %d, want 1000", sum)
	}

	res, err := eng.SettleRecurring(ctx, command.SettleRecurring{
		Month: calendar.Month{Year: 2025, Month: time.November}, Item: "房租", Invoice: 20000,
	})
	if err != nil {
		t.Fatalf("SettleRecurring: %v", err)
	}
	if res.Capacity != 20 || res.ConsumedUnits != 1 || res.Deducted != 1000 {
		t.Errorf("settlement = %+v", res)
	}

	if err := eng.DeleteLocation(ctx, "台北店"); !errors.Is(err, ledger.ErrStillReferenced) {
		t.Errorf("DeleteLocation err = %v, want ErrStillReferenced", err)
	}
}
