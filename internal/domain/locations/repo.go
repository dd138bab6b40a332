package locations

import (
	"context"
	"errors"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

const cols = `name, unit_cost, open_days, COALESCE(recurring_item, ''), updated_at`

func scan(row pgx.Row) (Location, error) {
	var (
		l    Location
		mask int16
	)
	err := row.Scan(&l.Name, &l.UnitCost, &mask, &l.RecurringItem, &l.UpdatedAt)
	l.OpenDays = calendar.WeekdayMask(mask)
	return l, err
}

func (r *Repo) Get(ctx context.Context, name string) (*Location, error) {
	l, err := scan(r.q.QueryRow(ctx, `SELECT `+cols+` FROM locations WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *Repo) List(ctx context.Context) ([]Location, error) {
	return r.list(ctx, `SELECT `+cols+` FROM locations ORDER BY name`)
}

// LinkedTo returns the locations whose per-event costs pre-pay item.
func (r *Repo) LinkedTo(ctx context.Context, item string) ([]Location, error) {
	return r.list(ctx, `SELECT `+cols+` FROM locations WHERE recurring_item = $1 ORDER BY name`, item)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Location, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Upsert writes the full location row; an empty RecurringItem clears the link.
func (r *Repo) Upsert(ctx context.Context, l Location) error {
	var item *string
	if l.RecurringItem != "" {
		item = &l.RecurringItem
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO locations (name, unit_cost, open_days, recurring_item)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			unit_cost      = EXCLUDED.unit_cost,
			open_days      = EXCLUDED.open_days,
			recurring_item = EXCLUDED.recurring_item,
			updated_at     = now()
	`, l.Name, l.UnitCost, int16(l.OpenDays), item)
	return err
}

func (r *Repo) Delete(ctx context.Context, name string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM locations WHERE name = $1`, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
