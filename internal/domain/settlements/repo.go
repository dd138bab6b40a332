package settlements

import (
	"context"
	"errors"

	"github.com/Spok95/costshare-bot/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

const cols = `id, settlement_month, item_name, invoice_amount, capacity, consumed_units,
	deducted, remainder, actual_members, original_msg, created_at`

func scan(row pgx.Row) (Settlement, error) {
	var s Settlement
	err := row.Scan(
		&s.ID,
		&s.Month,
		&s.Item,
		&s.Invoice,
		&s.Capacity,
		&s.ConsumedUnits,
		&s.Deducted,
		&s.Remainder,
		&s.Members,
		&s.OriginalMsg,
		&s.CreatedAt,
	)
	return s, err
}

func (r *Repo) Get(ctx context.Context, month, item string) (*Settlement, error) {
	s, err := scan(r.q.QueryRow(ctx,
		`SELECT `+cols+` FROM recurring_settlements WHERE settlement_month = $1 AND item_name = $2`,
		month, item,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) List(ctx context.Context) ([]Settlement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+cols+` FROM recurring_settlements ORDER BY settlement_month DESC, item_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Settlement
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Replace deletes any settlement for (Month, Item), cascading its records,
// and inserts s. s.ID is set to the new row id.
func (r *Repo) Replace(ctx context.Context, s *Settlement) error {
	if _, err := r.Delete(ctx, s.Month, s.Item); err != nil {
		return err
	}
	members := s.Members
	if members == nil {
		members = []string{}
	}
	return r.q.QueryRow(ctx, `
		INSERT INTO recurring_settlements
			(settlement_month, item_name, invoice_amount, capacity, consumed_units,
			 deducted, remainder, actual_members, original_msg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, s.Month, s.Item, s.Invoice, s.Capacity, s.ConsumedUnits,
		s.Deducted, s.Remainder, members, s.OriginalMsg,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *Repo) Delete(ctx context.Context, month, item string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM recurring_settlements WHERE settlement_month = $1 AND item_name = $2`,
		month, item,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
