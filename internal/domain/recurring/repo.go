package recurring

import (
	"context"
	"errors"

	"github.com/Spok95/costshare-bot/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

func (r *Repo) Get(ctx context.Context, name string) (*Item, error) {
	var it Item
	err := r.q.QueryRow(ctx, `
		SELECT name, default_members, memo, updated_at
		FROM recurring_items WHERE name = $1
	`, name).Scan(&it.Name, &it.DefaultMembers, &it.Memo, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.q.Query(ctx, `SELECT name, default_members, memo, updated_at FROM recurring_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Name, &it.DefaultMembers, &it.Memo, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Upsert(ctx context.Context, it Item) error {
	members := it.DefaultMembers
	if members == nil {
		members = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO recurring_items (name, default_members, memo)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			default_members = EXCLUDED.default_members,
			memo            = EXCLUDED.memo,
			updated_at      = now()
	`, it.Name, members, it.Memo)
	return err
}

func (r *Repo) Delete(ctx context.Context, name string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM recurring_items WHERE name = $1`, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
