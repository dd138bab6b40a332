package members

import (
	"context"
	"errors"

	"github.com/Spok95/costshare-bot/internal/infra/db"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

func (r *Repo) Get(ctx context.Context, name string) (*Member, error) {
	var m Member
	err := r.q.QueryRow(ctx, `SELECT name, created_at FROM members WHERE name = $1`, name).
		Scan(&m.Name, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) List(ctx context.Context) ([]Member, error) {
	rows, err := r.q.Query(ctx, `SELECT name, created_at FROM members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Upsert creates the member if missing; an existing one is left as is.
func (r *Repo) Upsert(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, `INSERT INTO members (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

// Delete reports whether a row was removed. Records or project rosters that
// still point at the member make the statement fail with a FK violation.
func (r *Repo) Delete(ctx context.Context, name string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM members WHERE name = $1`, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
