package projects

import (
	"context"
	"errors"
	"time"

	"github.com/Spok95/costshare-bot/internal/infra/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

func (r *Repo) Get(ctx context.Context, date time.Time, location string) (*Project, error) {
	var p Project
	err := r.q.QueryRow(ctx, `
		SELECT id, record_date, location_name, total_cost, member_pool, linked, original_msg, created_at, updated_at
		FROM projects
		WHERE record_date = $1 AND location_name = $2
	`, date, location).Scan(
		&p.ID,
		&p.Date,
		&p.Location,
		&p.TotalCost,
		&p.MemberPool,
		&p.Linked,
		&p.OriginalMsg,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.q.Query(ctx, `SELECT member_name FROM project_members WHERE project_id = $1 ORDER BY position`, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		p.Members = append(p.Members, name)
	}
	return &p, rows.Err()
}

// Upsert writes the project header and replaces its roster. A zero ID is
// assigned a new UUID.
func (r *Repo) Upsert(ctx context.Context, p *Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, err := r.q.Exec(ctx, `
		INSERT INTO projects (id, record_date, location_name, total_cost, member_pool, linked, original_msg)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			total_cost   = EXCLUDED.total_cost,
			member_pool  = EXCLUDED.member_pool,
			linked       = EXCLUDED.linked,
			original_msg = EXCLUDED.original_msg,
			updated_at   = now()
	`, p.ID, p.Date, p.Location, p.TotalCost, p.MemberPool, p.Linked, p.OriginalMsg); err != nil {
		return err
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, p.ID); err != nil {
		return err
	}
	for i, m := range p.Members {
		if _, err := r.q.Exec(ctx,
			`INSERT INTO project_members (project_id, member_name, position) VALUES ($1, $2, $3)`,
			p.ID, m, i,
		); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the project; its roster and records cascade.
func (r *Repo) Delete(ctx context.Context, date time.Time, location string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM projects WHERE record_date = $1 AND location_name = $2`, date, location)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountLinked counts linked-mode projects in [from, to) at the given locations.
func (r *Repo) CountLinked(ctx context.Context, from, to time.Time, locations []string) (int, error) {
	if len(locations) == 0 {
		return 0, nil
	}
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*)
		FROM projects
		WHERE linked
		  AND record_date >= $1 AND record_date < $2
		  AND location_name = ANY($3)
	`, from, to, locations).Scan(&n)
	return n, err
}
