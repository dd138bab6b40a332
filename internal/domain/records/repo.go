package records

import (
	"context"
	"time"

	"github.com/Spok95/costshare-bot/internal/infra/db"
	"github.com/google/uuid"
)

type Repo struct{ q db.Querier }

func NewRepo(q db.Querier) *Repo { return &Repo{q: q} }

// ReplaceForProject deletes the project's records and inserts recs.
func (r *Repo) ReplaceForProject(ctx context.Context, projectID uuid.UUID, recs []Record) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM records WHERE project_id = $1`, projectID); err != nil {
		return err
	}
	for _, rec := range recs {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO records (record_date, member_name, project_id, cost_paid, original_msg)
			VALUES ($1, $2, $3, $4, $5)
		`, rec.Date, rec.Member, projectID, rec.Cost, rec.OriginalMsg); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceForSettlement deletes the settlement's records and inserts recs.
func (r *Repo) ReplaceForSettlement(ctx context.Context, settlementID int64, recs []Record) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM records WHERE settlement_id = $1`, settlementID); err != nil {
		return err
	}
	for _, rec := range recs {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO records (record_date, member_name, settlement_id, cost_paid, original_msg)
			VALUES ($1, $2, $3, $4, $5)
		`, rec.Date, rec.Member, settlementID, rec.Cost, rec.OriginalMsg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Record, error) {
	return r.list(ctx, `WHERE project_id = $1`, projectID)
}

func (r *Repo) ListBySettlement(ctx context.Context, settlementID int64) ([]Record, error) {
	return r.list(ctx, `WHERE settlement_id = $1`, settlementID)
}

func (r *Repo) list(ctx context.Context, where string, args ...any) ([]Record, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, record_date, member_name, project_id, settlement_id, cost_paid, original_msg
		FROM records `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Member, &rec.ProjectID, &rec.SettlementID, &rec.Cost, &rec.OriginalMsg); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SumByMember totals a member's shares dated in [from, to).
func (r *Repo) SumByMember(ctx context.Context, member string, from, to time.Time) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(cost_paid), 0)::bigint
		FROM records
		WHERE member_name = $1 AND record_date >= $2 AND record_date < $3
	`, member, from, to).Scan(&sum)
	return sum, err
}

// Report returns every share dated in [from, to), ordered by date then subject.
func (r *Repo) Report(ctx context.Context, from, to time.Time) ([]ReportRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT r.record_date,
		       CASE WHEN r.project_id IS NOT NULL THEN 'project' ELSE 'settlement' END,
		       COALESCE(p.location_name, s.item_name),
		       r.member_name,
		       r.cost_paid,
		       COALESCE(p.total_cost, s.remainder)
		FROM records r
		LEFT JOIN projects p ON p.id = r.project_id
		LEFT JOIN recurring_settlements s ON s.id = r.settlement_id
		WHERE r.record_date >= $1 AND r.record_date < $2
		ORDER BY r.record_date, 3, r.id
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var (
			row  ReportRow
			kind string
		)
		if err := rows.Scan(&row.Date, &kind, &row.Subject, &row.Member, &row.Cost, &row.Total); err != nil {
			return nil, err
		}
		row.Kind = Kind(kind)
		out = append(out, row)
	}
	return out, rows.Err()
}
