// Package pgstore implements ledger.Store on Postgres. Each unit of work is
// one transaction guarded by a transaction-scoped advisory lock.
package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/Spok95/costshare-bot/internal/domain/locations"
	"github.com/Spok95/costshare-bot/internal/domain/members"
	"github.com/Spok95/costshare-bot/internal/domain/projects"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/domain/recurring"
	"github.com/Spok95/costshare-bot/internal/domain/settlements"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE foreign_key_violation.
const fkViolation = "23503"

type Store struct{ pool *pgxpool.Pool }

func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

var _ ledger.Store = (*Store)(nil)

func (s *Store) WithinTx(ctx context.Context, lockKey string, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if lockKey != "" {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return err
		}
	}
	if err := fn(ctx, newTx(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type repoTx struct {
	members     *members.Repo
	locations   *locations.Repo
	items       *recurring.Repo
	projects    *projects.Repo
	settlements *settlements.Repo
	records     *records.Repo
}

func newTx(tx pgx.Tx) *repoTx {
	return &repoTx{
		members:     members.NewRepo(tx),
		locations:   locations.NewRepo(tx),
		items:       recurring.NewRepo(tx),
		projects:    projects.NewRepo(tx),
		settlements: settlements.NewRepo(tx),
		records:     records.NewRepo(tx),
	}
}

// referenced maps FK violations raised by RESTRICT deletes.
func referenced(ok bool, err error) (bool, error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
		return false, ledger.ErrStillReferenced
	}
	return ok, err
}

func (t *repoTx) GetMember(ctx context.Context, name string) (*members.Member, error) {
	return t.members.Get(ctx, name)
}

func (t *repoTx) ListMembers(ctx context.Context) ([]members.Member, error) {
	return t.members.List(ctx)
}

func (t *repoTx) UpsertMember(ctx context.Context, name string) error {
	return t.members.Upsert(ctx, name)
}

func (t *repoTx) DeleteMember(ctx context.Context, name string) (bool, error) {
	return referenced(t.members.Delete(ctx, name))
}

func (t *repoTx) GetLocation(ctx context.Context, name string) (*locations.Location, error) {
	return t.locations.Get(ctx, name)
}

func (t *repoTx) ListLocations(ctx context.Context) ([]locations.Location, error) {
	return t.locations.List(ctx)
}

func (t *repoTx) LocationsLinkedTo(ctx context.Context, item string) ([]locations.Location, error) {
	return t.locations.LinkedTo(ctx, item)
}

func (t *repoTx) UpsertLocation(ctx context.Context, l locations.Location) error {
	return t.locations.Upsert(ctx, l)
}

func (t *repoTx) DeleteLocation(ctx context.Context, name string) (bool, error) {
	return referenced(t.locations.Delete(ctx, name))
}

func (t *repoTx) GetItem(ctx context.Context, name string) (*recurring.Item, error) {
	return t.items.Get(ctx, name)
}

func (t *repoTx) ListItems(ctx context.Context) ([]recurring.Item, error) {
	return t.items.List(ctx)
}

func (t *repoTx) UpsertItem(ctx context.Context, it recurring.Item) error {
	return t.items.Upsert(ctx, it)
}

func (t *repoTx) DeleteItem(ctx context.Context, name string) (bool, error) {
	return referenced(t.items.Delete(ctx, name))
}

func (t *repoTx) GetProject(ctx context.Context, date time.Time, location string) (*projects.Project, error) {
	return t.projects.Get(ctx, date, location)
}

func (t *repoTx) UpsertProject(ctx context.Context, p *projects.Project) error {
	return t.projects.Upsert(ctx, p)
}

func (t *repoTx) DeleteProject(ctx context.Context, date time.Time, location string) (bool, error) {
	return t.projects.Delete(ctx, date, location)
}

func (t *repoTx) CountLinkedProjects(ctx context.Context, from, to time.Time, locs []string) (int, error) {
	return t.projects.CountLinked(ctx, from, to, locs)
}

func (t *repoTx) GetSettlement(ctx context.Context, month, item string) (*settlements.Settlement, error) {
	return t.settlements.Get(ctx, month, item)
}

func (t *repoTx) ListSettlements(ctx context.Context) ([]settlements.Settlement, error) {
	return t.settlements.List(ctx)
}

func (t *repoTx) ReplaceSettlement(ctx context.Context, s *settlements.Settlement) error {
	return t.settlements.Replace(ctx, s)
}

func (t *repoTx) DeleteSettlement(ctx context.Context, month, item string) (bool, error) {
	return t.settlements.Delete(ctx, month, item)
}

func (t *repoTx) ReplaceProjectRecords(ctx context.Context, id uuid.UUID, recs []records.Record) error {
	return t.records.ReplaceForProject(ctx, id, recs)
}

func (t *repoTx) ReplaceSettlementRecords(ctx context.Context, id int64, recs []records.Record) error {
	return t.records.ReplaceForSettlement(ctx, id, recs)
}

func (t *repoTx) ProjectRecords(ctx context.Context, id uuid.UUID) ([]records.Record, error) {
	return t.records.ListByProject(ctx, id)
}

func (t *repoTx) SettlementRecords(ctx context.Context, id int64) ([]records.Record, error) {
	return t.records.ListBySettlement(ctx, id)
}

func (t *repoTx) SumMemberCost(ctx context.Context, member string, from, to time.Time) (int64, error) {
	return t.records.SumByMember(ctx, member, from, to)
}

func (t *repoTx) Report(ctx context.Context, from, to time.Time) ([]records.ReportRow, error) {
	return t.records.Report(ctx, from, to)
}
