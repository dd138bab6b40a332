package ledger

import (
	"context"
	"time"

	"github.com/Spok95/costshare-bot/internal/domain/locations"
	"github.com/Spok95/costshare-bot/internal/domain/members"
	"github.com/Spok95/costshare-bot/internal/domain/projects"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/domain/recurring"
	"github.com/Spok95/costshare-bot/internal/domain/settlements"
	"github.com/google/uuid"
)

// Store runs units of work. Every fn passed to WithinTx either commits as a
// whole or leaves no trace. Calls sharing a non-empty lockKey are serialized;
// an empty key takes no lock.
type Store interface {
	WithinTx(ctx context.Context, lockKey string, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the read/write surface available inside a unit of work. Getters
// return nil, nil when the row does not exist. Delete methods report whether
// a row was removed and return ErrStillReferenced when other rows depend on it.
type Tx interface {
	GetMember(ctx context.Context, name string) (*members.Member, error)
	ListMembers(ctx context.Context) ([]members.Member, error)
	UpsertMember(ctx context.Context, name string) error
	DeleteMember(ctx context.Context, name string) (bool, error)

	GetLocation(ctx context.Context, name string) (*locations.Location, error)
	ListLocations(ctx context.Context) ([]locations.Location, error)
	LocationsLinkedTo(ctx context.Context, item string) ([]locations.Location, error)
	UpsertLocation(ctx context.Context, l locations.Location) error
	DeleteLocation(ctx context.Context, name string) (bool, error)

	GetItem(ctx context.Context, name string) (*recurring.Item, error)
	ListItems(ctx context.Context) ([]recurring.Item, error)
	UpsertItem(ctx context.Context, it recurring.Item) error
	DeleteItem(ctx context.Context, name string) (bool, error)

	GetProject(ctx context.Context, date time.Time, location string) (*projects.Project, error)
	// UpsertProject writes the header and replaces the roster; it assigns an
	// ID to a new project.
	UpsertProject(ctx context.Context, p *projects.Project) error
	DeleteProject(ctx context.Context, date time.Time, location string) (bool, error)
	// CountLinkedProjects counts linked-mode projects dated in [from, to) at
	// any of the given locations.
	CountLinkedProjects(ctx context.Context, from, to time.Time, locations []string) (int, error)

	GetSettlement(ctx context.Context, month, item string) (*settlements.Settlement, error)
	ListSettlements(ctx context.Context) ([]settlements.Settlement, error)
	// ReplaceSettlement drops any settlement with the same month and item,
	// together with its records, then inserts s and sets s.ID.
	ReplaceSettlement(ctx context.Context, s *settlements.Settlement) error
	DeleteSettlement(ctx context.Context, month, item string) (bool, error)

	ReplaceProjectRecords(ctx context.Context, projectID uuid.UUID, recs []records.Record) error
	ReplaceSettlementRecords(ctx context.Context, settlementID int64, recs []records.Record) error
	ProjectRecords(ctx context.Context, projectID uuid.UUID) ([]records.Record, error)
	SettlementRecords(ctx context.Context, settlementID int64) ([]records.Record, error)
	SumMemberCost(ctx context.Context, member string, from, to time.Time) (int64, error)
	Report(ctx context.Context, from, to time.Time) ([]records.ReportRow, error)
}

const registryLock = "registry"

func projectLock(date time.Time, location string) string {
	return "project:" + date.Format("2006-01-02") + ":" + location
}

func settlementLock(month, item string) string {
	return "settlement:" + month + ":" + item
}
