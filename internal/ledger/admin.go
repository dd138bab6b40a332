package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/domain/locations"
	"github.com/Spok95/costshare-bot/internal/domain/members"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/domain/recurring"
	"github.com/Spok95/costshare-bot/internal/domain/settlements"
)

// EnsureCompany registers the company member. It runs at startup.
func (e *Engine) EnsureCompany(ctx context.Context) error {
	return e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		return tx.UpsertMember(ctx, e.company)
	})
}

// AddMember registers name and reports whether it was new.
func (e *Engine) AddMember(ctx context.Context, name string) (bool, error) {
	if name == e.company {
		return false, unknown(ErrReservedMember, name)
	}
	created := false
	err := e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		m, err := tx.GetMember(ctx, name)
		if err != nil {
			return err
		}
		if m != nil {
			return nil
		}
		created = true
		return tx.UpsertMember(ctx, name)
	})
	return created, err
}

// AddLocation sets a location's unit cost and clears any recurring link.
func (e *Engine) AddLocation(ctx context.Context, name string, cost int64) error {
	return e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		return tx.UpsertLocation(ctx, locations.Location{Name: name, UnitCost: cost})
	})
}

// DefineRecurringLocation links a location to an existing recurring item.
func (e *Engine) DefineRecurringLocation(ctx context.Context, name string, cost int64, item string, open calendar.WeekdayMask) error {
	return e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		it, err := tx.GetItem(ctx, item)
		if err != nil {
			return err
		}
		if it == nil {
			return unknown(ErrUnknownItem, item)
		}
		return tx.UpsertLocation(ctx, locations.Location{
			Name:          name,
			UnitCost:      cost,
			OpenDays:      open,
			RecurringItem: it.Name,
		})
	})
}

// DefineRecurringItem stores an item with its default roster.
func (e *Engine) DefineRecurringItem(ctx context.Context, name string, roster []string) error {
	return e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		if err := e.checkMembers(ctx, tx, roster); err != nil {
			return err
		}
		return tx.UpsertItem(ctx, recurring.Item{
			Name:           name,
			DefaultMembers: roster,
			Memo:           "月度固定成本：" + name,
		})
	})
}

// DeleteMember refuses the company and members that appear in any default
// roster, record or project.
func (e *Engine) DeleteMember(ctx context.Context, name string) error {
	if name == e.company {
		return unknown(ErrReservedMember, name)
	}
	return e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		items, err := tx.ListItems(ctx)
		if err != nil {
			return err
		}
		for _, it := range items {
			if contains(it.DefaultMembers, name) {
				return unknown(ErrStillReferenced, it.Name)
			}
		}
		return deleted(tx.DeleteMember(ctx, name))
	})
}

func (e *Engine) DeleteLocation(ctx context.Context, name string) error {
	return e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		return deleted(tx.DeleteLocation(ctx, name))
	})
}

func (e *Engine) DeleteRecurringItem(ctx context.Context, name string) error {
	return e.run(ctx, registryLock, func(ctx context.Context, tx Tx) error {
		return deleted(tx.DeleteItem(ctx, name))
	})
}

// DeleteProject removes one project with its roster and records.
func (e *Engine) DeleteProject(ctx context.Context, date time.Time, location string) error {
	return e.run(ctx, projectLock(date, location), func(ctx context.Context, tx Tx) error {
		return deleted(tx.DeleteProject(ctx, date, location))
	})
}

func (e *Engine) DeleteSettlement(ctx context.Context, month calendar.Month, item string) error {
	return e.run(ctx, settlementLock(month.String(), item), func(ctx context.Context, tx Tx) error {
		return deleted(tx.DeleteSettlement(ctx, month.String(), item))
	})
}

func deleted(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (e *Engine) Members(ctx context.Context) ([]members.Member, error) {
	var out []members.Member
	err := e.run(ctx, "", func(ctx context.Context, tx Tx) (err error) {
		out, err = tx.ListMembers(ctx)
		return err
	})
	return out, err
}

func (e *Engine) Locations(ctx context.Context) ([]locations.Location, error) {
	var out []locations.Location
	err := e.run(ctx, "", func(ctx context.Context, tx Tx) (err error) {
		out, err = tx.ListLocations(ctx)
		return err
	})
	return out, err
}

// LocationNames feeds the interpreter's known-location lookup.
func (e *Engine) LocationNames(ctx context.Context) ([]string, error) {
	locs, err := e.Locations(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(locs))
	for _, l := range locs {
		names = append(names, l.Name)
	}
	return names, nil
}

func (e *Engine) RecurringItems(ctx context.Context) ([]recurring.Item, error) {
	var out []recurring.Item
	err := e.run(ctx, "", func(ctx context.Context, tx Tx) (err error) {
		out, err = tx.ListItems(ctx)
		return err
	})
	return out, err
}

func (e *Engine) Settlements(ctx context.Context) ([]settlements.Settlement, error) {
	var out []settlements.Settlement
	err := e.run(ctx, "", func(ctx context.Context, tx Tx) (err error) {
		out, err = tx.ListSettlements(ctx)
		return err
	})
	return out, err
}

// Stat totals a member's shares for a month. The company may be queried.
func (e *Engine) Stat(ctx context.Context, member string, month calendar.Month) (int64, error) {
	var sum int64
	err := e.run(ctx, "", func(ctx context.Context, tx Tx) error {
		m, err := tx.GetMember(ctx, member)
		if err != nil {
			return err
		}
		if m == nil {
			return unknown(ErrUnknownMember, member)
		}
		sum, err = tx.SumMemberCost(ctx, member, month.First(), month.Next().First())
		return err
	})
	return sum, err
}

// MonthlyReport is the detail rows of a month and the per-party totals.
type MonthlyReport struct {
	Month  calendar.Month
	Rows   []records.ReportRow
	Totals []Share
	Total  int64
}

func (e *Engine) Report(ctx context.Context, month calendar.Month) (*MonthlyReport, error) {
	var rows []records.ReportRow
	err := e.run(ctx, "", func(ctx context.Context, tx Tx) (err error) {
		rows, err = tx.Report(ctx, month.First(), month.Next().First())
		return err
	})
	if err != nil {
		return nil, err
	}

	rep := &MonthlyReport{Month: month, Rows: rows}
	byMember := map[string]int64{}
	for _, r := range rows {
		byMember[r.Member] += r.Cost
		rep.Total += r.Cost
	}
	for m, c := range byMember {
		rep.Totals = append(rep.Totals, Share{Member: m, Cost: c})
	}
	sort.Slice(rep.Totals, func(i, j int) bool { return rep.Totals[i].Member < rep.Totals[j].Member })
	return rep, nil
}
