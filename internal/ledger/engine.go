// Package ledger computes cost splits and persists them through a Store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/Spok95/costshare-bot/internal/command"
	"github.com/Spok95/costshare-bot/internal/domain/projects"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/domain/settlements"
	"github.com/shopspring/decimal"
)

type Options struct {
	// Company is the house party added to every split.
	Company string
	Now     func() time.Time
	Log     *slog.Logger
}

type Engine struct {
	store   Store
	company string
	now     func() time.Time
	log     *slog.Logger
}

func New(store Store, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	return &Engine{
		store:   store,
		company: opts.Company,
		now:     opts.Now,
		log:     opts.Log.With("component", "ledger"),
	}
}

func (e *Engine) Company() string { return e.company }

// Today is the processing date at UTC midnight.
func (e *Engine) Today() time.Time {
	t := e.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (e *Engine) run(ctx context.Context, key string, fn func(ctx context.Context, tx Tx) error) error {
	return classify(e.store.WithinTx(ctx, key, fn))
}

// ProjectResult describes the split written for one project.
type ProjectResult struct {
	Project   projects.Project
	Created   bool
	Added     []string
	PerMember int64
	Company   int64
	Shares    []Share
}

// RecordExpense creates or updates the project for (Date, Location) and
// rewrites all of its records.
func (e *Engine) RecordExpense(ctx context.Context, cmd command.RecordExpense) (*ProjectResult, error) {
	date := time.Date(cmd.Date.Year(), cmd.Date.Month(), cmd.Date.Day(), 0, 0, 0, 0, time.UTC)
	var res *ProjectResult
	err := e.run(ctx, projectLock(date, cmd.Location), func(ctx context.Context, tx Tx) error {
		loc, err := tx.GetLocation(ctx, cmd.Location)
		if err != nil {
			return err
		}
		if loc == nil {
			return unknown(ErrUnknownLocation, cmd.Location)
		}
		if err := e.checkMembers(ctx, tx, cmd.Members); err != nil {
			return err
		}

		p, err := tx.GetProject(ctx, date, cmd.Location)
		if err != nil {
			return err
		}
		r := &ProjectResult{}
		if p == nil {
			r.Created = true
			p = &projects.Project{
				Date:        date,
				Location:    loc.Name,
				TotalCost:   loc.UnitCost,
				Linked:      loc.Linked() && !cmd.ForceStandard,
				OriginalMsg: cmd.Text,
			}
		} else if cmd.ForceStandard {
			p.Linked = false
		}

		switch {
		case cmd.CostOverride != nil:
			if *cmd.CostOverride <= 0 || *cmd.CostOverride > command.MaxAmount {
				return fmt.Errorf("%w: %d", ErrInvalidCost, *cmd.CostOverride)
			}
			p.TotalCost = *cmd.CostOverride
		case cmd.Multiplier != nil:
			total := decimal.NewFromInt(loc.UnitCost).Mul(*cmd.Multiplier).Round(0)
			if !total.IsPositive() || total.GreaterThan(decimal.NewFromInt(command.MaxAmount)) {
				return fmt.Errorf("%w: %d x %s = %s", ErrInvalidCost, loc.UnitCost, cmd.Multiplier.String(), total.String())
			}
			p.TotalCost = total.IntPart()
		}

		for _, m := range cmd.Members {
			if !contains(p.Members, m) {
				p.Members = append(p.Members, m)
				r.Added = append(r.Added, m)
			}
		}

		each, company, pool := TwoTier(p.TotalCost, len(p.Members))
		p.MemberPool = pool
		if err := tx.UpsertProject(ctx, p); err != nil {
			return err
		}

		r.PerMember, r.Company = each, company
		r.Shares = shares(p.Members, each, e.company, company)
		recs := make([]records.Record, 0, len(r.Shares))
		for _, s := range r.Shares {
			recs = append(recs, records.Record{Date: date, Member: s.Member, Cost: s.Cost, OriginalMsg: cmd.Text})
		}
		if err := tx.ReplaceProjectRecords(ctx, p.ID, recs); err != nil {
			return err
		}
		r.Project = *p
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("project recorded",
		"date", date.Format("2006-01-02"),
		"location", res.Project.Location,
		"total", res.Project.TotalCost,
		"members", len(res.Project.Members),
		"linked", res.Project.Linked,
		"created", res.Created,
	)
	return res, nil
}

// SettlementResult describes one recurring settlement computation. It is
// returned even when the remainder is negative and nothing was written.
type SettlementResult struct {
	Month              calendar.Month
	Item               string
	Invoice            int64
	Capacity           int
	CapacityOverridden bool
	ConsumedUnits      int
	UnitPrice          decimal.Decimal
	Deducted           int64
	Remainder          int64
	Members            []string
	PerMember          int64
	Company            int64
	Shares             []Share
	Replaced           bool
}

// SettleRecurring splits the month's invoice for an item, net of the capacity
// already pre-paid by linked projects, and replaces any prior settlement.
func (e *Engine) SettleRecurring(ctx context.Context, cmd command.SettleRecurring) (*SettlementResult, error) {
	month := cmd.Month.String()
	var res *SettlementResult
	err := e.run(ctx, settlementLock(month, cmd.Item), func(ctx context.Context, tx Tx) error {
		item, err := tx.GetItem(ctx, cmd.Item)
		if err != nil {
			return err
		}
		if item == nil {
			return unknown(ErrUnknownItem, cmd.Item)
		}

		roster := item.DefaultMembers
		if cmd.Members != nil {
			roster = cmd.Members
		}
		if len(roster) == 0 {
			return unknown(ErrEmptyRoster, item.Name)
		}
		if err := e.checkMembers(ctx, tx, roster); err != nil {
			return err
		}

		linked, err := tx.LocationsLinkedTo(ctx, item.Name)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(linked))
		capacity := 0
		for _, l := range linked {
			names = append(names, l.Name)
			capacity += calendar.CountMatchingWeekdays(cmd.Month.Year, cmd.Month.Month, l.OpenDays)
		}
		r := &SettlementResult{
			Month:   cmd.Month,
			Item:    item.Name,
			Invoice: cmd.Invoice,
			Members: append([]string(nil), roster...),
		}
		if cmd.CapacityOverride != nil {
			capacity = *cmd.CapacityOverride
			r.CapacityOverridden = true
		}
		if capacity <= 0 {
			return ErrZeroCapacity
		}
		r.Capacity = capacity

		consumed, err := tx.CountLinkedProjects(ctx, cmd.Month.First(), cmd.Month.Next().First(), names)
		if err != nil {
			return err
		}
		r.ConsumedUnits = consumed
		r.UnitPrice, r.Deducted = Deduction(cmd.Invoice, capacity, consumed)
		r.Remainder = cmd.Invoice - r.Deducted
		res = r
		if r.Remainder < 0 {
			return ErrNegativeRemainder
		}

		prev, err := tx.GetSettlement(ctx, month, item.Name)
		if err != nil {
			return err
		}
		r.Replaced = prev != nil

		s := &settlements.Settlement{
			Month:         month,
			Item:          item.Name,
			Invoice:       cmd.Invoice,
			Capacity:      capacity,
			ConsumedUnits: consumed,
			Deducted:      r.Deducted,
			Remainder:     r.Remainder,
			Members:       r.Members,
			OriginalMsg:   cmd.Text,
		}
		if err := tx.ReplaceSettlement(ctx, s); err != nil {
			return err
		}
		if r.Remainder == 0 {
			return nil
		}

		r.PerMember, r.Company = SingleTier(r.Remainder, len(roster))
		r.Shares = shares(roster, r.PerMember, e.company, r.Company)
		recs := make([]records.Record, 0, len(r.Shares))
		for _, sh := range r.Shares {
			recs = append(recs, records.Record{Date: cmd.Month.First(), Member: sh.Member, Cost: sh.Cost, OriginalMsg: cmd.Text})
		}
		return tx.ReplaceSettlementRecords(ctx, s.ID, recs)
	})
	if err != nil {
		// res is kept for the over-collection report.
		if res != nil && errors.Is(err, ErrNegativeRemainder) {
			e.log.Warn("settlement over-collected", "month", month, "item", cmd.Item, "deducted", res.Deducted, "invoice", cmd.Invoice)
			return res, err
		}
		return nil, err
	}
	e.log.Info("settlement written",
		"month", month,
		"item", res.Item,
		"invoice", res.Invoice,
		"capacity", res.Capacity,
		"consumed", res.ConsumedUnits,
		"remainder", res.Remainder,
	)
	return res, nil
}

// checkMembers rejects the company and names that are not registered.
func (e *Engine) checkMembers(ctx context.Context, tx Tx, names []string) error {
	for _, n := range names {
		if n == e.company {
			return unknown(ErrReservedMember, n)
		}
		m, err := tx.GetMember(ctx, n)
		if err != nil {
			return err
		}
		if m == nil {
			return unknown(ErrUnknownMember, n)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
