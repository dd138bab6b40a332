// Package memstore is an in-memory ledger.Store. Units of work run one at a
// time on a copy of the state that replaces the live state only on success.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Spok95/costshare-bot/internal/domain/locations"
	"github.com/Spok95/costshare-bot/internal/domain/members"
	"github.com/Spok95/costshare-bot/internal/domain/projects"
	"github.com/Spok95/costshare-bot/internal/domain/records"
	"github.com/Spok95/costshare-bot/internal/domain/recurring"
	"github.com/Spok95/costshare-bot/internal/domain/settlements"
	"github.com/Spok95/costshare-bot/internal/ledger"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store { return &Store{st: newState()} }

var _ ledger.Store = (*Store)(nil)

func (s *Store) WithinTx(ctx context.Context, _ string, fn func(ctx context.Context, tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{st: s.st.clone()}
	if err := fn(ctx, t); err != nil {
		return err
	}
	s.st = t.st
	return nil
}

type state struct {
	members        map[string]members.Member
	locations      map[string]locations.Location
	items          map[string]recurring.Item
	projects       map[uuid.UUID]projects.Project
	settlements    map[int64]settlements.Settlement
	records        map[int64]records.Record
	nextSettlement int64
	nextRecord     int64
}

func newState() *state {
	return &state{
		members:     map[string]members.Member{},
		locations:   map[string]locations.Location{},
		items:       map[string]recurring.Item{},
		projects:    map[uuid.UUID]projects.Project{},
		settlements: map[int64]settlements.Settlement{},
		records:     map[int64]records.Record{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.members {
		c.members[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.items {
		v.DefaultMembers = cloneStrings(v.DefaultMembers)
		c.items[k] = v
	}
	for k, v := range s.projects {
		v.Members = cloneStrings(v.Members)
		c.projects[k] = v
	}
	for k, v := range s.settlements {
		v.Members = cloneStrings(v.Members)
		c.settlements[k] = v
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	c.nextSettlement = s.nextSettlement
	c.nextRecord = s.nextRecord
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

type tx struct{ st *state }

func fkError(table, key string) error {
	return fmt.Errorf("memstore: %s %q violates foreign key", table, key)
}

func (t *tx) GetMember(_ context.Context, name string) (*members.Member, error) {
	m, ok := t.st.members[name]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (t *tx) ListMembers(context.Context) ([]members.Member, error) {
	out := make([]members.Member, 0, len(t.st.members))
	for _, m := range t.st.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t *tx) UpsertMember(_ context.Context, name string) error {
	if _, ok := t.st.members[name]; !ok {
		t.st.members[name] = members.Member{Name: name, CreatedAt: time.Now()}
	}
	return nil
}

func (t *tx) DeleteMember(_ context.Context, name string) (bool, error) {
	if _, ok := t.st.members[name]; !ok {
		return false, nil
	}
	for _, r := range t.st.records {
		if r.Member == name {
			return false, ledger.ErrStillReferenced
		}
	}
	for _, p := range t.st.projects {
		for _, m := range p.Members {
			if m == name {
				return false, ledger.ErrStillReferenced
			}
		}
	}
	delete(t.st.members, name)
	return true, nil
}

func (t *tx) GetLocation(_ context.Context, name string) (*locations.Location, error) {
	l, ok := t.st.locations[name]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (t *tx) ListLocations(context.Context) ([]locations.Location, error) {
	return t.locationsWhere(func(locations.Location) bool { return true }), nil
}

func (t *tx) LocationsLinkedTo(_ context.Context, item string) ([]locations.Location, error) {
	return t.locationsWhere(func(l locations.Location) bool { return l.RecurringItem == item }), nil
}

func (t *tx) locationsWhere(keep func(locations.Location) bool) []locations.Location {
	var out []locations.Location
	for _, l := range t.st.locations {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (t *tx) UpsertLocation(_ context.Context, l locations.Location) error {
	if l.RecurringItem != "" {
		if _, ok := t.st.items[l.RecurringItem]; !ok {
			return fkError("locations.recurring_item", l.RecurringItem)
		}
	}
	l.UpdatedAt = time.Now()
	t.st.locations[l.Name] = l
	return nil
}

func (t *tx) DeleteLocation(_ context.Context, name string) (bool, error) {
	if _, ok := t.st.locations[name]; !ok {
		return false, nil
	}
	for _, p := range t.st.projects {
		if p.Location == name {
			return false, ledger.ErrStillReferenced
		}
	}
	delete(t.st.locations, name)
	return true, nil
}

func (t *tx) GetItem(_ context.Context, name string) (*recurring.Item, error) {
	it, ok := t.st.items[name]
	if !ok {
		return nil, nil
	}
	it.DefaultMembers = cloneStrings(it.DefaultMembers)
	return &it, nil
}

func (t *tx) ListItems(context.Context) ([]recurring.Item, error) {
	out := make([]recurring.Item, 0, len(t.st.items))
	for _, it := range t.st.items {
		it.DefaultMembers = cloneStrings(it.DefaultMembers)
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (t *tx) UpsertItem(_ context.Context, it recurring.Item) error {
	it.DefaultMembers = cloneStrings(it.DefaultMembers)
	it.UpdatedAt = time.Now()
	t.st.items[it.Name] = it
	return nil
}

func (t *tx) DeleteItem(_ context.Context, name string) (bool, error) {
	if _, ok := t.st.items[name]; !ok {
		return false, nil
	}
	for _, l := range t.st.locations {
		if l.RecurringItem == name {
			return false, ledger.ErrStillReferenced
		}
	}
	for _, s := range t.st.settlements {
		if s.Item == name {
			return false, ledger.ErrStillReferenced
		}
	}
	delete(t.st.items, name)
	return true, nil
}

func (t *tx) findProject(date time.Time, location string) (projects.Project, bool) {
	for _, p := range t.st.projects {
		if p.Date.Equal(date) && p.Location == location {
			return p, true
		}
	}
	return projects.Project{}, false
}

func (t *tx) GetProject(_ context.Context, date time.Time, location string) (*projects.Project, error) {
	p, ok := t.findProject(date, location)
	if !ok {
		return nil, nil
	}
	p.Members = cloneStrings(p.Members)
	return &p, nil
}

func (t *tx) UpsertProject(_ context.Context, p *projects.Project) error {
	if _, ok := t.st.locations[p.Location]; !ok {
		return fkError("projects.location_name", p.Location)
	}
	for _, m := range p.Members {
		if _, ok := t.st.members[m]; !ok {
			return fkError("project_members.member_name", m)
		}
	}
	if p.ID == uuid.Nil {
		if _, dup := t.findProject(p.Date, p.Location); dup {
			return fmt.Errorf("memstore: project %s %s already exists", p.Date.Format("2006-01-02"), p.Location)
		}
		p.ID = uuid.New()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	stored := *p
	stored.Members = cloneStrings(p.Members)
	t.st.projects[p.ID] = stored
	return nil
}

func (t *tx) DeleteProject(_ context.Context, date time.Time, location string) (bool, error) {
	p, ok := t.findProject(date, location)
	if !ok {
		return false, nil
	}
	delete(t.st.projects, p.ID)
	t.dropRecords(func(r records.Record) bool { return r.ProjectID != nil && *r.ProjectID == p.ID })
	return true, nil
}

func (t *tx) CountLinkedProjects(_ context.Context, from, to time.Time, locs []string) (int, error) {
	set := make(map[string]bool, len(locs))
	for _, l := range locs {
		set[l] = true
	}
	n := 0
	for _, p := range t.st.projects {
		if p.Linked && set[p.Location] && !p.Date.Before(from) && p.Date.Before(to) {
			n++
		}
	}
	return n, nil
}

func (t *tx) findSettlement(month, item string) (settlements.Settlement, bool) {
	for _, s := range t.st.settlements {
		if s.Month == month && s.Item == item {
			return s, true
		}
	}
	return settlements.Settlement{}, false
}

func (t *tx) GetSettlement(_ context.Context, month, item string) (*settlements.Settlement, error) {
	s, ok := t.findSettlement(month, item)
	if !ok {
		return nil, nil
	}
	s.Members = cloneStrings(s.Members)
	return &s, nil
}

func (t *tx) ListSettlements(context.Context) ([]settlements.Settlement, error) {
	out := make([]settlements.Settlement, 0, len(t.st.settlements))
	for _, s := range t.st.settlements {
		s.Members = cloneStrings(s.Members)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].Item < out[j].Item
	})
	return out, nil
}

func (t *tx) ReplaceSettlement(ctx context.Context, s *settlements.Settlement) error {
	if _, ok := t.st.items[s.Item]; !ok {
		return fkError("recurring_settlements.item_name", s.Item)
	}
	if _, err := t.DeleteSettlement(ctx, s.Month, s.Item); err != nil {
		return err
	}
	t.st.nextSettlement++
	s.ID = t.st.nextSettlement
	s.CreatedAt = time.Now()
	stored := *s
	stored.Members = cloneStrings(s.Members)
	t.st.settlements[s.ID] = stored
	return nil
}

func (t *tx) DeleteSettlement(_ context.Context, month, item string) (bool, error) {
	s, ok := t.findSettlement(month, item)
	if !ok {
		return false, nil
	}
	delete(t.st.settlements, s.ID)
	t.dropRecords(func(r records.Record) bool { return r.SettlementID != nil && *r.SettlementID == s.ID })
	return true, nil
}

func (t *tx) dropRecords(match func(records.Record) bool) {
	for id, r := range t.st.records {
		if match(r) {
			delete(t.st.records, id)
		}
	}
}

func (t *tx) insertRecords(recs []records.Record, link func(*records.Record)) error {
	for _, r := range recs {
		if _, ok := t.st.members[r.Member]; !ok {
			return fkError("records.member_name", r.Member)
		}
		t.st.nextRecord++
		r.ID = t.st.nextRecord
		link(&r)
		t.st.records[r.ID] = r
	}
	return nil
}

func (t *tx) ReplaceProjectRecords(_ context.Context, projectID uuid.UUID, recs []records.Record) error {
	if _, ok := t.st.projects[projectID]; !ok {
		return fkError("records.project_id", projectID.String())
	}
	t.dropRecords(func(r records.Record) bool { return r.ProjectID != nil && *r.ProjectID == projectID })
	return t.insertRecords(recs, func(r *records.Record) {
		id := projectID
		r.ProjectID, r.SettlementID = &id, nil
	})
}

func (t *tx) ReplaceSettlementRecords(_ context.Context, settlementID int64, recs []records.Record) error {
	if _, ok := t.st.settlements[settlementID]; !ok {
		return fkError("records.settlement_id", fmt.Sprint(settlementID))
	}
	t.dropRecords(func(r records.Record) bool { return r.SettlementID != nil && *r.SettlementID == settlementID })
	return t.insertRecords(recs, func(r *records.Record) {
		id := settlementID
		r.ProjectID, r.SettlementID = nil, &id
	})
}

func (t *tx) recordsWhere(match func(records.Record) bool) []records.Record {
	var out []records.Record
	for _, r := range t.st.records {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (t *tx) ProjectRecords(_ context.Context, projectID uuid.UUID) ([]records.Record, error) {
	return t.recordsWhere(func(r records.Record) bool { return r.ProjectID != nil && *r.ProjectID == projectID }), nil
}

func (t *tx) SettlementRecords(_ context.Context, settlementID int64) ([]records.Record, error) {
	return t.recordsWhere(func(r records.Record) bool { return r.SettlementID != nil && *r.SettlementID == settlementID }), nil
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && d.Before(to)
}

func (t *tx) SumMemberCost(_ context.Context, member string, from, to time.Time) (int64, error) {
	var sum int64
	for _, r := range t.st.records {
		if r.Member == member && inRange(r.Date, from, to) {
			sum += r.Cost
		}
	}
	return sum, nil
}

func (t *tx) Report(_ context.Context, from, to time.Time) ([]records.ReportRow, error) {
	recs := t.recordsWhere(func(r records.Record) bool { return inRange(r.Date, from, to) })
	out := make([]records.ReportRow, 0, len(recs))
	for _, r := range recs {
		row := records.ReportRow{Date: r.Date, Member: r.Member, Cost: r.Cost}
		if r.ProjectID != nil {
			p := t.st.projects[*r.ProjectID]
			row.Kind, row.Subject, row.Total = records.KindProject, p.Location, p.TotalCost
		} else {
			s := t.st.settlements[*r.SettlementID]
			row.Kind, row.Subject, row.Total = records.KindSettlement, s.Item, s.Remainder
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Subject < out[j].Subject
	})
	return out, nil
}
