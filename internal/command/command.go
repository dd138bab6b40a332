// Package command turns one chat line into a typed command. It knows nothing
// about storage: the caller passes the known location names and the clock in
// Env.
package command

import (
	"fmt"
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindRecordExpense           Kind = "record_expense"
	KindSettleRecurring         Kind = "settle_recurring"
	KindAddMember               Kind = "add_member"
	KindAddLocation             Kind = "add_location"
	KindDefineRecurringLocation Kind = "define_recurring_location"
	KindDefineRecurringItem     Kind = "define_recurring_item"
	KindDeleteMember            Kind = "delete_member"
	KindDeleteLocation          Kind = "delete_location"
	KindDeleteProject           Kind = "delete_project"
	KindDeleteRecurringItem     Kind = "delete_recurring_item"
	KindDeleteSettlement        Kind = "delete_settlement"
	KindList                    Kind = "list"
	KindStat                    Kind = "stat"
	KindReport                  Kind = "report"
	KindPing                    Kind = "ping"
	KindHelp                    Kind = "help"
)

// Command is one of the variants below; the set is closed.
type Command interface {
	Kind() Kind
	command()
}

// Env carries the values the interpreter would otherwise read from globals.
type Env struct {
	Today     time.Time
	Company   string
	Locations []string
}

type RecordExpense struct {
	Date          time.Time
	Location      string
	Members       []string
	CostOverride  *int64
	Multiplier    *decimal.Decimal
	ForceStandard bool
	Text          string
}

type SettleRecurring struct {
	Month            calendar.Month
	Item             string
	Invoice          int64
	CapacityOverride *int
	Members          []string // nil = item's default roster
	Text             string
}

type AddMember struct{ Name string }

type AddLocation struct {
	Name string
	Cost int64
}

type DefineRecurringLocation struct {
	Name     string
	Cost     int64
	Item     string
	OpenDays calendar.WeekdayMask
}

type DefineRecurringItem struct {
	Name    string
	Members []string
}

type DeleteMember struct{ Name string }

type DeleteLocation struct{ Name string }

type DeleteProject struct {
	Date     time.Time
	Location string
}

type DeleteRecurringItem struct{ Name string }

type DeleteSettlement struct {
	Month calendar.Month
	Item  string
}

type ListTarget string

const (
	ListMembers     ListTarget = "members"
	ListLocations   ListTarget = "locations"
	ListItems       ListTarget = "items"
	ListSettlements ListTarget = "settlements"
)

type List struct{ Target ListTarget }

type Stat struct {
	Member string
	Month  calendar.Month
}

type Report struct{ Month calendar.Month }

type Ping struct{}

type Help struct{}

func (RecordExpense) Kind() Kind           { return KindRecordExpense }
func (SettleRecurring) Kind() Kind         { return KindSettleRecurring }
func (AddMember) Kind() Kind               { return KindAddMember }
func (AddLocation) Kind() Kind             { return KindAddLocation }
func (DefineRecurringLocation) Kind() Kind { return KindDefineRecurringLocation }
func (DefineRecurringItem) Kind() Kind     { return KindDefineRecurringItem }
func (DeleteMember) Kind() Kind            { return KindDeleteMember }
func (DeleteLocation) Kind() Kind          { return KindDeleteLocation }
func (DeleteProject) Kind() Kind           { return KindDeleteProject }
func (DeleteRecurringItem) Kind() Kind     { return KindDeleteRecurringItem }
func (DeleteSettlement) Kind() Kind        { return KindDeleteSettlement }
func (List) Kind() Kind                    { return KindList }
func (Stat) Kind() Kind                    { return KindStat }
func (Report) Kind() Kind                  { return KindReport }
func (Ping) Kind() Kind                    { return KindPing }
func (Help) Kind() Kind                    { return KindHelp }

func (RecordExpense) command()           {}
func (SettleRecurring) command()         {}
func (AddMember) command()               {}
func (AddLocation) command()             {}
func (DefineRecurringLocation) command() {}
func (DefineRecurringItem) command()     {}
func (DeleteMember) command()            {}
func (DeleteLocation) command()          {}
func (DeleteProject) command()           {}
func (DeleteRecurringItem) command()     {}
func (DeleteSettlement) command()        {}
func (List) command()                    {}
func (Stat) command()                    {}
func (Report) command()                  {}
func (Ping) command()                    {}
func (Help) command()                    {}

// ParseError is returned for input that cannot be interpreted. Reason is
// shown to the user as is.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return "parse: " + e.Reason }

func parseErr(format string, args ...any) error {
	if len(args) == 0 {
		return &ParseError{Reason: format}
	}
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}
