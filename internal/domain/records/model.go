package records

import (
	"time"

	"github.com/google/uuid"
)

// Record is one party's share of exactly one project or one settlement.
type Record struct {
	ID           int64
	Date         time.Time
	Member       string
	ProjectID    *uuid.UUID
	SettlementID *int64
	Cost         int64
	OriginalMsg  string
}

type Kind string

const (
	KindProject    Kind = "project"
	KindSettlement Kind = "settlement"
)

// ReportRow is one line of the monthly detail report.
type ReportRow struct {
	Date    time.Time
	Kind    Kind
	Subject string // location or recurring item
	Member  string
	Cost    int64
	// Total is the project total cost, or the settled remainder.
	Total int64
}
