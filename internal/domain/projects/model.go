package projects

import (
	"time"

	"github.com/google/uuid"
)

// Project is one gathering at a location on a date. (Date, Location) is unique.
type Project struct {
	ID         uuid.UUID
	Date       time.Time
	Location   string
	TotalCost  int64
	MemberPool int64
	// Linked projects consume one capacity unit of the location's recurring item.
	Linked      bool
	Members     []string
	OriginalMsg string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
