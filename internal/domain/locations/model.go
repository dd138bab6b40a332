package locations

import (
	"time"

	"github.com/Spok95/costshare-bot/internal/calendar"
)

type Location struct {
	Name     string
	UnitCost int64
	// OpenDays and RecurringItem are set only for recurring-linked locations.
	OpenDays      calendar.WeekdayMask
	RecurringItem string
	UpdatedAt     time.Time
}

// Linked reports whether per-event costs here pre-pay a recurring item.
func (l Location) Linked() bool { return l.RecurringItem != "" }
