package settlements

import "time"

// Settlement is the split of one recurring item's invoice for one month.
// (Month, Item) is unique.
type Settlement struct {
	ID            int64
	Month         string // "YYYY-MM"
	Item          string
	Invoice       int64
	Capacity      int
	ConsumedUnits int
	Deducted      int64
	Remainder     int64
	Members       []string
	OriginalMsg   string
	CreatedAt     time.Time
}
