package recurring

import "time"

// Item is a monthly fixed obligation. DefaultMembers never holds the company.
type Item struct {
	Name           string
	DefaultMembers []string
	Memo           string
	UpdatedAt      time.Time
}
