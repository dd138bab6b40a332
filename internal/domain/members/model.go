package members

import "time"

type Member struct {
	Name      string
	CreatedAt time.Time
}
