package entity

import "time"

// Account is a shared financial book. Creating one grants the creator the
// Owner role; deleting one cascades to its records and access rules.
type Account struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
