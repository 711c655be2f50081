package entity

import (
	"time"
)

// User is a registered person. PasswordHash holds a bcrypt hash; the
// plain credential never leaves the transport layer.
//
// Users are never deleted in this design, so no delete path exists on the
// stores. Email uniqueness is checked at registration time only.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
