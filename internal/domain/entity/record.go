package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a dated monetary entry belonging to exactly one account.
// Amount is an arbitrary-precision decimal so sums never pick up binary
// floating-point drift.
//
// AccountID, CreateUserID and CreatedAt are immutable after creation;
// every update re-stamps LastModifiedUserID with the acting user.
type Record struct {
	ID                 int64
	Name               string
	Type               int
	Date               time.Time
	Amount             decimal.Decimal
	AccountID          int64
	CreateUserID       int64
	LastModifiedUserID int64
	CreatedAt          time.Time
}
