package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"starbook/internal/domain/entity"
)

// Stores own their collections and identifier sequences outright. Every
// read hands back a copy, never an alias into internal state. List
// methods return the full candidate set ordered by id ascending; slicing
// into pages is the application layer's job so pagination behaves
// identically over every implementation.
//
// Absent rows are reported as (nil, nil) / zero values, not errors; the
// application layer decides what absence means for the caller.

// UserRepository persists registered users.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByName(ctx context.Context, name string) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}

// AccountRepository persists accounts. Create also inserts the creator's
// Owner rule in the same unit of work; DeleteCascade removes the account
// together with its records and access rules so no caller can observe a
// half-deleted state.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account, ownerRule *entity.AccessRule) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	UpdateName(ctx context.Context, id int64, name string) (bool, error)
	DeleteCascade(ctx context.Context, id int64) (bool, error)
}

// RecordRepository persists monetary records.
type RecordRepository interface {
	Create(ctx context.Context, r *entity.Record) error
	GetByID(ctx context.Context, id int64) (*entity.Record, error)
	ListByAccountID(ctx context.Context, accountID int64) ([]entity.Record, error)
	CountByAccountID(ctx context.Context, accountID int64) (int64, error)
	SumAmountByAccountID(ctx context.Context, accountID int64) (decimal.Decimal, error)
	Update(ctx context.Context, r *entity.Record) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// AccessRuleRepository persists the user/account role grants.
type AccessRuleRepository interface {
	Create(ctx context.Context, r *entity.AccessRule) error
	ListByAccountID(ctx context.Context, accountID int64) ([]entity.AccessRule, error)
	ListByUserID(ctx context.Context, userID int64) ([]entity.AccessRule, error)
	DeleteByAccountAndUser(ctx context.Context, accountID, userID int64) error
}

// Store bundles the four collections behind one handle.
type Store interface {
	Users() UserRepository
	Accounts() AccountRepository
	Records() RecordRepository
	AccessRules() AccessRuleRepository
}
