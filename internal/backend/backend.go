// Package backend defines the ledger operation contract and its two
// interchangeable implementations: Local keeps all state in process
// memory, Remote delegates every call to the ledger service over HTTP.
// Given identical input sequences the two are observably identical:
// same authorization outcomes, same page slices, same sums, same errors.
package backend

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"starbook/internal/domain/entity"
)

// ErrUnavailable reports a transport failure: the remote service was
// unreachable, returned garbage, or timed out. The local backend never
// returns it.
var ErrUnavailable = errors.New("backend unavailable")

// Backend is the full operation set. Every call resolves the current
// identity from the backend's credential store first; operations that
// need no identity (CreateUser, LoginUser, CheckUserRole) skip that step.
//
// Outcome conventions are those of the application package:
// ErrUnauthenticated for a missing/stale credential, ErrNotFound for
// absent-or-forbidden single reads, empty/zero with nil error for
// unauthorized lists, counts and sums, ErrUnauthorized for denied
// mutations, ErrConflict for duplicate email or duplicate grant.
type Backend interface {
	// identity and credential lifecycle
	VerifyCurrentUser(ctx context.Context) (*entity.User, error)
	LoginUser(ctx context.Context, email, password string) error
	LogoutUser(ctx context.Context) error

	// users
	CreateUser(ctx context.Context, name, email, password string) error
	UpdateUserName(ctx context.Context, name string) error
	UpdateUserEmail(ctx context.Context, email string) error
	UpdateUserPassword(ctx context.Context, password string) error
	CheckUserPassword(ctx context.Context, password string) (bool, error)
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	GetUserAvatar(ctx context.Context, id int64) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUsersByName(ctx context.Context, name string, pageSize, pageID int) ([]entity.User, error)
	GetUsersByAccountRole(ctx context.Context, accountID int64, role entity.Role, pageSize, pageID int) ([]entity.User, error)
	CountUsersByAccountRole(ctx context.Context, accountID int64, role entity.Role) (int64, error)

	// authorization probes
	CheckUserRole(ctx context.Context, userID, accountID int64, role entity.Role) (bool, error)
	CheckCurrentUserRole(ctx context.Context, accountID int64, role entity.Role) (bool, error)

	// accounts
	CreateAccount(ctx context.Context, name string) error
	DeleteAccount(ctx context.Context, id int64) error
	GetAccount(ctx context.Context, id int64) (*entity.Account, error)
	GetAccounts(ctx context.Context, role entity.Role, pageSize, pageID int) ([]entity.Account, error)
	CountAccounts(ctx context.Context, role entity.Role) (int64, error)
	UpdateAccountName(ctx context.Context, id int64, name string) error
	AddAccountManager(ctx context.Context, accountID, userID int64) error
	RemoveAccountManager(ctx context.Context, accountID, userID int64) error

	// records
	CreateRecord(ctx context.Context, accountID int64, name string, recordType int, date int64, amount decimal.Decimal) error
	DeleteRecord(ctx context.Context, id int64) error
	UpdateRecord(ctx context.Context, id int64, name string, recordType int, date int64, amount decimal.Decimal) error
	GetRecordsByAccount(ctx context.Context, accountID int64, pageSize, pageID int) ([]entity.Record, error)
	CountRecordsByAccount(ctx context.Context, accountID int64) (int64, error)
	SumAmountByAccount(ctx context.Context, accountID int64) (decimal.Decimal, error)
}
