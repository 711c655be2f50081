package backend

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"starbook/internal/application"
	"starbook/internal/domain/entity"
	"starbook/internal/session"
)

// Local is the in-process backend: the shared engine over an in-memory
// store, plus a credential store holding the current login. Operations
// are atomic; no interleaving is visible to callers.
type Local struct {
	svc    *application.Service
	tokens session.Store
}

func NewLocal(svc *application.Service, tokens session.Store) *Local {
	return &Local{svc: svc, tokens: tokens}
}

// VerifyCurrentUser resolves the stored credential to a user. A missing
// credential is a normal result; a credential naming a vanished user is
// purged before reporting unauthenticated.
func (l *Local) VerifyCurrentUser(ctx context.Context) (*entity.User, error) {
	id, ok := l.currentID()
	if !ok {
		return nil, application.ErrUnauthenticated
	}
	u, err := l.svc.ResolveUser(ctx, id)
	if err != nil {
		_ = l.tokens.Clear()
		return nil, application.ErrUnauthenticated
	}
	return u, nil
}

func (l *Local) LoginUser(ctx context.Context, email, password string) error {
	u, err := l.svc.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	return l.tokens.Save(strconv.FormatInt(u.ID, 10))
}

func (l *Local) LogoutUser(ctx context.Context) error {
	return l.tokens.Clear()
}

func (l *Local) CreateUser(ctx context.Context, name, email, password string) error {
	return l.svc.CreateUser(ctx, name, email, password)
}

func (l *Local) UpdateUserName(ctx context.Context, name string) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.UpdateUserName(ctx, u.ID, name)
}

func (l *Local) UpdateUserEmail(ctx context.Context, email string) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.UpdateUserEmail(ctx, u.ID, email)
}

func (l *Local) UpdateUserPassword(ctx context.Context, password string) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.UpdateUserPassword(ctx, u.ID, password)
}

func (l *Local) CheckUserPassword(ctx context.Context, password string) (bool, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return false, err
	}
	return l.svc.CheckUserPassword(ctx, u.ID, password)
}

func (l *Local) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.svc.GetUser(ctx, u.ID, id)
}

func (l *Local) GetUserAvatar(ctx context.Context, id int64) (string, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return l.svc.GetUserAvatar(ctx, u.ID, id)
}

func (l *Local) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.svc.GetUserByEmail(ctx, u.ID, email)
}

func (l *Local) GetUsersByName(ctx context.Context, name string, pageSize, pageID int) ([]entity.User, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.svc.GetUsersByName(ctx, u.ID, name, pageSize, pageID)
}

func (l *Local) GetUsersByAccountRole(ctx context.Context, accountID int64, role entity.Role, pageSize, pageID int) ([]entity.User, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.svc.GetUsersByAccountRole(ctx, u.ID, accountID, role, pageSize, pageID)
}

func (l *Local) CountUsersByAccountRole(ctx context.Context, accountID int64, role entity.Role) (int64, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return l.svc.CountUsersByAccountRole(ctx, u.ID, accountID, role)
}

// CheckUserRole is a pure predicate over the rule set; it needs no
// current identity.
func (l *Local) CheckUserRole(ctx context.Context, userID, accountID int64, role entity.Role) (bool, error) {
	return l.svc.HasRole(ctx, userID, accountID, role)
}

// CheckCurrentUserRole answers false, not an error, when nobody is
// logged in.
func (l *Local) CheckCurrentUserRole(ctx context.Context, accountID int64, role entity.Role) (bool, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return false, nil
	}
	return l.svc.HasRole(ctx, u.ID, accountID, role)
}

func (l *Local) CreateAccount(ctx context.Context, name string) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	_, err = l.svc.CreateAccount(ctx, u.ID, name)
	return err
}

func (l *Local) DeleteAccount(ctx context.Context, id int64) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.DeleteAccount(ctx, u.ID, id)
}

func (l *Local) GetAccount(ctx context.Context, id int64) (*entity.Account, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.svc.GetAccount(ctx, u.ID, id)
}

func (l *Local) GetAccounts(ctx context.Context, role entity.Role, pageSize, pageID int) ([]entity.Account, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.svc.GetAccounts(ctx, u.ID, role, pageSize, pageID)
}

func (l *Local) CountAccounts(ctx context.Context, role entity.Role) (int64, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return l.svc.CountAccounts(ctx, u.ID, role)
}

func (l *Local) UpdateAccountName(ctx context.Context, id int64, name string) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.UpdateAccountName(ctx, u.ID, id, name)
}

func (l *Local) AddAccountManager(ctx context.Context, accountID, userID int64) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.AddAccountManager(ctx, u.ID, accountID, userID)
}

func (l *Local) RemoveAccountManager(ctx context.Context, accountID, userID int64) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.RemoveAccountManager(ctx, u.ID, accountID, userID)
}

func (l *Local) CreateRecord(ctx context.Context, accountID int64, name string, recordType int, date int64, amount decimal.Decimal) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	in := application.RecordInput{Name: name, Type: recordType, Date: time.Unix(date, 0), Amount: amount}
	return l.svc.CreateRecord(ctx, u.ID, accountID, in)
}

func (l *Local) DeleteRecord(ctx context.Context, id int64) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	return l.svc.DeleteRecord(ctx, u.ID, id)
}

func (l *Local) UpdateRecord(ctx context.Context, id int64, name string, recordType int, date int64, amount decimal.Decimal) error {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return err
	}
	in := application.RecordInput{Name: name, Type: recordType, Date: time.Unix(date, 0), Amount: amount}
	return l.svc.UpdateRecord(ctx, u.ID, id, in)
}

func (l *Local) GetRecordsByAccount(ctx context.Context, accountID int64, pageSize, pageID int) ([]entity.Record, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return l.svc.GetRecordsByAccount(ctx, u.ID, accountID, pageSize, pageID)
}

func (l *Local) CountRecordsByAccount(ctx context.Context, accountID int64) (int64, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return 0, err
	}
	return l.svc.CountRecordsByAccount(ctx, u.ID, accountID)
}

func (l *Local) SumAmountByAccount(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	u, err := l.VerifyCurrentUser(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return l.svc.SumAmountByAccount(ctx, u.ID, accountID)
}

func (l *Local) currentID() (int64, bool) {
	tok, err := l.tokens.Load()
	if err != nil || tok == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || id <= 0 {
		_ = l.tokens.Clear()
		return 0, false
	}
	return id, true
}

var _ Backend = (*Local)(nil)
