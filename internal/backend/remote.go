package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"starbook/internal/application"
	"starbook/internal/domain/entity"
	"starbook/internal/session"
	"starbook/internal/wire"
	"starbook/pkg/money"
)

// Remote speaks the ledger protocol to a running server. It holds no
// ledger state of its own; the only thing it keeps is the access token.
type Remote struct {
	base   string
	client *http.Client
	tokens session.Store
}

func NewRemote(baseURL string, tokens session.Store) *Remote {
	return &Remote{
		base:   baseURL,
		client: &http.Client{Timeout: 3 * time.Second},
		tokens: tokens,
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// post sends one request and decodes the envelope. Transport failures
// become ErrUnavailable; HTTP error statuses become the matching
// application sentinel so callers see the same errors either way.
func (r *Remote) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok, err := r.tokens.Load(); err == nil && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: malformed payload: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return application.ErrUnauthenticated
	case code == http.StatusForbidden:
		return application.ErrUnauthorized
	case code == http.StatusNotFound:
		return application.ErrNotFound
	case code == http.StatusConflict:
		return application.ErrConflict
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, code)
	}
}

// VerifyCurrentUser asks the server who the stored token belongs to.
// A rejected token is purged so the next call starts clean.
func (r *Remote) VerifyCurrentUser(ctx context.Context) (*entity.User, error) {
	var p wire.UserPayload
	err := r.post(ctx, wire.PathGetUserByToken, struct{}{}, &p)
	if err != nil {
		if errors.Is(err, application.ErrUnauthenticated) {
			_ = r.tokens.Clear()
		}
		return nil, err
	}
	u := wire.UserFromPayload(p)
	return &u, nil
}

// LoginUser exchanges credentials for a token. The server answers 401 to
// bad credentials, which here means the credentials, not the session,
// were wrong.
func (r *Remote) LoginUser(ctx context.Context, email, password string) error {
	var p wire.LoginResponse
	err := r.post(ctx, wire.PathLoginUser, wire.LoginRequest{Email: email, Password: password}, &p)
	if err != nil {
		if errors.Is(err, application.ErrUnauthenticated) {
			return application.ErrInvalidCredentials
		}
		return err
	}
	if p.AccessToken == "" {
		return fmt.Errorf("%w: login response missing token", ErrUnavailable)
	}
	return r.tokens.Save(p.AccessToken)
}

// LogoutUser only discards the token; the server keeps no session to end.
func (r *Remote) LogoutUser(ctx context.Context) error {
	return r.tokens.Clear()
}

func (r *Remote) CreateUser(ctx context.Context, name, email, password string) error {
	return r.post(ctx, wire.PathCreateUser, wire.CreateUserRequest{Name: name, Email: email, Password: password}, nil)
}

func (r *Remote) UpdateUserName(ctx context.Context, name string) error {
	return r.post(ctx, wire.PathUpdateUserName, wire.NameRequest{Name: name}, nil)
}

func (r *Remote) UpdateUserEmail(ctx context.Context, email string) error {
	return r.post(ctx, wire.PathUpdateUserEmail, wire.EmailRequest{Email: email}, nil)
}

func (r *Remote) UpdateUserPassword(ctx context.Context, password string) error {
	return r.post(ctx, wire.PathUpdateUserPassword, wire.PasswordRequest{Password: password}, nil)
}

func (r *Remote) CheckUserPassword(ctx context.Context, password string) (bool, error) {
	var p wire.OKPayload
	if err := r.post(ctx, wire.PathCheckUserPassword, wire.PasswordRequest{Password: password}, &p); err != nil {
		return false, err
	}
	return p.OK, nil
}

func (r *Remote) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	var p wire.UserPayload
	if err := r.post(ctx, wire.PathGetUser, wire.IDRequest{ID: id}, &p); err != nil {
		return nil, err
	}
	u := wire.UserFromPayload(p)
	return &u, nil
}

func (r *Remote) GetUserAvatar(ctx context.Context, id int64) (string, error) {
	var p wire.AvatarPayload
	if err := r.post(ctx, wire.PathGetUserAvatar, wire.IDRequest{ID: id}, &p); err != nil {
		return "", err
	}
	return p.URL, nil
}

func (r *Remote) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var p wire.UserPayload
	if err := r.post(ctx, wire.PathGetUserByEmail, wire.EmailRequest{Email: email}, &p); err != nil {
		return nil, err
	}
	u := wire.UserFromPayload(p)
	return &u, nil
}

func (r *Remote) GetUsersByName(ctx context.Context, name string, pageSize, pageID int) ([]entity.User, error) {
	var ps []wire.UserPayload
	req := wire.UsersByNameRequest{Name: name, PageSize: pageSize, PageID: pageID}
	if err := r.post(ctx, wire.PathGetUsersByName, req, &ps); err != nil {
		return nil, err
	}
	return usersFromPayloads(ps), nil
}

func (r *Remote) GetUsersByAccountRole(ctx context.Context, accountID int64, role entity.Role, pageSize, pageID int) ([]entity.User, error) {
	var ps []wire.UserPayload
	req := wire.UsersByAccountRoleRequest{AccountID: accountID, Role: int(role), PageSize: pageSize, PageID: pageID}
	if err := r.post(ctx, wire.PathGetUsersByAccountRole, req, &ps); err != nil {
		return nil, err
	}
	return usersFromPayloads(ps), nil
}

func (r *Remote) CountUsersByAccountRole(ctx context.Context, accountID int64, role entity.Role) (int64, error) {
	var p wire.CountPayload
	req := wire.UsersCountByAccountRoleRequest{AccountID: accountID, Role: int(role)}
	if err := r.post(ctx, wire.PathCountUsersByAccount, req, &p); err != nil {
		return 0, err
	}
	return p.Count, nil
}

func (r *Remote) CheckUserRole(ctx context.Context, userID, accountID int64, role entity.Role) (bool, error) {
	var p wire.OKPayload
	req := wire.CheckUserRoleRequest{UserID: userID, AccountID: accountID, Role: int(role)}
	if err := r.post(ctx, wire.PathCheckUserRole, req, &p); err != nil {
		return false, err
	}
	return p.OK, nil
}

// CheckCurrentUserRole answers false, not an error, when the token is
// missing or stale.
func (r *Remote) CheckCurrentUserRole(ctx context.Context, accountID int64, role entity.Role) (bool, error) {
	var p wire.OKPayload
	req := wire.CheckCurrentUserRoleRequest{AccountID: accountID, Role: int(role)}
	if err := r.post(ctx, wire.PathCheckCurrentUserRole, req, &p); err != nil {
		if errors.Is(err, application.ErrUnauthenticated) {
			return false, nil
		}
		return false, err
	}
	return p.OK, nil
}

func (r *Remote) CreateAccount(ctx context.Context, name string) error {
	return r.post(ctx, wire.PathCreateAccount, wire.NameRequest{Name: name}, nil)
}

func (r *Remote) DeleteAccount(ctx context.Context, id int64) error {
	return r.post(ctx, wire.PathDeleteAccount, wire.IDRequest{ID: id}, nil)
}

func (r *Remote) GetAccount(ctx context.Context, id int64) (*entity.Account, error) {
	var p wire.AccountPayload
	if err := r.post(ctx, wire.PathGetAccount, wire.IDRequest{ID: id}, &p); err != nil {
		return nil, err
	}
	a := wire.AccountFromPayload(p)
	return &a, nil
}

func (r *Remote) GetAccounts(ctx context.Context, role entity.Role, pageSize, pageID int) ([]entity.Account, error) {
	var ps []wire.AccountPayload
	req := wire.AccountsRequest{Role: int(role), PageSize: pageSize, PageID: pageID}
	if err := r.post(ctx, wire.PathGetAccounts, req, &ps); err != nil {
		return nil, err
	}
	out := make([]entity.Account, 0, len(ps))
	for _, p := range ps {
		out = append(out, wire.AccountFromPayload(p))
	}
	return out, nil
}

func (r *Remote) CountAccounts(ctx context.Context, role entity.Role) (int64, error) {
	var p wire.CountPayload
	if err := r.post(ctx, wire.PathGetAccountsCount, wire.AccountsCountRequest{Role: int(role)}, &p); err != nil {
		return 0, err
	}
	return p.Count, nil
}

func (r *Remote) UpdateAccountName(ctx context.Context, id int64, name string) error {
	return r.post(ctx, wire.PathUpdateAccountName, wire.UpdateAccountNameRequest{ID: id, Name: name}, nil)
}

func (r *Remote) AddAccountManager(ctx context.Context, accountID, userID int64) error {
	return r.post(ctx, wire.PathAddAccountManager, wire.AccountManagerRequest{UserID: userID, AccountID: accountID}, nil)
}

func (r *Remote) RemoveAccountManager(ctx context.Context, accountID, userID int64) error {
	return r.post(ctx, wire.PathDeleteAccountManager, wire.AccountManagerRequest{UserID: userID, AccountID: accountID}, nil)
}

func (r *Remote) CreateRecord(ctx context.Context, accountID int64, name string, recordType int, date int64, amount decimal.Decimal) error {
	req := wire.CreateRecordRequest{
		Name:       name,
		RecordType: recordType,
		Date:       date,
		Amount:     money.Format(amount),
		AccountID:  accountID,
	}
	return r.post(ctx, wire.PathCreateRecord, req, nil)
}

func (r *Remote) DeleteRecord(ctx context.Context, id int64) error {
	return r.post(ctx, wire.PathDeleteRecord, wire.IDRequest{ID: id}, nil)
}

func (r *Remote) UpdateRecord(ctx context.Context, id int64, name string, recordType int, date int64, amount decimal.Decimal) error {
	req := wire.UpdateRecordRequest{
		ID:         id,
		Name:       name,
		RecordType: recordType,
		Date:       date,
		Amount:     money.Format(amount),
	}
	return r.post(ctx, wire.PathUpdateRecord, req, nil)
}

func (r *Remote) GetRecordsByAccount(ctx context.Context, accountID int64, pageSize, pageID int) ([]entity.Record, error) {
	var ps []wire.RecordPayload
	req := wire.RecordsByAccountRequest{AccountID: accountID, PageSize: pageSize, PageID: pageID}
	if err := r.post(ctx, wire.PathGetRecordsByAccount, req, &ps); err != nil {
		return nil, err
	}
	out := make([]entity.Record, 0, len(ps))
	for _, p := range ps {
		rec, err := wire.RecordFromPayload(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Remote) CountRecordsByAccount(ctx context.Context, accountID int64) (int64, error) {
	var p wire.CountPayload
	if err := r.post(ctx, wire.PathCountRecordsByAccount, wire.AccountIDRequest{AccountID: accountID}, &p); err != nil {
		return 0, err
	}
	return p.Count, nil
}

func (r *Remote) SumAmountByAccount(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	var p wire.AmountPayload
	if err := r.post(ctx, wire.PathSumAmountByAccount, wire.AccountIDRequest{AccountID: accountID}, &p); err != nil {
		return decimal.Zero, err
	}
	sum, err := money.Parse(p.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return sum, nil
}

// SearchUsers queries the server-side full text index and returns the
// raw hit documents. The local backend has no index, so this lives on
// Remote only.
func (r *Remote) SearchUsers(ctx context.Context, query string, size int) ([]map[string]any, error) {
	var hits []map[string]any
	if err := r.post(ctx, wire.PathSearchUsers, wire.SearchUsersRequest{Query: query, Size: size}, &hits); err != nil {
		return nil, err
	}
	return hits, nil
}

func usersFromPayloads(ps []wire.UserPayload) []entity.User {
	out := make([]entity.User, 0, len(ps))
	for _, p := range ps {
		out = append(out, wire.UserFromPayload(p))
	}
	return out
}

var _ Backend = (*Remote)(nil)
