package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"starbook/internal/domain/entity"
	"starbook/pkg/pagination"
)

// CreateAccount creates an account and atomically grants the creator the
// Owner role on it.
func (s *Service) CreateAccount(ctx context.Context, actorID int64, name string) (*entity.Account, error) {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{Name: name}
	rule := &entity.AccessRule{UserID: u.ID, Role: entity.RoleOwner}
	if err := s.Store.Accounts().Create(ctx, a, rule); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAccount removes an account together with every record and access
// rule referencing it. Owner only.
func (s *Service) DeleteAccount(ctx context.Context, actorID, id int64) error {
	ok, err := s.roleOn(ctx, actorID, id, entity.RoleOwner)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	deleted, err := s.Store.Accounts().DeleteCascade(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// GetAccount returns the account when the caller holds at least Member on
// it. Absent and not-permitted both read as ErrNotFound so a caller
// cannot probe for account existence.
func (s *Service) GetAccount(ctx context.Context, actorID, id int64) (*entity.Account, error) {
	ok, err := s.roleOn(ctx, actorID, id, entity.RoleMember)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	a, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// GetAccounts lists the caller's accounts where the caller's rule role
// equals the filter exactly. This is equality, not the >= used by
// permission checks; Owner-filtered listings do not include
// Member-granted accounts and vice versa.
func (s *Service) GetAccounts(ctx context.Context, actorID int64, role entity.Role, pageSize, pageID int) ([]entity.Account, error) {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	rules, err := s.Store.AccessRules().ListByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	seen := map[int64]bool{}
	accounts := []entity.Account{}
	for _, rule := range rules {
		if rule.Role != role || seen[rule.AccountID] {
			continue
		}
		seen[rule.AccountID] = true
		a, err := s.Store.Accounts().GetByID(ctx, rule.AccountID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			s.logWarn("access rule references a missing account", logrus.Fields{"rule_id": rule.ID, "account_id": rule.AccountID})
			continue
		}
		accounts = append(accounts, *a)
	}
	pagination.SortByID(accounts, func(a entity.Account) int64 { return a.ID })
	return pagination.Page(accounts, pageSize, pageID), nil
}

// CountAccounts counts by the same exact-equality filter as GetAccounts.
func (s *Service) CountAccounts(ctx context.Context, actorID int64, role entity.Role) (int64, error) {
	u, err := s.actor(ctx, actorID)
	if err != nil {
		return 0, err
	}
	rules, err := s.Store.AccessRules().ListByUserID(ctx, u.ID)
	if err != nil {
		return 0, err
	}
	seen := map[int64]bool{}
	var n int64
	for _, rule := range rules {
		if rule.Role == role && !seen[rule.AccountID] {
			seen[rule.AccountID] = true
			n++
		}
	}
	return n, nil
}

// UpdateAccountName renames an account. Owner only.
func (s *Service) UpdateAccountName(ctx context.Context, actorID, id int64, name string) error {
	ok, err := s.roleOn(ctx, actorID, id, entity.RoleOwner)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	updated, err := s.Store.Accounts().UpdateName(ctx, id, name)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

// AddAccountManager grants Member to a user. Owner only; granting to a
// user who already holds any role fails so no duplicate rule is created
// and no downgrade path exists.
func (s *Service) AddAccountManager(ctx context.Context, actorID, accountID, userID int64) error {
	ok, err := s.roleOn(ctx, actorID, accountID, entity.RoleOwner)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	already, err := s.HasRole(ctx, userID, accountID, entity.RoleMember)
	if err != nil {
		return err
	}
	if already {
		return ErrConflict
	}
	rule := &entity.AccessRule{UserID: userID, AccountID: accountID, Role: entity.RoleMember}
	return s.Store.AccessRules().Create(ctx, rule)
}

// RemoveAccountManager revokes a user's grant on the account. Owner only;
// revoking a grant that does not exist is a no-op success.
func (s *Service) RemoveAccountManager(ctx context.Context, actorID, accountID, userID int64) error {
	ok, err := s.roleOn(ctx, actorID, accountID, entity.RoleOwner)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return s.Store.AccessRules().DeleteByAccountAndUser(ctx, accountID, userID)
}
