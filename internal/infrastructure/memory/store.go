// Package memory is the in-process Store. Operations are atomic behind a
// single mutex, matching the logically single-threaded model of the local
// backend: a cascade delete is indivisible from any reader's point of view.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"starbook/internal/domain/entity"
	"starbook/internal/domain/repository"
	"starbook/pkg/money"
)

type Store struct {
	mu sync.Mutex

	users    map[int64]*entity.User
	accounts map[int64]*entity.Account
	records  map[int64]*entity.Record
	rules    map[int64]*entity.AccessRule

	nextUserID    int64
	nextAccountID int64
	nextRecordID  int64
	nextRuleID    int64
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*entity.User),
		accounts:      make(map[int64]*entity.Account),
		records:       make(map[int64]*entity.Record),
		rules:         make(map[int64]*entity.AccessRule),
		nextUserID:    1,
		nextAccountID: 1,
		nextRecordID:  1,
		nextRuleID:    1,
	}
}

func (s *Store) Users() repository.UserRepository             { return (*userRepo)(s) }
func (s *Store) Accounts() repository.AccountRepository       { return (*accountRepo)(s) }
func (s *Store) Records() repository.RecordRepository         { return (*recordRepo)(s) }
func (s *Store) AccessRules() repository.AccessRuleRepository { return (*ruleRepo)(s) }

func sortedIDs[T any](m map[int64]*T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ---- users ----

type userRepo Store

func copyUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextUserID
	r.nextUserID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range sortedIDs(r.users) {
		if r.users[id].Email == email {
			return copyUser(r.users[id]), nil
		}
	}
	return nil, nil
}

func (r *userRepo) ListByName(ctx context.Context, name string) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.User{}
	for _, id := range sortedIDs(r.users) {
		if r.users[id].Name == name {
			out = append(out, *r.users[id])
		}
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return nil
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

// ---- accounts ----

type accountRepo Store

func (r *accountRepo) Create(ctx context.Context, a *entity.Account, ownerRule *entity.AccessRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextAccountID
	r.nextAccountID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	r.accounts[a.ID] = &cp

	ownerRule.ID = r.nextRuleID
	r.nextRuleID++
	ownerRule.AccountID = a.ID
	rc := *ownerRule
	r.rules[ownerRule.ID] = &rc
	return nil
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *accountRepo) UpdateName(ctx context.Context, id int64, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return false, nil
	}
	a.Name = name
	return true, nil
}

func (r *accountRepo) DeleteCascade(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return false, nil
	}
	delete(r.accounts, id)
	for rid, rec := range r.records {
		if rec.AccountID == id {
			delete(r.records, rid)
		}
	}
	for rid, rule := range r.rules {
		if rule.AccountID == id {
			delete(r.rules, rid)
		}
	}
	return true, nil
}

// ---- records ----

type recordRepo Store

func (r *recordRepo) Create(ctx context.Context, rec *entity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = r.nextRecordID
	r.nextRecordID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id int64) (*entity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *recordRepo) ListByAccountID(ctx context.Context, accountID int64) ([]entity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Record{}
	for _, id := range sortedIDs(r.records) {
		if r.records[id].AccountID == accountID {
			out = append(out, *r.records[id])
		}
	}
	return out, nil
}

func (r *recordRepo) CountByAccountID(ctx context.Context, accountID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *recordRepo) SumAmountByAccountID(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var amounts []decimal.Decimal
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			amounts = append(amounts, rec.Amount)
		}
	}
	return money.Sum(amounts), nil
}

func (r *recordRepo) Update(ctx context.Context, rec *entity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; !ok {
		return nil
	}
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *recordRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

// ---- access rules ----

type ruleRepo Store

func (r *ruleRepo) Create(ctx context.Context, rule *entity.AccessRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule.ID = r.nextRuleID
	r.nextRuleID++
	cp := *rule
	r.rules[rule.ID] = &cp
	return nil
}

func (r *ruleRepo) ListByAccountID(ctx context.Context, accountID int64) ([]entity.AccessRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.AccessRule{}
	for _, id := range sortedIDs(r.rules) {
		if r.rules[id].AccountID == accountID {
			out = append(out, *r.rules[id])
		}
	}
	return out, nil
}

func (r *ruleRepo) ListByUserID(ctx context.Context, userID int64) ([]entity.AccessRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.AccessRule{}
	for _, id := range sortedIDs(r.rules) {
		if r.rules[id].UserID == userID {
			out = append(out, *r.rules[id])
		}
	}
	return out, nil
}

func (r *ruleRepo) DeleteByAccountAndUser(ctx context.Context, accountID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rule := range r.rules {
		if rule.AccountID == accountID && rule.UserID == userID {
			delete(r.rules, id)
		}
	}
	return nil
}

var _ repository.Store = (*Store)(nil)
