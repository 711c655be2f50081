package memory

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"starbook/internal/domain/entity"
)

// Seed loads the demo dataset: three users sharing one busy account plus
// two single-owner accounts. Password hashes are produced by the caller
// so the store stays free of crypto concerns.
func Seed(s *Store, hash func(plain string) string) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := int64(1); i <= 3; i++ {
		u := &entity.User{
			ID:           i,
			Name:         "testUser" + itoa(i),
			Email:        "test" + itoa(i) + "@star.com",
			PasswordHash: hash("testpassword" + itoa(i)),
			CreatedAt:    now,
		}
		s.users[i] = u
	}
	s.nextUserID = 4

	for i := int64(1); i <= 3; i++ {
		s.accounts[i] = &entity.Account{ID: i, Name: "testAccount" + itoa(i), CreatedAt: now}
	}
	s.nextAccountID = 4

	amount := decimal.RequireFromString("9.9")
	creators := []int64{1, 2, 3, 1, 1, 1, 1}
	for i, uid := range creators {
		id := int64(i + 1)
		s.records[id] = &entity.Record{
			ID:                 id,
			Name:               "test" + itoa(id),
			Type:               i + 1,
			Date:               now,
			Amount:             amount,
			AccountID:          1,
			CreateUserID:       uid,
			LastModifiedUserID: uid,
			CreatedAt:          now,
		}
	}
	s.nextRecordID = 8

	rules := []entity.AccessRule{
		{ID: 1, UserID: 1, AccountID: 1, Role: entity.RoleOwner},
		{ID: 2, UserID: 1, AccountID: 2, Role: entity.RoleOwner},
		{ID: 3, UserID: 1, AccountID: 3, Role: entity.RoleOwner},
		{ID: 4, UserID: 2, AccountID: 1, Role: entity.RoleMember},
		{ID: 5, UserID: 3, AccountID: 1, Role: entity.RoleMember},
	}
	for i := range rules {
		rc := rules[i]
		s.rules[rc.ID] = &rc
	}
	s.nextRuleID = 6
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
