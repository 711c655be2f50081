package application_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"starbook/internal/application"
	"starbook/internal/domain/entity"
	"starbook/internal/infrastructure/memory"
	"starbook/pkg/helpers"
)

// Seeded world: user 1 owns accounts 1-3, users 2 and 3 hold Member on
// account 1, account 1 carries seven records of 9.9 each.

func newService(t *testing.T) (*application.Service, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	memory.Seed(s, func(plain string) string {
		h, err := helpers.HashPassword(plain)
		require.NoError(t, err)
		return h
	})
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return application.NewService(s, logger), s
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	u, err := svc.Authenticate(ctx, "test1@star.com", "testpassword1")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	_, err = svc.Authenticate(ctx, "test1@star.com", "wrong")
	require.ErrorIs(t, err, application.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@star.com", "testpassword1")
	require.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.CreateUser(ctx, "fresh", "fresh@star.com", "password123"))
	err := svc.CreateUser(ctx, "other", "fresh@star.com", "password456")
	require.ErrorIs(t, err, application.ErrConflict)

	// The duplicate attempt must not have registered anything.
	u, err := svc.Authenticate(ctx, "fresh@star.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "fresh", u.Name)
}

func TestHasRoleMatrix(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	cases := []struct {
		name      string
		userID    int64
		accountID int64
		role      entity.Role
		want      bool
	}{
		{"owner satisfies member", 1, 1, entity.RoleMember, true},
		{"owner satisfies owner", 1, 1, entity.RoleOwner, true},
		{"member satisfies member", 2, 1, entity.RoleMember, true},
		{"member does not satisfy owner", 2, 1, entity.RoleOwner, false},
		{"no rule means no", 2, 2, entity.RoleMember, false},
		{"unknown account", 1, 99, entity.RoleMember, false},
		{"unknown user", 99, 1, entity.RoleMember, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.HasRole(ctx, tc.userID, tc.accountID, tc.role)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestHasRoleDuplicateRulesHighestWins(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	// User 2 already holds Member on account 1; add a second, higher rule.
	require.NoError(t, store.AccessRules().Create(ctx, &entity.AccessRule{UserID: 2, AccountID: 1, Role: entity.RoleOwner}))

	ok, err := svc.HasRole(ctx, 2, 1, entity.RoleOwner)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGetAccountFoldsAbsentAndForbidden(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.GetAccount(ctx, 2, 1)
	require.NoError(t, err)
	require.Equal(t, "testAccount1", a.Name)

	_, err = svc.GetAccount(ctx, 2, 2)
	require.ErrorIs(t, err, application.ErrNotFound)

	_, err = svc.GetAccount(ctx, 1, 99)
	require.ErrorIs(t, err, application.ErrNotFound)
}

func TestGetAccountsExactRoleFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	owned, err := svc.GetAccounts(ctx, 1, entity.RoleOwner, 10, 1)
	require.NoError(t, err)
	require.Len(t, owned, 3)

	// Exact equality: the Owner of three accounts has no Member-filtered rows.
	member, err := svc.GetAccounts(ctx, 1, entity.RoleMember, 10, 1)
	require.NoError(t, err)
	require.Empty(t, member)

	member2, err := svc.GetAccounts(ctx, 2, entity.RoleMember, 10, 1)
	require.NoError(t, err)
	require.Len(t, member2, 1)
	require.Equal(t, int64(1), member2[0].ID)
}

func TestGetAccountsPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	page, err := svc.GetAccounts(ctx, 1, entity.RoleOwner, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, int64(3), page[0].ID)

	empty, err := svc.GetAccounts(ctx, 1, entity.RoleOwner, 2, 3)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestCountAccounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	n, err := svc.CountAccounts(ctx, 1, entity.RoleOwner)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	n, err = svc.CountAccounts(ctx, 3, entity.RoleMember)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = svc.CountAccounts(ctx, 3, entity.RoleOwner)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCreateAccountGrantsOwner(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, err := svc.CreateAccount(ctx, 2, "shared")
	require.NoError(t, err)
	require.NotZero(t, a.ID)

	ok, err := svc.HasRole(ctx, 2, a.ID, entity.RoleOwner)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeleteAccountAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	// Member cannot delete.
	require.ErrorIs(t, svc.DeleteAccount(ctx, 2, 1), application.ErrUnauthorized)

	// Owner can, and the cascade clears records and rules.
	require.NoError(t, svc.DeleteAccount(ctx, 1, 1))

	recs, err := store.Records().ListByAccountID(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, recs)

	rules, err := store.AccessRules().ListByAccountID(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, rules)

	// The former members lost all access; nothing else leaked.
	n, err := svc.CountAccounts(ctx, 2, entity.RoleMember)
	require.NoError(t, err)
	require.Zero(t, n)

	// No rule on a vanished account reads as not-allowed.
	require.ErrorIs(t, svc.DeleteAccount(ctx, 1, 1), application.ErrUnauthorized)
}

func TestUpdateAccountName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.ErrorIs(t, svc.UpdateAccountName(ctx, 2, 1, "nope"), application.ErrUnauthorized)
	require.NoError(t, svc.UpdateAccountName(ctx, 1, 1, "renamed"))

	a, err := svc.GetAccount(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "renamed", a.Name)
}

func TestAccountManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	// Only the Owner grants.
	require.ErrorIs(t, svc.AddAccountManager(ctx, 2, 1, 3), application.ErrUnauthorized)

	// Granting to an existing holder conflicts, whatever their role.
	require.ErrorIs(t, svc.AddAccountManager(ctx, 1, 1, 2), application.ErrConflict)
	require.ErrorIs(t, svc.AddAccountManager(ctx, 1, 2, 1), application.ErrConflict)

	// Fresh grant works.
	require.NoError(t, svc.AddAccountManager(ctx, 1, 2, 3))
	ok, err := svc.HasRole(ctx, 3, 2, entity.RoleMember)
	require.NoError(t, err)
	require.True(t, ok)

	// Revoke, then revoking again is a quiet no-op.
	require.NoError(t, svc.RemoveAccountManager(ctx, 1, 2, 3))
	ok, err = svc.HasRole(ctx, 3, 2, entity.RoleMember)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, svc.RemoveAccountManager(ctx, 1, 2, 3))
}

func TestCreateRecordStampsActor(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	in := application.RecordInput{Name: "coffee", Type: 2, Date: time.Unix(1700000000, 0), Amount: decimal.RequireFromString("4.5")}
	require.NoError(t, svc.CreateRecord(ctx, 2, 1, in))

	recs, err := store.Records().ListByAccountID(ctx, 1)
	require.NoError(t, err)
	created := recs[len(recs)-1]
	require.Equal(t, "coffee", created.Name)
	require.Equal(t, int64(2), created.CreateUserID)
	require.Equal(t, int64(2), created.LastModifiedUserID)
	require.Equal(t, int64(1), created.AccountID)

	// A stranger to the account cannot write into it.
	require.ErrorIs(t, svc.CreateRecord(ctx, 2, 2, in), application.ErrUnauthorized)
}

func TestUpdateRecordRestampsModifierOnly(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	// Record 2 was created by user 2; user 3 edits it.
	in := application.RecordInput{Name: "edited", Type: 9, Date: time.Unix(1800000000, 0), Amount: decimal.RequireFromString("1.1")}
	require.NoError(t, svc.UpdateRecord(ctx, 3, 2, in))

	rec, err := store.Records().GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "edited", rec.Name)
	require.Equal(t, int64(2), rec.CreateUserID)
	require.Equal(t, int64(3), rec.LastModifiedUserID)
	require.Equal(t, int64(1), rec.AccountID)

	require.ErrorIs(t, svc.UpdateRecord(ctx, 1, 99, in), application.ErrNotFound)
}

func TestDeleteRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	// Missing beats forbidden.
	require.ErrorIs(t, svc.DeleteRecord(ctx, 1, 99), application.ErrNotFound)

	// Members may delete records they did not create.
	require.NoError(t, svc.DeleteRecord(ctx, 3, 1))

	n, err := svc.CountRecordsByAccount(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(6), n)
}

func TestRecordReadsDegradeForStrangers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	// User 2 holds nothing on account 2: empty, zero, zero, no errors.
	recs, err := svc.GetRecordsByAccount(ctx, 2, 2, 10, 1)
	require.NoError(t, err)
	require.Empty(t, recs)

	n, err := svc.CountRecordsByAccount(ctx, 2, 2)
	require.NoError(t, err)
	require.Zero(t, n)

	sum, err := svc.SumAmountByAccount(ctx, 2, 2)
	require.NoError(t, err)
	require.True(t, sum.IsZero())
}

func TestSumAmountExact(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	sum, err := svc.SumAmountByAccount(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "69.3", sum.String())
}

func TestRecordPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	page, err := svc.GetRecordsByAccount(ctx, 1, 1, 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, int64(7), page[0].ID)

	empty, err := svc.GetRecordsByAccount(ctx, 1, 1, 3, 4)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestGetUsersByAccountRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	members, err := svc.GetUsersByAccountRole(ctx, 2, 1, entity.RoleMember, 10, 1)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, int64(2), members[0].ID)
	require.Equal(t, int64(3), members[1].ID)

	owners, err := svc.GetUsersByAccountRole(ctx, 2, 1, entity.RoleOwner, 10, 1)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	require.Equal(t, int64(1), owners[0].ID)

	// Without Member on the account the listing is empty, not an error.
	strangers, err := svc.GetUsersByAccountRole(ctx, 2, 2, entity.RoleOwner, 10, 1)
	require.NoError(t, err)
	require.Empty(t, strangers)

	n, err := svc.CountUsersByAccountRole(ctx, 1, 1, entity.RoleMember)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func TestUserProfileUpdates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	require.NoError(t, svc.UpdateUserName(ctx, 1, "renamedUser"))
	require.NoError(t, svc.UpdateUserEmail(ctx, 1, "renamed@star.com"))
	require.NoError(t, svc.UpdateUserPassword(ctx, 1, "newpassword1"))

	u, err := svc.Authenticate(ctx, "renamed@star.com", "newpassword1")
	require.NoError(t, err)
	require.Equal(t, "renamedUser", u.Name)

	ok, err := svc.CheckUserPassword(ctx, 1, "newpassword1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.CheckUserPassword(ctx, 1, "testpassword1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	u, err := svc.GetUser(ctx, 2, 3)
	require.NoError(t, err)
	require.Equal(t, "testUser3", u.Name)

	_, err = svc.GetUser(ctx, 2, 99)
	require.ErrorIs(t, err, application.ErrNotFound)

	byEmail, err := svc.GetUserByEmail(ctx, 2, "test3@star.com")
	require.NoError(t, err)
	require.Equal(t, int64(3), byEmail.ID)

	_, err = svc.GetUserByEmail(ctx, 2, "nobody@star.com")
	require.ErrorIs(t, err, application.ErrNotFound)

	byName, err := svc.GetUsersByName(ctx, 2, "testUser2", 10, 1)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, int64(2), byName[0].ID)
}

func TestVanishedActorReadsAsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.GetUser(ctx, 99, 1)
	require.ErrorIs(t, err, application.ErrUnauthenticated)

	_, err = svc.GetAccounts(ctx, 0, entity.RoleOwner, 10, 1)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
}

func TestGetUserAvatarDefault(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	url, err := svc.GetUserAvatar(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, application.DefaultAvatarPath, url)
}
