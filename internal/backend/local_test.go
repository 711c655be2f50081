package backend_test

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"starbook/internal/application"
	"starbook/internal/backend"
	"starbook/internal/domain/entity"
	"starbook/internal/infrastructure/memory"
	"starbook/internal/session"
	"starbook/pkg/helpers"
)

func newLocal(t *testing.T) (*backend.Local, *session.MemStore) {
	t.Helper()
	s := memory.NewStore()
	memory.Seed(s, func(plain string) string {
		h, err := helpers.HashPassword(plain)
		require.NoError(t, err)
		return h
	})
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tokens := session.NewMemStore()
	return backend.NewLocal(application.NewService(s, logger), tokens), tokens
}

func TestLocalLoginLifecycle(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	_, err := b.VerifyCurrentUser(ctx)
	require.ErrorIs(t, err, application.ErrUnauthenticated)

	require.ErrorIs(t, b.LoginUser(ctx, "test1@star.com", "wrong"), application.ErrInvalidCredentials)

	require.NoError(t, b.LoginUser(ctx, "test1@star.com", "testpassword1"))
	u, err := b.VerifyCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "testUser1", u.Name)

	require.NoError(t, b.LogoutUser(ctx))
	_, err = b.VerifyCurrentUser(ctx)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
}

func TestLocalReloginSwitchesUser(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	require.NoError(t, b.LoginUser(ctx, "test1@star.com", "testpassword1"))
	require.NoError(t, b.LoginUser(ctx, "test2@star.com", "testpassword2"))

	u, err := b.VerifyCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), u.ID)
}

func TestLocalStaleCredentialIsPurged(t *testing.T) {
	ctx := context.Background()
	b, tokens := newLocal(t)

	// A credential naming a user that no longer exists.
	require.NoError(t, tokens.Save("99"))
	_, err := b.VerifyCurrentUser(ctx)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
	tok, err := tokens.Load()
	require.NoError(t, err)
	require.Empty(t, tok)

	// An unparseable credential is purged the same way.
	require.NoError(t, tokens.Save("not-a-number"))
	_, err = b.VerifyCurrentUser(ctx)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
	tok, err = tokens.Load()
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestLocalCheckUserRoleNeedsNoLogin(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	ok, err := b.CheckUserRole(ctx, 1, 1, entity.RoleOwner)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.CheckUserRole(ctx, 2, 1, entity.RoleOwner)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocalCheckCurrentUserRole(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	// Anonymous probes get a quiet false.
	ok, err := b.CheckCurrentUserRole(ctx, 1, entity.RoleMember)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, b.LoginUser(ctx, "test2@star.com", "testpassword2"))
	ok, err = b.CheckCurrentUserRole(ctx, 1, entity.RoleMember)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = b.CheckCurrentUserRole(ctx, 1, entity.RoleOwner)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLocalGatedOperationsRequireLogin(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	_, err := b.GetAccounts(ctx, entity.RoleOwner, 10, 1)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
	require.ErrorIs(t, b.CreateAccount(ctx, "nope"), application.ErrUnauthenticated)
	require.ErrorIs(t, b.DeleteRecord(ctx, 1), application.ErrUnauthenticated)
}

func TestLocalRecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	require.NoError(t, b.LoginUser(ctx, "test2@star.com", "testpassword2"))

	const date = int64(1700000000)
	amount := decimal.RequireFromString("12.34")
	require.NoError(t, b.CreateRecord(ctx, 1, "groceries", 3, date, amount))

	recs, err := b.GetRecordsByAccount(ctx, 1, 100, 1)
	require.NoError(t, err)
	created := recs[len(recs)-1]
	require.Equal(t, "groceries", created.Name)
	require.Equal(t, 3, created.Type)
	require.Equal(t, date, created.Date.Unix())
	require.True(t, amount.Equal(created.Amount))
	require.Equal(t, int64(2), created.CreateUserID)

	sum, err := b.SumAmountByAccount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "81.64", sum.String())

	require.NoError(t, b.UpdateRecord(ctx, created.ID, "groceries2", 4, date+60, decimal.RequireFromString("2.66")))
	sum, err = b.SumAmountByAccount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "71.96", sum.String())

	require.NoError(t, b.DeleteRecord(ctx, created.ID))
	n, err := b.CountRecordsByAccount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
}

func TestLocalAccountVisibility(t *testing.T) {
	ctx := context.Background()
	b, _ := newLocal(t)

	require.NoError(t, b.LoginUser(ctx, "test3@star.com", "testpassword3"))

	// Member on account 1 only; account 2 reads as missing.
	_, err := b.GetAccount(ctx, 2)
	require.ErrorIs(t, err, application.ErrNotFound)

	accounts, err := b.GetAccounts(ctx, entity.RoleMember, 10, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, int64(1), accounts[0].ID)

	require.ErrorIs(t, b.DeleteAccount(ctx, 1), application.ErrUnauthorized)
}
