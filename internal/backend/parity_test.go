package backend_test

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"starbook/config"
	"starbook/internal/application"
	"starbook/internal/backend"
	"starbook/internal/container"
	"starbook/internal/domain/entity"
	"starbook/internal/infrastructure/memory"
	"starbook/internal/router"
	"starbook/internal/session"
	"starbook/pkg/helpers"
	"starbook/pkg/validation"
)

// The two backends must be interchangeable: the same call sequence over
// the same starting dataset produces the same outcomes, whether the
// ledger lives in process or behind the protocol.

var serverOnce sync.Once

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	memory.Seed(s, func(plain string) string {
		h, err := helpers.HashPassword(plain)
		require.NoError(t, err)
		return h
	})
	return s
}

// newServerBackend boots the full HTTP stack over a seeded in-memory
// store and returns a Remote pointed at it.
func newServerBackend(t *testing.T) backend.Backend {
	t.Helper()
	serverOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Init()
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Load()
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetStore(seededStore(t))
	container.SetJWT(helpers.NewJWTManager("parity-test-secret", time.Hour))

	engine := gin.New()
	reg := router.NewRegistry(engine)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return backend.NewRemote(srv.URL, session.NewMemStore())
}

func newLocalBackend(t *testing.T) backend.Backend {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return backend.NewLocal(application.NewService(seededStore(t), logger), session.NewMemStore())
}

func TestBackendParity(t *testing.T) {
	backends := map[string]func(*testing.T) backend.Backend{
		"local":  newLocalBackend,
		"remote": newServerBackend,
	}
	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			runParityScript(t, build(t))
		})
	}
}

func runParityScript(t *testing.T, b backend.Backend) {
	ctx := context.Background()

	// Nobody is logged in yet.
	_, err := b.VerifyCurrentUser(ctx)
	require.ErrorIs(t, err, application.ErrUnauthenticated)

	ok, err := b.CheckCurrentUserRole(ctx, 1, entity.RoleMember)
	require.NoError(t, err)
	require.False(t, ok)

	// The role probe needs no identity at all.
	ok, err = b.CheckUserRole(ctx, 1, 1, entity.RoleOwner)
	require.NoError(t, err)
	require.True(t, ok)

	// Bad credentials read the same on both sides.
	require.ErrorIs(t, b.LoginUser(ctx, "test1@star.com", "wrong"), application.ErrInvalidCredentials)
	require.ErrorIs(t, b.LoginUser(ctx, "ghost@star.com", "whatever"), application.ErrInvalidCredentials)

	require.NoError(t, b.LoginUser(ctx, "test1@star.com", "testpassword1"))
	u, err := b.VerifyCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "testUser1", u.Name)
	require.Equal(t, "test1@star.com", u.Email)

	// Registration conflicts surface identically.
	require.ErrorIs(t, b.CreateUser(ctx, "imposter", "test2@star.com", "password123"), application.ErrConflict)

	// Account listings.
	accounts, err := b.GetAccounts(ctx, entity.RoleOwner, 10, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for i, a := range accounts {
		require.Equal(t, int64(i+1), a.ID)
	}

	n, err := b.CountAccounts(ctx, entity.RoleOwner)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	// A role value outside the scale filters to nothing on both sides
	// instead of failing request validation on one of them.
	outside, err := b.GetAccounts(ctx, entity.Role(0), 10, 1)
	require.NoError(t, err)
	require.Empty(t, outside)

	n, err = b.CountAccounts(ctx, entity.Role(0))
	require.NoError(t, err)
	require.Zero(t, n)

	// Creating an account makes it visible in the Owner listing.
	require.NoError(t, b.CreateAccount(ctx, "parityAccount"))
	accounts, err = b.GetAccounts(ctx, entity.RoleOwner, 10, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 4)
	require.Equal(t, "parityAccount", accounts[3].Name)

	// Membership management.
	require.ErrorIs(t, b.AddAccountManager(ctx, 1, 2), application.ErrConflict)
	require.NoError(t, b.AddAccountManager(ctx, 2, 2))
	require.NoError(t, b.RemoveAccountManager(ctx, 2, 2))
	require.NoError(t, b.RemoveAccountManager(ctx, 2, 2))

	// People lookups.
	members, err := b.GetUsersByAccountRole(ctx, 1, entity.RoleMember, 10, 1)
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, int64(2), members[0].ID)
	require.Equal(t, int64(3), members[1].ID)

	cnt, err := b.CountUsersByAccountRole(ctx, 1, entity.RoleMember)
	require.NoError(t, err)
	require.Equal(t, int64(2), cnt)

	byEmail, err := b.GetUserByEmail(ctx, "test3@star.com")
	require.NoError(t, err)
	require.Equal(t, int64(3), byEmail.ID)

	byName, err := b.GetUsersByName(ctx, "testUser2", 10, 1)
	require.NoError(t, err)
	require.Len(t, byName, 1)

	avatar, err := b.GetUserAvatar(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, application.DefaultAvatarPath, avatar)

	// Records: create, list, sum, update, delete.
	const date = int64(1700000000)
	require.NoError(t, b.CreateRecord(ctx, 1, "parityRecord", 5, date, decimal.RequireFromString("0.7")))

	recs, err := b.GetRecordsByAccount(ctx, 1, 100, 1)
	require.NoError(t, err)
	require.Len(t, recs, 8)
	created := recs[7]
	require.Equal(t, "parityRecord", created.Name)
	require.Equal(t, 5, created.Type)
	require.Equal(t, date, created.Date.Unix())
	require.Equal(t, "0.7", created.Amount.String())
	require.Equal(t, int64(1), created.CreateUserID)
	require.Equal(t, int64(1), created.LastModifiedUserID)

	sum, err := b.SumAmountByAccount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "70", sum.String())

	require.NoError(t, b.UpdateRecord(ctx, created.ID, "parityRecord2", 6, date+60, decimal.RequireFromString("1.7")))
	sum, err = b.SumAmountByAccount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "71", sum.String())

	require.NoError(t, b.DeleteRecord(ctx, created.ID))
	require.ErrorIs(t, b.DeleteRecord(ctx, created.ID), application.ErrNotFound)

	cnt, err = b.CountRecordsByAccount(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(7), cnt)

	// Paging is deterministic.
	page, err := b.GetRecordsByAccount(ctx, 1, 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.Equal(t, int64(4), page[0].ID)

	// Switch to a member: their view shrinks the same way on both sides.
	require.NoError(t, b.LoginUser(ctx, "test2@star.com", "testpassword2"))

	_, err = b.GetAccount(ctx, 2)
	require.ErrorIs(t, err, application.ErrNotFound)
	require.ErrorIs(t, b.DeleteAccount(ctx, 1), application.ErrUnauthorized)
	require.ErrorIs(t, b.UpdateAccountName(ctx, 1, "nope"), application.ErrUnauthorized)
	require.ErrorIs(t, b.AddAccountManager(ctx, 1, 3), application.ErrUnauthorized)

	recs, err = b.GetRecordsByAccount(ctx, 2, 10, 1)
	require.NoError(t, err)
	require.Empty(t, recs)

	sum, err = b.SumAmountByAccount(ctx, 2)
	require.NoError(t, err)
	require.True(t, sum.IsZero())

	ok, err = b.CheckCurrentUserRole(ctx, 1, entity.RoleOwner)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = b.CheckUserPassword(ctx, "testpassword2")
	require.NoError(t, err)
	require.True(t, ok)

	// Profile self-service.
	require.NoError(t, b.UpdateUserName(ctx, "memberTwo"))
	u, err = b.VerifyCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "memberTwo", u.Name)

	// The owner deletes the shared account; the member's world empties.
	require.NoError(t, b.LoginUser(ctx, "test1@star.com", "testpassword1"))
	require.NoError(t, b.DeleteAccount(ctx, 1))

	require.NoError(t, b.LoginUser(ctx, "test2@star.com", "testpassword2"))
	n, err = b.CountAccounts(ctx, entity.RoleMember)
	require.NoError(t, err)
	require.Zero(t, n)
	_, err = b.GetAccount(ctx, 1)
	require.ErrorIs(t, err, application.ErrNotFound)

	// Logout ends the session on the client, whichever backend.
	require.NoError(t, b.LogoutUser(ctx))
	_, err = b.VerifyCurrentUser(ctx)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
}
