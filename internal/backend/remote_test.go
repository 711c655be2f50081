package backend_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"starbook/internal/application"
	"starbook/internal/backend"
	"starbook/internal/domain/entity"
	"starbook/internal/session"
	"starbook/internal/wire"
)

func okBody(data any) string {
	raw, _ := json.Marshal(data)
	return fmt.Sprintf(`{"status":200,"success":true,"message":"OK","data":%s}`, raw)
}

func failBody(status int, msg string) string {
	return fmt.Sprintf(`{"status":%d,"success":false,"message":%q}`, status, msg)
}

func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteLoginSavesToken(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, map[string]http.HandlerFunc{
		wire.PathLoginUser: func(w http.ResponseWriter, r *http.Request) {
			var req wire.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "testpassword1" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, failBody(401, "invalid credentials"))
				return
			}
			fmt.Fprint(w, okBody(wire.LoginResponse{AccessToken: "tok-123"}))
		},
	})

	tokens := session.NewMemStore()
	b := backend.NewRemote(srv.URL, tokens)

	require.ErrorIs(t, b.LoginUser(ctx, "test1@star.com", "wrong"), application.ErrInvalidCredentials)
	tok, _ := tokens.Load()
	require.Empty(t, tok)

	require.NoError(t, b.LoginUser(ctx, "test1@star.com", "testpassword1"))
	tok, _ = tokens.Load()
	require.Equal(t, "tok-123", tok)
}

func TestRemoteSendsBearerToken(t *testing.T) {
	ctx := context.Background()
	var got string
	srv := newTestServer(t, map[string]http.HandlerFunc{
		wire.PathGetUserByToken: func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			fmt.Fprint(w, okBody(wire.UserPayload{ID: 7, Name: "carol", Email: "carol@star.com", CreateTime: 1700000000}))
		},
	})

	tokens := session.NewMemStore()
	require.NoError(t, tokens.Save("tok-abc"))
	b := backend.NewRemote(srv.URL, tokens)

	u, err := b.VerifyCurrentUser(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-abc", got)
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, "carol", u.Name)
	require.Equal(t, int64(1700000000), u.CreatedAt.Unix())
}

func TestRemoteRejectedTokenIsPurged(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, map[string]http.HandlerFunc{
		wire.PathGetUserByToken: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, failBody(401, "unauthenticated"))
		},
	})

	tokens := session.NewMemStore()
	require.NoError(t, tokens.Save("stale"))
	b := backend.NewRemote(srv.URL, tokens)

	_, err := b.VerifyCurrentUser(ctx)
	require.ErrorIs(t, err, application.ErrUnauthenticated)
	tok, _ := tokens.Load()
	require.Empty(t, tok)
}

func TestRemoteStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, application.ErrUnauthenticated},
		{http.StatusForbidden, application.ErrUnauthorized},
		{http.StatusNotFound, application.ErrNotFound},
		{http.StatusConflict, application.ErrConflict},
		{http.StatusInternalServerError, backend.ErrUnavailable},
		{http.StatusBadRequest, backend.ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("status %d", tc.status), func(t *testing.T) {
			srv := newTestServer(t, map[string]http.HandlerFunc{
				wire.PathGetAccount: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
					fmt.Fprint(w, failBody(tc.status, "nope"))
				},
			})
			b := backend.NewRemote(srv.URL, session.NewMemStore())
			_, err := b.GetAccount(context.Background(), 1)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRemoteUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b := backend.NewRemote(url, session.NewMemStore())
	_, err := b.VerifyCurrentUser(context.Background())
	require.ErrorIs(t, err, backend.ErrUnavailable)
}

func TestRemoteMalformedResponse(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		wire.PathGetAccountsCount: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "this is not json")
		},
	})
	b := backend.NewRemote(srv.URL, session.NewMemStore())
	_, err := b.CountAccounts(context.Background(), entity.RoleOwner)
	require.ErrorIs(t, err, backend.ErrUnavailable)
}

func TestRemoteCheckCurrentUserRoleAnonymous(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		wire.PathCheckCurrentUserRole: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, failBody(401, "unauthenticated"))
		},
	})
	b := backend.NewRemote(srv.URL, session.NewMemStore())
	ok, err := b.CheckCurrentUserRole(context.Background(), 1, entity.RoleMember)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoteSumAmountDecodes(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		wire.PathSumAmountByAccount: func(w http.ResponseWriter, r *http.Request) {
			var req wire.AccountIDRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, int64(1), req.AccountID)
			fmt.Fprint(w, okBody(wire.AmountPayload{Amount: "69.3"}))
		},
	})
	b := backend.NewRemote(srv.URL, session.NewMemStore())
	sum, err := b.SumAmountByAccount(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "69.3", sum.String())
}

func TestRemoteRecordsDecode(t *testing.T) {
	srv := newTestServer(t, map[string]http.HandlerFunc{
		wire.PathGetRecordsByAccount: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, okBody([]wire.RecordPayload{
				{ID: 1, Name: "test1", Type: 1, Date: 1700000000, Amount: "9.9", AccountID: 1, CreateUserID: 1, LastModifiedUserID: 1, CreateTime: 1700000000},
				{ID: 2, Name: "test2", Type: 2, Date: 1700000060, Amount: "9.9", AccountID: 1, CreateUserID: 2, LastModifiedUserID: 2, CreateTime: 1700000060},
			}))
		},
	})
	b := backend.NewRemote(srv.URL, session.NewMemStore())
	recs, err := b.GetRecordsByAccount(context.Background(), 1, 10, 1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "test2", recs[1].Name)
	require.Equal(t, "9.9", recs[1].Amount.String())
	require.Equal(t, int64(1700000060), recs[1].Date.Unix())
}

func TestRemoteLogoutIsClientSide(t *testing.T) {
	// No server at all: logout never talks to one.
	tokens := session.NewMemStore()
	require.NoError(t, tokens.Save("tok"))
	b := backend.NewRemote("http://127.0.0.1:1", tokens)
	require.NoError(t, b.LogoutUser(context.Background()))
	tok, _ := tokens.Load()
	require.Empty(t, tok)
}
