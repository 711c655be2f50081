package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"starbook/internal/container"
	handlers "starbook/internal/interface/http"
	"starbook/internal/interface/middleware"
	"starbook/internal/wire"
	"starbook/pkg/helpers"
)

// AccountModule wires shared account CRUD and membership endpoints.
// Every route requires a bearer token.
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), container.GetConfig().RateLimitPerMinute, time.Minute, middleware.KeyByIP()))
	{
		auth.POST(rel(wire.PathCreateAccount), m.Handler.CreateAccount)
		auth.POST(rel(wire.PathDeleteAccount), m.Handler.DeleteAccount)
		auth.POST(rel(wire.PathGetAccount), m.Handler.GetAccount)
		auth.POST(rel(wire.PathGetAccounts), m.Handler.GetAccounts)
		auth.POST(rel(wire.PathGetAccountsCount), m.Handler.CountAccounts)
		auth.POST(rel(wire.PathUpdateAccountName), m.Handler.UpdateAccountName)
		auth.POST(rel(wire.PathAddAccountManager), m.Handler.AddAccountManager)
		auth.POST(rel(wire.PathDeleteAccountManager), m.Handler.DeleteAccountManager)
	}
}
