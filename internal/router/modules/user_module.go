package modules

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"starbook/internal/container"
	handlers "starbook/internal/interface/http"
	"starbook/internal/interface/middleware"
	"starbook/internal/wire"
	"starbook/pkg/helpers"
)

// rel strips the registry's group prefix from a wire path so the single
// source of truth for endpoint paths stays in the wire package.
func rel(p string) string {
	return strings.TrimPrefix(p, "/api")
}

// UserModule wires identity and user lookup endpoints.
// Public: login-user, create-user, check-user-role.
// check-current-user-role answers anonymous callers instead of 401.
// Everything else requires a bearer token.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())

	rg.POST(rel(wire.PathLoginUser), loginLimiter, m.Handler.Login)
	rg.POST(rel(wire.PathCreateUser), m.Handler.CreateUser)
	rg.POST(rel(wire.PathCheckUserRole), m.Handler.CheckUserRole)

	ident := rg.Group("/")
	ident.Use(middleware.Identity(m.JWT))
	ident.POST(rel(wire.PathCheckCurrentUserRole), m.Handler.CheckCurrentUserRole)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), container.GetConfig().RateLimitPerMinute, time.Minute, middleware.KeyByIP()))
	{
		auth.POST(rel(wire.PathGetUserByToken), m.Handler.GetUserByToken)
		auth.POST(rel(wire.PathUpdateUserName), m.Handler.UpdateUserName)
		auth.POST(rel(wire.PathUpdateUserEmail), m.Handler.UpdateUserEmail)
		auth.POST(rel(wire.PathUpdateUserPassword), m.Handler.UpdateUserPassword)
		auth.POST(rel(wire.PathCheckUserPassword), m.Handler.CheckUserPassword)
		auth.POST(rel(wire.PathGetUser), m.Handler.GetUser)
		auth.POST(rel(wire.PathGetUserAvatar), m.Handler.GetUserAvatar)
		auth.POST(rel(wire.PathGetUserByEmail), m.Handler.GetUserByEmail)
		auth.POST(rel(wire.PathGetUsersByName), m.Handler.GetUsersByName)
		auth.POST(rel(wire.PathGetUsersByAccountRole), m.Handler.GetUsersByAccountRole)
		auth.POST(rel(wire.PathCountUsersByAccount), m.Handler.CountUsersByAccountRole)
		auth.POST(rel(wire.PathSearchUsers), m.Handler.SearchUsers)
	}
}
