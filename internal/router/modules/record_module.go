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

// RecordModule wires record CRUD and aggregate endpoints.
// Every route requires a bearer token.
type RecordModule struct {
	Handler *handlers.RecordHandler
	JWT     *helpers.JWTManager
}

func NewRecordModule(h *handlers.RecordHandler, jwt *helpers.JWTManager) *RecordModule {
	return &RecordModule{Handler: h, JWT: jwt}
}

func (m *RecordModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), container.GetConfig().RateLimitPerMinute, time.Minute, middleware.KeyByIP()))
	{
		auth.POST(rel(wire.PathCreateRecord), m.Handler.CreateRecord)
		auth.POST(rel(wire.PathDeleteRecord), m.Handler.DeleteRecord)
		auth.POST(rel(wire.PathUpdateRecord), m.Handler.UpdateRecord)
		auth.POST(rel(wire.PathGetRecordsByAccount), m.Handler.GetRecordsByAccount)
		auth.POST(rel(wire.PathCountRecordsByAccount), m.Handler.CountRecordsByAccount)
		auth.POST(rel(wire.PathSumAmountByAccount), m.Handler.SumAmountByAccount)
	}
}
