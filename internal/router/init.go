package router

import (
	"starbook/internal/application"
	"starbook/internal/container"
	handlers "starbook/internal/interface/http"
	"starbook/internal/router/modules"
)

// InitModules builds the ledger service from container singletons and
// registers every feature module. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	svc := application.NewService(container.GetStore(), container.GetLogger())
	svc.ES = container.GetES()
	svc.ESUsersIndex = cfg.ESUsersIndex
	svc.Pub = container.GetRabbitPub()
	svc.GCS = container.GetGCS()
	svc.GCSBucket = cfg.GCSBucket

	userHandler := handlers.NewUserHandler(svc, container.GetJWT(), container.GetLogger(), container.GetRedis(), cfg.AccessTTL)
	accountHandler := handlers.NewAccountHandler(svc, container.GetLogger())
	recordHandler := handlers.NewRecordHandler(svc, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewRecordModule(recordHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
