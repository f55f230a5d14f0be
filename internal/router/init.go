package router

import (
	"github.com/harshu1611/todoAppServer/internal/container"
	handlers "github.com/harshu1611/todoAppServer/internal/interface/http"
	"github.com/harshu1611/todoAppServer/internal/interface/middleware"
	"github.com/harshu1611/todoAppServer/internal/router/modules"
)

// InitModules builds the account handlers from the container and registers
// every module. Call once during startup, before RegisterAll.
func InitModules(r *Registry, ct *container.Container) {
	cfg := ct.Config
	svc := ct.AccountService()

	var denylist middleware.Denylist
	if ct.Sessions != nil {
		denylist = ct.Sessions
	}
	guard := middleware.Auth(ct.JWT, denylist)

	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	limiter := middleware.NewRateLimiter(ct.Redis, cfg.RateLimitEnabled, allow)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, ct.Logger, ct.Cookies), guard, limiter))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, ct.Logger, ct.Cookies), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limiter))
	}
}
