package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harshu1611/todoAppServer/internal/interface/middleware"
)

type DebugModule struct {
	Limiter *middleware.RateLimiter
}

func NewDebugModule(limiter *middleware.RateLimiter) *DebugModule {
	return &DebugModule{Limiter: limiter}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters, rate-limited per IP
	rl := m.Limiter.Limit(120, time.Minute, middleware.KeyByIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
