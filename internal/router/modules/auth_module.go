package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/harshu1611/todoAppServer/internal/interface/http"
	"github.com/harshu1611/todoAppServer/internal/interface/middleware"
)

// AuthModule wires registration, verification, login and password reset.
// Public: POST /register, POST /login, POST /forgotPassword, PUT /resetPassword
// Protected: POST /verify, POST /verify/resend, GET /logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   gin.HandlerFunc
	Limiter *middleware.RateLimiter
}

func NewAuthModule(h *handlers.AuthHandler, guard gin.HandlerFunc, limiter *middleware.RateLimiter) *AuthModule {
	return &AuthModule{Handler: h, Guard: guard, Limiter: limiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := m.Limiter.Limit(10, time.Minute, middleware.KeyByIPAndPath())
	registerLimiter := m.Limiter.Limit(5, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/forgotPassword", m.Handler.ForgotPassword)
	rg.PUT("/resetPassword", m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(m.Guard)
	{
		auth.POST("/verify", m.Handler.Verify)
		auth.POST("/verify/resend", m.Handler.ResendOTP)
		auth.GET("/logout", m.Handler.Logout)
	}
}
