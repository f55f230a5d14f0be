package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/harshu1611/todoAppServer/config"
	"github.com/harshu1611/todoAppServer/internal/container"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Load()
	ct := &container.Container{
		Config:  cfg,
		Logger:  helpers.DiscardLogger(),
		JWT:     helpers.NewJWTManager("secret", time.Hour),
		Cookies: helpers.NewCookie("", false),
	}
	engine := gin.New()
	reg := NewRegistry(engine, cfg.APIPrefix)
	InitModules(reg, ct)
	reg.RegisterAll()
	return engine
}

func TestRoutesAreMounted(t *testing.T) {
	got := map[string]bool{}
	for _, r := range newTestEngine().Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/register",
		"POST /api/v1/verify",
		"POST /api/v1/verify/resend",
		"POST /api/v1/login",
		"GET /api/v1/logout",
		"POST /api/v1/newTask",
		"GET /api/v1/task/:taskId",
		"PATCH /api/v1/task/:taskId",
		"DELETE /api/v1/task/:taskId",
		"GET /api/v1/myProfile",
		"POST /api/v1/forgotPassword",
		"PUT /api/v1/resetPassword",
		"GET /api/v1/debug/vars",
	} {
		assert.True(t, got[want], want)
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	engine := newTestEngine()
	for _, route := range [][2]string{
		{http.MethodGet, "/api/v1/myProfile"},
		{http.MethodPost, "/api/v1/newTask"},
		{http.MethodPatch, "/api/v1/task/t1"},
		{http.MethodDelete, "/api/v1/task/t1"},
		{http.MethodPost, "/api/v1/verify"},
		{http.MethodGet, "/api/v1/logout"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(route[0], route[1], nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, route[1])
	}
}
