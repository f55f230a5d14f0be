package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/harshu1611/todoAppServer/internal/interface/http"
)

// UserModule wires the profile and task routes; all of them need a session.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, guard gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Guard: guard}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.Guard)
	{
		auth.GET("/myProfile", m.Handler.GetProfile)
		auth.POST("/newTask", m.Handler.NewTask)
		// GET toggles too; existing clients call it that way
		auth.GET("/task/:taskId", m.Handler.ToggleTask)
		auth.PATCH("/task/:taskId", m.Handler.ToggleTask)
		auth.DELETE("/task/:taskId", m.Handler.RemoveTask)
	}
}
