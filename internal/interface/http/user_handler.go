package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harshu1611/todoAppServer/internal/interface/middleware"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
	"github.com/harshu1611/todoAppServer/pkg/response"
)

type UserHandler struct {
	Svc     AccountService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc AccountService, logger *logrus.Logger, cookies *helpers.Manager) *UserHandler {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type newTaskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// GetProfile GET /myProfile. Each read reissues the session cookie.
func (h *UserHandler) GetProfile(c *gin.Context) {
	sess, err := h.Svc.RefreshSession(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	h.Cookies.SetToken(c, sess.Token.Token, sess.Token.ExpiresAt)
	response.Success(c, http.StatusOK, "Welcome back "+sess.Profile.Name, &sess.Profile)
}

// NewTask POST /newTask {title, description}
func (h *UserHandler) NewTask(c *gin.Context) {
	var req newTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.Svc.AddTask(c.Request.Context(), middleware.UserID(c), req.Title, req.Description)
	if err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, "Task added successfully", p)
}

// ToggleTask GET|PATCH /task/:taskId
func (h *UserHandler) ToggleTask(c *gin.Context) {
	p, err := h.Svc.ToggleTask(c.Request.Context(), middleware.UserID(c), c.Param("taskId"))
	if err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, "Task updated successfully", p)
}

// RemoveTask DELETE /task/:taskId
func (h *UserHandler) RemoveTask(c *gin.Context) {
	p, err := h.Svc.RemoveTask(c.Request.Context(), middleware.UserID(c), c.Param("taskId"))
	if err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, "Task removed successfully", p)
}
