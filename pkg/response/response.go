package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with. User is set by the
// account endpoints that return a profile.
type APIResponse[T any] struct {
	Status    int    `json:"-"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	User      *T     `json:"user,omitempty"`
	Error     any    `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, message string, user *T) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Success:   true,
		Message:   message,
		User:      user,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failed envelope. user is optional and only set when the
// operation partly succeeded, e.g. an account stored but not emailed.
func Error[T any](ctx *gin.Context, status int, message string, err any, user *T) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Success:   false,
		Message:   message,
		User:      user,
		Error:     err,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.JSON(status, resp)
	return resp
}

// Abort writes a failed envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, err any) {
	ctx.AbortWithStatusJSON(status, APIResponse[any]{
		Status:    status,
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: ctx.GetString("request_id"),
	})
}
