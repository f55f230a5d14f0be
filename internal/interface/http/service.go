package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harshu1611/todoAppServer/internal/application"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
	"github.com/harshu1611/todoAppServer/pkg/response"
)

// AccountService is the account use-case surface the handlers call.
// *application.Service implements it.
type AccountService interface {
	Register(ctx context.Context, in application.RegisterInput) (*application.Session, error)
	Verify(ctx context.Context, userID string, otp int) (*application.Session, error)
	ResendOTP(ctx context.Context, userID string) error
	Login(ctx context.Context, email, password string) (*application.Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	RefreshSession(ctx context.Context, userID string) (*application.Session, error)
	AddTask(ctx context.Context, userID, title, description string) (*application.PublicProfile, error)
	RemoveTask(ctx context.Context, userID, taskID string) (*application.PublicProfile, error)
	ToggleTask(ctx context.Context, userID, taskID string) (*application.PublicProfile, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, otp int, newPassword string) error
}

var _ AccountService = (*application.Service)(nil)

// statusFor maps service errors onto HTTP status codes and client messages.
// Anything unrecognized is internal and gets a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrInvalidOtp),
		errors.Is(err, application.ErrOtpExpired),
		errors.Is(err, application.ErrInvalidOrExpired),
		errors.Is(err, application.ErrAlreadyVerified):
		return http.StatusBadRequest, messageFor(err)
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized, "please login first"
	case errors.Is(err, application.ErrNotFound),
		errors.Is(err, application.ErrTaskNotFound):
		return http.StatusNotFound, messageFor(err)
	case errors.Is(err, application.ErrConflict):
		return http.StatusConflict, messageFor(err)
	case errors.Is(err, application.ErrUpload):
		return http.StatusBadGateway, application.ErrUpload.Error()
	case errors.Is(err, application.ErrDelivery):
		return http.StatusBadGateway, application.ErrDelivery.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func messageFor(err error) string {
	for _, known := range []error{
		application.ErrInvalidInput,
		application.ErrInvalidCredentials,
		application.ErrInvalidOtp,
		application.ErrOtpExpired,
		application.ErrInvalidOrExpired,
		application.ErrAlreadyVerified,
		application.ErrNotFound,
		application.ErrTaskNotFound,
		application.ErrConflict,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

// fail writes the error envelope. user is included when the operation left a
// usable account behind, as Register does on a mail failure.
func fail(c *gin.Context, logger *logrus.Logger, err error, user *application.PublicProfile) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
	}
	response.Error(c, status, msg, nil, user)
}
