package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harshu1611/todoAppServer/internal/application"
	"github.com/harshu1611/todoAppServer/internal/interface/middleware"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
	"github.com/harshu1611/todoAppServer/pkg/response"
	"github.com/harshu1611/todoAppServer/pkg/validation"
)

type AuthHandler struct {
	Svc     AccountService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AccountService, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	if logger == nil {
		logger = helpers.DiscardLogger()
	}
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type verifyRequest struct {
	OTP otpCode `json:"otp"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	OTP         otpCode `json:"otp"`
	NewPassword string  `json:"newPassword" binding:"required,pwd"`
}

// otpCode accepts the code as a JSON number or as a digit string, so
// "012345" and 12345 are the same code.
type otpCode struct {
	Value int
	Set   bool
}

var errOTPFormat = errors.New("otp must be a number between 0 and 999999")

func (o *otpCode) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= helpers.OTPSpace {
		return errOTPFormat
	}
	o.Value, o.Set = n, true
	return nil
}

func bindError(c *gin.Context, err error) {
	if errors.Is(err, errOTPFormat) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"otp": errOTPFormat.Error()}, nil)
		return
	}
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err), nil)
}

// Register POST /register (multipart: name, email, password, avatar)
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	in := application.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}
	fh, err := c.FormFile("avatar")
	if err != nil && !noUpload(err) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "could not be read"}, nil)
		return
	}
	if fh != nil {
		path, err := stageUpload(fh)
		if err != nil {
			h.Logger.WithError(err).Error("stage avatar failed")
			response.Error[any](c, http.StatusInternalServerError, "internal server error", nil, nil)
			return
		}
		defer func() { _ = os.Remove(path) }()
		in.AvatarPath = path
	}

	sess, err := h.Svc.Register(c.Request.Context(), in)
	if sess != nil {
		h.Cookies.SetToken(c, sess.Token.Token, sess.Token.ExpiresAt)
	}
	if err != nil {
		var user *application.PublicProfile
		if sess != nil {
			user = &sess.Profile
		}
		fail(c, h.Logger, err, user)
		return
	}
	response.Success(c, http.StatusCreated, "Otp sent to your Email, please verify your account", &sess.Profile)
}

// noUpload reports whether a FormFile error only means the optional file was
// not sent.
func noUpload(err error) bool {
	return errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)
}

// stageUpload copies a multipart file to a temp file; the caller removes it.
func stageUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp("", "avatar-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// Verify POST /verify {otp} (auth)
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !req.OTP.Set {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"otp": "is required"}, nil)
		return
	}
	sess, err := h.Svc.Verify(c.Request.Context(), middleware.UserID(c), req.OTP.Value)
	if err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	h.Cookies.SetToken(c, sess.Token.Token, sess.Token.ExpiresAt)
	response.Success(c, http.StatusOK, "Account verified", &sess.Profile)
}

// ResendOTP POST /verify/resend (auth)
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	if err := h.Svc.ResendOTP(c.Request.Context(), middleware.UserID(c)); err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	response.Success[any](c, http.StatusOK, "Otp sent to your Email", nil)
}

// Login POST /login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	h.Cookies.SetToken(c, sess.Token.Token, sess.Token.ExpiresAt)
	response.Success(c, http.StatusOK, "Login successful", &sess.Profile)
}

// Logout GET /logout (auth). The cookie is cleared even when revocation fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.TokenID(c), middleware.TokenExpiry(c)); err != nil {
		h.Logger.WithError(err).WithField("user_id", middleware.UserID(c)).Warn("token revocation failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, "Logout successful", nil)
}

// ForgotPassword POST /forgotPassword {email}
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	response.Success[any](c, http.StatusOK, "Otp sent to Email", nil)
}

// ResetPassword PUT /resetPassword {otp, newPassword}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !req.OTP.Set {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"otp": "is required"}, nil)
		return
	}
	if err := h.Svc.ConfirmPasswordReset(c.Request.Context(), req.OTP.Value, req.NewPassword); err != nil {
		fail(c, h.Logger, err, nil)
		return
	}
	response.Success[any](c, http.StatusOK, "Password changed successfully", nil)
}
