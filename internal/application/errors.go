package application

import "errors"

var (
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOtp         = errors.New("invalid otp")
	ErrOtpExpired         = errors.New("otp expired")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidOrExpired   = errors.New("otp invalid or expired")
	ErrNotFound           = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUpload             = errors.New("avatar upload failed")
	ErrDelivery           = errors.New("email delivery failed")
)
