package repository

import (
	"context"
	"errors"
	"time"

	"github.com/harshu1611/todoAppServer/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
// Update replaces the whole document, tasks included; last write wins.
// Only GetByEmail loads the password hash. Update leaves the stored hash
// alone when Password is empty.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail is the credential lookup and includes the password hash.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetOTP returns a user whose reset OTP equals otp and whose
	// reset window closes strictly after now.
	GetByResetOTP(ctx context.Context, otp int, now time.Time) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
