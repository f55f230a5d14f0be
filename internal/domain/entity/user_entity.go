package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field.
// Tasks are embedded and owned exclusively by the user.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Avatar   Avatar
	Verified bool

	OTP       *int
	OTPExpiry *time.Time

	ResetPasswordOTP       *int
	ResetPasswordOTPExpire *time.Time

	Tasks     []Task
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Avatar references an image held by the media store.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Task is a single entry of a user's task list.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PendingVerification reports whether a verification OTP is outstanding.
func (u *User) PendingVerification() bool {
	return !u.Verified && u.OTP != nil
}

// MarkVerified clears the verification OTP and flags the account verified.
func (u *User) MarkVerified() {
	u.Verified = true
	u.OTP = nil
	u.OTPExpiry = nil
}

// ClearPasswordReset closes the password-reset window.
func (u *User) ClearPasswordReset() {
	u.ResetPasswordOTP = nil
	u.ResetPasswordOTPExpire = nil
}

// TaskIndex returns the position of the task with the given id, or -1.
func (u *User) TaskIndex(taskID string) int {
	for i := range u.Tasks {
		if u.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
