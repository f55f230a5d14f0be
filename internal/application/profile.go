package application

import (
	"github.com/harshu1611/todoAppServer/internal/domain/entity"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
)

// PublicProfile is the read projection of a user returned to clients.
// It never carries the password or pending OTP values.
type PublicProfile struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Avatar   entity.Avatar `json:"avatar"`
	Verified bool          `json:"verified"`
	Tasks    []entity.Task `json:"tasks"`
}

// Session is a profile together with the token issued for it.
type Session struct {
	Profile PublicProfile
	Token   helpers.IssuedToken
}

func ToProfile(u *entity.User) PublicProfile {
	tasks := make([]entity.Task, len(u.Tasks))
	copy(tasks, u.Tasks)
	return PublicProfile{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Verified: u.Verified,
		Tasks:    tasks,
	}
}
