package users

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username taken")
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
	// ActivePrograms holds the program IDs the user trains, without duplicates.
	ActivePrograms []string `json:"activePrograms"`
	// SplitReadyAnnounced is set once the split-ready suggestion was shown,
	// so the user does not get nagged on every workout after that.
	SplitReadyAnnounced bool      `json:"splitReadyAnnounced"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (u *User) HasActiveProgram(programID string) bool {
	for _, p := range u.ActivePrograms {
		if p == programID {
			return true
		}
	}
	return false
}
