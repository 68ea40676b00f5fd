package models

import "time"

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// UserView is the public projection of a User.
type UserView struct {
	ID       string
	Email    string
	IsActive bool
}

func (u *User) View() *UserView {
	return &UserView{ID: u.ID, Email: u.Email, IsActive: u.IsActive}
}
