package domain

import "time"

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}

func (u *User) Role() string {
	if u.IsStaff {
		return "admin"
	}
	return "user"
}
