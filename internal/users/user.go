package users

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("email is already in use")
	ErrWrongPassword = errors.New("incorrect password")
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Img          string    `json:"img,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
