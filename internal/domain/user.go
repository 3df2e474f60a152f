package domain

import "time"

// User is the mock signed-in account.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// LoginInput is the mock login payload. No password is checked.
type LoginInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=100"`
}
