package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash never leaves the process.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Tel          string    `json:"tel"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`

	// Verified is set once the emailed verification code has been confirmed.
	Verified         bool   `json:"verified"`
	VerificationCode string `json:"-"`
}

type CreateUserInput struct {
	Name         string
	Email        string
	Tel          string
	Role         Role
	PasswordHash string

	VerificationCode string
}
