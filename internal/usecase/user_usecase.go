// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// PhoneInput is one contact number supplied at registration.
type PhoneInput struct {
	Number      string
	CityCode    string
	CountryCode string
}

// RegisterUserInput defines the data required to register a new user.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
	Phones   []PhoneInput
}

// --- Output DTOs ---

// RegisterOutput is the registration result returned to the caller. It never
// carries the password digest.
type RegisterOutput struct {
	ID        uuid.UUID
	Created   time.Time
	Modified  time.Time
	LastLogin time.Time
	Token     string
	IsActive  bool
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterUser(ctx context.Context, input *RegisterUserInput) (*RegisterOutput, error)
}
