// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"signup/internal/domain/entity"
	"signup/internal/errors"
)

var (
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned by Save when the store's unique email
	// constraint rejects the write.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository is the User Store: existence checks and durable writes of users.
type UserRepository interface {
	// ExistsByEmail reports whether a user with exactly this (canonical) email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save persists user and all of its phones as one write. On success the
	// store may confirm ID and timestamps on user.
	Save(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user and its phones.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
