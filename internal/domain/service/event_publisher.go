package service

import (
	"context"
	"time"
)

// UserRegisteredEvent announces a committed registration.
type UserRegisteredEvent struct {
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PhoneCount   int       `json:"phone_count"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishUserRegistered publishes a registration event for downstream consumers.
	PublishUserRegistered(ctx context.Context, event *UserRegisteredEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
