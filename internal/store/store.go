// Package store defines the persistence seam used by the handlers. Each
// backend (postgres, mongo, memory) implements Store over its own engine.
package store

import (
	"context"
	"errors"

	"TODO_WEB-APP/internal/models"
)

var (
	// ErrNotFound is returned when a lookup by key matches nothing.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateEmail is returned by InsertUser when the email is taken.
	ErrDuplicateEmail = errors.New("store: email already exists")
)

// UserStore is the credential store, keyed by email.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
}

// TaskStore holds tasks. Every mutation is scoped by (id, owner email);
// a mutation that matches nothing is not an error.
type TaskStore interface {
	// FindTasksByOwner returns the owner's tasks, most recently created first.
	FindTasksByOwner(ctx context.Context, ownerEmail string) ([]models.Task, error)
	// InsertTask assigns task.ID and task.CreatedAt and stores the task.
	InsertTask(ctx context.Context, task *models.Task) error
	UpdateTaskDone(ctx context.Context, ownerEmail, taskID string, done bool) error
	DeleteTask(ctx context.Context, ownerEmail, taskID string) error
}

// SessionStore maps session tokens to identities.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	FindSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Store is the full persistence surface of the application.
type Store interface {
	UserStore
	TaskStore
	SessionStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
