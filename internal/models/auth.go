package models

import (
	"time"
)

// User represents a registered account
type User struct {
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Hidden from JSON responses
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity is the authenticated user as seen by request handlers
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session maps an opaque client-held token to an identity
type Session struct {
	Token     string    `json:"token" db:"token"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// Identity returns the identity held by the session
func (s *Session) Identity() Identity {
	return Identity{Email: s.Email, Name: s.Name}
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
