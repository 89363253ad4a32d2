package models

import "time"

// Task is a single to-do item owned by one user
type Task struct {
	ID         string    `json:"id" db:"id"`
	OwnerEmail string    `json:"owner_email" db:"owner_email"`
	Text       string    `json:"text" db:"text"`
	Done       bool      `json:"done" db:"done"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
