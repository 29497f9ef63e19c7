package models

import (
	"time"
)

// MaxUsernameLength matches the users.username and comments.username columns
const MaxUsernameLength = 150

// User represents an account that can authenticate against the API
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
