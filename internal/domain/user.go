package domain

import "time"

// UserID is the canonical identifier for a registered account.
// The admin identity is a sentinel that never has a stored record.
type UserID string

// User is a registered account. Password is stored only as a bcrypt hash.
type User struct {
	ID           UserID    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
