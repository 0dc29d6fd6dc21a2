package domain

import "time"

// GroupID is the canonical identifier for an expense group.
// The empty value means "no group".
type GroupID string

// Group classifies a user's expenses (a trip, a project, a habit).
// Deleting a group never deletes its expenses; they only lose the tag.
type Group struct {
	ID        GroupID   `db:"id"`
	UserID    UserID    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
