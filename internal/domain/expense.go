package domain

import (
	"fmt"
	"time"
)

// ExpenseID is the canonical identifier for an expense. Unlike user and
// group ids it is caller-generated: "{userID}_{unix nanoseconds}".
type ExpenseID string

// NoReason is recorded when the user submits an empty reason.
const NoReason = "No reason"

// Expense is a single spending record. GroupID may be empty (no group) or
// point at a group that no longer exists; stale references render as
// "no group" and must never break a lookup.
type Expense struct {
	ID        ExpenseID `db:"id"`
	UserID    UserID    `db:"user_id"`
	Amount    float64   `db:"amount"`
	Reason    string    `db:"reason"`
	Date      time.Time `db:"date"`
	GroupID   GroupID   `db:"group_id"`
	CreatedAt time.Time `db:"created_at"`
}

// ExpensePatch overwrites every editable field of an expense in place.
// An empty GroupID clears the group reference.
type ExpensePatch struct {
	Amount  float64
	Reason  string
	Date    time.Time
	GroupID GroupID
}

// NewExpenseID builds the composite expense identifier.
func NewExpenseID(user UserID, at time.Time) ExpenseID {
	return ExpenseID(fmt.Sprintf("%s_%d", user, at.UnixNano()))
}
