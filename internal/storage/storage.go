package storage

import (
	"context"
	"errors"
	"time"

	"expensebot/internal/domain"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("storage: not found")

// ErrEmailTaken is returned by CreateUser when the email is already registered.
var ErrEmailTaken = errors.New("storage: email already registered")

// Storage is the persistence boundary of the bot. Implementations keep the
// record shapes opaque; callers only ever see domain entities.
//
// Expense listings are always scoped to one user and ordered by date
// descending, newest first. Date ranges are inclusive on both ends.
type Storage interface {
	CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id domain.UserID) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	InsertExpense(ctx context.Context, e domain.Expense) error
	ExpenseByID(ctx context.Context, id domain.ExpenseID) (domain.Expense, error)
	UpdateExpense(ctx context.Context, id domain.ExpenseID, patch domain.ExpensePatch) error
	// DeleteExpense is idempotent: deleting a missing id is not an error.
	DeleteExpense(ctx context.Context, id domain.ExpenseID) error
	DeleteExpensesInRange(ctx context.Context, user domain.UserID, from, to time.Time) (int64, error)
	DeleteUserExpenses(ctx context.Context, user domain.UserID) (int64, error)
	ListExpenses(ctx context.Context, user domain.UserID) ([]domain.Expense, error)
	ListExpensesSince(ctx context.Context, user domain.UserID, since time.Time) ([]domain.Expense, error)
	ListExpensesInRange(ctx context.Context, user domain.UserID, from, to time.Time) ([]domain.Expense, error)
	ListGroupExpenses(ctx context.Context, user domain.UserID, group domain.GroupID) ([]domain.Expense, error)

	CreateGroup(ctx context.Context, user domain.UserID, name string) (domain.Group, error)
	GroupByID(ctx context.Context, user domain.UserID, id domain.GroupID) (domain.Group, error)
	ListGroups(ctx context.Context, user domain.UserID) ([]domain.Group, error)
	DeleteGroup(ctx context.Context, user domain.UserID, id domain.GroupID) error
	// ClearGroupRefs detaches every expense of the user from the group and
	// returns how many records were touched. Expense rows stay intact.
	ClearGroupRefs(ctx context.Context, user domain.UserID, id domain.GroupID) (int64, error)
}
