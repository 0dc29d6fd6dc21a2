package expense

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"expensebot/internal/domain"
	"expensebot/internal/storage"
)

// Service implements expense bookkeeping on top of Storage.
type Service struct {
	store storage.Storage

	// lastNano makes id timestamps strictly increasing within the process,
	// so two adds landing on the same clock tick cannot collide.
	lastNano atomic.Int64
}

// NewService builds the expense service.
func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// Add records a new expense. An empty reason is stored as domain.NoReason.
// The group reference is recorded as given; it is not validated against the
// groups collection, stale references degrade to "no group" on display.
func (s *Service) Add(ctx context.Context, user domain.UserID, amount float64, reason string, date time.Time, group domain.GroupID) (domain.Expense, error) {
	if reason == "" {
		reason = domain.NoReason
	}
	now := s.nextStamp()
	e := domain.Expense{
		ID:        domain.NewExpenseID(user, now),
		UserID:    user,
		Amount:    amount,
		Reason:    reason,
		Date:      date,
		GroupID:   group,
		CreatedAt: now.UTC(),
	}
	if err := s.store.InsertExpense(ctx, e); err != nil {
		return domain.Expense{}, fmt.Errorf("add expense: %w", err)
	}
	return e, nil
}

func (s *Service) nextStamp() time.Time {
	for {
		nano := time.Now().UnixNano()
		last := s.lastNano.Load()
		if nano <= last {
			nano = last + 1
		}
		if s.lastNano.CompareAndSwap(last, nano) {
			return time.Unix(0, nano)
		}
	}
}

// Get fetches a single expense.
func (s *Service) Get(ctx context.Context, id domain.ExpenseID) (domain.Expense, error) {
	return s.store.ExpenseByID(ctx, id)
}

// Edit overwrites all editable fields of an expense in one update.
func (s *Service) Edit(ctx context.Context, id domain.ExpenseID, patch domain.ExpensePatch) error {
	if patch.Reason == "" {
		patch.Reason = domain.NoReason
	}
	return s.store.UpdateExpense(ctx, id, patch)
}

// Delete removes an expense. Missing ids are ignored.
func (s *Service) Delete(ctx context.Context, id domain.ExpenseID) error {
	return s.store.DeleteExpense(ctx, id)
}

// DeleteRange removes the user's expenses dated within [from, to], both ends
// inclusive. An inverted range matches nothing and deletes nothing.
func (s *Service) DeleteRange(ctx context.Context, user domain.UserID, from, to time.Time) (int64, error) {
	return s.store.DeleteExpensesInRange(ctx, user, from, to)
}

// ClearUser removes every expense of the user and reports the count.
func (s *Service) ClearUser(ctx context.Context, user domain.UserID) (int64, error) {
	return s.store.DeleteUserExpenses(ctx, user)
}

// Recent returns up to limit most recent expenses, newest first.
func (s *Service) Recent(ctx context.Context, user domain.UserID, limit int) ([]domain.Expense, error) {
	list, err := s.store.ListExpenses(ctx, user)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// All returns every expense of the user, newest first.
func (s *Service) All(ctx context.Context, user domain.UserID) ([]domain.Expense, error) {
	return s.store.ListExpenses(ctx, user)
}

// Since returns the user's expenses dated on or after the given day.
func (s *Service) Since(ctx context.Context, user domain.UserID, since time.Time) ([]domain.Expense, error) {
	return s.store.ListExpensesSince(ctx, user, since)
}

// InRange returns the user's expenses dated within [from, to] inclusive.
func (s *Service) InRange(ctx context.Context, user domain.UserID, from, to time.Time) ([]domain.Expense, error) {
	return s.store.ListExpensesInRange(ctx, user, from, to)
}

// Totals sums the user's full expense history.
func (s *Service) Totals(ctx context.Context, user domain.UserID) (total float64, count int, err error) {
	list, err := s.store.ListExpenses(ctx, user)
	if err != nil {
		return 0, 0, err
	}
	for _, e := range list {
		total += e.Amount
	}
	return total, len(list), nil
}
