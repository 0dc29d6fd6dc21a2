package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/domain"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

var seedSeq int64

func seedExpense(t *testing.T, m *Memory, user domain.UserID, amount float64, day string, group domain.GroupID) domain.Expense {
	t.Helper()
	seedSeq++
	e := domain.Expense{
		ID:        domain.NewExpenseID(user, time.Now().Add(time.Duration(seedSeq))),
		UserID:    user,
		Amount:    amount,
		Reason:    domain.NoReason,
		Date:      date(day),
		GroupID:   group,
		CreatedAt: time.Now(),
	}
	require.NoError(t, m.InsertExpense(context.Background(), e))
	return e
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u, err := m.CreateUser(ctx, "a@b.c", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = m.CreateUser(ctx, "a@b.c", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := m.UserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = m.UserByEmail(ctx, "missing@b.c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryExpenseOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := domain.UserID("u1")

	seedExpense(t, m, user, 1, "2026-01-05", "")
	seedExpense(t, m, user, 2, "2026-03-01", "")
	seedExpense(t, m, user, 3, "2026-02-10", "")
	seedExpense(t, m, domain.UserID("other"), 99, "2026-12-31", "")

	list, err := m.ListExpenses(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 2.0, list[0].Amount)
	assert.Equal(t, 3.0, list[1].Amount)
	assert.Equal(t, 1.0, list[2].Amount)
}

func TestMemoryRangeBoundsInclusive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := domain.UserID("u1")

	seedExpense(t, m, user, 1, "2026-01-01", "")
	seedExpense(t, m, user, 2, "2026-01-15", "")
	seedExpense(t, m, user, 3, "2026-01-31", "")
	seedExpense(t, m, user, 4, "2026-02-01", "")

	list, err := m.ListExpensesInRange(ctx, user, date("2026-01-01"), date("2026-01-31"))
	require.NoError(t, err)
	assert.Len(t, list, 3)

	n, err := m.DeleteExpensesInRange(ctx, user, date("2026-01-01"), date("2026-01-31"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	rest, err := m.ListExpenses(ctx, user)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, 4.0, rest[0].Amount)
}

func TestMemoryDeleteExpenseIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := domain.UserID("u1")
	e := seedExpense(t, m, user, 5, "2026-01-01", "")

	require.NoError(t, m.DeleteExpense(ctx, e.ID))
	require.NoError(t, m.DeleteExpense(ctx, e.ID))

	_, err := m.ExpenseByID(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryClearGroupRefsKeepsExpenses(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := domain.UserID("u1")

	g, err := m.CreateGroup(ctx, user, "Trip")
	require.NoError(t, err)

	e1 := seedExpense(t, m, user, 1, "2026-01-01", g.ID)
	e2 := seedExpense(t, m, user, 2, "2026-01-02", g.ID)
	seedExpense(t, m, user, 3, "2026-01-03", "")

	n, err := m.ClearGroupRefs(ctx, user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, id := range []domain.ExpenseID{e1.ID, e2.ID} {
		got, err := m.ExpenseByID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, got.GroupID)
	}

	list, err := m.ListExpenses(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestMemoryUpdateExpense(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	user := domain.UserID("u1")
	e := seedExpense(t, m, user, 10, "2026-01-01", "g-old")

	patch := domain.ExpensePatch{Amount: 20, Reason: "Lunch", Date: date("2026-01-05"), GroupID: ""}
	require.NoError(t, m.UpdateExpense(ctx, e.ID, patch))

	got, err := m.ExpenseByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Amount)
	assert.Equal(t, "Lunch", got.Reason)
	assert.Empty(t, got.GroupID)

	err = m.UpdateExpense(ctx, domain.ExpenseID("missing"), patch)
	assert.ErrorIs(t, err, ErrNotFound)
}
