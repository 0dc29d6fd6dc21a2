package group

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/domain"
	"expensebot/internal/storage"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func addExpense(t *testing.T, store *storage.Memory, user domain.UserID, amount float64, group domain.GroupID) {
	t.Helper()
	err := store.InsertExpense(context.Background(), domain.Expense{
		ID:      domain.NewExpenseID(user, time.Now().Add(time.Duration(amount))),
		UserID:  user,
		Amount:  amount,
		Reason:  "x",
		Date:    day("2026-08-01"),
		GroupID: group,
	})
	require.NoError(t, err)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := NewService(storage.NewMemory())

	_, err := svc.Create(context.Background(), "u1", "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	g, err := svc.Create(context.Background(), "u1", "  Goa Trip ")
	require.NoError(t, err)
	assert.Equal(t, "Goa Trip", g.Name)
}

func TestListAggregatesPerGroup(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := NewService(store)
	user := domain.UserID("u1")

	g1, err := svc.Create(ctx, user, "Trip")
	require.NoError(t, err)
	g2, err := svc.Create(ctx, user, "Office")
	require.NoError(t, err)

	addExpense(t, store, user, 100, g1.ID)
	addExpense(t, store, user, 50, g1.ID)
	addExpense(t, store, user, 10, g2.ID)
	addExpense(t, store, user, 7, "")

	list, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Trip", list[0].Group.Name)
	assert.Equal(t, 150.0, list[0].Total)
	assert.Equal(t, 2, list[0].Count)
	assert.Equal(t, 10.0, list[1].Total)
}

func TestDeleteDetachesExpensesOnly(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := NewService(store)
	user := domain.UserID("u1")

	g, err := svc.Create(ctx, user, "Trip")
	require.NoError(t, err)
	addExpense(t, store, user, 100, g.ID)
	addExpense(t, store, user, 50, g.ID)

	deleted, err := svc.Delete(ctx, user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip", deleted.Name)

	_, err = svc.Get(ctx, user, g.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	expenses, err := store.ListExpenses(ctx, user)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	for _, e := range expenses {
		assert.Empty(t, e.GroupID)
	}
}

func TestDeleteMissingGroup(t *testing.T) {
	svc := NewService(storage.NewMemory())
	_, err := svc.Delete(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDetailsAndNameMap(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := NewService(store)
	user := domain.UserID("u1")

	g, err := svc.Create(ctx, user, "Gym")
	require.NoError(t, err)
	addExpense(t, store, user, 30, g.ID)

	d, err := svc.Details(ctx, user, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, d.Total)
	assert.Len(t, d.Expenses, 1)

	names, err := svc.NameMap(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Gym", names[g.ID])

	_, err = svc.Details(ctx, "someone-else", g.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
