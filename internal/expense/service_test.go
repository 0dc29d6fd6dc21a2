package expense

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

func TestAddDefaultsReason(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory())
	user := domain.UserID("u1")

	e, err := svc.Add(ctx, user, 120.50, "", day("2026-08-01"), "")
	require.NoError(t, err)
	assert.Equal(t, domain.NoReason, e.Reason)
	assert.Contains(t, string(e.ID), "u1_")

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.50, got.Amount)
}

func TestAddKeepsStaleGroupReference(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory())

	e, err := svc.Add(ctx, "u1", 10, "Taxi", day("2026-08-01"), "long-gone")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupID("long-gone"), e.GroupID)
}

func TestEditOverwritesAllFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory())

	e, err := svc.Add(ctx, "u1", 10, "Taxi", day("2026-08-01"), "g1")
	require.NoError(t, err)

	err = svc.Edit(ctx, e.ID, domain.ExpensePatch{Amount: 15, Reason: "", Date: day("2026-08-02")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Amount)
	assert.Equal(t, domain.NoReason, got.Reason)
	assert.Empty(t, got.GroupID)

	err = svc.Edit(ctx, "missing", domain.ExpensePatch{Amount: 1, Date: day("2026-08-02")})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteRangeInvertedMatchesNothing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory())
	user := domain.UserID("u1")

	_, err := svc.Add(ctx, user, 10, "a", day("2026-08-05"), "")
	require.NoError(t, err)

	n, err := svc.DeleteRange(ctx, user, day("2026-08-31"), day("2026-08-01"))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.DeleteRange(ctx, user, day("2026-08-05"), day("2026-08-05"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory())
	user := domain.UserID("u1")

	for i := 0; i < 12; i++ {
		_, err := svc.Add(ctx, user, float64(i+1), "x", day("2026-08-01").AddDate(0, 0, i), "")
		require.NoError(t, err)
	}

	recent, err := svc.Recent(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, 12.0, recent[0].Amount)
	assert.Equal(t, 3.0, recent[9].Amount)
}

func TestTotalsAndClearUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(storage.NewMemory())
	user := domain.UserID("u1")

	_, err := svc.Add(ctx, user, 10, "a", day("2026-08-01"), "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, 30, "b", day("2026-08-02"), "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "other", 99, "c", day("2026-08-03"), "")
	require.NoError(t, err)

	total, count, err := svc.Totals(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 40.0, total)
	assert.Equal(t, 2, count)

	n, err := svc.ClearUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	otherTotal, otherCount, err := svc.Totals(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 99.0, otherTotal)
	assert.Equal(t, 1, otherCount)
}
