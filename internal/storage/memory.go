package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"expensebot/internal/domain"
)

// Memory is an in-process Storage used by tests and local development.
// It mirrors Postgres semantics including ordering and idempotent deletes.
type Memory struct {
	mu       sync.RWMutex
	users    map[domain.UserID]domain.User
	expenses map[domain.ExpenseID]domain.Expense
	groups   map[domain.GroupID]domain.Group
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[domain.UserID]domain.User),
		expenses: make(map[domain.ExpenseID]domain.Expense),
		groups:   make(map[domain.GroupID]domain.Group),
	}
}

func (m *Memory) CreateUser(_ context.Context, email, passwordHash string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return domain.User{}, ErrEmailTaken
		}
	}
	u := domain.User{
		ID:           domain.UserID(uuid.NewString()),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (m *Memory) UserByID(_ context.Context, id domain.UserID) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (m *Memory) InsertExpense(_ context.Context, e domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.ID] = e
	return nil
}

func (m *Memory) ExpenseByID(_ context.Context, id domain.ExpenseID) (domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.expenses[id]
	if !ok {
		return domain.Expense{}, ErrNotFound
	}
	return e, nil
}

func (m *Memory) UpdateExpense(_ context.Context, id domain.ExpenseID, patch domain.ExpensePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return ErrNotFound
	}
	e.Amount = patch.Amount
	e.Reason = patch.Reason
	e.Date = patch.Date
	e.GroupID = patch.GroupID
	m.expenses[id] = e
	return nil
}

func (m *Memory) DeleteExpense(_ context.Context, id domain.ExpenseID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expenses, id)
	return nil
}

func (m *Memory) DeleteExpensesInRange(_ context.Context, user domain.UserID, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.expenses {
		if e.UserID == user && inRange(e.Date, from, to) {
			delete(m.expenses, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) DeleteUserExpenses(_ context.Context, user domain.UserID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.expenses {
		if e.UserID == user {
			delete(m.expenses, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListExpenses(_ context.Context, user domain.UserID) ([]domain.Expense, error) {
	return m.filterExpenses(func(e domain.Expense) bool { return e.UserID == user }), nil
}

func (m *Memory) ListExpensesSince(_ context.Context, user domain.UserID, since time.Time) ([]domain.Expense, error) {
	return m.filterExpenses(func(e domain.Expense) bool {
		return e.UserID == user && !e.Date.Before(since)
	}), nil
}

func (m *Memory) ListExpensesInRange(_ context.Context, user domain.UserID, from, to time.Time) ([]domain.Expense, error) {
	return m.filterExpenses(func(e domain.Expense) bool {
		return e.UserID == user && inRange(e.Date, from, to)
	}), nil
}

func (m *Memory) ListGroupExpenses(_ context.Context, user domain.UserID, group domain.GroupID) ([]domain.Expense, error) {
	return m.filterExpenses(func(e domain.Expense) bool {
		return e.UserID == user && e.GroupID == group
	}), nil
}

func (m *Memory) filterExpenses(keep func(domain.Expense) bool) []domain.Expense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Expense, 0)
	for _, e := range m.expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *Memory) CreateGroup(_ context.Context, user domain.UserID, name string) (domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := domain.Group{
		ID:        domain.GroupID(uuid.NewString()),
		UserID:    user,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.groups[g.ID] = g
	return g, nil
}

func (m *Memory) GroupByID(_ context.Context, user domain.UserID, id domain.GroupID) (domain.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok || g.UserID != user {
		return domain.Group{}, ErrNotFound
	}
	return g, nil
}

func (m *Memory) ListGroups(_ context.Context, user domain.UserID) ([]domain.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	groups := make([]domain.Group, 0)
	for _, g := range m.groups {
		if g.UserID == user {
			groups = append(groups, g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.Before(groups[j].CreatedAt) })
	return groups, nil
}

func (m *Memory) DeleteGroup(_ context.Context, user domain.UserID, id domain.GroupID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok || g.UserID != user {
		return ErrNotFound
	}
	delete(m.groups, id)
	return nil
}

func (m *Memory) ClearGroupRefs(_ context.Context, user domain.UserID, id domain.GroupID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for eid, e := range m.expenses {
		if e.UserID == user && e.GroupID == id {
			e.GroupID = ""
			m.expenses[eid] = e
			n++
		}
	}
	return n, nil
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

var _ Storage = (*Memory)(nil)
