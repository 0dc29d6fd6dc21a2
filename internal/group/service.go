package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expensebot/internal/domain"
	"expensebot/internal/storage"
)

// ErrEmptyName is returned when a group is created with a blank name.
var ErrEmptyName = errors.New("group: name must not be empty")

// Summary is a group with its aggregated spending.
type Summary struct {
	Group domain.Group
	Total float64
	Count int
}

// Details is a group with its full expense list.
type Details struct {
	Group    domain.Group
	Expenses []domain.Expense
	Total    float64
}

// Service manages expense groups.
type Service struct {
	store storage.Storage
}

// NewService builds the group service.
func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// Create adds a new group owned by the user.
func (s *Service) Create(ctx context.Context, user domain.UserID, name string) (domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Group{}, ErrEmptyName
	}
	return s.store.CreateGroup(ctx, user, name)
}

// Get fetches one group of the user.
func (s *Service) Get(ctx context.Context, user domain.UserID, id domain.GroupID) (domain.Group, error) {
	return s.store.GroupByID(ctx, user, id)
}

// List returns the user's groups with per-group totals.
func (s *Service) List(ctx context.Context, user domain.UserID) ([]Summary, error) {
	groups, err := s.store.ListGroups(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(groups))
	for _, g := range groups {
		expenses, err := s.store.ListGroupExpenses(ctx, user, g.ID)
		if err != nil {
			return nil, fmt.Errorf("group totals: %w", err)
		}
		sum := Summary{Group: g, Count: len(expenses)}
		for _, e := range expenses {
			sum.Total += e.Amount
		}
		out = append(out, sum)
	}
	return out, nil
}

// ListPlain returns the user's groups without aggregation, oldest first.
func (s *Service) ListPlain(ctx context.Context, user domain.UserID) ([]domain.Group, error) {
	return s.store.ListGroups(ctx, user)
}

// Details returns one group with its expenses, newest first.
func (s *Service) Details(ctx context.Context, user domain.UserID, id domain.GroupID) (Details, error) {
	g, err := s.store.GroupByID(ctx, user, id)
	if err != nil {
		return Details{}, err
	}
	expenses, err := s.store.ListGroupExpenses(ctx, user, id)
	if err != nil {
		return Details{}, err
	}
	d := Details{Group: g, Expenses: expenses}
	for _, e := range expenses {
		d.Total += e.Amount
	}
	return d, nil
}

// Delete removes the group and detaches its expenses. The expense records
// themselves are never deleted here.
func (s *Service) Delete(ctx context.Context, user domain.UserID, id domain.GroupID) (domain.Group, error) {
	g, err := s.store.GroupByID(ctx, user, id)
	if err != nil {
		return domain.Group{}, err
	}
	if _, err := s.store.ClearGroupRefs(ctx, user, id); err != nil {
		return domain.Group{}, fmt.Errorf("delete group: %w", err)
	}
	if err := s.store.DeleteGroup(ctx, user, id); err != nil {
		return domain.Group{}, err
	}
	return g, nil
}

// NameMap resolves group ids to names for display. Ids absent from the map
// render as "no group".
func (s *Service) NameMap(ctx context.Context, user domain.UserID) (map[domain.GroupID]string, error) {
	groups, err := s.store.ListGroups(ctx, user)
	if err != nil {
		return nil, err
	}
	names := make(map[domain.GroupID]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}
