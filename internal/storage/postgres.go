package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"expensebot/internal/domain"
)

const pgUniqueViolation = "23505"

// Postgres implements Storage on top of sqlx.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an already connected database handle.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           domain.UserID(r.ID),
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

type expenseRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Amount    float64        `db:"amount"`
	Reason    string         `db:"reason"`
	Date      time.Time      `db:"date"`
	GroupID   sql.NullString `db:"group_id"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r expenseRow) toDomain() domain.Expense {
	e := domain.Expense{
		ID:        domain.ExpenseID(r.ID),
		UserID:    domain.UserID(r.UserID),
		Amount:    r.Amount,
		Reason:    r.Reason,
		Date:      r.Date,
		CreatedAt: r.CreatedAt,
	}
	if r.GroupID.Valid {
		e.GroupID = domain.GroupID(r.GroupID.String)
	}
	return e
}

type groupRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r groupRow) toDomain() domain.Group {
	return domain.Group{
		ID:        domain.GroupID(r.ID),
		UserID:    domain.UserID(r.UserID),
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
	}
}

func nullGroup(id domain.GroupID) sql.NullString {
	if id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(id), Valid: true}
}

func (p *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error) {
	row := userRow{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		row.ID, row.Email, row.PasswordHash, row.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return row.toDomain(), nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var row userRow
	err := p.db.GetContext(ctx, &row, `SELECT * FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user by email: %w", err)
	}
	return row.toDomain(), nil
}

func (p *Postgres) UserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	var row userRow
	err := p.db.GetContext(ctx, &row, `SELECT * FROM users WHERE id = $1`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user by id: %w", err)
	}
	return row.toDomain(), nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	if err := p.db.SelectContext(ctx, &rows, `SELECT * FROM users ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toDomain())
	}
	return users, nil
}

func (p *Postgres) InsertExpense(ctx context.Context, e domain.Expense) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, amount, reason, date, group_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(e.ID), string(e.UserID), e.Amount, e.Reason, e.Date, nullGroup(e.GroupID), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (p *Postgres) ExpenseByID(ctx context.Context, id domain.ExpenseID) (domain.Expense, error) {
	var row expenseRow
	err := p.db.GetContext(ctx, &row, `SELECT * FROM expenses WHERE id = $1`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Expense{}, ErrNotFound
	}
	if err != nil {
		return domain.Expense{}, fmt.Errorf("expense by id: %w", err)
	}
	return row.toDomain(), nil
}

func (p *Postgres) UpdateExpense(ctx context.Context, id domain.ExpenseID, patch domain.ExpensePatch) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE expenses SET amount = $2, reason = $3, date = $4, group_id = $5 WHERE id = $1`,
		string(id), patch.Amount, patch.Reason, patch.Date, nullGroup(patch.GroupID),
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) DeleteExpense(ctx context.Context, id domain.ExpenseID) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, string(id)); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteExpensesInRange(ctx context.Context, user domain.UserID, from, to time.Time) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE user_id = $1 AND date >= $2 AND date <= $3`,
		string(user), from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expenses in range: %w", err)
	}
	return res.RowsAffected()
}

func (p *Postgres) DeleteUserExpenses(ctx context.Context, user domain.UserID) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = $1`, string(user))
	if err != nil {
		return 0, fmt.Errorf("delete user expenses: %w", err)
	}
	return res.RowsAffected()
}

func (p *Postgres) ListExpenses(ctx context.Context, user domain.UserID) ([]domain.Expense, error) {
	return p.selectExpenses(ctx,
		`SELECT * FROM expenses WHERE user_id = $1 ORDER BY date DESC, created_at DESC`,
		string(user))
}

func (p *Postgres) ListExpensesSince(ctx context.Context, user domain.UserID, since time.Time) ([]domain.Expense, error) {
	return p.selectExpenses(ctx,
		`SELECT * FROM expenses WHERE user_id = $1 AND date >= $2 ORDER BY date DESC, created_at DESC`,
		string(user), since)
}

func (p *Postgres) ListExpensesInRange(ctx context.Context, user domain.UserID, from, to time.Time) ([]domain.Expense, error) {
	return p.selectExpenses(ctx,
		`SELECT * FROM expenses WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC, created_at DESC`,
		string(user), from, to)
}

func (p *Postgres) ListGroupExpenses(ctx context.Context, user domain.UserID, group domain.GroupID) ([]domain.Expense, error) {
	return p.selectExpenses(ctx,
		`SELECT * FROM expenses WHERE user_id = $1 AND group_id = $2 ORDER BY date DESC, created_at DESC`,
		string(user), string(group))
}

func (p *Postgres) selectExpenses(ctx context.Context, query string, args ...interface{}) ([]domain.Expense, error) {
	var rows []expenseRow
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]domain.Expense, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (p *Postgres) CreateGroup(ctx context.Context, user domain.UserID, name string) (domain.Group, error) {
	row := groupRow{
		ID:        uuid.NewString(),
		UserID:    string(user),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO groups (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		row.ID, row.UserID, row.Name, row.CreatedAt,
	)
	if err != nil {
		return domain.Group{}, fmt.Errorf("create group: %w", err)
	}
	return row.toDomain(), nil
}

func (p *Postgres) GroupByID(ctx context.Context, user domain.UserID, id domain.GroupID) (domain.Group, error) {
	var row groupRow
	err := p.db.GetContext(ctx, &row,
		`SELECT * FROM groups WHERE id = $1 AND user_id = $2`,
		string(id), string(user))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Group{}, ErrNotFound
	}
	if err != nil {
		return domain.Group{}, fmt.Errorf("group by id: %w", err)
	}
	return row.toDomain(), nil
}

func (p *Postgres) ListGroups(ctx context.Context, user domain.UserID) ([]domain.Group, error) {
	var rows []groupRow
	err := p.db.SelectContext(ctx, &rows,
		`SELECT * FROM groups WHERE user_id = $1 ORDER BY created_at`,
		string(user))
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups := make([]domain.Group, 0, len(rows))
	for _, r := range rows {
		groups = append(groups, r.toDomain())
	}
	return groups, nil
}

func (p *Postgres) DeleteGroup(ctx context.Context, user domain.UserID, id domain.GroupID) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM groups WHERE id = $1 AND user_id = $2`,
		string(id), string(user))
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ClearGroupRefs(ctx context.Context, user domain.UserID, id domain.GroupID) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`UPDATE expenses SET group_id = NULL WHERE user_id = $1 AND group_id = $2`,
		string(user), string(id))
	if err != nil {
		return 0, fmt.Errorf("clear group refs: %w", err)
	}
	return res.RowsAffected()
}

var _ Storage = (*Postgres)(nil)
