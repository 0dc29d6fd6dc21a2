package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"expensebot/internal/domain"
	"expensebot/internal/storage"
)

// AdminAccountID is the session account id of the admin identity. It is a
// sentinel: the admin credential pair comes from configuration and no user
// record exists for it.
const AdminAccountID = "admin"

// ErrInvalidCredentials is returned when the email/password pair does not
// match any account. The caller must not learn which half was wrong.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Credentials is an email/password pair.
type Credentials struct {
	Email    string
	Password string
}

// Service authenticates and registers accounts.
type Service struct {
	store storage.Storage
	admin Credentials
}

// NewService builds the auth service. An empty admin email disables the
// admin identity entirely.
func NewService(store storage.Storage, admin Credentials) *Service {
	return &Service{store: store, admin: admin}
}

// SignIn validates a credential pair. The admin pair is checked first and
// wins over any stored account with the same email.
func (s *Service) SignIn(ctx context.Context, email, password string) (accountID string, admin bool, err error) {
	email = NormalizeEmail(email)

	if s.admin.Email != "" && email == NormalizeEmail(s.admin.Email) && password == s.admin.Password {
		return AdminAccountID, true, nil
	}

	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, ErrInvalidCredentials
	}
	if err != nil {
		return "", false, fmt.Errorf("sign in: %w", err)
	}
	if !ComparePasswords(user.PasswordHash, password) {
		return "", false, ErrInvalidCredentials
	}
	return string(user.ID), false, nil
}

// SignUp registers a new account with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, email, password string) (domain.User, error) {
	email = NormalizeEmail(email)

	hash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("sign up: %w", err)
	}
	user, err := s.store.CreateUser(ctx, email, hash)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// EmailTaken reports whether an account already exists for the email.
func (s *Service) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.store.UserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListUsers returns every registered account, admin use only.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.ListUsers(ctx)
}

// UserByID resolves an account by its id.
func (s *Service) UserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return s.store.UserByID(ctx, id)
}

// NormalizeEmail lowercases and trims an email so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePasswords reports whether the plaintext matches the stored hash.
func ComparePasswords(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
