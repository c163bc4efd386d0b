package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

// Session is the outcome of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// Service authenticates users against the account store.
type Service struct {
	users      UserRepository
	tokens     *TokenIssuer
	bcryptCost int
}

// NewService creates an auth service. bcryptCost 0 means bcrypt.DefaultCost.
func NewService(users UserRepository, tokens *TokenIssuer, bcryptCost int) *Service {
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// EnsureAdmin seeds the admin account when the store has no users yet.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Role:         RoleAdmin,
		PasswordHash: hash,
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return false, fmt.Errorf("save admin: %w", err)
	}
	return true, nil
}

// Login checks the credentials and issues a session token.
// Unknown users and wrong passwords both yield shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPasswordHash(password, u.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: u.Public()}, nil
}

// Authenticate verifies a bearer token.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}
