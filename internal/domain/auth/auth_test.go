package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

type fakeUsers struct {
	users []User
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (f *fakeUsers) Save(_ context.Context, u *User) error {
	f.users = append(f.users, *u)
	return nil
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	return len(f.users), nil
}

func newTestService(users UserRepository) *Service {
	return NewService(users, NewTokenIssuer("test-secret", time.Hour, "school-admin"), bcrypt.MinCost)
}

func TestService_EnsureAdminOnce(t *testing.T) {
	ctx := context.Background()
	users := &fakeUsers{}
	svc := newTestService(users)

	created, err := svc.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, users.users, 1)
	assert.Equal(t, RoleAdmin, users.users[0].Role)
	assert.NotEqual(t, "admin123", users.users[0].PasswordHash)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeUsers{})
	_, err := svc.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)

	session, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Empty(t, session.User.PasswordHash)

	claims, err := svc.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.True(t, shared.IsUnauthorized(err))
}

func TestTokenIssuer_RejectsTamperedAndExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Minute, "school-admin")
	token, _, err := issuer.Issue(User{ID: "u1", Username: "admin", Role: RoleAdmin})
	require.NoError(t, err)

	other := NewTokenIssuer("secret-b", time.Minute, "school-admin")
	_, err = other.Verify(token)
	assert.True(t, shared.IsUnauthorized(err))

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Verify(token)
	assert.True(t, shared.IsUnauthorized(err))
}
