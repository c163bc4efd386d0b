// Package auth gates access to the administration API: one seeded admin
// account, bcrypt password hashes and signed session tokens.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Role of an account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

// User is an account allowed to sign in.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// GetID returns the record identifier.
func (u User) GetID() string {
	return u.ID
}

// Public returns a copy without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// UserRepository defines the storage contract for accounts.
type UserRepository interface {
	// GetByUsername returns shared.ErrUserNotFound when no user matches.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Save inserts the user or replaces the one with the same ID.
	Save(ctx context.Context, u *User) error

	// Count returns the number of accounts.
	Count(ctx context.Context) (int, error)
}

// HashPassword hashes a password with bcrypt at the given cost.
// A cost of 0 selects bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
