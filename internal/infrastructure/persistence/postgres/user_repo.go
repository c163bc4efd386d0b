package postgres

import (
	"context"
	"fmt"

	"github.com/schoolhub/school-admin/internal/domain/auth"
	"github.com/schoolhub/school-admin/internal/domain/shared"
)

// UserRepository implements auth.UserRepository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

var _ auth.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// GetByUsername returns the account with the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	var u auth.User
	var role string

	err := r.conn.QueryRow(ctx,
		`SELECT id, username, role, password_hash FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &role, &u.PasswordHash)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Role = auth.Role(role)
	return &u, nil
}

// Save upserts an account.
func (r *UserRepository) Save(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO users (id, username, role, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			role = EXCLUDED.role,
			password_hash = EXCLUDED.password_hash
	`
	_, err := r.conn.Exec(ctx, query, u.ID, u.Username, string(u.Role), u.PasswordHash)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("auth", "Save", shared.ErrAlreadyExists, "username taken", err)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Count returns the number of accounts.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// Repositories bundles every PostgreSQL repository on one pool.
type Repositories struct {
	Students   *StudentRepository
	Results    *ResultRepository
	Attendance *AttendanceRepository
	Timetable  *TimetableRepository
	Users      *UserRepository
}

// NewRepositories creates all repositories on conn.
func NewRepositories(conn *Connection) *Repositories {
	return &Repositories{
		Students:   NewStudentRepository(conn),
		Results:    NewResultRepository(conn),
		Attendance: NewAttendanceRepository(conn),
		Timetable:  NewTimetableRepository(conn),
		Users:      NewUserRepository(conn),
	}
}
