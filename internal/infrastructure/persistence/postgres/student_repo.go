package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `id, admission_number, name, class, gender, date_of_birth, created_at`

// List returns every student in insertion order.
func (r *StudentRepository) List(ctx context.Context) ([]student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY seq`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return r.scanStudents(rows)
}

// ListByClass returns the students of one class in insertion order.
func (r *StudentRepository) ListByClass(ctx context.Context, class student.Class) ([]student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE class = $1 ORDER BY seq`

	rows, err := r.conn.Query(ctx, query, string(class))
	if err != nil {
		return nil, fmt.Errorf("failed to list students by class: %w", err)
	}
	return r.scanStudents(rows)
}

// GetByID returns a student by id.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	s, err := scanStudent(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &s, nil
}

// Save inserts the student or updates the row with the same id in place.
func (r *StudentRepository) Save(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (id, admission_number, name, class, gender, date_of_birth, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			admission_number = EXCLUDED.admission_number,
			name = EXCLUDED.name,
			class = EXCLUDED.class,
			gender = EXCLUDED.gender,
			date_of_birth = EXCLUDED.date_of_birth
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.AdmissionNumber,
		s.Name,
		string(s.Class),
		string(s.Gender),
		s.DateOfBirth,
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save student: %w", err)
	}
	return nil
}

// Delete removes a student. Their results and attendance are kept.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// Count returns the number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanStudent(row pgx.Row) (student.Student, error) {
	var s student.Student
	var class, gender string

	err := row.Scan(&s.ID, &s.AdmissionNumber, &s.Name, &class, &gender, &s.DateOfBirth, &s.CreatedAt)
	if err != nil {
		return student.Student{}, err
	}
	s.Class = student.Class(class)
	s.Gender = student.Gender(gender)
	return s, nil
}

func (r *StudentRepository) scanStudents(rows pgx.Rows) ([]student.Student, error) {
	defer rows.Close()

	students := make([]student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
