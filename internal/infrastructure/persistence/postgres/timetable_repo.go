package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/domain/timetable"
)

// TimetableRepository implements timetable.Repository for PostgreSQL.
type TimetableRepository struct {
	conn *Connection
}

var _ timetable.Repository = (*TimetableRepository)(nil)

// NewTimetableRepository creates a new TimetableRepository.
func NewTimetableRepository(conn *Connection) *TimetableRepository {
	return &TimetableRepository{conn: conn}
}

const timetableColumns = `id, class, day, period, subject, teacher, start_time, end_time`

// List returns every entry in insertion order.
func (r *TimetableRepository) List(ctx context.Context) ([]timetable.Entry, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+timetableColumns+` FROM timetable_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list timetable: %w", err)
	}
	return scanEntries(rows)
}

// ListByClass returns the entries of one class in insertion order.
func (r *TimetableRepository) ListByClass(ctx context.Context, class student.Class) ([]timetable.Entry, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+timetableColumns+` FROM timetable_entries WHERE class = $1 ORDER BY seq`, string(class))
	if err != nil {
		return nil, fmt.Errorf("failed to list timetable by class: %w", err)
	}
	return scanEntries(rows)
}

// Save upserts one entry.
func (r *TimetableRepository) Save(ctx context.Context, e *timetable.Entry) error {
	query := `
		INSERT INTO timetable_entries (id, class, day, period, subject, teacher, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			class = EXCLUDED.class,
			day = EXCLUDED.day,
			period = EXCLUDED.period,
			subject = EXCLUDED.subject,
			teacher = EXCLUDED.teacher,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time
	`
	_, err := r.conn.Exec(ctx, query,
		e.ID, string(e.Class), e.Day, e.Period, e.Subject, e.Teacher, e.StartTime, e.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save timetable entry: %w", err)
	}
	return nil
}

// Delete removes one entry.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM timetable_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete timetable entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrTimetableEntryNotFound
	}
	return nil
}

func scanEntries(rows pgx.Rows) ([]timetable.Entry, error) {
	defer rows.Close()

	entries := make([]timetable.Entry, 0)
	for rows.Next() {
		var e timetable.Entry
		var class string
		if err := rows.Scan(&e.ID, &class, &e.Day, &e.Period, &e.Subject, &e.Teacher, &e.StartTime, &e.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan timetable entry: %w", err)
		}
		e.Class = student.Class(class)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
