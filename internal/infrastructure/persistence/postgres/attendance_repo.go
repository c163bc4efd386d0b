package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/school-admin/internal/domain/attendance"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// AttendanceRepository implements attendance.Repository for PostgreSQL.
type AttendanceRepository struct {
	conn *Connection
}

var _ attendance.Repository = (*AttendanceRepository)(nil)

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

// List returns every record in insertion order.
func (r *AttendanceRepository) List(ctx context.Context) ([]attendance.Record, error) {
	rows, err := r.conn.Query(ctx, `SELECT id, student_id, date, status, class FROM attendance ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return scanAttendance(rows)
}

// ListByDate returns the register of one class on one date.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date string, class student.Class) ([]attendance.Record, error) {
	query := `
		SELECT id, student_id, date, status, class FROM attendance
		WHERE date = $1 AND class = $2
		ORDER BY seq
	`
	rows, err := r.conn.Query(ctx, query, date, string(class))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	return scanAttendance(rows)
}

// ReplaceForDay deletes the stored register of class on date and inserts
// records, in one transaction.
func (r *AttendanceRepository) ReplaceForDay(ctx context.Context, date string, class student.Class, records []attendance.Record) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM attendance WHERE date = $1 AND class = $2`, date, string(class)); err != nil {
			return fmt.Errorf("failed to clear attendance: %w", err)
		}

		if len(records) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(`
				INSERT INTO attendance (id, student_id, date, status, class)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					student_id = EXCLUDED.student_id,
					date = EXCLUDED.date,
					status = EXCLUDED.status,
					class = EXCLUDED.class
			`, rec.ID, rec.StudentID, rec.Date, string(rec.Status), string(rec.Class))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert attendance: %w", err)
		}
		return nil
	})
}

func scanAttendance(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		var rec attendance.Record
		var status, class string
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.Date, &status, &class); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		rec.Status = attendance.Status(status)
		rec.Class = student.Class(class)
		records = append(records, rec)
	}
	return records, rows.Err()
}
