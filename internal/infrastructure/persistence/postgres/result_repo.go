package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/shared"
)

// ResultRepository implements academic.ResultRepository for PostgreSQL.
type ResultRepository struct {
	conn *Connection
}

var _ academic.ResultRepository = (*ResultRepository)(nil)

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(conn *Connection) *ResultRepository {
	return &ResultRepository{conn: conn}
}

const resultColumns = `id, student_id, subject_id, marks, total_marks, term, year`

const upsertResultSQL = `
	INSERT INTO results (id, student_id, subject_id, marks, total_marks, term, year)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		student_id = EXCLUDED.student_id,
		subject_id = EXCLUDED.subject_id,
		marks = EXCLUDED.marks,
		total_marks = EXCLUDED.total_marks,
		term = EXCLUDED.term,
		year = EXCLUDED.year
`

// List returns results matching filter in insertion order.
// Empty filter fields match everything.
func (r *ResultRepository) List(ctx context.Context, filter academic.ResultFilter) ([]academic.Result, error) {
	query, args := buildResultQuery(filter)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	results := make([]academic.Result, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// GetByID returns one result row.
func (r *ResultRepository) GetByID(ctx context.Context, id string) (*academic.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM results WHERE id = $1`

	res, err := scanResult(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &res, nil
}

func scanResult(row pgx.Row) (academic.Result, error) {
	var res academic.Result
	var term string
	if err := row.Scan(&res.ID, &res.StudentID, &res.SubjectID, &res.Marks, &res.TotalMarks, &term, &res.Year); err != nil {
		return academic.Result{}, err
	}
	res.Term = academic.Term(term)
	return res, nil
}

func buildResultQuery(filter academic.ResultFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Term != "" {
		args = append(args, string(filter.Term))
		conds = append(conds, fmt.Sprintf("term = $%d", len(args)))
	}
	if filter.Year != "" {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("year = $%d", len(args)))
	}

	query := `SELECT ` + resultColumns + ` FROM results`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query + " ORDER BY seq", args
}

// Save upserts one result.
func (r *ResultRepository) Save(ctx context.Context, res *academic.Result) error {
	if _, err := r.conn.Exec(ctx, upsertResultSQL, resultArgs(res)...); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// SaveBatch upserts all results in one transaction.
func (r *ResultRepository) SaveBatch(ctx context.Context, results []academic.Result) error {
	if len(results) == 0 {
		return nil
	}

	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range results {
			batch.Queue(upsertResultSQL, resultArgs(&results[i])...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored results.
func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}

func resultArgs(res *academic.Result) []interface{} {
	return []interface{}{
		res.ID,
		res.StudentID,
		res.SubjectID,
		res.Marks,
		res.TotalMarks,
		string(res.Term),
		res.Year,
	}
}
