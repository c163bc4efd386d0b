package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD RESULTS COMMAND
// Enters one term's marks for a student: one row per catalog subject, out of
// 100. Subjects left out of Marks are recorded as 0. Every row gets a fresh
// id, so re-entering a term adds rows rather than replacing them.
// ══════════════════════════════════════════════════════════════════════════════

// RecordResultsCommand contains a student's marks for one term.
type RecordResultsCommand struct {
	StudentID string `json:"studentId" validate:"required"`
	Term      string `json:"term" validate:"required,school_term"`
	Year      string `json:"year" validate:"required,len=4,numeric"`

	// Marks maps subject id to marks out of 100.
	Marks map[string]int `json:"marks" validate:"dive,keys,subject_id,endkeys,min=0,max=100"`
}

// RecordResultsHandler handles RecordResultsCommand.
type RecordResultsHandler struct {
	students student.Repository
	results  academic.ResultRepository
	cache    ranking.MeritCache
	log      *logger.Logger
	catalog  []academic.Subject
}

// NewRecordResultsHandler creates a new RecordResultsHandler. cache may be nil.
func NewRecordResultsHandler(
	students student.Repository,
	results academic.ResultRepository,
	cache ranking.MeritCache,
	log *logger.Logger,
) *RecordResultsHandler {
	return &RecordResultsHandler{
		students: students,
		results:  results,
		cache:    cache,
		log:      log,
		catalog:  academic.Subjects,
	}
}

// Handle validates the marks, stores one row per subject and invalidates the
// cached merit lists of the term.
func (h *RecordResultsHandler) Handle(ctx context.Context, cmd RecordResultsCommand) ([]academic.Result, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	if _, err := h.students.GetByID(ctx, cmd.StudentID); err != nil {
		return nil, err
	}

	rows := make([]academic.Result, 0, len(h.catalog))
	for _, subject := range h.catalog {
		r := academic.Result{
			ID:         uuid.NewString(),
			StudentID:  cmd.StudentID,
			SubjectID:  subject.ID,
			Marks:      cmd.Marks[subject.ID],
			TotalMarks: academic.DefaultTotalMarks,
			Term:       academic.Term(cmd.Term),
			Year:       cmd.Year,
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}

	if err := h.results.SaveBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("record_results: %w", err)
	}

	log := logger.FromContextOr(ctx, h.log)
	invalidateTerm(ctx, h.cache, log, academic.Term(cmd.Term), cmd.Year)
	log.Info("results recorded",
		logger.StudentID(cmd.StudentID),
		logger.Term(cmd.Term),
		logger.Year(cmd.Year),
		logger.Count(len(rows)),
	)

	return rows, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SAVE RESULT COMMAND
// Upserts a single result row by id.
// ══════════════════════════════════════════════════════════════════════════════

// SaveResultCommand contains one result row. An empty ID creates a new row.
type SaveResultCommand struct {
	ID         string `json:"id"`
	StudentID  string `json:"studentId" validate:"required"`
	SubjectID  string `json:"subjectId" validate:"required,subject_id"`
	Marks      int    `json:"marks" validate:"min=0,ltefield=TotalMarks"`
	TotalMarks int    `json:"totalMarks" validate:"gt=0"`
	Term       string `json:"term" validate:"required,school_term"`
	Year       string `json:"year" validate:"required,len=4,numeric"`
}

// SaveResultHandler handles SaveResultCommand.
type SaveResultHandler struct {
	students student.Repository
	results  academic.ResultRepository
	cache    ranking.MeritCache
	log      *logger.Logger
}

// NewSaveResultHandler creates a new SaveResultHandler. cache may be nil.
func NewSaveResultHandler(
	students student.Repository,
	results academic.ResultRepository,
	cache ranking.MeritCache,
	log *logger.Logger,
) *SaveResultHandler {
	return &SaveResultHandler{students: students, results: results, cache: cache, log: log}
}

// Handle validates and upserts the row.
func (h *SaveResultHandler) Handle(ctx context.Context, cmd SaveResultCommand) (*academic.Result, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	if _, err := h.students.GetByID(ctx, cmd.StudentID); err != nil {
		return nil, err
	}

	r := &academic.Result{
		ID:         cmd.ID,
		StudentID:  cmd.StudentID,
		SubjectID:  cmd.SubjectID,
		Marks:      cmd.Marks,
		TotalMarks: cmd.TotalMarks,
		Term:       academic.Term(cmd.Term),
		Year:       cmd.Year,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	// An edit can move the row to another term or year; both lists change.
	var previous *academic.Result
	if cmd.ID != "" {
		prev, err := h.results.GetByID(ctx, cmd.ID)
		switch {
		case err == nil:
			previous = prev
		case !shared.IsNotFound(err):
			return nil, fmt.Errorf("save_result: %w", err)
		}
	}

	if err := h.results.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save_result: %w", err)
	}

	log := logger.FromContextOr(ctx, h.log)
	invalidateTerm(ctx, h.cache, log, r.Term, r.Year)
	if previous != nil && (previous.Term != r.Term || previous.Year != r.Year) {
		invalidateTerm(ctx, h.cache, log, previous.Term, previous.Year)
	}
	return r, nil
}

func invalidateTerm(ctx context.Context, cache ranking.MeritCache, log *logger.Logger, term academic.Term, year string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, term, year); err != nil {
		log.Warn("merit cache invalidation failed",
			logger.Term(string(term)),
			logger.Year(year),
			logger.Err(err),
		)
	}
}
