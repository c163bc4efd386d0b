package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE STUDENT COMMAND
// Creates a student or edits an existing one. Edits keep the original
// creation time.
// ══════════════════════════════════════════════════════════════════════════════

// SaveStudentCommand contains the roster fields of a student.
type SaveStudentCommand struct {
	// ID is empty to create a new student.
	ID              string `json:"id"`
	AdmissionNumber string `json:"admissionNumber" validate:"notblank"`
	Name            string `json:"name" validate:"notblank"`
	Class           string `json:"class" validate:"required,school_class"`
	Gender          string `json:"gender" validate:"required,oneof=Male Female"`
	DateOfBirth     string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

// SaveStudentHandler handles SaveStudentCommand.
type SaveStudentHandler struct {
	students student.Repository
	cache    ranking.MeritCache
	log      *logger.Logger
	now      func() time.Time
}

// NewSaveStudentHandler creates a new SaveStudentHandler. cache may be nil.
func NewSaveStudentHandler(students student.Repository, cache ranking.MeritCache, log *logger.Logger) *SaveStudentHandler {
	return &SaveStudentHandler{
		students: students,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Handle validates and stores the student.
func (h *SaveStudentHandler) Handle(ctx context.Context, cmd SaveStudentCommand) (*student.Student, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	s := &student.Student{
		ID:              cmd.ID,
		AdmissionNumber: cmd.AdmissionNumber,
		Name:            cmd.Name,
		Class:           student.Class(cmd.Class),
		Gender:          student.Gender(cmd.Gender),
		DateOfBirth:     cmd.DateOfBirth,
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
		s.CreatedAt = h.now().UTC()
	} else {
		existing, err := h.students.GetByID(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.CreatedAt = existing.CreatedAt
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	if err := h.students.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save_student: %w", err)
	}

	log := logger.FromContextOr(ctx, h.log)
	invalidateAll(ctx, h.cache, log)
	log.Info("student saved", logger.StudentID(s.ID), logger.Class(string(s.Class)))

	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT COMMAND
// Results and attendance of a deleted student stay in the store; the
// ranking engine skips them as dangling references.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudentCommand identifies the student to remove.
type DeleteStudentCommand struct {
	ID string `json:"id" validate:"required"`
}

// DeleteStudentHandler handles DeleteStudentCommand.
type DeleteStudentHandler struct {
	students student.Repository
	cache    ranking.MeritCache
	log      *logger.Logger
}

// NewDeleteStudentHandler creates a new DeleteStudentHandler. cache may be nil.
func NewDeleteStudentHandler(students student.Repository, cache ranking.MeritCache, log *logger.Logger) *DeleteStudentHandler {
	return &DeleteStudentHandler{students: students, cache: cache, log: log}
}

// Handle removes the student. A missing student is shared.ErrStudentNotFound.
func (h *DeleteStudentHandler) Handle(ctx context.Context, cmd DeleteStudentCommand) error {
	if err := validateStruct(cmd); err != nil {
		return err
	}

	if err := h.students.Delete(ctx, cmd.ID); err != nil {
		return err
	}

	log := logger.FromContextOr(ctx, h.log)
	invalidateAll(ctx, h.cache, log)
	log.Info("student deleted", logger.StudentID(cmd.ID))
	return nil
}

// invalidateAll drops every cached merit list. A cache failure is logged and
// not returned: the write already succeeded and the TTL bounds staleness.
func invalidateAll(ctx context.Context, cache ranking.MeritCache, log *logger.Logger) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateAll(ctx); err != nil {
		log.Warn("merit cache invalidation failed", logger.Err(err))
	}
}
