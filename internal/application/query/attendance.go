package query

import (
	"context"
	"fmt"

	"github.com/schoolhub/school-admin/internal/domain/attendance"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// GetAttendanceQuery selects the register of one class on one date.
type GetAttendanceQuery struct {
	Date  string
	Class student.Class
}

// Validate checks the date and class.
func (q GetAttendanceQuery) Validate() error {
	if err := attendance.ValidateDate(q.Date); err != nil {
		return shared.WrapError("query", "GetAttendance", shared.ErrValidation, "date must be YYYY-MM-DD", err)
	}
	if !q.Class.IsValid() {
		return shared.WrapError("query", "GetAttendance", shared.ErrValidation, "unknown class", shared.ErrInvalidClass)
	}
	return nil
}

// GetAttendanceResult is the register with its head counts. Total is the
// class roster size, so unmarked students count as absent.
type GetAttendanceResult struct {
	Records []attendance.Record `json:"records"`
	Stats   attendance.Stats    `json:"stats"`
}

// GetAttendanceHandler handles GetAttendanceQuery.
type GetAttendanceHandler struct {
	students student.Repository
	records  attendance.Repository
}

// NewGetAttendanceHandler creates a new GetAttendanceHandler.
func NewGetAttendanceHandler(students student.Repository, records attendance.Repository) *GetAttendanceHandler {
	return &GetAttendanceHandler{students: students, records: records}
}

// Handle returns the saved register.
func (h *GetAttendanceHandler) Handle(ctx context.Context, q GetAttendanceQuery) (*GetAttendanceResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	roster, err := h.students.ListByClass(ctx, q.Class)
	if err != nil {
		return nil, fmt.Errorf("get_attendance: %w", err)
	}

	records, err := h.records.ListByDate(ctx, q.Date, q.Class)
	if err != nil {
		return nil, fmt.Errorf("get_attendance: %w", err)
	}

	return &GetAttendanceResult{
		Records: records,
		Stats:   attendance.ComputeStats(len(roster), records),
	}, nil
}
