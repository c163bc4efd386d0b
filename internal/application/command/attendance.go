package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/schoolhub/school-admin/internal/domain/attendance"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// Saves the register of one class on one date. Every student of the class
// gets a record; students left out of Statuses are marked Absent. Registers
// of other dates and other classes are untouched.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand contains one day's register for a class.
type MarkAttendanceCommand struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Class string `json:"class" validate:"required,school_class"`

	// Statuses maps student id to Present or Absent.
	Statuses map[string]attendance.Status `json:"statuses" validate:"dive,keys,required,endkeys,oneof=Present Absent"`
}

// MarkAttendanceResult is the saved register with its head counts.
type MarkAttendanceResult struct {
	Records []attendance.Record `json:"records"`
	Stats   attendance.Stats    `json:"stats"`
}

// MarkAttendanceHandler handles MarkAttendanceCommand.
type MarkAttendanceHandler struct {
	students student.Repository
	records  attendance.Repository
	log      *logger.Logger
}

// NewMarkAttendanceHandler creates a new MarkAttendanceHandler.
func NewMarkAttendanceHandler(students student.Repository, records attendance.Repository, log *logger.Logger) *MarkAttendanceHandler {
	return &MarkAttendanceHandler{students: students, records: records, log: log}
}

// Handle replaces the (date, class) register.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*MarkAttendanceResult, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	class := student.Class(cmd.Class)
	roster, err := h.students.ListByClass(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("mark_attendance: %w", err)
	}

	records := make([]attendance.Record, 0, len(roster))
	for _, s := range roster {
		status, ok := cmd.Statuses[s.ID]
		if !ok {
			status = attendance.StatusAbsent
		}
		records = append(records, attendance.Record{
			ID:        uuid.NewString(),
			StudentID: s.ID,
			Date:      cmd.Date,
			Status:    status,
			Class:     class,
		})
	}

	if err := h.records.ReplaceForDay(ctx, cmd.Date, class, records); err != nil {
		return nil, fmt.Errorf("mark_attendance: %w", err)
	}

	stats := attendance.ComputeStats(len(roster), records)
	logger.FromContextOr(ctx, h.log).Info("attendance saved",
		logger.Date(cmd.Date),
		logger.Class(cmd.Class),
		logger.Int("present", stats.Present),
		logger.Int("absent", stats.Absent),
	)

	return &MarkAttendanceResult{Records: records, Stats: stats}, nil
}
