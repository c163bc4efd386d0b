package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/domain/timetable"
	"github.com/schoolhub/school-admin/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE TIMETABLE ENTRY COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SaveTimetableEntryCommand contains one lesson slot. An empty ID creates a
// new entry.
type SaveTimetableEntryCommand struct {
	ID        string `json:"id"`
	Class     string `json:"class" validate:"required,school_class"`
	Day       string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	Period    int    `json:"period" validate:"min=1"`
	Subject   string `json:"subject" validate:"notblank"`
	Teacher   string `json:"teacher"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

// SaveTimetableEntryHandler handles SaveTimetableEntryCommand.
type SaveTimetableEntryHandler struct {
	entries timetable.Repository
	log     *logger.Logger
}

// NewSaveTimetableEntryHandler creates a new SaveTimetableEntryHandler.
func NewSaveTimetableEntryHandler(entries timetable.Repository, log *logger.Logger) *SaveTimetableEntryHandler {
	return &SaveTimetableEntryHandler{entries: entries, log: log}
}

// Handle validates and upserts the entry.
func (h *SaveTimetableEntryHandler) Handle(ctx context.Context, cmd SaveTimetableEntryCommand) (*timetable.Entry, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	e := &timetable.Entry{
		ID:        cmd.ID,
		Class:     student.Class(cmd.Class),
		Day:       cmd.Day,
		Period:    cmd.Period,
		Subject:   cmd.Subject,
		Teacher:   cmd.Teacher,
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := h.entries.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("save_timetable_entry: %w", err)
	}

	logger.FromContextOr(ctx, h.log).Debug("timetable entry saved", logger.Class(cmd.Class), logger.String("day", e.Day), logger.Int("period", e.Period))
	return e, nil
}

// DeleteTimetableEntryCommand identifies the entry to remove.
type DeleteTimetableEntryCommand struct {
	ID string `json:"id" validate:"required"`
}

// DeleteTimetableEntryHandler handles DeleteTimetableEntryCommand.
type DeleteTimetableEntryHandler struct {
	entries timetable.Repository
}

// NewDeleteTimetableEntryHandler creates a new DeleteTimetableEntryHandler.
func NewDeleteTimetableEntryHandler(entries timetable.Repository) *DeleteTimetableEntryHandler {
	return &DeleteTimetableEntryHandler{entries: entries}
}

// Handle removes the entry. A missing entry is shared.ErrTimetableEntryNotFound.
func (h *DeleteTimetableEntryHandler) Handle(ctx context.Context, cmd DeleteTimetableEntryCommand) error {
	if err := validateStruct(cmd); err != nil {
		return err
	}
	return h.entries.Delete(ctx, cmd.ID)
}
