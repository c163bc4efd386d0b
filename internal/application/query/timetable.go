package query

import (
	"context"
	"fmt"

	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/domain/timetable"
)

// GetTimetableQuery selects the weekly timetable of a class.
type GetTimetableQuery struct {
	Class student.Class
}

// GetTimetableResult lists the entries in week order plus a day/period grid.
type GetTimetableResult struct {
	Entries   []timetable.Entry `json:"entries"`
	Grid      timetable.Grid    `json:"grid"`
	Days      []string          `json:"days"`
	MaxPeriod int               `json:"maxPeriod"`
}

// GetTimetableHandler handles GetTimetableQuery.
type GetTimetableHandler struct {
	entries timetable.Repository
}

// NewGetTimetableHandler creates a new GetTimetableHandler.
func NewGetTimetableHandler(entries timetable.Repository) *GetTimetableHandler {
	return &GetTimetableHandler{entries: entries}
}

// Handle returns the class timetable.
func (h *GetTimetableHandler) Handle(ctx context.Context, q GetTimetableQuery) (*GetTimetableResult, error) {
	if !q.Class.IsValid() {
		return nil, shared.WrapError("query", "GetTimetable", shared.ErrValidation, "unknown class", shared.ErrInvalidClass)
	}

	entries, err := h.entries.ListByClass(ctx, q.Class)
	if err != nil {
		return nil, fmt.Errorf("get_timetable: %w", err)
	}

	sorted := timetable.SortForWeek(entries)
	return &GetTimetableResult{
		Entries:   sorted,
		Grid:      timetable.BuildGrid(sorted),
		Days:      timetable.Days,
		MaxPeriod: timetable.MaxPeriod(sorted),
	}, nil
}
