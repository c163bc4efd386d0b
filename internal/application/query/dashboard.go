package query

import (
	"context"
	"fmt"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/attendance"
	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/pkg/timeutil"
)

// RecentStudentsLimit caps the dashboard's recently added list.
const RecentStudentsLimit = 5

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery selects the overview of one school day. An empty Today
// means the current date in the configured location.
type GetDashboardQuery struct {
	Today string
}

// GetDashboardResult contains the headline counts.
type GetDashboardResult struct {
	Date           string            `json:"date"`
	TotalStudents  int               `json:"totalStudents"`
	PresentToday   int               `json:"presentToday"`
	AttendanceRate int               `json:"attendanceRate"`
	TotalResults   int               `json:"totalResults"`
	RecentStudents []student.Student `json:"recentStudents"`
}

// GetDashboardHandler handles GetDashboardQuery.
type GetDashboardHandler struct {
	students student.Repository
	results  academic.ResultRepository
	records  attendance.Repository
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(students student.Repository, results academic.ResultRepository, records attendance.Repository) *GetDashboardHandler {
	return &GetDashboardHandler{students: students, results: results, records: records}
}

// Handle computes the overview. The attendance rate is present today over
// the whole roster, rounded.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*GetDashboardResult, error) {
	today := q.Today
	if today == "" {
		today = timeutil.Today()
	}

	roster, err := h.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: %w", err)
	}

	all, err := h.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: %w", err)
	}
	present := 0
	for _, r := range attendance.OnDate(all, today) {
		if r.Status == attendance.StatusPresent {
			present++
		}
	}

	totalResults, err := h.results.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: %w", err)
	}

	return &GetDashboardResult{
		Date:           today,
		TotalStudents:  len(roster),
		PresentToday:   present,
		AttendanceRate: ranking.Percent(present, len(roster)),
		TotalResults:   totalResults,
		RecentStudents: recentStudents(roster, RecentStudentsLimit),
	}, nil
}

// recentStudents returns the last n students added, newest first.
func recentStudents(roster []student.Student, n int) []student.Student {
	if n > len(roster) {
		n = len(roster)
	}
	recent := make([]student.Student, 0, n)
	for i := len(roster) - 1; i >= len(roster)-n; i-- {
		recent = append(recent, roster[i])
	}
	return recent
}
