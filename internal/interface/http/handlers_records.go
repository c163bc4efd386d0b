package http

import (
	"net/http"

	"github.com/schoolhub/school-admin/internal/application/command"
	"github.com/schoolhub/school-admin/internal/application/query"
	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents handles GET /api/v1/students?class=
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.ListStudents != nil) {
		return
	}

	students, err := s.deps.ListStudents.Handle(r.Context(), query.ListStudentsQuery{
		Class: student.Class(r.URL.Query().Get("class")),
	})
	if err != nil {
		s.writeError(w, r, "list_students", err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, students, &ResponseMeta{TotalCount: len(students)})
}

// handleCreateStudent handles POST /api/v1/students
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	s.saveStudent(w, r, "", http.StatusCreated)
}

// handleUpdateStudent handles PUT /api/v1/students/{id}
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	s.saveStudent(w, r, r.PathValue("id"), http.StatusOK)
}

func (s *Server) saveStudent(w http.ResponseWriter, r *http.Request, id string, status int) {
	if !s.configured(w, r, s.deps.SaveStudent != nil) {
		return
	}

	var cmd command.SaveStudentCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.ID = id

	saved, err := s.deps.SaveStudent.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, "save_student", err)
		return
	}
	writeJSON(w, r, status, saved)
}

// handleDeleteStudent handles DELETE /api/v1/students/{id}
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.DeleteStudent != nil) {
		return
	}

	id := r.PathValue("id")
	if err := s.deps.DeleteStudent.Handle(r.Context(), command.DeleteStudentCommand{ID: id}); err != nil {
		s.writeError(w, r, "delete_student", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"id": id})
}

// handleReportCard handles GET /api/v1/students/{id}/report-card?term=&year=
func (s *Server) handleReportCard(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.GetReportCard != nil) {
		return
	}

	card, err := s.deps.GetReportCard.Handle(r.Context(), query.GetReportCardQuery{
		StudentID: r.PathValue("id"),
		Term:      academic.Term(r.URL.Query().Get("term")),
		Year:      r.URL.Query().Get("year"),
	})
	if err != nil {
		s.writeError(w, r, "report_card", err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetAttendance handles GET /api/v1/attendance?date=&class=
// The date defaults to today.
func (s *Server) handleGetAttendance(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.GetAttendance != nil) {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = timeutil.Today()
	}

	result, err := s.deps.GetAttendance.Handle(r.Context(), query.GetAttendanceQuery{
		Date:  date,
		Class: student.Class(r.URL.Query().Get("class")),
	})
	if err != nil {
		s.writeError(w, r, "get_attendance", err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleMarkAttendance handles POST /api/v1/attendance
func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.MarkAttendance != nil) {
		return
	}

	var cmd command.MarkAttendanceCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}

	result, err := s.deps.MarkAttendance.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, "mark_attendance", err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULTS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetResults handles GET /api/v1/results?class=&term=&year=
func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.GetResults != nil) {
		return
	}

	q := r.URL.Query()
	results, err := s.deps.GetResults.Handle(r.Context(), query.GetResultsQuery{
		Class: student.Class(q.Get("class")),
		Term:  academic.Term(q.Get("term")),
		Year:  q.Get("year"),
	})
	if err != nil {
		s.writeError(w, r, "get_results", err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, results, &ResponseMeta{TotalCount: len(results)})
}

// handleRecordResults handles POST /api/v1/results
func (s *Server) handleRecordResults(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.RecordResults != nil) {
		return
	}

	var cmd command.RecordResultsCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}

	rows, err := s.deps.RecordResults.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, "record_results", err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusCreated, rows, &ResponseMeta{TotalCount: len(rows)})
}

// handleSaveResult handles PUT /api/v1/results/{id}
func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.SaveResult != nil) {
		return
	}

	var cmd command.SaveResultCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.ID = r.PathValue("id")

	row, err := s.deps.SaveResult.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, "save_result", err)
		return
	}
	writeJSON(w, r, http.StatusOK, row)
}

// handleMeritList handles GET /api/v1/results/merit?class=&term=&year=
func (s *Server) handleMeritList(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.GetMeritList != nil) {
		return
	}

	q := r.URL.Query()
	result, err := s.deps.GetMeritList.Handle(r.Context(), query.GetMeritListQuery{
		Class: student.Class(q.Get("class")),
		Term:  academic.Term(q.Get("term")),
		Year:  q.Get("year"),
	})
	if err != nil {
		s.writeError(w, r, "merit_list", err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, result.Entries, &ResponseMeta{
		TotalCount: len(result.Entries),
		Cached:     result.Cached,
	})
}

// handleSubjectToppers handles GET /api/v1/results/toppers?term=&year=&subject=
func (s *Server) handleSubjectToppers(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.GetSubjectToppers != nil) {
		return
	}

	q := r.URL.Query()
	toppers, err := s.deps.GetSubjectToppers.Handle(r.Context(), query.GetSubjectToppersQuery{
		Term:      academic.Term(q.Get("term")),
		Year:      q.Get("year"),
		SubjectID: q.Get("subject"),
	})
	if err != nil {
		s.writeError(w, r, "subject_toppers", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toppers)
}

// ══════════════════════════════════════════════════════════════════════════════
// TIMETABLE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetTimetable handles GET /api/v1/timetable?class=
func (s *Server) handleGetTimetable(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.GetTimetable != nil) {
		return
	}

	result, err := s.deps.GetTimetable.Handle(r.Context(), query.GetTimetableQuery{
		Class: student.Class(r.URL.Query().Get("class")),
	})
	if err != nil {
		s.writeError(w, r, "get_timetable", err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleCreateTimetableEntry handles POST /api/v1/timetable
func (s *Server) handleCreateTimetableEntry(w http.ResponseWriter, r *http.Request) {
	s.saveTimetableEntry(w, r, "", http.StatusCreated)
}

// handleUpdateTimetableEntry handles PUT /api/v1/timetable/{id}
func (s *Server) handleUpdateTimetableEntry(w http.ResponseWriter, r *http.Request) {
	s.saveTimetableEntry(w, r, r.PathValue("id"), http.StatusOK)
}

func (s *Server) saveTimetableEntry(w http.ResponseWriter, r *http.Request, id string, status int) {
	if !s.configured(w, r, s.deps.SaveTimetableEntry != nil) {
		return
	}

	var cmd command.SaveTimetableEntryCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	cmd.ID = id

	entry, err := s.deps.SaveTimetableEntry.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, "save_timetable_entry", err)
		return
	}
	writeJSON(w, r, status, entry)
}

// handleDeleteTimetableEntry handles DELETE /api/v1/timetable/{id}
func (s *Server) handleDeleteTimetableEntry(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.DeleteTimetableEntry != nil) {
		return
	}

	id := r.PathValue("id")
	if err := s.deps.DeleteTimetableEntry.Handle(r.Context(), command.DeleteTimetableEntryCommand{ID: id}); err != nil {
		s.writeError(w, r, "delete_timetable_entry", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"id": id})
}
