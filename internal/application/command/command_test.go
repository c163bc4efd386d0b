package command

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/attendance"
	"github.com/schoolhub/school-admin/internal/domain/auth"
	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/infrastructure/persistence/kvstore"
	"github.com/schoolhub/school-admin/pkg/logger"
)

type spyCache struct {
	invalidated []string
	all         int
}

func (c *spyCache) GetMerit(context.Context, ranking.Scope) (ranking.MeritLookup, error) {
	return ranking.MeritLookup{}, nil
}

func (c *spyCache) SetMerit(context.Context, ranking.Scope, string, []ranking.MeritEntry) error {
	return nil
}

func (c *spyCache) Invalidate(_ context.Context, term academic.Term, year string) error {
	c.invalidated = append(c.invalidated, year+"/"+string(term))
	return nil
}

func (c *spyCache) InvalidateAll(context.Context) error {
	c.all++
	return nil
}

func newRepos() *kvstore.Repositories {
	return kvstore.NewRepositories(kvstore.NewMemoryBackend())
}

func addStudent(t *testing.T, h *SaveStudentHandler, name, class string) *student.Student {
	t.Helper()
	s, err := h.Handle(context.Background(), SaveStudentCommand{
		AdmissionNumber: "ADM-" + name,
		Name:            name,
		Class:           class,
		Gender:          "Female",
		DateOfBirth:     "2015-01-02",
	})
	require.NoError(t, err)
	return s
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.True(t, shared.IsValidation(err))
	return verr.Fields
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

func TestSaveStudent_CreateAndEdit(t *testing.T) {
	repos := newRepos()
	cache := &spyCache{}
	h := NewSaveStudentHandler(repos.Students, cache, logger.Nop())
	created := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return created }

	s := addStudent(t, h, "Amina", "Grade 4")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, created, s.CreatedAt)
	assert.Equal(t, 1, cache.all)

	h.now = func() time.Time { return created.Add(time.Hour) }
	edited, err := h.Handle(context.Background(), SaveStudentCommand{
		ID:              s.ID,
		AdmissionNumber: s.AdmissionNumber,
		Name:            "Amina Njeri",
		Class:           "Grade 5",
		Gender:          "Female",
		DateOfBirth:     "2015-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, created, edited.CreatedAt)

	stored, err := repos.Students.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amina Njeri", stored.Name)
	assert.Equal(t, student.Class("Grade 5"), stored.Class)

	count, err := repos.Students.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveStudent_Validation(t *testing.T) {
	h := NewSaveStudentHandler(newRepos().Students, nil, logger.Nop())

	_, err := h.Handle(context.Background(), SaveStudentCommand{
		AdmissionNumber: "  ",
		Name:            "Baraka",
		Class:           "Grade 12",
		Gender:          "other",
		DateOfBirth:     "02/01/2015",
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "admissionNumber")
	assert.Contains(t, fields, "class")
	assert.Contains(t, fields, "gender")
	assert.Contains(t, fields, "dateOfBirth")
	assert.NotContains(t, fields, "name")
}

func TestSaveStudent_EditUnknown(t *testing.T) {
	h := NewSaveStudentHandler(newRepos().Students, nil, logger.Nop())

	_, err := h.Handle(context.Background(), SaveStudentCommand{
		ID:              "missing",
		AdmissionNumber: "ADM-1",
		Name:            "Baraka",
		Class:           "Grade 1",
		Gender:          "Male",
		DateOfBirth:     "2017-05-05",
	})
	assert.True(t, shared.IsNotFound(err))
}

func TestDeleteStudent(t *testing.T) {
	repos := newRepos()
	cache := &spyCache{}
	save := NewSaveStudentHandler(repos.Students, nil, logger.Nop())
	del := NewDeleteStudentHandler(repos.Students, cache, logger.Nop())

	s := addStudent(t, save, "Chege", "Grade 2")
	require.NoError(t, del.Handle(context.Background(), DeleteStudentCommand{ID: s.ID}))
	assert.Equal(t, 1, cache.all)

	err := del.Handle(context.Background(), DeleteStudentCommand{ID: s.ID})
	assert.True(t, shared.IsNotFound(err))
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULTS
// ══════════════════════════════════════════════════════════════════════════════

func TestRecordResults_OneRowPerSubject(t *testing.T) {
	repos := newRepos()
	cache := &spyCache{}
	s := addStudent(t, NewSaveStudentHandler(repos.Students, nil, logger.Nop()), "Amina", "Grade 4")
	h := NewRecordResultsHandler(repos.Students, repos.Results, cache, logger.Nop())

	rows, err := h.Handle(context.Background(), RecordResultsCommand{
		StudentID: s.ID,
		Term:      "Term 1",
		Year:      "2024",
		Marks:     map[string]int{"1": 80, "2": 70},
	})
	require.NoError(t, err)
	require.Len(t, rows, len(academic.Subjects))
	assert.Equal(t, []string{"2024/Term 1"}, cache.invalidated)

	bySubject := make(map[string]academic.Result, len(rows))
	for _, r := range rows {
		bySubject[r.SubjectID] = r
		assert.Equal(t, academic.DefaultTotalMarks, r.TotalMarks)
		assert.NotEmpty(t, r.ID)
	}
	assert.Equal(t, 80, bySubject["1"].Marks)
	assert.Equal(t, 70, bySubject["2"].Marks)
	assert.Equal(t, 0, bySubject["8"].Marks)

	stored, err := repos.Results.List(context.Background(), academic.ResultFilter{Term: academic.Term1, Year: "2024"})
	require.NoError(t, err)
	assert.Len(t, stored, len(academic.Subjects))

	summary, ok := ranking.SummarizeStudent(s.ID, stored)
	require.True(t, ok)
	assert.Equal(t, 150, summary.TotalMarks)
	assert.Equal(t, 800, summary.TotalPossible)
}

func TestRecordResults_Rejections(t *testing.T) {
	repos := newRepos()
	s := addStudent(t, NewSaveStudentHandler(repos.Students, nil, logger.Nop()), "Amina", "Grade 4")
	h := NewRecordResultsHandler(repos.Students, repos.Results, nil, logger.Nop())

	_, err := h.Handle(context.Background(), RecordResultsCommand{
		StudentID: s.ID, Term: "Term 1", Year: "2024", Marks: map[string]int{"1": 101},
	})
	assert.Len(t, fieldErrors(t, err), 1)

	_, err = h.Handle(context.Background(), RecordResultsCommand{
		StudentID: s.ID, Term: "Term 1", Year: "2024", Marks: map[string]int{"42": 50},
	})
	assert.Len(t, fieldErrors(t, err), 1)

	_, err = h.Handle(context.Background(), RecordResultsCommand{
		StudentID: s.ID, Term: "Term 4", Year: "24",
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "term")
	assert.Contains(t, fields, "year")

	_, err = h.Handle(context.Background(), RecordResultsCommand{
		StudentID: "missing", Term: "Term 1", Year: "2024",
	})
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)

	count, err := repos.Results.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSaveResult_Upsert(t *testing.T) {
	repos := newRepos()
	cache := &spyCache{}
	s := addStudent(t, NewSaveStudentHandler(repos.Students, nil, logger.Nop()), "Amina", "Grade 4")
	h := NewSaveResultHandler(repos.Students, repos.Results, cache, logger.Nop())

	r, err := h.Handle(context.Background(), SaveResultCommand{
		StudentID: s.ID, SubjectID: "3", Marks: 40, TotalMarks: 50, Term: "Term 2", Year: "2024",
	})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), SaveResultCommand{
		ID: r.ID, StudentID: s.ID, SubjectID: "3", Marks: 45, TotalMarks: 50, Term: "Term 2", Year: "2024",
	})
	require.NoError(t, err)

	stored, err := repos.Results.List(context.Background(), academic.ResultFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 45, stored[0].Marks)
	assert.Len(t, cache.invalidated, 2)

	_, err = h.Handle(context.Background(), SaveResultCommand{
		StudentID: s.ID, SubjectID: "3", Marks: 60, TotalMarks: 50, Term: "Term 2", Year: "2024",
	})
	assert.Contains(t, fieldErrors(t, err), "marks")
}

func TestSaveResult_MovingTermInvalidatesBothTerms(t *testing.T) {
	repos := newRepos()
	cache := &spyCache{}
	s := addStudent(t, NewSaveStudentHandler(repos.Students, nil, logger.Nop()), "Amina", "Grade 4")
	h := NewSaveResultHandler(repos.Students, repos.Results, cache, logger.Nop())

	r, err := h.Handle(context.Background(), SaveResultCommand{
		StudentID: s.ID, SubjectID: "1", Marks: 70, TotalMarks: 100, Term: "Term 1", Year: "2024",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/Term 1"}, cache.invalidated)

	cache.invalidated = nil
	_, err = h.Handle(context.Background(), SaveResultCommand{
		ID: r.ID, StudentID: s.ID, SubjectID: "1", Marks: 70, TotalMarks: 100, Term: "Term 2", Year: "2024",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2024/Term 2", "2024/Term 1"}, cache.invalidated)

	cache.invalidated = nil
	_, err = h.Handle(context.Background(), SaveResultCommand{
		ID: r.ID, StudentID: s.ID, SubjectID: "1", Marks: 70, TotalMarks: 100, Term: "Term 2", Year: "2023",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2023/Term 2", "2024/Term 2"}, cache.invalidated)

	term1, err := repos.Results.List(context.Background(), academic.ResultFilter{Term: academic.Term1, Year: "2024"})
	require.NoError(t, err)
	assert.Empty(t, term1)
}

func TestSaveResult_UnknownIDCreatesRow(t *testing.T) {
	repos := newRepos()
	cache := &spyCache{}
	s := addStudent(t, NewSaveStudentHandler(repos.Students, nil, logger.Nop()), "Amina", "Grade 4")
	h := NewSaveResultHandler(repos.Students, repos.Results, cache, logger.Nop())

	r, err := h.Handle(context.Background(), SaveResultCommand{
		ID: "r-new", StudentID: s.ID, SubjectID: "2", Marks: 55, TotalMarks: 100, Term: "Term 3", Year: "2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "r-new", r.ID)
	assert.Equal(t, []string{"2024/Term 3"}, cache.invalidated)
}

func TestCommands_LogWithRequestLogger(t *testing.T) {
	repos := newRepos()
	var buf bytes.Buffer
	reqLog := logger.New(logger.Options{Output: &buf, Level: logger.LevelDebug}).WithRequestID("req-42")
	ctx := logger.WithContext(context.Background(), reqLog)

	h := NewSaveStudentHandler(repos.Students, nil, logger.Nop())
	_, err := h.Handle(ctx, SaveStudentCommand{
		AdmissionNumber: "ADM-1", Name: "Amina", Class: "Grade 4", Gender: "Female", DateOfBirth: "2015-01-02",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), "student saved")
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

func TestMarkAttendance_DefaultsToAbsent(t *testing.T) {
	repos := newRepos()
	save := NewSaveStudentHandler(repos.Students, nil, logger.Nop())
	a := addStudent(t, save, "Amina", "Grade 4")
	b := addStudent(t, save, "Baraka", "Grade 4")
	addStudent(t, save, "Chege", "Grade 5")

	h := NewMarkAttendanceHandler(repos.Students, repos.Attendance, logger.Nop())
	res, err := h.Handle(context.Background(), MarkAttendanceCommand{
		Date:     "2024-03-04",
		Class:    "Grade 4",
		Statuses: map[string]attendance.Status{a.ID: attendance.StatusPresent},
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, attendance.Stats{Total: 2, Present: 1, Absent: 1, Percentage: 50}, res.Stats)

	byStudent := map[string]attendance.Status{}
	for _, r := range res.Records {
		byStudent[r.StudentID] = r.Status
	}
	assert.Equal(t, attendance.StatusAbsent, byStudent[b.ID])
}

func TestMarkAttendance_ReplacesOnlyThatRegister(t *testing.T) {
	repos := newRepos()
	save := NewSaveStudentHandler(repos.Students, nil, logger.Nop())
	a := addStudent(t, save, "Amina", "Grade 4")
	c := addStudent(t, save, "Chege", "Grade 5")
	h := NewMarkAttendanceHandler(repos.Students, repos.Attendance, logger.Nop())
	ctx := context.Background()

	_, err := h.Handle(ctx, MarkAttendanceCommand{Date: "2024-03-04", Class: "Grade 4"})
	require.NoError(t, err)
	_, err = h.Handle(ctx, MarkAttendanceCommand{Date: "2024-03-05", Class: "Grade 4"})
	require.NoError(t, err)
	_, err = h.Handle(ctx, MarkAttendanceCommand{
		Date: "2024-03-04", Class: "Grade 5",
		Statuses: map[string]attendance.Status{c.ID: attendance.StatusPresent},
	})
	require.NoError(t, err)

	_, err = h.Handle(ctx, MarkAttendanceCommand{
		Date: "2024-03-04", Class: "Grade 4",
		Statuses: map[string]attendance.Status{a.ID: attendance.StatusPresent},
	})
	require.NoError(t, err)

	all, err := repos.Attendance.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	day, err := repos.Attendance.ListByDate(ctx, "2024-03-04", "Grade 4")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, attendance.StatusPresent, day[0].Status)
}

func TestMarkAttendance_Validation(t *testing.T) {
	repos := newRepos()
	h := NewMarkAttendanceHandler(repos.Students, repos.Attendance, logger.Nop())

	_, err := h.Handle(context.Background(), MarkAttendanceCommand{
		Date:     "04-03-2024",
		Class:    "Grade 4",
		Statuses: map[string]attendance.Status{"s1": "Late"},
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "date")
	assert.Len(t, fields, 2)
}

// ══════════════════════════════════════════════════════════════════════════════
// TIMETABLE
// ══════════════════════════════════════════════════════════════════════════════

func TestTimetableEntry_SaveAndDelete(t *testing.T) {
	repos := newRepos()
	save := NewSaveTimetableEntryHandler(repos.Timetable, logger.Nop())
	del := NewDeleteTimetableEntryHandler(repos.Timetable)
	ctx := context.Background()

	e, err := save.Handle(ctx, SaveTimetableEntryCommand{
		Class: "Grade 3", Day: "Monday", Period: 1, Subject: "Mathematics",
		Teacher: "Mr. Otieno", StartTime: "08:00", EndTime: "08:40",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	_, err = save.Handle(ctx, SaveTimetableEntryCommand{
		Class: "Grade 3", Day: "Monday", Period: 2, Subject: "English",
		StartTime: "09:00", EndTime: "08:40",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidTimeRange)

	_, err = save.Handle(ctx, SaveTimetableEntryCommand{
		Class: "Grade 3", Day: "Saturday", Period: 0, Subject: "English",
		StartTime: "8am", EndTime: "08:40",
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "day")
	assert.Contains(t, fields, "period")
	assert.Contains(t, fields, "startTime")

	require.NoError(t, del.Handle(ctx, DeleteTimetableEntryCommand{ID: e.ID}))
	assert.ErrorIs(t, del.Handle(ctx, DeleteTimetableEntryCommand{ID: e.ID}), shared.ErrTimetableEntryNotFound)
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN
// ══════════════════════════════════════════════════════════════════════════════

func TestLogin(t *testing.T) {
	repos := newRepos()
	service := auth.NewService(repos.Users, auth.NewTokenIssuer("secret", time.Hour, "school-admin"), 4)
	created, err := service.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.True(t, created)

	h := NewLoginHandler(service, logger.Nop())

	session, err := h.Handle(context.Background(), LoginCommand{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Empty(t, session.User.PasswordHash)

	_, err = h.Handle(context.Background(), LoginCommand{Username: "admin", Password: "nope"})
	assert.True(t, shared.IsUnauthorized(err))

	_, err = h.Handle(context.Background(), LoginCommand{Username: " "})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
}
