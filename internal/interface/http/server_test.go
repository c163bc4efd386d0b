package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/school-admin/internal/application/command"
	"github.com/schoolhub/school-admin/internal/application/query"
	"github.com/schoolhub/school-admin/internal/domain/auth"
	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/infrastructure/persistence/kvstore"
	"github.com/schoolhub/school-admin/internal/interface/http/handlers"
	"github.com/schoolhub/school-admin/pkg/logger"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
	Meta      *ResponseMeta   `json:"meta"`
	RequestID string          `json:"request_id"`
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	metrics *Metrics
	token   string
}

func newTestAPI(t *testing.T, health handlers.HealthChecker) *testAPI {
	t.Helper()

	repos := kvstore.NewRepositories(kvstore.NewMemoryBackend())
	log := logger.Nop()
	authService := auth.NewService(repos.Users, auth.NewTokenIssuer("test-secret", time.Hour, "school-admin"), 4)
	_, err := authService.EnsureAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	metrics := NewMetrics("school")

	cfg := DefaultConfig()
	cfg.RateLimitPerSecond = 0

	srv := NewServer(cfg, Dependencies{
		Login:                command.NewLoginHandler(authService, log),
		SaveStudent:          command.NewSaveStudentHandler(repos.Students, nil, log),
		DeleteStudent:        command.NewDeleteStudentHandler(repos.Students, nil, log),
		RecordResults:        command.NewRecordResultsHandler(repos.Students, repos.Results, nil, log),
		SaveResult:           command.NewSaveResultHandler(repos.Students, repos.Results, nil, log),
		MarkAttendance:       command.NewMarkAttendanceHandler(repos.Students, repos.Attendance, log),
		SaveTimetableEntry:   command.NewSaveTimetableEntryHandler(repos.Timetable, log),
		DeleteTimetableEntry: command.NewDeleteTimetableEntryHandler(repos.Timetable),
		ListStudents:         query.NewListStudentsHandler(repos.Students),
		GetResults:           query.NewGetResultsHandler(repos.Students, repos.Results),
		GetMeritList:         query.NewGetMeritListHandler(repos.Students, repos.Results, nil, metrics, log),
		GetSubjectToppers:    query.NewGetSubjectToppersHandler(repos.Students, repos.Results, metrics),
		GetReportCard:        query.NewGetReportCardHandler(repos.Students, repos.Results),
		GetAttendance:        query.NewGetAttendanceHandler(repos.Students, repos.Attendance),
		GetTimetable:         query.NewGetTimetableHandler(repos.Timetable),
		GetDashboard:         query.NewGetDashboardHandler(repos.Students, repos.Results, repos.Attendance),
		Auth:                 authService,
		Metrics:              metrics,
		Logger:               log,
		HealthChecker:        health,
	})
	t.Cleanup(func() {
		if srv.rateLimiter != nil {
			srv.rateLimiter.Stop()
		}
	})

	return &testAPI{t: t, handler: srv.Handler(), metrics: metrics}
}

func (a *testAPI) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (a *testAPI) login() {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(a.t, http.StatusOK, rec.Code)

	var session auth.Session
	require.NoError(a.t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(a.t, session.Token)
	a.token = session.Token
}

func (a *testAPI) createStudent(name, class string) student.Student {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/students", map[string]string{
		"admissionNumber": "ADM-" + name,
		"name":            name,
		"class":           class,
		"gender":          "Male",
		"dateOfBirth":     "2014-06-01",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var s student.Student
	require.NoError(a.t, json.Unmarshal(env.Data, &s))
	return s
}

func TestAPI_RequiresToken(t *testing.T) {
	api := newTestAPI(t, nil)

	rec, env := api.do(http.MethodGet, "/api/v1/students", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unauthorized", env.Error.Code)

	api.token = "not-a-token"
	rec, _ = api.do(http.MethodGet, "/api/v1/students", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = api.do(http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_LoginRejectsBadPassword(t *testing.T) {
	api := newTestAPI(t, nil)

	rec, env := api.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestAPI_MeReturnsSessionClaims(t *testing.T) {
	api := newTestAPI(t, nil)
	api.login()

	rec, env := api.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "admin", me["username"])
	assert.Equal(t, string(auth.RoleAdmin), me["role"])
	assert.NotEmpty(t, me["userId"])

	api.token = ""
	rec, _ = api.do(http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWriteError_AlreadyExistsIsConflict(t *testing.T) {
	s := &Server{logger: logger.Nop()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)

	err := shared.WrapError("auth", "Save", shared.ErrAlreadyExists, "username taken", errors.New("23505"))
	s.writeError(rec, req, "save_user", err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "conflict", env.Error.Code)
	assert.Equal(t, "username taken", env.Error.Message)
}

func TestAPI_StudentValidationAndNotFound(t *testing.T) {
	api := newTestAPI(t, nil)
	api.login()

	rec, env := api.do(http.MethodPost, "/api/v1/students", map[string]string{
		"admissionNumber": "ADM-1",
		"name":            "Otieno",
		"class":           "Grade 13",
		"gender":          "Male",
		"dateOfBirth":     "2014-06-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "class")

	rec, env = api.do(http.MethodDelete, "/api/v1/students/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+api.token)
	raw := httptest.NewRecorder()
	api.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestAPI_MeritListEnvelope(t *testing.T) {
	api := newTestAPI(t, nil)
	api.login()

	low := api.createStudent("Wanjiru", "Grade 6")
	high := api.createStudent("Kamau", "Grade 6")
	api.createStudent("Absent", "Grade 6")

	rec, _ := api.do(http.MethodPost, "/api/v1/results", map[string]any{
		"studentId": low.ID, "term": "Term 2", "year": "2024",
		"marks": map[string]int{"1": 40, "2": 40, "3": 40, "4": 40, "5": 40, "6": 40, "7": 40, "8": 40},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec, _ = api.do(http.MethodPost, "/api/v1/results", map[string]any{
		"studentId": high.ID, "term": "Term 2", "year": "2024",
		"marks": map[string]int{"1": 90, "2": 80, "3": 85, "4": 95, "5": 70, "6": 88, "7": 92, "8": 80},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := api.do(http.MethodGet, "/api/v1/results/merit?class=Grade+6&term=Term+2&year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.TotalCount)

	var entries []ranking.MeritEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, high.ID, entries[0].Student.ID)
	assert.Equal(t, ranking.Position(1), entries[0].Position)
	assert.Equal(t, 680, entries[0].Summary.TotalMarks)
	assert.Equal(t, 800, entries[0].Summary.TotalPossible)
	assert.Equal(t, 85, entries[0].Summary.Average)
	assert.Equal(t, ranking.GradeA, entries[0].Summary.Grade)

	assert.Equal(t, low.ID, entries[1].Student.ID)
	assert.Equal(t, 40, entries[1].Summary.Average)
	assert.Equal(t, ranking.GradeE, entries[1].Summary.Grade)

	rec, env = api.do(http.MethodGet, "/api/v1/results/merit?term=Term+5&year=2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Error.Code)
}

func TestAPI_ResultsRejectOutOfRangeMarks(t *testing.T) {
	api := newTestAPI(t, nil)
	api.login()
	s := api.createStudent("Achieng", "Grade 2")

	rec, env := api.do(http.MethodPost, "/api/v1/results", map[string]any{
		"studentId": s.ID, "term": "Term 1", "year": "2024",
		"marks": map[string]int{"1": 120},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, env.Error.Fields, 1)

	rec, _ = api.do(http.MethodPost, "/api/v1/results", map[string]any{
		"studentId": "ghost", "term": "Term 1", "year": "2024",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_SaveResultUpsertsByID(t *testing.T) {
	api := newTestAPI(t, nil)
	api.login()
	s := api.createStudent("Otieno", "Grade 4")

	row := map[string]any{
		"studentId": s.ID, "subjectId": "1", "marks": 70, "totalMarks": 100,
		"term": "Term 1", "year": "2024",
	}
	rec, _ := api.do(http.MethodPut, "/api/v1/results/r-1", row)
	require.Equal(t, http.StatusOK, rec.Code)

	row["marks"] = 90
	rec, _ = api.do(http.MethodPut, "/api/v1/results/r-1", row)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := api.do(http.MethodGet, "/api/v1/results/merit?term=Term+1&year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []ranking.MeritEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 90, entries[0].Summary.TotalMarks)
	assert.Equal(t, 1, entries[0].Summary.Subjects)

	row["marks"] = 120
	rec, _ = api.do(http.MethodPut, "/api/v1/results/r-1", row)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_AttendanceAndTimetable(t *testing.T) {
	api := newTestAPI(t, nil)
	api.login()
	a := api.createStudent("Njeri", "Grade 1")
	api.createStudent("Mwangi", "Grade 1")

	rec, _ := api.do(http.MethodPost, "/api/v1/attendance", map[string]any{
		"date": "2024-05-06", "class": "Grade 1",
		"statuses": map[string]string{a.ID: "Present"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := api.do(http.MethodGet, "/api/v1/attendance?date=2024-05-06&class=Grade+1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var att query.GetAttendanceResult
	require.NoError(t, json.Unmarshal(env.Data, &att))
	assert.Equal(t, 2, att.Stats.Total)
	assert.Equal(t, 50, att.Stats.Percentage)

	rec, env = api.do(http.MethodPost, "/api/v1/timetable", map[string]any{
		"class": "Grade 1", "day": "Tuesday", "period": 2, "subject": "English",
		"teacher": "Ms. Auma", "startTime": "09:00", "endTime": "09:40",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = api.do(http.MethodGet, "/api/v1/timetable?class=Grade+1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tt query.GetTimetableResult
	require.NoError(t, json.Unmarshal(env.Data, &tt))
	require.Len(t, tt.Entries, 1)
	assert.Equal(t, "English", tt.Grid["Tuesday"][2].Subject)

	rec, _ = api.do(http.MethodDelete, "/api/v1/timetable/"+tt.Entries[0].ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	checker := handlers.NewCompositeHealthChecker("test")
	checker.AddCheck("store", func(context.Context) error { return nil })
	checker.AddOptionalCheck("ranking_cache", func(context.Context) error { return errors.New("down") })

	api := newTestAPI(t, checker)

	rec, env := api.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status handlers.HealthStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Healthy)
	assert.False(t, status.Checks["ranking_cache"].Healthy)

	api.login()
	api.do(http.MethodGet, "/api/v1/results/merit?term=Term+1&year=2024", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	raw := httptest.NewRecorder()
	api.handler.ServeHTTP(raw, req)
	require.Equal(t, http.StatusOK, raw.Code)

	body := raw.Body.String()
	assert.Contains(t, body, `school_ranking_computations_total{kind="merit",source="computed"} 1`)
	assert.Contains(t, body, `route="GET /api/v1/results/merit"`)
}
