package http

import (
	"net/http"

	"github.com/schoolhub/school-admin/internal/application/command"
	"github.com/schoolhub/school-admin/internal/application/query"
	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/internal/interface/http/handlers"
	"github.com/schoolhub/school-admin/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"name":    "School Administration Hub API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":     "/health",
			"login":      loginPath,
			"me":         "/api/v1/auth/me",
			"students":   "/api/v1/students",
			"attendance": "/api/v1/attendance",
			"results":    "/api/v1/results",
			"merit":      "/api/v1/results/merit",
			"toppers":    "/api/v1/results/toppers",
			"timetable":  "/api/v1/timetable",
			"dashboard":  "/api/v1/dashboard",
		},
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, r, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, r, http.StatusOK, status)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": s.config.Version,
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH & CATALOG HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.Login != nil) {
		return
	}

	var cmd command.LoginCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}

	session, err := s.deps.Login.Handle(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, "login", err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

// handleMe handles GET /api/v1/auth/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := handlers.ClaimsFromContext(r.Context())
	if !ok {
		writeJSONError(w, r, http.StatusUnauthorized, "unauthorized", "Not signed in")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"userId":   claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}

// handleListSubjects handles GET /api/v1/subjects
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSONWithMeta(w, r, http.StatusOK, academic.Subjects, &ResponseMeta{TotalCount: len(academic.Subjects)})
}

// handleListClasses handles GET /api/v1/classes
func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	writeJSONWithMeta(w, r, http.StatusOK, student.Classes, &ResponseMeta{TotalCount: len(student.Classes)})
}

// handleDashboard handles GET /api/v1/dashboard?date=
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.configured(w, r, s.deps.GetDashboard != nil) {
		return
	}

	today := r.URL.Query().Get("date")
	if today != "" && !timeutil.IsValidDate(today) {
		writeJSONError(w, r, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
		return
	}

	result, err := s.deps.GetDashboard.Handle(r.Context(), query.GetDashboardQuery{Today: today})
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// configured writes 501 when a route's handler was not wired.
func (s *Server) configured(w http.ResponseWriter, r *http.Request, ok bool) bool {
	if !ok {
		writeJSONError(w, r, http.StatusNotImplemented, "not_implemented", "Handler not configured")
	}
	return ok
}
