package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/schoolhub/school-admin/internal/application/command"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/pkg/logger"
)

// writeError maps an application error to its status code and envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *command.ValidationError
	var derr *shared.DomainError

	switch {
	case errors.As(err, &verr):
		writeAPIError(w, r, http.StatusBadRequest, &APIError{
			Code:    "validation_error",
			Message: "Request validation failed",
			Fields:  verr.Fields,
		})
	case shared.IsValidation(err):
		message := err.Error()
		if errors.As(err, &derr) {
			message = derr.Message
		}
		writeJSONError(w, r, http.StatusBadRequest, "validation_error", message)
	case shared.IsNotFound(err):
		message := "Not found"
		if errors.As(err, &derr) {
			message = derr.Message
		}
		writeJSONError(w, r, http.StatusNotFound, "not_found", message)
	case shared.IsAlreadyExists(err):
		message := "Already exists"
		if errors.As(err, &derr) {
			message = derr.Message
		}
		writeJSONError(w, r, http.StatusConflict, "conflict", message)
	case shared.IsUnauthorized(err):
		writeJSONError(w, r, http.StatusUnauthorized, "unauthorized", "Invalid username or password")
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrTimeout):
		s.logger.Error(op+" failed", logger.Err(err), logger.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, r, http.StatusServiceUnavailable, "service_unavailable", "Service temporarily unavailable")
	default:
		s.logger.Error(op+" failed", logger.Err(err), logger.String("request_id", getRequestID(r.Context())))
		writeJSONError(w, r, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// decodeJSON reads the request body into v. It writes the 400 response and
// returns false on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return false
	}
	return true
}
