// Package shared contains common domain errors used across all domain packages.
// This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Infrastructure errors
	ErrStorage            = errors.New("storage error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "result", "attendance"
	Op      string // Operation that failed, e.g., "Save", "Delete"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound  = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrInvalidClass     = NewDomainError("student", "Validate", ErrInvalidInput, "unknown class")
	ErrInvalidGender    = NewDomainError("student", "Validate", ErrInvalidInput, "gender must be Male or Female")
	ErrInvalidBirthDate = NewDomainError("student", "Validate", ErrInvalidFormat, "date of birth must be YYYY-MM-DD")
)

// Result domain errors
var (
	ErrResultNotFound  = NewDomainError("result", "Find", ErrNotFound, "result not found")
	ErrInvalidTerm     = NewDomainError("result", "Validate", ErrInvalidInput, "term must be one of Term 1, Term 2, Term 3")
	ErrInvalidYear     = NewDomainError("result", "Validate", ErrInvalidFormat, "year must be a 4-digit string")
	ErrInvalidSubject  = NewDomainError("result", "Validate", ErrInvalidInput, "unknown subject")
	ErrMarksOutOfRange = NewDomainError("result", "Validate", ErrValueOutOfRange, "marks must be between 0 and total marks")
)

// Attendance domain errors
var (
	ErrInvalidAttendanceDate = NewDomainError("attendance", "Validate", ErrInvalidFormat, "date must be YYYY-MM-DD")
	ErrInvalidStatus         = NewDomainError("attendance", "Validate", ErrInvalidInput, "status must be Present or Absent")
)

// Timetable domain errors
var (
	ErrTimetableEntryNotFound = NewDomainError("timetable", "Find", ErrNotFound, "timetable entry not found")
	ErrInvalidDay             = NewDomainError("timetable", "Validate", ErrInvalidInput, "day must be Monday to Friday")
	ErrInvalidPeriod          = NewDomainError("timetable", "Validate", ErrValueOutOfRange, "period must be at least 1")
	ErrInvalidTimeRange       = NewDomainError("timetable", "Validate", ErrInvalidInput, "end time must be after start time")
)

// Auth domain errors
var (
	ErrInvalidCredentials = NewDomainError("auth", "Login", ErrUnauthorized, "invalid username or password")
	ErrInvalidToken       = NewDomainError("auth", "Verify", ErrUnauthorized, "invalid or expired token")
	ErrUserNotFound       = NewDomainError("auth", "Find", ErrNotFound, "user not found")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if the error is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
