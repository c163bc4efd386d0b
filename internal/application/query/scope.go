// Package query contains read operations (CQRS - Queries).
// Derived views are recomputed from the record store on every call.
package query

import (
	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// validateScope checks the term/year pair every results view is keyed by,
// plus an optional class.
func validateScope(op string, term academic.Term, year string, class student.Class) error {
	if !term.IsValid() {
		return shared.WrapError("query", op, shared.ErrValidation, "term must be one of Term 1, Term 2, Term 3", shared.ErrInvalidTerm)
	}
	if !academic.IsValidYear(year) {
		return shared.WrapError("query", op, shared.ErrValidation, "year must be a 4-digit string", shared.ErrInvalidYear)
	}
	if class != "" && !class.IsValid() {
		return shared.WrapError("query", op, shared.ErrValidation, "unknown class", shared.ErrInvalidClass)
	}
	return nil
}
