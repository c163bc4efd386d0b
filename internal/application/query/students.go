package query

import (
	"context"

	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// ListStudentsQuery selects the roster, optionally one class.
type ListStudentsQuery struct {
	Class student.Class
}

// ListStudentsHandler handles ListStudentsQuery.
type ListStudentsHandler struct {
	students student.Repository
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(students student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{students: students}
}

// Handle returns the students in insertion order.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) ([]student.Student, error) {
	if q.Class == "" {
		return h.students.List(ctx)
	}
	if !q.Class.IsValid() {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrValidation, "unknown class", shared.ErrInvalidClass)
	}
	return h.students.ListByClass(ctx, q.Class)
}
