package student

import "context"

// Repository defines the storage contract for the student roster.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// List returns every student in insertion order.
	List(ctx context.Context) ([]Student, error)

	// ListByClass returns the students of one class in insertion order.
	ListByClass(ctx context.Context, class Class) ([]Student, error)

	// GetByID returns shared.ErrStudentNotFound when no student matches.
	GetByID(ctx context.Context, id string) (*Student, error)

	// Save inserts the student or replaces the one with the same ID in place.
	Save(ctx context.Context, s *Student) error

	// Delete returns shared.ErrStudentNotFound when no student matches.
	Delete(ctx context.Context, id string) error

	// Count returns the number of students.
	Count(ctx context.Context) (int, error)
}
