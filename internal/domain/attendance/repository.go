package attendance

import (
	"context"

	"github.com/schoolhub/school-admin/internal/domain/student"
)

// Repository defines the storage contract for attendance registers.
type Repository interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]Record, error)

	// ListByDate returns the register of one class on one date.
	ListByDate(ctx context.Context, date string, class student.Class) ([]Record, error)

	// ReplaceForDay swaps the register of one class on one date for records,
	// leaving every other date and class untouched.
	ReplaceForDay(ctx context.Context, date string, class student.Class, records []Record) error
}
