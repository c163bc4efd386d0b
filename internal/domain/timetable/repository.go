package timetable

import (
	"context"

	"github.com/schoolhub/school-admin/internal/domain/student"
)

// Repository defines the storage contract for timetable entries.
type Repository interface {
	// List returns every entry in insertion order.
	List(ctx context.Context) ([]Entry, error)

	// ListByClass returns the entries of one class in insertion order.
	ListByClass(ctx context.Context, class student.Class) ([]Entry, error)

	// Save inserts the entry or replaces the one with the same ID in place.
	Save(ctx context.Context, e *Entry) error

	// Delete returns shared.ErrTimetableEntryNotFound when no entry matches.
	Delete(ctx context.Context, id string) error
}
