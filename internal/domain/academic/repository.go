package academic

import "context"

// ResultRepository defines the storage contract for exam results.
type ResultRepository interface {
	// List returns the results matching filter in insertion order.
	List(ctx context.Context, filter ResultFilter) ([]Result, error)

	// GetByID returns shared.ErrResultNotFound when no row has id.
	GetByID(ctx context.Context, id string) (*Result, error)

	// Save inserts the result or replaces the one with the same ID in place.
	Save(ctx context.Context, r *Result) error

	// SaveBatch upserts every result as one write.
	SaveBatch(ctx context.Context, results []Result) error

	// Count returns the number of stored results.
	Count(ctx context.Context) (int, error)
}
