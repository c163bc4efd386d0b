package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

// Record is anything stored in a Collection.
type Record interface {
	GetID() string
}

// Collection is a list of records persisted as one JSON array under key.
// Reads and writes of the whole list are serialized by an internal lock, so
// a read-modify-write never loses a concurrent update.
type Collection[T Record] struct {
	backend Backend
	key     string
	mu      sync.RWMutex
}

// NewCollection binds a collection to key on backend.
func NewCollection[T Record](backend Backend, key string) *Collection[T] {
	return &Collection[T]{backend: backend, key: key}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Get(ctx, c.key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, shared.WrapError("kvstore", "load", shared.ErrStorage, c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, shared.WrapError("kvstore", "load", shared.ErrStorage, "decode "+c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) store(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return shared.WrapError("kvstore", "store", shared.ErrStorage, "encode "+c.key, err)
	}
	if err := c.backend.Set(ctx, c.key, data); err != nil {
		return shared.WrapError("kvstore", "store", shared.ErrStorage, c.key, err)
	}
	return nil
}

// List returns every record in stored order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load(ctx)
}

// Filter returns the records for which keep is true, in stored order.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Find returns the first record for which match is true.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if match(item) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// FindByID returns the record with the given id.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	return c.Find(ctx, func(item T) bool { return item.GetID() == id })
}

// Count returns the number of records.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	items, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// UpsertByID replaces records in place by id and appends the new ones.
func (c *Collection[T]) UpsertByID(ctx context.Context, records ...T) error {
	if len(records) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	pos := make(map[string]int, len(items))
	for i, item := range items {
		pos[item.GetID()] = i
	}
	for _, r := range records {
		if i, ok := pos[r.GetID()]; ok {
			items[i] = r
			continue
		}
		pos[r.GetID()] = len(items)
		items = append(items, r)
	}
	return c.store(ctx, items)
}

// DeleteByID removes the record with id and reports whether it existed.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.GetID() == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return false, nil
	}
	return true, c.store(ctx, kept)
}

// ReplaceWhere drops every record for which drop is true and appends
// replacement, in one write.
func (c *Collection[T]) ReplaceWhere(ctx context.Context, drop func(T) bool, replacement []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]T, 0, len(items)+len(replacement))
	for _, item := range items {
		if !drop(item) {
			kept = append(kept, item)
		}
	}
	kept = append(kept, replacement...)
	return c.store(ctx, kept)
}
