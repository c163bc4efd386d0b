// Package kvstore keeps each record collection as one JSON list under a fixed
// key of a key-value backend. Two backends are provided:
//   - MemoryBackend: process-local map, for tests and throwaway runs
//   - BadgerBackend: embedded on-disk store
package kvstore

import (
	"context"
	"errors"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORAGE KEYS
// ══════════════════════════════════════════════════════════════════════════════

// Collection keys. Each holds one JSON list, the same layout as the browser
// storage export, so exported data loads as-is.
const (
	KeyStudents   = "sms_students"
	KeyAttendance = "sms_attendance"
	KeyResults    = "sms_results"
	KeyTimetable  = "sms_timetable"
	KeyUsers      = "sms_users"
)

// ══════════════════════════════════════════════════════════════════════════════
// BACKEND
// ══════════════════════════════════════════════════════════════════════════════

// ErrKeyNotFound is returned by Backend.Get for a key that was never written.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Backend is a byte-oriented key-value store.
type Backend interface {
	// Get returns ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value of key.
	Set(ctx context.Context, key string, value []byte) error

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
