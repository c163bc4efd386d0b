// Package timeutil holds the school's calendar helpers. Dates are kept as
// YYYY-MM-DD strings and "today" is resolved in one configured location,
// UTC unless SetLocation says otherwise.
package timeutil

import (
	"fmt"
	"sync"
	"time"
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

var (
	mu       sync.RWMutex
	location = time.UTC
	nowFunc  = time.Now
)

// SetLocation sets the location used to decide the current date.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	mu.Lock()
	location = loc
	mu.Unlock()
}

// LoadLocation resolves an IANA zone name. An empty name means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timeutil: unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Location returns the configured location.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return location
}

// Now returns the current time in the configured location.
func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc().In(location)
}

// Today returns the current date as YYYY-MM-DD.
func Today() string {
	return FormatDate(Now())
}

// Weekday returns the English name of the current day, e.g. "Monday".
func Weekday() string {
	return Now().Weekday().String()
}

// FormatDate formats t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string in the configured location.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, Location())
}

// IsValidDate reports whether value is a real YYYY-MM-DD date.
func IsValidDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// SetClock replaces the time source and returns a function restoring the
// previous one. Intended for tests.
func SetClock(now func() time.Time) (restore func()) {
	mu.Lock()
	prev := nowFunc
	nowFunc = now
	mu.Unlock()

	return func() {
		mu.Lock()
		nowFunc = prev
		mu.Unlock()
	}
}
