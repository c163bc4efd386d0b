// Package timetable models the weekly class timetable.
package timetable

import (
	"sort"
	"time"

	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// Days are the school days in week order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// DayIndex returns the position of day in the week, or -1.
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// ClockLayout is the HH:MM format of lesson times.
const ClockLayout = "15:04"

// Entry is one lesson slot of a class timetable.
type Entry struct {
	ID        string        `json:"id"`
	Class     student.Class `json:"class"`
	Day       string        `json:"day"`
	Period    int           `json:"period"`
	Subject   string        `json:"subject"`
	Teacher   string        `json:"teacher"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
}

// GetID returns the record identifier.
func (e Entry) GetID() string {
	return e.ID
}

// Validate checks the invariants of a stored slot.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return shared.NewDomainError("timetable", "Validate", shared.ErrInvalidID, "id cannot be empty")
	}
	if !e.Class.IsValid() {
		return shared.ErrInvalidClass
	}
	if DayIndex(e.Day) < 0 {
		return shared.ErrInvalidDay
	}
	if e.Period < 1 {
		return shared.ErrInvalidPeriod
	}
	if e.Subject == "" {
		return shared.NewDomainError("timetable", "Validate", shared.ErrEmptyValue, "subject cannot be empty")
	}

	start, err := time.Parse(ClockLayout, e.StartTime)
	if err != nil {
		return shared.NewDomainError("timetable", "Validate", shared.ErrInvalidFormat, "start time must be HH:MM")
	}
	end, err := time.Parse(ClockLayout, e.EndTime)
	if err != nil {
		return shared.NewDomainError("timetable", "Validate", shared.ErrInvalidFormat, "end time must be HH:MM")
	}
	if !end.After(start) {
		return shared.ErrInvalidTimeRange
	}
	return nil
}

// SortForWeek orders entries by day of week, then period. The input is not modified.
func SortForWeek(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := DayIndex(sorted[i].Day), DayIndex(sorted[j].Day)
		if di != dj {
			return di < dj
		}
		return sorted[i].Period < sorted[j].Period
	})
	return sorted
}

// Grid indexes entries as day -> period -> entry. When two entries share a
// slot the later one wins.
type Grid map[string]map[int]Entry

// BuildGrid lays a class's entries out by day and period.
func BuildGrid(entries []Entry) Grid {
	grid := make(Grid, len(Days))
	for _, day := range Days {
		grid[day] = make(map[int]Entry)
	}
	for _, e := range entries {
		if _, ok := grid[e.Day]; !ok {
			continue
		}
		grid[e.Day][e.Period] = e
	}
	return grid
}

// MaxPeriod returns the highest period number in entries.
func MaxPeriod(entries []Entry) int {
	max := 0
	for _, e := range entries {
		if e.Period > max {
			max = e.Period
		}
	}
	return max
}
