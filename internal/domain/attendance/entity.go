// Package attendance models daily class attendance registers.
package attendance

import (
	"time"

	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// Status of a student on one day.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// IsValid reports whether the status is Present or Absent.
func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Record is one student's attendance for one date.
type Record struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	Date      string        `json:"date"`
	Status    Status        `json:"status"`
	Class     student.Class `json:"class"`
}

// GetID returns the record identifier.
func (r Record) GetID() string {
	return r.ID
}

// ValidateDate checks the YYYY-MM-DD layout.
func ValidateDate(date string) error {
	if _, err := time.Parse(student.DateLayout, date); err != nil {
		return shared.ErrInvalidAttendanceDate
	}
	return nil
}

// Stats summarises a register.
type Stats struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Percentage int `json:"percentage"`
}

// ComputeStats counts presences against total, the size of the class.
// Absent is total minus present; percentage is 0 for an empty class.
func ComputeStats(total int, records []Record) Stats {
	present := 0
	for _, r := range records {
		if r.Status == StatusPresent {
			present++
		}
	}

	stats := Stats{Total: total, Present: present, Absent: total - present}
	if total > 0 {
		stats.Percentage = int(float64(present)/float64(total)*100 + 0.5)
	}
	return stats
}

// OnDate keeps the records of one date, preserving order.
func OnDate(records []Record, date string) []Record {
	matched := make([]Record, 0)
	for _, r := range records {
		if r.Date == date {
			matched = append(matched, r)
		}
	}
	return matched
}
