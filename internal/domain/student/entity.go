// Package student contains the student roster domain model.
// This is core business logic - no external dependencies.
package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Class is a grade/section label such as "Grade 4".
type Class string

// Classes is the fixed class catalog, in display order.
var Classes = []Class{
	"Pre-Primary 1", "Pre-Primary 2",
	"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5", "Grade 6",
	"Grade 7", "Grade 8", "Grade 9",
}

// IsValid reports whether the class is part of the catalog.
func (c Class) IsValid() bool {
	for _, known := range Classes {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the class label.
func (c Class) String() string {
	return string(c)
}

// Gender of a student.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// IsValid reports whether the gender is Male or Female.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// DateLayout is the calendar date format used for birth and attendance dates.
const DateLayout = "2006-01-02"

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student is one enrolled learner. ID is never reused.
type Student struct {
	ID              string    `json:"id"`
	AdmissionNumber string    `json:"admissionNumber"`
	Name            string    `json:"name"`
	Class           Class     `json:"class"`
	Gender          Gender    `json:"gender"`
	DateOfBirth     string    `json:"dateOfBirth"`
	CreatedAt       time.Time `json:"createdAt"`
}

// GetID returns the record identifier.
func (s Student) GetID() string {
	return s.ID
}

// Validate checks the invariants every stored student must satisfy.
func (s *Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return shared.NewDomainError("student", "Validate", shared.ErrInvalidID, "id cannot be empty")
	}
	if strings.TrimSpace(s.AdmissionNumber) == "" {
		return shared.NewDomainError("student", "Validate", shared.ErrEmptyValue, "admission number cannot be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("student", "Validate", shared.ErrEmptyValue, "name cannot be empty")
	}
	if !s.Class.IsValid() {
		return shared.ErrInvalidClass
	}
	if !s.Gender.IsValid() {
		return shared.ErrInvalidGender
	}
	if _, err := time.Parse(DateLayout, s.DateOfBirth); err != nil {
		return shared.ErrInvalidBirthDate
	}
	return nil
}

// String returns a short representation for logging.
func (s Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Adm: %s, Class: %s}", s.ID, s.AdmissionNumber, s.Class)
}

// FilterByClass keeps the students of one class, preserving order.
// An empty class keeps everyone.
func FilterByClass(students []Student, class Class) []Student {
	if class == "" {
		return students
	}
	filtered := make([]Student, 0, len(students))
	for _, s := range students {
		if s.Class == class {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Index maps student ids to students.
func Index(students []Student) map[string]Student {
	byID := make(map[string]Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	return byID
}
