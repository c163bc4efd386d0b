package academic

import (
	"fmt"
	"regexp"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

// DefaultTotalMarks is the paper total every entry form uses.
const DefaultTotalMarks = 100

// Term is one of the three grading periods of a school year.
type Term string

const (
	Term1 Term = "Term 1"
	Term2 Term = "Term 2"
	Term3 Term = "Term 3"
)

// Terms lists the grading periods in order.
var Terms = []Term{Term1, Term2, Term3}

// IsValid reports whether the term is Term 1, Term 2 or Term 3.
func (t Term) IsValid() bool {
	return t == Term1 || t == Term2 || t == Term3
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// IsValidYear reports whether year is a 4-digit string.
func IsValidYear(year string) bool {
	return yearPattern.MatchString(year)
}

// Result is one student's score in one subject for one term/year.
type Result struct {
	ID         string `json:"id"`
	StudentID  string `json:"studentId"`
	SubjectID  string `json:"subjectId"`
	Marks      int    `json:"marks"`
	TotalMarks int    `json:"totalMarks"`
	Term       Term   `json:"term"`
	Year       string `json:"year"`
}

// GetID returns the record identifier.
func (r Result) GetID() string {
	return r.ID
}

// Validate enforces the entry-boundary rules. The ranking engine itself
// never calls this: it sums whatever it is given.
func (r *Result) Validate() error {
	if r.ID == "" {
		return shared.NewDomainError("result", "Validate", shared.ErrInvalidID, "id cannot be empty")
	}
	if r.StudentID == "" {
		return shared.NewDomainError("result", "Validate", shared.ErrInvalidID, "student id cannot be empty")
	}
	if _, ok := SubjectByID(r.SubjectID); !ok {
		return shared.ErrInvalidSubject
	}
	if !r.Term.IsValid() {
		return shared.ErrInvalidTerm
	}
	if !IsValidYear(r.Year) {
		return shared.ErrInvalidYear
	}
	if r.TotalMarks <= 0 || r.Marks < 0 || r.Marks > r.TotalMarks {
		return shared.ErrMarksOutOfRange
	}
	return nil
}

// String returns a short representation for logging.
func (r Result) String() string {
	return fmt.Sprintf("Result{Student: %s, Subject: %s, %d/%d, %s %s}",
		r.StudentID, r.SubjectID, r.Marks, r.TotalMarks, r.Term, r.Year)
}

// ResultFilter selects results by equality on term and year.
// Empty fields match everything.
type ResultFilter struct {
	Term Term
	Year string
}

// Matches reports whether r passes the filter.
func (f ResultFilter) Matches(r Result) bool {
	if f.Term != "" && r.Term != f.Term {
		return false
	}
	if f.Year != "" && r.Year != f.Year {
		return false
	}
	return true
}

// Filter keeps the results matching f, preserving order.
func (f ResultFilter) Filter(results []Result) []Result {
	matched := make([]Result, 0, len(results))
	for _, r := range results {
		if f.Matches(r) {
			matched = append(matched, r)
		}
	}
	return matched
}
