package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

func TestResult_Validate(t *testing.T) {
	r := Result{ID: "r1", StudentID: "s1", SubjectID: "1", Marks: 75, TotalMarks: 100, Term: Term1, Year: "2024"}
	assert.NoError(t, r.Validate())

	bad := r
	bad.Marks = 101
	assert.ErrorIs(t, bad.Validate(), shared.ErrMarksOutOfRange)

	bad = r
	bad.Marks = -1
	assert.ErrorIs(t, bad.Validate(), shared.ErrMarksOutOfRange)

	bad = r
	bad.SubjectID = "42"
	assert.ErrorIs(t, bad.Validate(), shared.ErrInvalidSubject)

	bad = r
	bad.Term = "Term 4"
	assert.ErrorIs(t, bad.Validate(), shared.ErrInvalidTerm)

	bad = r
	bad.Year = "24"
	assert.ErrorIs(t, bad.Validate(), shared.ErrInvalidYear)
}

func TestResultFilter(t *testing.T) {
	results := []Result{
		{ID: "a", Term: Term1, Year: "2024"},
		{ID: "b", Term: Term2, Year: "2024"},
		{ID: "c", Term: Term1, Year: "2023"},
		{ID: "d", Term: Term1, Year: "2024"},
	}

	matched := ResultFilter{Term: Term1, Year: "2024"}.Filter(results)
	assert.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0].ID)
	assert.Equal(t, "d", matched[1].ID)

	assert.Len(t, ResultFilter{}.Filter(results), 4)
}

func TestSubjectCatalog(t *testing.T) {
	assert.Len(t, Subjects, 8)

	s, ok := SubjectByID("3")
	assert.True(t, ok)
	assert.Equal(t, "KIS", s.Code)

	_, ok = SubjectByID("9")
	assert.False(t, ok)
}
