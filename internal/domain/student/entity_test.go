package student

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

func validStudent() Student {
	return Student{
		ID:              "s1",
		AdmissionNumber: "ADM-001",
		Name:            "Amina Njeri",
		Class:           "Grade 4",
		Gender:          GenderFemale,
		DateOfBirth:     "2015-03-09",
	}
}

func TestStudent_Validate(t *testing.T) {
	s := validStudent()
	assert.NoError(t, s.Validate())

	s.Class = "Grade 12"
	assert.ErrorIs(t, s.Validate(), shared.ErrInvalidClass)

	s = validStudent()
	s.Gender = "other"
	assert.ErrorIs(t, s.Validate(), shared.ErrInvalidGender)

	s = validStudent()
	s.DateOfBirth = "09/03/2015"
	assert.ErrorIs(t, s.Validate(), shared.ErrInvalidBirthDate)

	s = validStudent()
	s.Name = "  "
	err := s.Validate()
	assert.True(t, shared.IsValidation(err))
}

func TestFilterByClass(t *testing.T) {
	students := []Student{
		{ID: "a", Class: "Grade 1"},
		{ID: "b", Class: "Grade 2"},
		{ID: "c", Class: "Grade 1"},
	}

	filtered := FilterByClass(students, "Grade 1")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].ID)
	assert.Equal(t, "c", filtered[1].ID)

	assert.Len(t, FilterByClass(students, ""), 3)
	assert.Empty(t, FilterByClass(students, "Grade 9"))
}

func TestClassCatalog(t *testing.T) {
	assert.Len(t, Classes, 11)
	assert.True(t, Class("Pre-Primary 1").IsValid())
	assert.False(t, Class("grade 1").IsValid())
}
