package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

func TestSortForWeek(t *testing.T) {
	entries := []Entry{
		{ID: "fri-1", Day: "Friday", Period: 1},
		{ID: "mon-3", Day: "Monday", Period: 3},
		{ID: "tue-1", Day: "Tuesday", Period: 1},
		{ID: "mon-1", Day: "Monday", Period: 1},
	}

	sorted := SortForWeek(entries)
	ids := make([]string, len(sorted))
	for i, e := range sorted {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"mon-1", "mon-3", "tue-1", "fri-1"}, ids)
	assert.Equal(t, "fri-1", entries[0].ID)
}

func TestEntry_Validate(t *testing.T) {
	e := Entry{ID: "t1", Class: "Grade 2", Day: "Monday", Period: 1, Subject: "Mathematics",
		Teacher: "Mr. Otieno", StartTime: "08:00", EndTime: "08:40"}
	require.NoError(t, e.Validate())

	bad := e
	bad.Day = "Saturday"
	assert.ErrorIs(t, bad.Validate(), shared.ErrInvalidDay)

	bad = e
	bad.Period = 0
	assert.ErrorIs(t, bad.Validate(), shared.ErrInvalidPeriod)

	bad = e
	bad.EndTime = "07:59"
	assert.ErrorIs(t, bad.Validate(), shared.ErrInvalidTimeRange)

	bad = e
	bad.StartTime = "8am"
	assert.True(t, shared.IsValidation(bad.Validate()))
}

func TestBuildGrid(t *testing.T) {
	entries := []Entry{
		{ID: "a", Day: "Monday", Period: 1},
		{ID: "b", Day: "Monday", Period: 2},
		{ID: "c", Day: "Sunday", Period: 1},
	}

	grid := BuildGrid(entries)
	assert.Len(t, grid, 5)
	assert.Equal(t, "b", grid["Monday"][2].ID)
	assert.Empty(t, grid["Friday"])
	assert.Equal(t, 2, MaxPeriod(entries))
}
