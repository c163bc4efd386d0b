package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_UsesConfiguredLocation(t *testing.T) {
	restore := SetClock(func() time.Time {
		return time.Date(2024, 3, 4, 22, 30, 0, 0, time.UTC)
	})
	defer restore()
	defer SetLocation(time.UTC)

	assert.Equal(t, "2024-03-04", Today())
	assert.Equal(t, "Monday", Weekday())

	SetLocation(time.FixedZone("UTC+3", 3*60*60))
	assert.Equal(t, "2024-03-05", Today())
	assert.Equal(t, "Tuesday", Weekday())
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2024-02-29"))
	assert.False(t, IsValidDate("2023-02-29"))
	assert.False(t, IsValidDate("2024-2-1"))
	assert.False(t, IsValidDate(""))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("Not/AZone")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())
}
