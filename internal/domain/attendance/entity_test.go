package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoolhub/school-admin/internal/domain/shared"
)

func TestComputeStats(t *testing.T) {
	records := []Record{
		{StudentID: "a", Status: StatusPresent},
		{StudentID: "b", Status: StatusAbsent},
		{StudentID: "c", Status: StatusPresent},
	}

	stats := ComputeStats(3, records)
	assert.Equal(t, Stats{Total: 3, Present: 2, Absent: 1, Percentage: 67}, stats)

	assert.Equal(t, Stats{}, ComputeStats(0, nil))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2024-02-29"))
	assert.ErrorIs(t, ValidateDate("2024-13-01"), shared.ErrInvalidAttendanceDate)
}

func TestOnDate(t *testing.T) {
	records := []Record{
		{ID: "1", Date: "2024-05-01"},
		{ID: "2", Date: "2024-05-02"},
		{ID: "3", Date: "2024-05-01"},
	}
	matched := OnDate(records, "2024-05-01")
	assert.Len(t, matched, 2)
	assert.Equal(t, "3", matched[1].ID)
}
