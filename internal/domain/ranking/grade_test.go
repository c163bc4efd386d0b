package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeOf_Boundaries(t *testing.T) {
	cases := map[int]Grade{
		79: GradeB, 80: GradeA,
		69: GradeC, 70: GradeB,
		59: GradeD, 60: GradeC,
		49: GradeE, 50: GradeD,
	}
	for pct, want := range cases {
		assert.Equal(t, want, GradeOf(pct), "percentage %d", pct)
	}
}

func TestGradeOf_OutOfRange(t *testing.T) {
	assert.Equal(t, GradeA, GradeOf(150))
	assert.Equal(t, GradeE, GradeOf(-20))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3, Round(2.5))
	assert.Equal(t, 2, Round(2.49))
	assert.Equal(t, -2, Round(-2.5))
	assert.Equal(t, 0, Round(0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 80, Percent(160, 200))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 0, Percent(50, 0))
	assert.Equal(t, 45, Percent(45, 100))
}
