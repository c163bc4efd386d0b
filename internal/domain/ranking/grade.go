package ranking

import "math"

// Grade is a letter band derived from a percentage.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// GradeOf maps a percentage to its band. Defined for every integer:
// out-of-range values fall into the top or bottom band without clamping.
func GradeOf(percentage int) Grade {
	switch {
	case percentage >= 80:
		return GradeA
	case percentage >= 70:
		return GradeB
	case percentage >= 60:
		return GradeC
	case percentage >= 50:
		return GradeD
	default:
		return GradeE
	}
}

// Round rounds half up, toward positive infinity (2.5 -> 3, -2.5 -> -2).
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Percent returns round(100 * part / whole), or 0 when whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return Round(float64(part) / float64(whole) * 100)
}
