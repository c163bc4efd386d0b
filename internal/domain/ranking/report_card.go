package ranking

import (
	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// ReportCardLine is one subject row of a report card.
type ReportCardLine struct {
	SubjectID   string `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Marks       int    `json:"marks"`
	TotalMarks  int    `json:"totalMarks"`
	Percentage  int    `json:"percentage"`
	Grade       Grade  `json:"grade"`
}

// ReportCard is a printable per-student statement for one term/year.
type ReportCard struct {
	Student student.Student  `json:"student"`
	Lines   []ReportCardLine `json:"lines"`
	Summary StudentSummary   `json:"summary"`
}

// BuildReportCard assembles the report card of s from term/year-filtered
// results. Lines follow result order; unknown subjects show their raw ID.
// It returns false when s has no results.
func BuildReportCard(s student.Student, results []academic.Result, catalog []academic.Subject) (ReportCard, bool) {
	summary, ok := SummarizeStudent(s.ID, results)
	if !ok {
		return ReportCard{}, false
	}

	names := make(map[string]string, len(catalog))
	for _, subject := range catalog {
		names[subject.ID] = subject.Name
	}

	card := ReportCard{Student: s, Summary: summary}
	for _, r := range results {
		if r.StudentID != s.ID {
			continue
		}
		name, known := names[r.SubjectID]
		if !known {
			name = r.SubjectID
		}
		pct := Percent(r.Marks, r.TotalMarks)
		card.Lines = append(card.Lines, ReportCardLine{
			SubjectID:   r.SubjectID,
			SubjectName: name,
			Marks:       r.Marks,
			TotalMarks:  r.TotalMarks,
			Percentage:  pct,
			Grade:       GradeOf(pct),
		})
	}
	return card, true
}
