// Package ranking aggregates exam results into student summaries, merit
// lists and subject topper lists.
//
// Every function here is pure: it reads in-memory slices, never mutates them,
// and is recomputed from scratch on each call. Missing data is not an error:
// a student without matching results, or a result whose student cannot be
// resolved, is silently left out of the output.
package ranking

import (
	"fmt"
	"sort"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Position is a 1-based place in a ranked list.
type Position int

// IsValid reports whether the position is positive.
func (p Position) IsValid() bool {
	return p > 0
}

// String returns the position as "#n".
func (p Position) String() string {
	return fmt.Sprintf("#%d", p)
}

// SubjectTopperLimit caps every subject topper list.
const SubjectTopperLimit = 10

// possiblePerSubject is what each recorded subject contributes to TotalPossible.
const possiblePerSubject = 100

// StudentSummary is a student's aggregate over the results of one term/year.
type StudentSummary struct {
	TotalMarks    int   `json:"totalMarks"`
	TotalPossible int   `json:"totalPossible"`
	Average       int   `json:"average"`
	Grade         Grade `json:"grade"`
	Subjects      int   `json:"subjects"`
}

// MeritEntry is one ranked row of a merit list.
type MeritEntry struct {
	Student  student.Student `json:"student"`
	Summary  StudentSummary  `json:"summary"`
	Position Position        `json:"position"`
}

// SubjectTopperEntry is one ranked row of a subject topper list.
type SubjectTopperEntry struct {
	Student    student.Student `json:"student"`
	Marks      int             `json:"marks"`
	Percentage int             `json:"percentage"`
	Position   Position        `json:"position"`
}

// ══════════════════════════════════════════════════════════════════════════════
// SUMMARIES
// ══════════════════════════════════════════════════════════════════════════════

// SummarizeStudent aggregates the rows of results that belong to studentID.
// results must already be filtered to the active term/year.
// It returns false when the student has no matching rows.
func SummarizeStudent(studentID string, results []academic.Result) (StudentSummary, bool) {
	var own []academic.Result
	for _, r := range results {
		if r.StudentID == studentID {
			own = append(own, r)
		}
	}
	return summarize(own)
}

// summarize scores a student only on the subjects actually recorded:
// missing subjects do not count as zero.
func summarize(rows []academic.Result) (StudentSummary, bool) {
	if len(rows) == 0 {
		return StudentSummary{}, false
	}

	total := 0
	for _, r := range rows {
		total += r.Marks
	}
	possible := possiblePerSubject * len(rows)
	average := Percent(total, possible)

	return StudentSummary{
		TotalMarks:    total,
		TotalPossible: possible,
		Average:       average,
		Grade:         GradeOf(average),
		Subjects:      len(rows),
	}, true
}

// groupByStudent buckets results per student, keeping input order inside
// each bucket.
func groupByStudent(results []academic.Result) map[string][]academic.Result {
	groups := make(map[string][]academic.Result)
	for _, r := range results {
		groups[r.StudentID] = append(groups[r.StudentID], r)
	}
	return groups
}

// ══════════════════════════════════════════════════════════════════════════════
// MERIT LIST
// ══════════════════════════════════════════════════════════════════════════════

// RankMerit ranks students by descending average.
//
// Students without results are dropped. Equal averages keep the order of the
// students slice, so callers control tie-breaking through input order.
// Positions are 1..n with no gaps. The same function serves class merit lists
// (students pre-filtered to one class) and the overall list.
func RankMerit(students []student.Student, results []academic.Result) []MeritEntry {
	groups := groupByStudent(results)

	entries := make([]MeritEntry, 0, len(students))
	for _, s := range students {
		summary, ok := summarize(groups[s.ID])
		if !ok {
			continue
		}
		entries = append(entries, MeritEntry{Student: s, Summary: summary})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Summary.Average > entries[j].Summary.Average
	})

	for i := range entries {
		entries[i].Position = Position(i + 1)
	}
	return entries
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT TOPPERS
// ══════════════════════════════════════════════════════════════════════════════

// RankSubjectToppers returns the best SubjectTopperLimit scores in one subject.
//
// Ordering is by raw marks, not percentage. Results whose student is not in
// students are skipped. Ties keep the order of results.
func RankSubjectToppers(subjectID string, results []academic.Result, students []student.Student) []SubjectTopperEntry {
	byID := student.Index(students)

	toppers := make([]SubjectTopperEntry, 0)
	for _, r := range results {
		if r.SubjectID != subjectID {
			continue
		}
		s, ok := byID[r.StudentID]
		if !ok {
			continue
		}
		toppers = append(toppers, SubjectTopperEntry{
			Student:    s,
			Marks:      r.Marks,
			Percentage: Percent(r.Marks, r.TotalMarks),
		})
	}

	sort.SliceStable(toppers, func(i, j int) bool {
		return toppers[i].Marks > toppers[j].Marks
	})

	if len(toppers) > SubjectTopperLimit {
		toppers = toppers[:SubjectTopperLimit]
	}
	for i := range toppers {
		toppers[i].Position = Position(i + 1)
	}
	return toppers
}

// RankAllSubjectToppers builds a topper list for every subject of catalog,
// keyed by subject ID. Subjects without results map to an empty list.
func RankAllSubjectToppers(catalog []academic.Subject, results []academic.Result, students []student.Student) map[string][]SubjectTopperEntry {
	all := make(map[string][]SubjectTopperEntry, len(catalog))
	for _, subject := range catalog {
		all[subject.ID] = RankSubjectToppers(subject.ID, results, students)
	}
	return all
}
