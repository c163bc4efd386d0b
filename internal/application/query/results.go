package query

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/ranking"
	"github.com/schoolhub/school-admin/internal/domain/shared"
	"github.com/schoolhub/school-admin/internal/domain/student"
	"github.com/schoolhub/school-admin/pkg/logger"
)

// RankingObserver is notified of every ranking computation.
type RankingObserver interface {
	ObserveRanking(kind string, cached bool, took time.Duration)
}

// ══════════════════════════════════════════════════════════════════════════════
// GET RESULTS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetResultsQuery selects the results of a term/year, optionally one class.
type GetResultsQuery struct {
	Class student.Class
	Term  academic.Term
	Year  string
}

// StudentResults holds one student's rows. Summary is nil when the student
// has no results in scope.
type StudentResults struct {
	Student student.Student         `json:"student"`
	Results []academic.Result       `json:"results"`
	Summary *ranking.StudentSummary `json:"summary"`
}

// GetResultsHandler handles GetResultsQuery.
type GetResultsHandler struct {
	students student.Repository
	results  academic.ResultRepository
}

// NewGetResultsHandler creates a new GetResultsHandler.
func NewGetResultsHandler(students student.Repository, results academic.ResultRepository) *GetResultsHandler {
	return &GetResultsHandler{students: students, results: results}
}

// Handle returns one entry per student in roster order.
func (h *GetResultsHandler) Handle(ctx context.Context, q GetResultsQuery) ([]StudentResults, error) {
	if err := validateScope("GetResults", q.Term, q.Year, q.Class); err != nil {
		return nil, err
	}

	roster, rows, err := loadScope(ctx, h.students, h.results, q.Class, q.Term, q.Year)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string][]academic.Result)
	for _, r := range rows {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	out := make([]StudentResults, 0, len(roster))
	for _, s := range roster {
		own := byStudent[s.ID]
		entry := StudentResults{Student: s, Results: own}
		if entry.Results == nil {
			entry.Results = []academic.Result{}
		}
		if summary, ok := ranking.SummarizeStudent(s.ID, own); ok {
			entry.Summary = &summary
		}
		out = append(out, entry)
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET MERIT LIST QUERY
// Cache-first: a cache failure is logged and the list is recomputed. The cache
// is read before the scope is loaded so the stored list carries a version no
// newer than its inputs.
// ══════════════════════════════════════════════════════════════════════════════

// GetMeritListQuery selects a class merit list, or the overall list when
// Class is empty.
type GetMeritListQuery struct {
	Class student.Class
	Term  academic.Term
	Year  string
}

// GetMeritListResult is a ranked list and whether it came from the cache.
type GetMeritListResult struct {
	Entries []ranking.MeritEntry `json:"entries"`
	Cached  bool                 `json:"cached"`
}

// GetMeritListHandler handles GetMeritListQuery.
type GetMeritListHandler struct {
	students student.Repository
	results  academic.ResultRepository
	cache    ranking.MeritCache
	observer RankingObserver
	log      *logger.Logger
}

// NewGetMeritListHandler creates a new GetMeritListHandler. cache and
// observer may be nil.
func NewGetMeritListHandler(
	students student.Repository,
	results academic.ResultRepository,
	cache ranking.MeritCache,
	observer RankingObserver,
	log *logger.Logger,
) *GetMeritListHandler {
	return &GetMeritListHandler{
		students: students,
		results:  results,
		cache:    cache,
		observer: observer,
		log:      log,
	}
}

// Handle returns the merit list of the scope.
func (h *GetMeritListHandler) Handle(ctx context.Context, q GetMeritListQuery) (*GetMeritListResult, error) {
	if err := validateScope("GetMeritList", q.Term, q.Year, q.Class); err != nil {
		return nil, err
	}

	start := time.Now()
	scope := ranking.Scope{Term: q.Term, Year: q.Year, Class: q.Class}
	log := logger.FromContextOr(ctx, h.log)

	var (
		version   string
		cacheable bool
	)
	if h.cache != nil {
		lookup, err := h.cache.GetMerit(ctx, scope)
		switch {
		case err != nil:
			log.Warn("merit cache read failed", logger.String("scope", scope.String()), logger.Err(err))
		case lookup.Hit:
			h.observe("merit", true, start)
			return &GetMeritListResult{Entries: lookup.Entries, Cached: true}, nil
		default:
			version, cacheable = lookup.Version, true
		}
	}

	roster, rows, err := loadScope(ctx, h.students, h.results, q.Class, q.Term, q.Year)
	if err != nil {
		return nil, err
	}

	entries := ranking.RankMerit(roster, rows)

	if cacheable {
		if err := h.cache.SetMerit(ctx, scope, version, entries); err != nil {
			log.Warn("merit cache write failed", logger.String("scope", scope.String()), logger.Err(err))
		}
	}

	h.observe("merit", false, start)
	log.Debug("merit list computed",
		logger.String("scope", scope.String()),
		logger.Count(len(entries)),
		logger.Latency(time.Since(start)),
	)

	return &GetMeritListResult{Entries: entries}, nil
}

func (h *GetMeritListHandler) observe(kind string, cached bool, start time.Time) {
	if h.observer != nil {
		h.observer.ObserveRanking(kind, cached, time.Since(start))
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// GET SUBJECT TOPPERS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetSubjectToppersQuery selects topper lists of a term/year. An empty
// SubjectID returns every catalog subject.
type GetSubjectToppersQuery struct {
	Term      academic.Term
	Year      string
	SubjectID string
}

// SubjectToppers is the topper list of one subject.
type SubjectToppers struct {
	Subject academic.Subject             `json:"subject"`
	Toppers []ranking.SubjectTopperEntry `json:"toppers"`
}

// GetSubjectToppersHandler handles GetSubjectToppersQuery.
type GetSubjectToppersHandler struct {
	students student.Repository
	results  academic.ResultRepository
	observer RankingObserver
}

// NewGetSubjectToppersHandler creates a new GetSubjectToppersHandler.
func NewGetSubjectToppersHandler(students student.Repository, results academic.ResultRepository, observer RankingObserver) *GetSubjectToppersHandler {
	return &GetSubjectToppersHandler{students: students, results: results, observer: observer}
}

// Handle returns topper lists in catalog order.
func (h *GetSubjectToppersHandler) Handle(ctx context.Context, q GetSubjectToppersQuery) ([]SubjectToppers, error) {
	if err := validateScope("GetSubjectToppers", q.Term, q.Year, ""); err != nil {
		return nil, err
	}

	catalog := academic.Subjects
	if q.SubjectID != "" {
		subject, ok := academic.SubjectByID(q.SubjectID)
		if !ok {
			return nil, shared.WrapError("query", "GetSubjectToppers", shared.ErrValidation, "unknown subject", shared.ErrInvalidSubject)
		}
		catalog = []academic.Subject{subject}
	}

	start := time.Now()
	roster, rows, err := loadScope(ctx, h.students, h.results, "", q.Term, q.Year)
	if err != nil {
		return nil, err
	}

	all := ranking.RankAllSubjectToppers(catalog, rows, roster)
	out := make([]SubjectToppers, 0, len(catalog))
	for _, subject := range catalog {
		out = append(out, SubjectToppers{Subject: subject, Toppers: all[subject.ID]})
	}

	if h.observer != nil {
		h.observer.ObserveRanking("toppers", false, time.Since(start))
	}
	return out, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET REPORT CARD QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetReportCardQuery selects one student's report card.
type GetReportCardQuery struct {
	StudentID string
	Term      academic.Term
	Year      string
}

// GetReportCardHandler handles GetReportCardQuery.
type GetReportCardHandler struct {
	students student.Repository
	results  academic.ResultRepository
}

// NewGetReportCardHandler creates a new GetReportCardHandler.
func NewGetReportCardHandler(students student.Repository, results academic.ResultRepository) *GetReportCardHandler {
	return &GetReportCardHandler{students: students, results: results}
}

// Handle builds the report card. A student without results in scope yields
// shared.ErrResultNotFound.
func (h *GetReportCardHandler) Handle(ctx context.Context, q GetReportCardQuery) (*ranking.ReportCard, error) {
	if err := validateScope("GetReportCard", q.Term, q.Year, ""); err != nil {
		return nil, err
	}

	s, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	rows, err := h.results.List(ctx, academic.ResultFilter{Term: q.Term, Year: q.Year})
	if err != nil {
		return nil, fmt.Errorf("get_report_card: %w", err)
	}

	card, ok := ranking.BuildReportCard(*s, rows, academic.Subjects)
	if !ok {
		return nil, shared.ErrResultNotFound
	}
	return &card, nil
}

// loadScope reads the roster (one class or all) and the term/year results.
func loadScope(
	ctx context.Context,
	students student.Repository,
	results academic.ResultRepository,
	class student.Class,
	term academic.Term,
	year string,
) ([]student.Student, []academic.Result, error) {
	var (
		roster []student.Student
		err    error
	)
	if class == "" {
		roster, err = students.List(ctx)
	} else {
		roster, err = students.ListByClass(ctx, class)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load students: %w", err)
	}

	rows, err := results.List(ctx, academic.ResultFilter{Term: term, Year: year})
	if err != nil {
		return nil, nil, fmt.Errorf("load results: %w", err)
	}
	return roster, rows, nil
}
