package ranking

import (
	"context"
	"fmt"

	"github.com/schoolhub/school-admin/internal/domain/academic"
	"github.com/schoolhub/school-admin/internal/domain/student"
)

// Scope identifies one merit list: a term/year, optionally narrowed to a class.
type Scope struct {
	Term  academic.Term
	Year  string
	Class student.Class
}

// String returns a stable key for the scope.
func (s Scope) String() string {
	class := string(s.Class)
	if class == "" {
		class = "all"
	}
	return fmt.Sprintf("%s:%s:%s", s.Year, s.Term, class)
}

// MeritLookup is the outcome of a cache read. Version names the cache
// generation the read observed and is handed back to SetMerit.
type MeritLookup struct {
	Entries []MeritEntry
	Hit     bool
	Version string
}

// MeritCache memoizes merit lists. Implementations must drop every scope of a
// term/year when Invalidate is called, since any result write can move ranks.
//
// Lists are stamped with the generation seen by GetMerit. A list computed
// under a generation that has since been invalidated is never served, so
// callers must read the cache before loading the inputs they rank.
type MeritCache interface {
	// GetMerit reads the scope. Version is set on hits and misses.
	GetMerit(ctx context.Context, scope Scope) (MeritLookup, error)

	// SetMerit stores a list computed under version.
	SetMerit(ctx context.Context, scope Scope, version string, entries []MeritEntry) error

	// Invalidate drops every cached list of term/year.
	Invalidate(ctx context.Context, term academic.Term, year string) error

	// InvalidateAll drops every cached list. Roster edits can change any scope.
	InvalidateAll(ctx context.Context) error
}
