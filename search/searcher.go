package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/storage"
)

// DefaultMaxResults is the default result cap. Matches ranked beyond the
// cap are silently dropped.
const DefaultMaxResults = 20

// Relevance weights for the containment signals.
const (
	titleWeight      = 3
	previewWeight    = 2
	fullTextWeight   = 1
	currentPageBonus = 1
)

// Searcher scores queries against every content unit in the page store.
type Searcher struct {
	pageRepository storage.PageRepository
	maxResults     int
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMaxResults sets the result cap.
// Default is DefaultMaxResults.
func WithMaxResults(max int) Option {
	return func(s *Searcher) error {
		if max < 1 {
			return ErrInvalidMaxResults
		}
		s.maxResults = max
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(pageRepository storage.PageRepository, opts ...Option) (*Searcher, error) {
	if pageRepository == nil {
		return nil, ErrPageRepositoryRequired
	}

	s := &Searcher{
		pageRepository: pageRepository,
		maxResults:     DefaultMaxResults,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search scores the query against all stored content and returns the
// highest-ranked matches, at most the configured cap.
//
// The query must already be normalized with NormalizeQuery; an empty
// normalized query returns ErrEmptyQuery so callers can render the
// no-query state rather than an empty result list. currentPageID
// identifies the page being viewed, whose units receive the bonus weight.
func (s *Searcher) Search(ctx context.Context, query, currentPageID string) ([]*core.Match, error) {
	return s.SearchWithMonitor(ctx, query, currentPageID, nil)
}

// SearchWithMonitor searches with monitoring. The monitor receives
// callbacks as pages are scanned and matches accumulate.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query, currentPageID string, monitor Monitor) ([]*core.Match, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if query == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query)

	pages, err := s.pageRepository.AllPages(ctx)
	if err != nil {
		s.logger.Error("error scanning page store", "query", query, "err", err)
		return nil, err
	}

	var matches []*core.Match
	for _, page := range pages {
		isCurrent := page.PageID == currentPageID

		for i := range page.Units {
			unit := &page.Units[i]

			relevance := scoreUnit(unit, query)
			if relevance == 0 {
				continue
			}
			if isCurrent {
				relevance += currentPageBonus
			}

			match := &core.Match{
				UnitID:        unit.ID,
				Title:         unit.Title,
				Preview:       unit.Preview,
				FullText:      unit.FullText,
				PageTitle:     unit.PageTitle,
				PageURL:       unit.PageURL,
				IsCurrentPage: isCurrent,
				Relevance:     relevance,
			}
			matches = append(matches, match)
			monitor.UnitMatched(match)
		}

		monitor.PageScanned(page.PageID, len(page.Units))
	}

	// Highest relevance first; ties keep encounter order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	if len(matches) > s.maxResults {
		matches = matches[:s.maxResults]
	}

	monitor.Finish(matches)
	return matches, nil
}

// scoreUnit computes the containment relevance of a unit, without the
// current-page bonus. Zero means no signal matched.
func scoreUnit(unit *core.ContentUnit, query string) int {
	relevance := 0
	if containsNormalized(unit.Title, query) {
		relevance += titleWeight
	}
	if containsNormalized(unit.Preview, query) {
		relevance += previewWeight
	}
	if containsNormalized(unit.FullText, query) {
		relevance += fullTextWeight
	}
	return relevance
}
