package overlay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/highlight"
	"github.com/poiesic/pageseek/navigate"
	"github.com/poiesic/pageseek/search"
)

// Controller drives the search overlay lifecycle. Queries run against the
// whole store with the viewed page ranked up; selecting a result closes
// the overlay and hands off to the navigator.
type Controller struct {
	searcher    *search.Searcher
	navigator   *navigate.Navigator
	highlighter *highlight.Highlighter
	viewport    navigate.Viewport
	logger      *slog.Logger

	mu   sync.Mutex
	open bool
}

// Option configures a Controller.
type Option func(*Controller) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewController creates an overlay controller over the given components.
func NewController(searcher *search.Searcher, navigator *navigate.Navigator, highlighter *highlight.Highlighter, viewport navigate.Viewport, opts ...Option) (*Controller, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if navigator == nil {
		return nil, ErrNavigatorRequired
	}
	if highlighter == nil {
		return nil, ErrHighlighterRequired
	}
	if viewport == nil {
		return nil, ErrViewportRequired
	}

	c := &Controller{
		searcher:    searcher,
		navigator:   navigator,
		highlighter: highlighter,
		viewport:    viewport,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Open marks the overlay visible.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
}

// Close hides the overlay, clears any active highlights, stops pending
// timers and discards any stored pending highlight pair. Safe to call
// when already closed.
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()

	c.highlighter.Clear()
	c.navigator.Close()
	if err := c.navigator.DiscardPending(context.Background()); err != nil {
		c.logger.Warn("error discarding pending highlight", "err", err)
	}
}

// IsOpen reports whether the overlay is visible.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// QueryChanged runs a search for the raw input. noQuery is true when the
// input is empty after normalization; the caller renders the idle state
// rather than an empty result list.
func (c *Controller) QueryChanged(ctx context.Context, raw string) (results []*core.Match, noQuery bool, err error) {
	query := search.NormalizeQuery(raw)
	if query == "" {
		return nil, true, nil
	}

	currentPageID := core.PageIDFromPath(c.viewport.Path())
	results, err = c.searcher.Search(ctx, query, currentPageID)
	if err != nil {
		return nil, false, err
	}
	return results, false, nil
}

// ResultSelected closes the overlay and resolves the selected match into
// a viewport action.
func (c *Controller) ResultSelected(ctx context.Context, unitID, pageURL, raw string) (navigate.Action, error) {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()

	return c.navigator.Resolve(ctx, unitID, pageURL, search.NormalizeQuery(raw))
}

// PageLoaded completes a pending cross-page highlight, if one exists.
func (c *Controller) PageLoaded(ctx context.Context) error {
	return c.navigator.OnPageLoad(ctx)
}
