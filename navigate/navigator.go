package navigate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/highlight"
	"github.com/poiesic/pageseek/storage"
)

// DefaultSettleDelay is how long the arrival handler waits after a page
// load before scrolling and highlighting, giving the page time to render.
const DefaultSettleDelay = 500 * time.Millisecond

// Action describes how a match resolution played out on the viewport.
type Action int

const (
	// ActionScroll means the target element was scrolled into view and
	// highlighted on the current page.
	ActionScroll Action = iota

	// ActionScrollTop means the target element was missing on the
	// current page and the viewport was scrolled to the top instead.
	ActionScrollTop

	// ActionNavigate means a cross-page navigation was started with a
	// pending highlight stored for the destination.
	ActionNavigate
)

func (a Action) String() string {
	switch a {
	case ActionScroll:
		return "scroll"
	case ActionScrollTop:
		return "scroll-top"
	case ActionNavigate:
		return "navigate"
	default:
		return "unknown"
	}
}

// Navigator turns a selected match into viewport actions and completes
// cross-page highlights on arrival. Safe for concurrent use.
type Navigator struct {
	viewport    Viewport
	sessions    storage.SessionRepository
	highlighter *highlight.Highlighter
	logger      *slog.Logger
	settleDelay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// Option configures a Navigator.
type Option func(*Navigator) error

// WithLogger sets the logger used for swallowed session-store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) error {
		if logger != nil {
			n.logger = logger
		}
		return nil
	}
}

// WithSettleDelay overrides the wait between a page load and the arrival
// scroll. Zero disables the wait.
func WithSettleDelay(d time.Duration) Option {
	return func(n *Navigator) error {
		if d < 0 {
			return ErrInvalidSettleDelay
		}
		n.settleDelay = d
		return nil
	}
}

// NewNavigator creates a navigator over the given viewport, session store
// and highlighter.
func NewNavigator(viewport Viewport, sessions storage.SessionRepository, highlighter *highlight.Highlighter, opts ...Option) (*Navigator, error) {
	if viewport == nil {
		return nil, ErrViewportRequired
	}
	if sessions == nil {
		return nil, ErrSessionRepositoryRequired
	}
	if highlighter == nil {
		return nil, ErrHighlighterRequired
	}

	n := &Navigator{
		viewport:    viewport,
		sessions:    sessions,
		highlighter: highlighter,
		logger:      slog.Default(),
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Resolve acts on a selected match. A match whose page is the one in view
// is scrolled to and highlighted in place; a missing target scrolls to the
// top instead. A match on another page stores the query/unit pair for the
// destination and navigates to the page URL with the unit id as fragment.
// Session-store failures are logged and the navigation proceeds without a
// pending highlight.
func (n *Navigator) Resolve(ctx context.Context, unitID, pageURL, query string) (Action, error) {
	if err := ctx.Err(); err != nil {
		return ActionScrollTop, err
	}

	if n.samePage(pageURL) {
		if !n.viewport.ScrollTo(unitID) {
			n.viewport.ScrollTop()
			return ActionScrollTop, nil
		}
		if root, ok := n.viewport.Root(unitID); ok {
			n.highlighter.Apply(root, query)
		}
		return ActionScroll, nil
	}

	if err := n.sessions.SetPending(ctx, query, unitID); err != nil {
		n.logger.Warn("error storing pending highlight", "unit_id", unitID, "err", err)
	}
	target := pageURL
	if unitID != "" {
		target += "#" + unitID
	}
	n.viewport.Navigate(target)
	return ActionNavigate, nil
}

// OnPageLoad consumes a pending highlight pair, if any, and schedules the
// arrival scroll and highlight after the settle delay. Consuming the pair
// up front means it never replays on a later load, even if this one fails.
func (n *Navigator) OnPageLoad(ctx context.Context) error {
	query, unitID, ok, err := n.sessions.TakePending(ctx)
	if err != nil {
		n.logger.Warn("error reading pending highlight", "err", err)
		return nil
	}
	if !ok {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.settleDelay, func() { n.arrive(query, unitID) })
	return nil
}

// DiscardPending drops any stored pending highlight pair without acting
// on it, for when the overlay is dismissed before the pair is consumed.
func (n *Navigator) DiscardPending(ctx context.Context) error {
	return n.sessions.ClearPending(ctx)
}

// Close stops any scheduled arrival scroll.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Navigator) arrive(query, unitID string) {
	if !n.viewport.ScrollTo(unitID) {
		n.viewport.ScrollTop()
		return
	}
	if root, ok := n.viewport.Root(unitID); ok {
		n.highlighter.Apply(root, query)
	}
}

// samePage reports whether pageURL designates the page currently in view,
// either by exact path or by canonical page id.
func (n *Navigator) samePage(pageURL string) bool {
	current := n.viewport.Path()
	if pageURL == current {
		return true
	}
	return core.PageIDFromPath(pageURL) == core.PageIDFromPath(current)
}
