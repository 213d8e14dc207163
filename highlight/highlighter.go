package highlight

import (
	"log/slog"
	"regexp"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerClass is the class attribute placed on the span wrapping each
// matched run of text.
const MarkerClass = "content-highlight"

// DefaultClearDelay is how long marks stay visible before Apply's
// scheduled Clear removes them.
const DefaultClearDelay = 3 * time.Second

// Highlighter wraps query matches in marker spans within an HTML tree.
// Only one pass is active at a time; applying again removes the previous
// marks first. All methods are safe for concurrent use.
type Highlighter struct {
	logger     *slog.Logger
	clearDelay time.Duration

	mu      sync.Mutex
	applied []appliedMark
	timer   *time.Timer
	gen     uint64
}

// appliedMark remembers one replaced text node so Clear can put the
// original text back.
type appliedMark struct {
	wrapper  *html.Node
	original string
}

// Option configures a Highlighter.
type Option func(*Highlighter) error

// WithLogger sets the logger used for non-fatal highlighting problems.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Highlighter) error {
		if logger != nil {
			h.logger = logger
		}
		return nil
	}
}

// WithClearDelay overrides how long marks remain before auto-removal.
func WithClearDelay(d time.Duration) Option {
	return func(h *Highlighter) error {
		if d <= 0 {
			return ErrInvalidClearDelay
		}
		h.clearDelay = d
		return nil
	}
}

// NewHighlighter creates a highlighter with the given options.
func NewHighlighter(opts ...Option) (*Highlighter, error) {
	h := &Highlighter{
		logger:     slog.Default(),
		clearDelay: DefaultClearDelay,
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Apply removes any previous marks, then wraps every occurrence of query
// under root in a marker span. The query is matched case-insensitively and
// always literally. Matching is per text node; a node that cannot be
// processed is left unmodified and the walk continues. Apply schedules its
// own Clear after the configured delay and returns the number of marked
// runs. Failures never propagate to the caller.
func (h *Highlighter) Apply(root *html.Node, query string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clearLocked()
	if root == nil || query == "" {
		return 0
	}

	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		h.logger.Warn("error compiling highlight pattern", "query", query, "err", err)
		return 0
	}

	// Collect first so node surgery does not disturb the walk.
	var textNodes []*html.Node
	walkText(root, func(n *html.Node) {
		textNodes = append(textNodes, n)
	})

	count := 0
	for _, tn := range textNodes {
		marked, err := h.markNode(tn, pattern)
		if err != nil {
			h.logger.Warn("error highlighting text node", "err", err)
			continue
		}
		count += marked
	}

	if count > 0 {
		h.gen++
		gen := h.gen
		h.timer = time.AfterFunc(h.clearDelay, func() { h.clearExpired(gen) })
	}
	return count
}

// Clear removes all active marks, restoring the original text nodes and
// cancelling any pending auto-removal. Adjacent text is merged back into a
// single node, so a Clear after Apply leaves the subtree's text content
// byte-for-byte as it was.
func (h *Highlighter) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.gen++
	h.clearLocked()
}

// Close clears marks and stops the removal timer.
func (h *Highlighter) Close() {
	h.Clear()
}

// clearExpired is the timer callback. The generation check keeps a stale
// timer from wiping marks applied after it was scheduled.
func (h *Highlighter) clearExpired(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen != gen {
		return
	}
	h.clearLocked()
}

func (h *Highlighter) clearLocked() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	for _, m := range h.applied {
		if m.wrapper.Parent == nil {
			continue
		}
		replaceNode(m.wrapper, newTextNode(m.original))
	}
	h.applied = nil
}

// markNode replaces one matching text node with a wrapper span holding the
// text split around matches, each matched run inside a marker span.
func (h *Highlighter) markNode(tn *html.Node, pattern *regexp.Regexp) (int, error) {
	if tn.Parent == nil {
		return 0, ErrDetachedNode
	}
	runs := pattern.FindAllStringIndex(tn.Data, -1)
	if len(runs) == 0 {
		return 0, nil
	}

	wrapper := newSpan("")
	last := 0
	for _, run := range runs {
		if run[0] > last {
			wrapper.AppendChild(newTextNode(tn.Data[last:run[0]]))
		}
		marker := newSpan(MarkerClass)
		marker.AppendChild(newTextNode(tn.Data[run[0]:run[1]]))
		wrapper.AppendChild(marker)
		last = run[1]
	}
	if last < len(tn.Data) {
		wrapper.AppendChild(newTextNode(tn.Data[last:]))
	}

	original := tn.Data
	replaceNode(tn, wrapper)
	h.applied = append(h.applied, appliedMark{wrapper: wrapper, original: original})
	return len(runs), nil
}

// walkText visits every text leaf under root in document order.
func walkText(root *html.Node, visit func(*html.Node)) {
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode {
			visit(n)
			continue
		}
		walkText(n, visit)
	}
}

func newTextNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

func newSpan(class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
	}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func replaceNode(old, replacement *html.Node) {
	parent := old.Parent
	parent.InsertBefore(replacement, old)
	parent.RemoveChild(old)
}
