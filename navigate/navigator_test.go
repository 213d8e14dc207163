package navigate

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/pageseek/highlight"
	"github.com/poiesic/pageseek/storage"
	"github.com/poiesic/pageseek/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// fakeViewport records viewport calls against a parsed page.
type fakeViewport struct {
	mu        sync.Mutex
	path      string
	doc       *goquery.Document
	scrolledTo []string
	topScrolls int
	navigated  []string
}

func newFakeViewport(t *testing.T, path, body string) *fakeViewport {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<html><body>" + body + "</body></html>"))
	require.NoError(t, err)
	return &fakeViewport{path: path, doc: doc}
}

func (v *fakeViewport) Path() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.path
}

func (v *fakeViewport) ScrollTo(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.doc.Find("#"+id).Length() == 0 {
		return false
	}
	v.scrolledTo = append(v.scrolledTo, id)
	return true
}

func (v *fakeViewport) ScrollTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topScrolls++
}

func (v *fakeViewport) Navigate(url string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.navigated = append(v.navigated, url)
}

func (v *fakeViewport) Root(id string) (*html.Node, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	sel := v.doc.Find("#" + id)
	if sel.Length() == 0 {
		return nil, false
	}
	return sel.Nodes[0], true
}

func (v *fakeViewport) markCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc.Find("span." + highlight.MarkerClass).Length()
}

func newTestNavigator(t *testing.T, viewport Viewport, opts ...Option) (*Navigator, storage.SessionRepository) {
	t.Helper()
	_, sessions, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	highlighter, err := highlight.NewHighlighter()
	require.NoError(t, err)
	t.Cleanup(highlighter.Close)

	nav, err := NewNavigator(viewport, sessions, highlighter, opts...)
	require.NoError(t, err)
	t.Cleanup(nav.Close)
	return nav, sessions
}

func TestNewNavigator_Validation(t *testing.T) {
	viewport := newFakeViewport(t, "/", "")
	_, sessions, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()
	highlighter, err := highlight.NewHighlighter()
	require.NoError(t, err)
	defer highlighter.Close()

	_, err = NewNavigator(nil, sessions, highlighter)
	assert.Equal(t, ErrViewportRequired, err)

	_, err = NewNavigator(viewport, nil, highlighter)
	assert.Equal(t, ErrSessionRepositoryRequired, err)

	_, err = NewNavigator(viewport, sessions, nil)
	assert.Equal(t, ErrHighlighterRequired, err)

	_, err = NewNavigator(viewport, sessions, highlighter, WithSettleDelay(-time.Second))
	assert.Equal(t, ErrInvalidSettleDelay, err)
}

func TestResolve_SamePageScrollsAndHighlights(t *testing.T) {
	viewport := newFakeViewport(t, "/guide.html",
		"<div id=\"-guide-intro\"><p>all about widgets</p></div>")
	nav, sessions := newTestNavigator(t, viewport)

	action, err := nav.Resolve(context.Background(), "-guide-intro", "/guide.html", "widgets")
	require.NoError(t, err)
	assert.Equal(t, ActionScroll, action)
	assert.Equal(t, []string{"-guide-intro"}, viewport.scrolledTo)
	assert.Equal(t, 1, viewport.markCount())
	assert.Empty(t, viewport.navigated)

	// No pending pair is written on a same-page resolution.
	_, _, ok, err := sessions.TakePending(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolve_SamePageByCanonicalID(t *testing.T) {
	// Different spellings of the same page resolve locally.
	viewport := newFakeViewport(t, "/guide.html",
		"<div id=\"-guide-intro\"><p>text</p></div>")
	nav, _ := newTestNavigator(t, viewport)

	action, err := nav.Resolve(context.Background(), "-guide-intro", "/guide", "text")
	require.NoError(t, err)
	assert.Equal(t, ActionScroll, action)
	assert.Empty(t, viewport.navigated)
}

func TestResolve_MissingTargetScrollsTop(t *testing.T) {
	viewport := newFakeViewport(t, "/guide.html", "<p>no sections</p>")
	nav, _ := newTestNavigator(t, viewport)

	action, err := nav.Resolve(context.Background(), "gone", "/guide.html", "anything")
	require.NoError(t, err)
	assert.Equal(t, ActionScrollTop, action)
	assert.Equal(t, 1, viewport.topScrolls)
	assert.Equal(t, 0, viewport.markCount())
}

func TestResolve_CrossPageStoresPendingAndNavigates(t *testing.T) {
	viewport := newFakeViewport(t, "/index.html", "<p>elsewhere</p>")
	nav, sessions := newTestNavigator(t, viewport)

	action, err := nav.Resolve(context.Background(), "-blog-post-main", "/blog/post.html", "rust")
	require.NoError(t, err)
	assert.Equal(t, ActionNavigate, action)
	assert.Equal(t, []string{"/blog/post.html#-blog-post-main"}, viewport.navigated)
	assert.Equal(t, 0, viewport.markCount())

	query, unitID, ok, err := sessions.TakePending(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "rust", query)
	assert.Equal(t, "-blog-post-main", unitID)
}

func TestResolve_CrossPageWithoutUnitIDOmitsFragment(t *testing.T) {
	viewport := newFakeViewport(t, "/index.html", "<p>elsewhere</p>")
	nav, _ := newTestNavigator(t, viewport)

	action, err := nav.Resolve(context.Background(), "", "/blog/post.html", "rust")
	require.NoError(t, err)
	assert.Equal(t, ActionNavigate, action)
	assert.Equal(t, []string{"/blog/post.html"}, viewport.navigated)
}

func TestOnPageLoad_CompletesPendingHighlight(t *testing.T) {
	viewport := newFakeViewport(t, "/blog/post.html",
		"<div id=\"-blog-post-main\"><p>rust content here</p></div>")
	nav, sessions := newTestNavigator(t, viewport, WithSettleDelay(10*time.Millisecond))

	ctx := context.Background()
	require.NoError(t, sessions.SetPending(ctx, "rust", "-blog-post-main"))
	require.NoError(t, nav.OnPageLoad(ctx))

	assert.Eventually(t, func() bool {
		return viewport.markCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"-blog-post-main"}, viewport.scrolledTo)

	// The pair was consumed on load and never replays.
	_, _, ok, err := sessions.TakePending(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOnPageLoad_NothingPending(t *testing.T) {
	viewport := newFakeViewport(t, "/", "<p>home</p>")
	nav, _ := newTestNavigator(t, viewport, WithSettleDelay(time.Millisecond))

	require.NoError(t, nav.OnPageLoad(context.Background()))
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, viewport.scrolledTo)
	assert.Zero(t, viewport.topScrolls)
}

func TestOnPageLoad_MissingTargetScrollsTop(t *testing.T) {
	viewport := newFakeViewport(t, "/blog/post.html", "<p>restructured page</p>")
	nav, sessions := newTestNavigator(t, viewport, WithSettleDelay(time.Millisecond))

	ctx := context.Background()
	require.NoError(t, sessions.SetPending(ctx, "rust", "stale-unit"))
	require.NoError(t, nav.OnPageLoad(ctx))

	assert.Eventually(t, func() bool {
		viewport.mu.Lock()
		defer viewport.mu.Unlock()
		return viewport.topScrolls == 1
	}, time.Second, 5*time.Millisecond)
}

func TestClose_CancelsArrival(t *testing.T) {
	viewport := newFakeViewport(t, "/blog/post.html",
		"<div id=\"-blog-post-main\"><p>content</p></div>")
	nav, sessions := newTestNavigator(t, viewport, WithSettleDelay(50*time.Millisecond))

	ctx := context.Background()
	require.NoError(t, sessions.SetPending(ctx, "rust", "-blog-post-main"))
	require.NoError(t, nav.OnPageLoad(ctx))
	nav.Close()

	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, viewport.scrolledTo)
}

func TestDiscardPending_DropsStoredPair(t *testing.T) {
	viewport := newFakeViewport(t, "/index.html", "<p>home</p>")
	nav, sessions := newTestNavigator(t, viewport)

	ctx := context.Background()
	require.NoError(t, sessions.SetPending(ctx, "rust", "-blog-post-main"))
	require.NoError(t, nav.DiscardPending(ctx))

	_, _, ok, err := sessions.TakePending(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "scroll", ActionScroll.String())
	assert.Equal(t, "scroll-top", ActionScrollTop.String())
	assert.Equal(t, "navigate", ActionNavigate.String())
}
