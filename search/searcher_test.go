package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/storage"
	"github.com/poiesic/pageseek/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.PageRepository {
	t.Helper()
	pageRepo, _, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		pageRepo.Close()
		backend.Close()
	})
	return pageRepo
}

func addPage(t *testing.T, repo storage.PageRepository, pageID, url string, units ...core.ContentUnit) {
	t.Helper()
	err := repo.UpsertPage(context.Background(), &core.PageRecord{
		PageID:    pageID,
		Title:     "Page " + pageID,
		URL:       url,
		Units:     units,
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func unit(id, title, fullText string) core.ContentUnit {
	return core.NewContentUnit(id, title, fullText, "Some Page", "/some.html")
}

func TestNewSearcher(t *testing.T) {
	repo := newTestStore(t)

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrPageRepositoryRequired, err)
	})

	t.Run("invalid max results", func(t *testing.T) {
		_, err := NewSearcher(repo, WithMaxResults(0))
		assert.Equal(t, ErrInvalidMaxResults, err)
	})
}

func TestSearch_EmptyQuery(t *testing.T) {
	repo := newTestStore(t)
	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "", "home")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_RelevanceWeights(t *testing.T) {
	repo := newTestStore(t)
	addPage(t, repo, "-guides-rust", "/guides/rust.html",
		core.ContentUnit{
			ID:        "rust-guide",
			Title:     "Rust Guide",
			Preview:   "intro to systems",
			FullText:  "intro to systems... rust is great",
			PageTitle: "Rust Guide",
			PageURL:   "/guides/rust.html",
		})

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	ctx := context.Background()

	// Title (+3) and full text (+1) contain the query; the preview, a
	// prefix of the full text, does not.
	matches, err := searcher.Search(ctx, "rust", "home")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].Relevance)
	assert.False(t, matches[0].IsCurrentPage)

	// Same unit on the currently viewed page gains the bonus.
	matches, err = searcher.Search(ctx, "rust", "-guides-rust")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 5, matches[0].Relevance)
	assert.True(t, matches[0].IsCurrentPage)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	repo := newTestStore(t)
	addPage(t, repo, "home", "/",
		unit("intro", "Getting Started", "THE QUICK Setup Instructions for the project"))

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), NormalizeQuery("  QUICK "), "other")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestSearch_ZeroRelevanceExcluded(t *testing.T) {
	repo := newTestStore(t)
	addPage(t, repo, "home", "/",
		unit("intro", "Getting Started", "setup instructions for the project"),
		unit("other", "Unrelated", "nothing relevant in here at all"))

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), "setup", "home")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "intro", matches[0].UnitID)
}

func TestSearch_LiteralMetacharacters(t *testing.T) {
	repo := newTestStore(t)
	addPage(t, repo, "-langs", "/langs.html",
		unit("cpp", "C++ Notes", "working with c++ templates and generics"),
		// "c" repeated would match the pattern /c++/ but not the literal string.
		unit("c", "C Notes", "plain c has no such feature"))

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), NormalizeQuery("c++"), "home")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "cpp", matches[0].UnitID)
}

func TestSearch_ResultCap(t *testing.T) {
	repo := newTestStore(t)

	units := make([]core.ContentUnit, 0, 30)
	for i := 0; i < 30; i++ {
		units = append(units, unit(
			fmt.Sprintf("section-%d", i),
			fmt.Sprintf("Widget Section %d", i),
			fmt.Sprintf("all about widgets, part %d of the series", i)))
	}
	addPage(t, repo, "-widgets", "/widgets.html", units...)

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), "widget", "home")
	require.NoError(t, err)
	assert.Len(t, matches, DefaultMaxResults)
}

func TestSearch_CustomCap(t *testing.T) {
	repo := newTestStore(t)
	addPage(t, repo, "home", "/",
		unit("a", "Widget A", "widget text one"),
		unit("b", "Widget B", "widget text two"),
		unit("c", "Widget C", "widget text three"))

	searcher, err := NewSearcher(repo, WithMaxResults(2))
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), "widget", "other")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestSearch_StableTieOrder(t *testing.T) {
	repo := newTestStore(t)

	// Three units with identical relevance, spread over two pages inserted
	// in a known order. Ties must keep store encounter order.
	addPage(t, repo, "-first", "/first.html",
		unit("f1", "Alpha", "shared keyword appears here"),
		unit("f2", "Beta", "shared keyword appears here too"))
	addPage(t, repo, "-second", "/second.html",
		unit("s1", "Gamma", "shared keyword appears here as well"))

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), "keyword", "other")
	require.NoError(t, err)
	require.Len(t, matches, 3)

	ids := []string{matches[0].UnitID, matches[1].UnitID, matches[2].UnitID}
	assert.Equal(t, []string{"f1", "f2", "s1"}, ids)
}

func TestSearch_CurrentPageRanksFirstOnTie(t *testing.T) {
	repo := newTestStore(t)
	addPage(t, repo, "-far", "/far.html",
		unit("far-unit", "Topic", "material about gardening basics"))
	addPage(t, repo, "-near", "/near.html",
		unit("near-unit", "Topic", "material about gardening basics"))

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), "gardening", "-near")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "near-unit", matches[0].UnitID)
	assert.True(t, matches[0].IsCurrentPage)
	assert.Equal(t, "far-unit", matches[1].UnitID)
}

func TestSearch_EmptyStore(t *testing.T) {
	repo := newTestStore(t)
	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	matches, err := searcher.Search(context.Background(), "anything", "home")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// recordingMonitor captures monitor callbacks for assertions.
type recordingMonitor struct {
	started string
	pages   []string
	matched int
	results []*core.Match
}

func (m *recordingMonitor) Start(query string)          { m.started = query }
func (m *recordingMonitor) PageScanned(id string, _ int) { m.pages = append(m.pages, id) }
func (m *recordingMonitor) UnitMatched(_ *core.Match)   { m.matched++ }
func (m *recordingMonitor) Finish(results []*core.Match) { m.results = results }

func TestSearchWithMonitor(t *testing.T) {
	repo := newTestStore(t)
	addPage(t, repo, "home", "/",
		unit("intro", "Welcome", "welcome to the home page of this site"))
	addPage(t, repo, "-about", "/about.html",
		unit("bio", "About", "nothing matching in this one"))

	searcher, err := NewSearcher(repo)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	matches, err := searcher.SearchWithMonitor(context.Background(), "welcome", "home", monitor)
	require.NoError(t, err)

	assert.Equal(t, "welcome", monitor.started)
	assert.Equal(t, []string{"home", "-about"}, monitor.pages)
	assert.Equal(t, 1, monitor.matched)
	assert.Equal(t, matches, monitor.results)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "rust", NormalizeQuery("  RuSt \n"))
	assert.Equal(t, "", NormalizeQuery("   "))
	assert.Equal(t, "c++", NormalizeQuery("C++"))
}
