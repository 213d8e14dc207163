package extract

import (
	"strings"
	"testing"

	"github.com/poiesic/pageseek/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogPage = `<!DOCTYPE html>
<html>
<head><title>My Blog</title></head>
<body>
  <nav>Home | About | Contact</nav>
  <article id="getting-started">
    <h2>Getting Started</h2>
    <p>This introduction covers everything you need to set up the project from scratch.</p>
  </article>
  <article>
    <h3>Advanced Topics</h3>
    <p>Deeper material on tuning, deployment and operational concerns for production use.</p>
  </article>
  <article>
    <p>Too short.</p>
  </article>
  <footer>Copyright 2025</footer>
</body>
</html>`

func TestExtract_Sections(t *testing.T) {
	e := NewExtractor()

	units, err := e.Extract(strings.NewReader(blogPage), PageInfo{Path: "/blog/post.html"})
	require.NoError(t, err)
	require.Len(t, units, 2)

	first := units[0]
	assert.Equal(t, "getting-started", first.ID)
	assert.Equal(t, "Getting Started", first.Title)
	assert.Contains(t, first.FullText, "set up the project")
	assert.Equal(t, "My Blog", first.PageTitle)
	assert.Equal(t, "/blog/post.html", first.PageURL)

	// Second article has no id attribute: the synthesized fallback carries
	// the page identifier and the element's index among matched sections.
	second := units[1]
	assert.Equal(t, "-blog-post-section-1", second.ID)
	assert.Equal(t, "Advanced Topics", second.Title)
}

func TestExtract_PreviewIsTruncatedPrefix(t *testing.T) {
	long := strings.Repeat("searchable content words ", 60)
	page := `<html><body><main id="m">` + long + `</main></body></html>`

	e := NewExtractor()
	units, err := e.Extract(strings.NewReader(page), PageInfo{Path: "/long.html", Title: "Long"})
	require.NoError(t, err)
	require.Len(t, units, 1)

	unit := units[0]
	assert.True(t, strings.HasPrefix(unit.FullText, unit.Preview))
	assert.Len(t, []rune(unit.Preview), core.PreviewLimit)
	assert.Greater(t, len(unit.FullText), len(unit.Preview))
}

func TestExtract_MissingHeadingGetsFallbackTitle(t *testing.T) {
	page := `<html><body>
	  <article>A section without any heading but with more than enough text to index.</article>
	</body></html>`

	e := NewExtractor()
	units, err := e.Extract(strings.NewReader(page), PageInfo{Path: "/notes", Title: "Notes"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Section 1", units[0].Title)
}

func TestExtract_BodyFallback(t *testing.T) {
	page := `<html><head><title>Plain</title></head><body>
	  <p>No content containers here, just a paragraph that is comfortably longer than fifty characters.</p>
	</body></html>`

	e := NewExtractor()
	units, err := e.Extract(strings.NewReader(page), PageInfo{Path: "/plain.html"})
	require.NoError(t, err)
	require.Len(t, units, 1)

	unit := units[0]
	assert.Equal(t, "-plain-main", unit.ID)
	assert.Equal(t, "Plain", unit.Title)
	assert.Contains(t, unit.FullText, "No content containers")
}

func TestExtract_BodyFallback_TooShort(t *testing.T) {
	page := `<html><body><p>Tiny page.</p></body></html>`

	e := NewExtractor()
	units, err := e.Extract(strings.NewReader(page), PageInfo{Path: "/tiny.html"})
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestExtract_AllSectionsFiltered(t *testing.T) {
	// Matched containers exist but hold no substantial text; the body
	// fallback does not apply in that case.
	page := `<html><body><article>Short.</article></body></html>`

	e := NewExtractor()
	units, err := e.Extract(strings.NewReader(page), PageInfo{Path: "/short.html"})
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestExtract_TitleTruncated(t *testing.T) {
	longHeading := strings.Repeat("word ", 40)
	page := `<html><body><article><h1>` + longHeading + `</h1>
	  Plenty of section text to pass the minimum length filter easily.
	</article></body></html>`

	e := NewExtractor()
	units, err := e.Extract(strings.NewReader(page), PageInfo{Path: "/t.html", Title: "T"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.LessOrEqual(t, len([]rune(units[0].Title)), core.TitleLimit)
}

func TestExtract_RoleMain(t *testing.T) {
	page := `<html><body>
	  <div role="main" id="content">A primary region marked by role rather than element name, with enough text.</div>
	</body></html>`

	e := NewExtractor()
	units, err := e.Extract(strings.NewReader(page), PageInfo{Path: "/r.html", Title: "R"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "content", units[0].ID)
}
