package pageseek

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/overlay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageRecord(id string) *core.PageRecord {
	return &core.PageRecord{PageID: id, Title: id, URL: "/" + id + ".html"}
}

func TestOpen(t *testing.T) {
	t.Run("create new index", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "test_index")
		ix, err := Open(dir)
		require.NoError(t, err)
		require.NotNil(t, ix)
		defer ix.Close()

		assert.NotNil(t, ix.Pages())
		assert.NotNil(t, ix.Sessions())
		assert.NotNil(t, ix.Extractor())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		_, err := Open(tmpFile)
		assert.Error(t, err)
	})

	t.Run("in memory", func(t *testing.T) {
		ix, err := Open("", WithInMemory())
		require.NoError(t, err)
		assert.NoError(t, ix.Close())
	})
}

func TestIndex_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile := func(rel, title, body string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		content := fmt.Sprintf(`<html><head><title>%s</title></head><body>
<article id="%s"><h2>%s</h2><p>%s</p></article></body></html>`,
			title, title+"-section", title, body)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	writeFile("index.html", "Home", "welcome to the widget documentation site")
	writeFile("guide.html", "Guide", "a full walkthrough of widget assembly and care")

	ix, err := Open("", WithInMemory())
	require.NoError(t, err)
	defer ix.Close()

	ctx := context.Background()

	pipeline, err := ix.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	report, err := pipeline.IndexDir(ctx, root, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)

	searcher, err := ix.NewSearcher()
	require.NoError(t, err)

	matches, err := searcher.Search(ctx, "widget", "home")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	viewport, err := overlay.NewSiteViewport(root, "/index.html")
	require.NoError(t, err)

	controller, err := ix.NewOverlay(viewport)
	require.NoError(t, err)
	defer controller.Close()

	results, noQuery, err := controller.QueryChanged(ctx, "widget")
	require.NoError(t, err)
	assert.False(t, noQuery)
	assert.Len(t, results, 2)
}

func TestIndex_WithPageCap(t *testing.T) {
	ix, err := Open("", WithInMemory(), WithPageCap(2))
	require.NoError(t, err)
	defer ix.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, ix.Pages().UpsertPage(ctx, pageRecord(fmt.Sprintf("page-%d", i))))
	}

	count, err := ix.Pages().PageCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
