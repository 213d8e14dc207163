// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pageseek

import (
	"io"
	"log/slog"

	"github.com/poiesic/pageseek/extract"
	"github.com/poiesic/pageseek/highlight"
	"github.com/poiesic/pageseek/ingestion"
	"github.com/poiesic/pageseek/navigate"
	"github.com/poiesic/pageseek/overlay"
	"github.com/poiesic/pageseek/reindex"
	"github.com/poiesic/pageseek/search"
	"github.com/poiesic/pageseek/storage"
	"github.com/poiesic/pageseek/storage/badger"
)

// Index is the entry point to a page search index: it owns the store and
// hands out the components built on top of it.
type Index struct {
	backend   *badger.Backend
	pages     storage.PageRepository
	sessions  storage.SessionRepository
	extractor *extract.Extractor
	logger    *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*indexOptions)

type indexOptions struct {
	pageCap  int
	inMemory bool
}

// WithPageCap overrides the maximum number of stored pages.
// Default is badger.DefaultPageCap.
func WithPageCap(cap int) IndexOption {
	return func(o *indexOptions) {
		o.pageCap = cap
	}
}

// WithInMemory keeps the whole index in memory, nothing on disk.
func WithInMemory() IndexOption {
	return func(o *indexOptions) {
		o.inMemory = true
	}
}

// Open opens (or creates) the index at filePath.
func Open(filePath string, opts ...IndexOption) (*Index, error) {
	options := &indexOptions{
		pageCap: badger.DefaultPageCap,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	pages, err := badger.NewPageRepository(backend, badger.WithPageCap(options.pageCap))
	if err != nil {
		backend.Close()
		return nil, err
	}

	sessions := badger.NewSessionRepository(backend)

	return &Index{
		backend:   backend,
		pages:     pages,
		sessions:  sessions,
		extractor: extract.NewExtractor(),
		logger:    slog.Default(),
	}, nil
}

// Close closes the repositories and the underlying store.
func (ix *Index) Close() error {
	if err := ix.pages.Close(); err != nil {
		ix.logger.Error("error closing page repository", "err", err)
		return err
	}
	if err := ix.backend.Close(); err != nil {
		ix.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Pages returns the page repository.
func (ix *Index) Pages() storage.PageRepository {
	return ix.pages
}

// Sessions returns the session repository.
func (ix *Index) Sessions() storage.SessionRepository {
	return ix.sessions
}

// Extractor returns the HTML extractor used by the pipelines.
func (ix *Index) Extractor() *extract.Extractor {
	return ix.extractor
}

// NewSearcher builds a searcher over the stored pages.
func (ix *Index) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(ix.pages, opts...)
}

// NewIngestionPipeline builds a pipeline indexing site directories into
// the store.
func (ix *Index) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(ix.pages, ix.extractor, opts...)
}

// NewNavigator builds a navigator over the given viewport.
func (ix *Index) NewNavigator(viewport navigate.Viewport, highlighter *highlight.Highlighter, opts ...navigate.Option) (*navigate.Navigator, error) {
	return navigate.NewNavigator(viewport, ix.sessions, highlighter, opts...)
}

// NewReindexer builds a reindexer that rebuilds every stored page from
// the site root.
func (ix *Index) NewReindexer(root string, config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(ix.pages, ix.extractor, root, config, progress)
}

// NewOverlay wires a full overlay controller: highlighter, navigator and
// searcher over the given viewport.
func (ix *Index) NewOverlay(viewport navigate.Viewport, opts ...overlay.Option) (*overlay.Controller, error) {
	highlighter, err := highlight.NewHighlighter()
	if err != nil {
		return nil, err
	}

	navigator, err := ix.NewNavigator(viewport, highlighter)
	if err != nil {
		return nil, err
	}

	searcher, err := ix.NewSearcher()
	if err != nil {
		navigator.Close()
		return nil, err
	}

	return overlay.NewController(searcher, navigator, highlighter, viewport, opts...)
}
