package ingestion

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/extract"
	"github.com/poiesic/pageseek/storage"
)

// Pipeline walks a site root and indexes its HTML pages into the page
// store, extracting and upserting concurrently.
type Pipeline struct {
	pages     storage.PageRepository
	extractor *extract.Extractor
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(pages storage.PageRepository, extractor *extract.Extractor, opts ...Option) (*Pipeline, error) {
	if pages == nil {
		return nil, ErrPageRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		pages:     pages,
		extractor: extractor,
		pool:      pool,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// IndexOptions holds optional parameters for a directory walk.
type IndexOptions struct {
	// SkipUnchanged skips pages whose stored fingerprint matches the
	// file's current content, leaving the stored record untouched.
	SkipUnchanged bool
}

// Report summarizes one directory walk.
type Report struct {
	Indexed int
	Skipped int
	Failed  int
}

// IndexDir walks root for .html and .htm files and indexes each one.
// Per-file failures are counted, logged, and skipped. The walk itself
// failing (root missing, unreadable) is returned.
func (p *Pipeline) IndexDir(ctx context.Context, root string, opts *IndexOptions) (*Report, error) {
	if opts == nil {
		opts = &IndexOptions{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".html" || ext == ".htm" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
	)
	for _, file := range files {
		file := file
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			outcome := p.indexFile(ctx, root, file, opts.SkipUnchanged)
			mu.Lock()
			switch outcome {
			case outcomeIndexed:
				report.Indexed++
			case outcomeSkipped:
				report.Skipped++
			case outcomeFailed:
				report.Failed++
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Failed++
			mu.Unlock()
			p.logger.Error("error submitting page for indexing", "file", file, "err", submitErr)
		}
	}
	wg.Wait()

	p.logger.Info("directory indexed", "root", root,
		"indexed", report.Indexed, "skipped", report.Skipped, "failed", report.Failed)
	return &report, nil
}

type outcome int

const (
	outcomeIndexed outcome = iota
	outcomeSkipped
	outcomeFailed
)

func (p *Pipeline) indexFile(ctx context.Context, root, file string, skipUnchanged bool) outcome {
	pagePath, err := pagePathFor(root, file)
	if err != nil {
		p.logger.Warn("error resolving page path", "file", file, "err", err)
		return outcomeFailed
	}

	data, err := os.ReadFile(file)
	if err != nil {
		p.logger.Warn("error reading page", "file", file, "err", err)
		return outcomeFailed
	}

	if skipUnchanged {
		pageID := core.PageIDFromPath(pagePath)
		stored, err := p.pages.GetPage(ctx, pageID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			p.logger.Warn("error reading stored page", "pageId", pageID, "err", err)
		}
		if stored != nil && stored.Fingerprint == core.FingerprintContent(data) {
			p.logger.Debug("page unchanged, skipping", "pageId", pageID)
			return outcomeSkipped
		}
	}

	record, err := p.extractor.ExtractPage(data, extract.PageInfo{Path: pagePath})
	if err != nil {
		p.logger.Warn("error extracting page", "file", file, "err", err)
		return outcomeFailed
	}

	if err := p.pages.UpsertPage(ctx, record); err != nil {
		p.logger.Warn("error storing page", "pageId", record.PageID, "err", err)
		return outcomeFailed
	}
	return outcomeIndexed
}

// pagePathFor maps a file under root to its URL path, e.g.
// root/blog/post.html -> /blog/post.html.
func pagePathFor(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(rel), nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
