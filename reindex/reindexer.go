package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/extract"
	"github.com/poiesic/pageseek/storage"
)

// Config holds configuration for a reindexing run.
type Config struct {
	// BatchSize is the number of pages to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of pages)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for file reads
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      25,
		ReportInterval: 25,
		MaxRetries:     3,
		RetryDelay:     100 * time.Millisecond,
	}
}

// Reindexer rebuilds every stored page record from its source file.
type Reindexer struct {
	pages     storage.PageRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *PageIterator
}

// NewReindexer creates a new reindexer over the given store, extractor
// and site root.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(pages storage.PageRepository, extractor *extract.Extractor, root string, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		pages:     pages,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(pages, extractor, root, config.MaxRetries, config.RetryDelay),
		iterator:  NewPageIterator(pages, config.BatchSize),
	}
}

// Run executes the reindexing operation. Every stored page is re-read
// from the site root and re-extracted; pages whose source is gone are
// dropped. Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	count, err := r.pages.PageCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pages: %w", err)
	}
	if count == 0 {
		fmt.Fprintf(r.progress, "No pages found in store (0 pages)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d pages (batch size: %d)\n",
		count, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, count, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(records []*core.PageRecord) error {
		if err := r.processor.Process(ctx, records); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(records)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Refreshed %d pages, dropped %d, in %v (%.1f pages/sec)\n",
		r.processor.Refreshed(), r.processor.Dropped(),
		elapsed.Round(time.Second), float64(count)/elapsed.Seconds())

	return nil
}
