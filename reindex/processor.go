package reindex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/extract"
	"github.com/poiesic/pageseek/storage"
)

// BatchProcessor re-extracts batches of stored pages from their source
// files under the site root.
type BatchProcessor struct {
	pages          storage.PageRepository
	extractor      *extract.Extractor
	root           string
	maxRetries     int
	retryBaseDelay time.Duration

	// refreshed and dropped accumulate across Process calls.
	refreshed int
	dropped   int
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for file reads
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(pages storage.PageRepository, extractor *extract.Extractor, root string, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		pages:          pages,
		extractor:      extractor,
		root:           root,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-extracts a batch of pages and updates them in the store.
// A page whose source file no longer exists is deleted from the store.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.PageRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		file := bp.sourceFile(record)

		var (
			data    []byte
			missing bool
		)
		err := RetryWithBackoff(ctx, func() error {
			var readErr error
			data, readErr = os.ReadFile(file)
			if errors.Is(readErr, fs.ErrNotExist) {
				// Not transient, stop retrying.
				missing = true
				return nil
			}
			return readErr
		}, bp.maxRetries, bp.retryBaseDelay)
		if err != nil {
			return fmt.Errorf("failed to read %s after %d attempts: %w", file, bp.maxRetries, err)
		}

		if missing {
			if err := bp.pages.DeletePage(ctx, record.PageID); err != nil {
				return fmt.Errorf("failed to drop page %s: %w", record.PageID, err)
			}
			bp.dropped++
			continue
		}

		fresh, err := bp.extractor.ExtractPage(data, extract.PageInfo{Path: record.URL})
		if err != nil {
			return fmt.Errorf("failed to re-extract page %s: %w", record.PageID, err)
		}

		if err := bp.pages.UpsertPage(ctx, fresh); err != nil {
			return fmt.Errorf("failed to update page %s: %w", record.PageID, err)
		}
		bp.refreshed++
	}

	return nil
}

// Refreshed returns how many pages have been re-extracted so far.
func (bp *BatchProcessor) Refreshed() int { return bp.refreshed }

// Dropped returns how many pages have been dropped so far.
func (bp *BatchProcessor) Dropped() int { return bp.dropped }

func (bp *BatchProcessor) sourceFile(record *core.PageRecord) string {
	rel := strings.TrimPrefix(record.URL, "/")
	if rel == "" {
		rel = "index.html"
	}
	return filepath.Join(bp.root, filepath.FromSlash(rel))
}
