package reindex

import (
	"context"

	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/storage"
)

const (
	// DefaultBatchSize is the default number of pages processed per batch
	DefaultBatchSize = 25
)

// PageIterator iterates over all stored page records in batches.
type PageIterator struct {
	repo      storage.PageRepository
	batchSize int
}

// NewPageIterator creates a new page iterator.
// batchSize: number of pages per batch (must be > 0)
func NewPageIterator(repo storage.PageRepository, batchSize int) *PageIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &PageIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all stored pages in insertion order, calling fn
// for each batch. Iteration stops on first error from fn; context
// cancellation is checked between batches.
func (it *PageIterator) ForEach(ctx context.Context, fn func([]*core.PageRecord) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	records, err := it.repo.AllPages(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	for i := 0; i < len(records); i += it.batchSize {
		end := i + it.batchSize
		if end > len(records) {
			end = len(records)
		}

		if err := fn(records[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
