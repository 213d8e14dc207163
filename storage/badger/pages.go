package badger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pageseek/core"
	"github.com/poiesic/pageseek/storage"
)

// DefaultPageCap is the maximum number of page records retained before the
// oldest are evicted.
const DefaultPageCap = 50

// PageRepository implements storage.PageRepository for BadgerDB.
type PageRepository struct {
	backend  *Backend
	orderSeq *badger.Sequence
	cap      int
	logger   *slog.Logger
}

var _ storage.PageRepository = (*PageRepository)(nil)

// Option configures a PageRepository.
type Option func(*PageRepository)

// WithPageCap sets the retention cap. Values below 1 fall back to
// DefaultPageCap.
func WithPageCap(cap int) Option {
	return func(r *PageRepository) {
		if cap < 1 {
			cap = DefaultPageCap
		}
		r.cap = cap
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *PageRepository) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewPageRepository creates a new PageRepository.
func NewPageRepository(backend *Backend, opts ...Option) (*PageRepository, error) {
	orderSeq, err := backend.GetSequence(pageOrderSeq)
	if err != nil {
		return nil, err
	}

	r := &PageRepository{
		backend:  backend,
		orderSeq: orderSeq,
		cap:      DefaultPageCap,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the insertion-order sequence.
func (r *PageRepository) Close() error {
	return r.orderSeq.Release()
}

// UpsertPage fully replaces the record stored under record.PageID.
// Persistence failures never surface: a capacity failure clears the store
// and retries with only the current record; anything else is logged and
// swallowed so that a failed write degrades search instead of breaking
// the page load that triggered it.
func (r *PageRepository) UpsertPage(ctx context.Context, record *core.PageRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if err := core.ValidatePageRecord(record); err != nil {
		return err
	}

	err := r.putRecord(record)
	if err == nil {
		if evictErr := r.evictOverCap(ctx); evictErr != nil {
			r.logger.Error("error evicting over-cap pages", "err", evictErr)
		}
		return nil
	}

	if !isCapacityError(err) {
		r.logger.Error("error persisting page record", "pageId", record.PageID, "err", err)
		return nil
	}

	r.degradeToCurrent(record)
	return nil
}

// degradeToCurrent clears all page data and retries the write once with
// only the current record. Session keys are left untouched.
func (r *PageRepository) degradeToCurrent(record *core.PageRecord) {
	r.logger.Warn("store capacity exhausted, keeping current page only", "pageId", record.PageID)
	if dropErr := r.backend.DropPrefixes(
		[]byte(pageRecordPrefix),
		[]byte(pageOrderPrefix),
		[]byte(pageOrderRevIndex),
	); dropErr != nil {
		r.logger.Error("error clearing page store", "err", dropErr)
		return
	}
	if retryErr := r.putRecord(record); retryErr != nil {
		r.logger.Error("error persisting page record after degradation", "pageId", record.PageID, "err", retryErr)
	}
}

// putRecord writes the record and, on first insert, its insertion-order
// index entries. Overwrites keep the original order position.
func (r *PageRepository) putRecord(record *core.PageRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		revKey := makePageOrderRevKey(record.PageID)
		if _, err := tx.Get(revKey); err != nil {
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			seq, seqErr := r.orderSeq.Next()
			if seqErr != nil {
				return seqErr
			}
			if setErr := tx.Set(revKey, encodeSeq(seq)); setErr != nil {
				return setErr
			}
			if setErr := tx.Set(makePageOrderKey(seq), []byte(record.PageID)); setErr != nil {
				return setErr
			}
		}

		key := makePageRecordKey(record.PageID)
		value := storage.MarshalPageRecord(record)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// evictOverCap removes the oldest records by timestamp until the store is
// within its cap again.
func (r *PageRepository) evictOverCap(ctx context.Context) error {
	type stamped struct {
		pageID    string
		timestamp time.Time
	}

	var pages []stamped
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pageRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.PageRecord
			err := item.Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalPageRecord(val)
				return unmarshalErr
			})
			if err != nil {
				// Corrupt records carry a zero timestamp so they evict first.
				pages = append(pages, stamped{pageID: pageIDFromRecordKey(item.KeyCopy(nil))})
				continue
			}
			pages = append(pages, stamped{pageID: record.PageID, timestamp: record.Timestamp})
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	if len(pages) <= r.cap {
		return nil
	}

	// Oldest first
	slices.SortFunc(pages, func(a, b stamped) int {
		return a.timestamp.Compare(b.timestamp)
	})

	for _, page := range pages[:len(pages)-r.cap] {
		if delErr := r.DeletePage(ctx, page.pageID); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			return delErr
		}
		r.logger.Debug("evicted page record", "pageId", page.pageID)
	}
	return nil
}

// GetPage retrieves the record for a page identifier.
// A record that fails to deserialize is reported as absent.
func (r *PageRepository) GetPage(ctx context.Context, pageID string) (*core.PageRecord, error) {
	var record *core.PageRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePageRecordKey(pageID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalPageRecord(val)
			if unmarshalErr != nil {
				r.logger.Warn("treating corrupt page record as absent", "pageId", pageID, "err", unmarshalErr)
				record = nil
				return storage.ErrNotFound
			}
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// AllPages returns every stored record in first-insert order.
func (r *PageRepository) AllPages(ctx context.Context) ([]*core.PageRecord, error) {
	var records []*core.PageRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pageOrderPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var pageID string
			if err := iter.Item().Value(func(val []byte) error {
				pageID = string(val)
				return nil
			}); err != nil {
				return err
			}

			item, err := tx.Get(makePageRecordKey(pageID))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue // dangling index entry
				}
				return err
			}

			var record *core.PageRecord
			if err := item.Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalPageRecord(val)
				return unmarshalErr
			}); err != nil {
				r.logger.Warn("skipping corrupt page record", "pageId", pageID, "err", err)
				continue
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// PageCount returns the number of stored records.
func (r *PageRepository) PageCount(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pageRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeletePage removes the record for a page identifier along with its
// insertion-order index entries.
func (r *PageRepository) DeletePage(ctx context.Context, pageID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePageRecordKey(pageID)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}

		revKey := makePageOrderRevKey(pageID)
		item, err := tx.Get(revKey)
		if err == nil {
			var seq uint64
			if valErr := item.Value(func(val []byte) error {
				seq = decodeSeq(val)
				return nil
			}); valErr != nil {
				return valErr
			}
			if delErr := tx.Delete(makePageOrderKey(seq)); delErr != nil {
				return delErr
			}
			if delErr := tx.Delete(revKey); delErr != nil {
				return delErr
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return tx.Commit()
	}, true)
}

// isCapacityError reports whether err is a storage-capacity failure, the one
// write-failure class that triggers the degrade-and-retry path. A single
// value exceeding badger's per-value size limit is not a capacity failure:
// pruning other pages cannot make it fit, so it stays on the log-and-swallow
// path.
func isCapacityError(err error) bool {
	return errors.Is(err, badger.ErrTxnTooBig) ||
		errors.Is(err, storage.ErrStoreFull) ||
		errors.Is(err, syscall.ENOSPC)
}
