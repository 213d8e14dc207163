package storage

import (
	"context"

	"github.com/poiesic/pageseek/core"
)

// PageRepository provides operations for the cross-page content store.
// Implementations must be safe for concurrent use.
type PageRepository interface {
	// UpsertPage fully replaces the record stored under record.PageID.
	// A zero Timestamp is stamped with the current UTC time. The call
	// also evicts the oldest records while the store exceeds its cap.
	//
	// A capacity failure does not surface as an error: the store is
	// cleared down to the current record and the write retried once;
	// a second failure is logged and swallowed, since search degrades
	// rather than breaking page loads.
	UpsertPage(ctx context.Context, record *core.PageRecord) error

	// GetPage retrieves the record for a page identifier.
	// Returns ErrNotFound if no record exists.
	GetPage(ctx context.Context, pageID string) (*core.PageRecord, error)

	// AllPages returns every stored record in first-insert order.
	// Re-upserting an existing page keeps its original position.
	// Records that fail to deserialize are skipped, not surfaced.
	AllPages(ctx context.Context) ([]*core.PageRecord, error)

	// PageCount returns the number of stored records.
	PageCount(ctx context.Context) (int, error)

	// DeletePage removes the record for a page identifier along with its
	// index entries. Returns ErrNotFound if no record exists.
	DeletePage(ctx context.Context, pageID string) error

	// Close releases resources held by the repository.
	Close() error
}

// SessionRepository holds the transient cross-navigation state: the query
// and unit id written just before a cross-page navigation and consumed on
// the next page load.
type SessionRepository interface {
	// SetPending stores the pending query/unit pair, replacing any
	// previous pair.
	SetPending(ctx context.Context, query, unitID string) error

	// TakePending reads and clears the pending pair in one step, so a
	// pair never replays on a later, unrelated load. ok is false when
	// no pair is pending.
	TakePending(ctx context.Context) (query, unitID string, ok bool, err error)

	// ClearPending discards any pending pair.
	ClearPending(ctx context.Context) error
}
