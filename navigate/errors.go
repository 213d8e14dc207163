package navigate

import "errors"

var (
	// ErrViewportRequired is returned when a viewport is not provided.
	ErrViewportRequired = errors.New("viewport required")

	// ErrSessionRepositoryRequired is returned when a session repository
	// is not provided.
	ErrSessionRepositoryRequired = errors.New("session repository required")

	// ErrHighlighterRequired is returned when a highlighter is not provided.
	ErrHighlighterRequired = errors.New("highlighter required")

	// ErrInvalidSettleDelay is returned for a negative settle delay.
	ErrInvalidSettleDelay = errors.New("settle delay must not be negative")
)
