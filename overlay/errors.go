package overlay

import "errors"

var (
	// ErrSearcherRequired is returned when a searcher is not provided.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrNavigatorRequired is returned when a navigator is not provided.
	ErrNavigatorRequired = errors.New("navigator required")

	// ErrHighlighterRequired is returned when a highlighter is not provided.
	ErrHighlighterRequired = errors.New("highlighter required")

	// ErrViewportRequired is returned when a viewport is not provided.
	ErrViewportRequired = errors.New("viewport required")
)
