package highlight

import "errors"

var (
	// ErrInvalidClearDelay is returned for a non-positive clear delay.
	ErrInvalidClearDelay = errors.New("clear delay must be positive")

	// ErrDetachedNode marks a text node with no parent to splice into.
	ErrDetachedNode = errors.New("text node is detached")
)
