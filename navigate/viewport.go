package navigate

import "golang.org/x/net/html"

// Viewport is the narrow surface the navigator drives. Implementations
// wrap whatever actually renders pages; tests use an in-memory fake.
type Viewport interface {
	// Path reports the path of the page currently in view.
	Path() string

	// ScrollTo brings the element with the given id into view. It
	// reports false when no such element exists.
	ScrollTo(id string) bool

	// ScrollTop scrolls to the top of the current page.
	ScrollTop()

	// Navigate loads the given URL, replacing the current page.
	Navigate(url string)

	// Root returns the parsed subtree of the element with the given id,
	// for highlighting. ok is false when no such element exists.
	Root(id string) (root *html.Node, ok bool)
}
