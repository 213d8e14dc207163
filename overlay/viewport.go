package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/pageseek/navigate"
	"golang.org/x/net/html"
)

// SiteViewport is a headless viewport over a directory of HTML pages. It
// tracks the page in view and the last scroll target, standing in for a
// real renderer behind the navigate.Viewport interface.
type SiteViewport struct {
	root string

	mu           sync.Mutex
	path         string
	doc          *goquery.Document
	scrollTarget string // element id last scrolled to; empty means top
}

var _ navigate.Viewport = (*SiteViewport)(nil)

// NewSiteViewport creates a viewport rooted at the given directory, with
// startPath as the page initially in view.
func NewSiteViewport(root, startPath string) (*SiteViewport, error) {
	v := &SiteViewport{root: root}
	if err := v.load(startPath); err != nil {
		return nil, err
	}
	return v, nil
}

// Path reports the path of the page currently in view.
func (v *SiteViewport) Path() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.path
}

// ScrollTo records a scroll to the element with the given id. It reports
// false when the current page has no such element.
func (v *SiteViewport) ScrollTo(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.doc == nil || v.doc.Find("#"+id).Length() == 0 {
		return false
	}
	v.scrollTarget = id
	return true
}

// ScrollTop records a scroll to the top of the page.
func (v *SiteViewport) ScrollTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollTarget = ""
}

// Navigate loads the page at the given URL. A fragment is stripped; the
// arrival flow handles scrolling to it. A page that fails to load leaves
// the viewport on an empty document, matching a dead link in a browser.
func (v *SiteViewport) Navigate(url string) {
	path := url
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	if err := v.load(path); err != nil {
		v.mu.Lock()
		v.path = path
		v.doc = nil
		v.scrollTarget = ""
		v.mu.Unlock()
	}
}

// Root returns the parsed subtree of the element with the given id.
func (v *SiteViewport) Root(id string) (*html.Node, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.doc == nil {
		return nil, false
	}
	sel := v.doc.Find("#" + id)
	if sel.Length() == 0 {
		return nil, false
	}
	return sel.Nodes[0], true
}

// ScrollTarget returns the id of the element last scrolled to, or the
// empty string for the top of the page.
func (v *SiteViewport) ScrollTarget() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTarget
}

// Document returns the page currently in view, for rendering.
func (v *SiteViewport) Document() *goquery.Document {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc
}

func (v *SiteViewport) load(path string) error {
	file := v.sourceFile(path)
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("load page %q: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return fmt.Errorf("parse page %q: %w", path, err)
	}

	v.mu.Lock()
	v.path = path
	v.doc = doc
	v.scrollTarget = ""
	v.mu.Unlock()
	return nil
}

func (v *SiteViewport) sourceFile(path string) string {
	rel := strings.TrimPrefix(path, "/")
	if rel == "" {
		rel = "index.html"
	}
	return filepath.Join(v.root, filepath.FromSlash(rel))
}
