package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

const (
	// TitleLimit is the maximum length of a content unit title, in runes.
	TitleLimit = 100

	// PreviewLimit is the maximum length of a content unit preview, in runes.
	PreviewLimit = 500

	// HomePageID is the sentinel identifier for the site root page.
	HomePageID = "home"
)

// Fingerprint is a 64-bit content hash of a page's source document.
type Fingerprint uint64

// FingerprintContent computes a deterministic fingerprint from raw page
// content using BLAKE2b hashing. Identical content produces identical
// fingerprints.
func FingerprintContent(data []byte) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// ContentUnit is one indexed, searchable fragment of a page.
type ContentUnit struct {
	ID        string // unique within the owning page, doubles as a DOM id / URL fragment
	Title     string // nearest heading text, at most TitleLimit runes
	Preview   string // prefix of FullText, at most PreviewLimit runes
	FullText  string // untruncated text, used for match detection only
	PageTitle string
	PageURL   string
}

// NewContentUnit builds a unit from untruncated title and text, applying the
// title and preview limits. The Preview field is always a prefix of FullText.
func NewContentUnit(id, title, text, pageTitle, pageURL string) ContentUnit {
	return ContentUnit{
		ID:        id,
		Title:     Truncate(title, TitleLimit),
		Preview:   Truncate(text, PreviewLimit),
		FullText:  text,
		PageTitle: pageTitle,
		PageURL:   pageURL,
	}
}

// PageRecord holds one page's worth of indexed content.
// Records are created whole on every visit of a page and never partially
// mutated; an upsert fully replaces any prior record for the same PageID.
type PageRecord struct {
	PageID      string
	Title       string
	URL         string
	Units       []ContentUnit
	Timestamp   time.Time // used only for eviction ordering
	Fingerprint Fingerprint
}

// Match is a scored association between a query and a content unit.
// Matches are computed fresh per query and have no independent lifecycle.
type Match struct {
	UnitID        string
	Title         string
	Preview       string
	FullText      string
	PageTitle     string
	PageURL       string
	IsCurrentPage bool
	Relevance     int
}

// PageIDFromPath derives the canonical page identifier from a URL path.
// Path separators become dashes and a trailing ".html" is stripped; the
// empty path and the bare root map to HomePageID.
//
// The derivation must stay bit-exact across the extractor, the store, and
// the navigator, since all three use it to identify "the current page".
func PageIDFromPath(path string) string {
	id := strings.ReplaceAll(path, "/", "-")
	id = strings.TrimSuffix(id, ".html")
	if id == "" || id == "-" {
		return HomePageID
	}
	return id
}

// Truncate shortens s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
