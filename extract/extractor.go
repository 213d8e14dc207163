package extract

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/pageseek/core"
)

// ContentSelector matches the elements treated as primary page content.
const ContentSelector = ".content-section, article, main, .post, .blog-content, [role=main]"

const (
	// MinSectionLength is the minimum trimmed text length, in runes, for a
	// per-section unit. Shorter fragments are noise.
	MinSectionLength = 20

	// MinBodyLength is the minimum trimmed text length, in runes, for the
	// whole-body fallback unit.
	MinBodyLength = 50

	headingSelector = "h1, h2, h3, h4, h5, h6"
)

// PageInfo identifies the page being extracted.
type PageInfo struct {
	// Title is the page title. When empty, the document's <title> is used.
	Title string

	// Path is the page's URL path, e.g. "/blog/post.html". The page
	// identifier is derived from it.
	Path string
}

// Extractor produces content units from HTML documents.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExtractor creates a new extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the document and returns its content units in document
// order. Returns zero units, without error, for pages with no substantial
// text.
func (e *Extractor) Extract(r io.Reader, info PageInfo) ([]core.ContentUnit, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page %q: %w", info.Path, err)
	}
	_, units := e.extractDoc(doc, info)
	return units, nil
}

// ExtractPage parses the raw document and returns a complete page record:
// resolved title, content units, and a fingerprint of the raw bytes. The
// Timestamp is left zero for the store to stamp.
func (e *Extractor) ExtractPage(data []byte, info PageInfo) (*core.PageRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse page %q: %w", info.Path, err)
	}
	title, units := e.extractDoc(doc, info)
	return &core.PageRecord{
		PageID:      core.PageIDFromPath(info.Path),
		Title:       title,
		URL:         info.Path,
		Units:       units,
		Fingerprint: core.FingerprintContent(data),
	}, nil
}

func (e *Extractor) extractDoc(doc *goquery.Document, info PageInfo) (string, []core.ContentUnit) {
	pageID := core.PageIDFromPath(info.Path)
	pageTitle := info.Title
	if pageTitle == "" {
		pageTitle = strings.TrimSpace(doc.Find("title").First().Text())
	}

	sections := doc.Find(ContentSelector)
	if sections.Length() == 0 {
		return pageTitle, e.extractBody(doc, pageID, pageTitle, info.Path)
	}

	var units []core.ContentUnit
	sections.Each(func(index int, section *goquery.Selection) {
		text := strings.TrimSpace(section.Text())
		if utf8.RuneCountInString(text) < MinSectionLength {
			e.logger.Debug("skipping short section", "pageId", pageID, "index", index)
			return
		}

		id := section.AttrOr("id", "")
		if id == "" {
			id = fmt.Sprintf("%s-section-%d", pageID, index)
		}

		title := strings.TrimSpace(section.Find(headingSelector).First().Text())
		if title == "" {
			title = fmt.Sprintf("Section %d", index+1)
		}

		units = append(units, core.NewContentUnit(id, title, text, pageTitle, info.Path))
	})

	e.logger.Debug("extracted page content", "pageId", pageID, "units", len(units))
	return pageTitle, units
}

// extractBody builds the single fallback unit for pages without content
// containers.
func (e *Extractor) extractBody(doc *goquery.Document, pageID, pageTitle, path string) []core.ContentUnit {
	bodyText := strings.TrimSpace(doc.Find("body").Text())
	if utf8.RuneCountInString(bodyText) < MinBodyLength {
		return nil
	}

	unit := core.NewContentUnit(pageID+"-main", pageTitle, bodyText, pageTitle, path)
	return []core.ContentUnit{unit}
}
