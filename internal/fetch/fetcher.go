// Package fetch retrieves pages over HTTP or through a headless browser and
// turns them into parsed documents.
package fetch

import (
	"context"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
	"github.com/law-makers/bizscrape/pkg/models"
)

// DefaultUserAgent identifies the scraper to target sites
const DefaultUserAgent = "Mozilla/5.0 (compatible; bizscrape/1.0; +https://github.com/law-makers/bizscrape)"

// Fetcher retrieves the raw HTML of one page
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error)
}

// Loader fetches pages and parses them into documents
type Loader struct {
	fetcher Fetcher
	parse   document.Options
}

// NewLoader creates a loader around a fetcher
func NewLoader(f Fetcher, parse document.Options) *Loader {
	return &Loader{fetcher: f, parse: parse}
}

// Fetcher returns the underlying fetcher
func (l *Loader) Fetcher() Fetcher {
	return l.fetcher
}

// Load fetches a page and parses it. Links resolve against the final URL
// after redirects.
func (l *Loader) Load(ctx context.Context, opts models.RequestOptions) (*document.Document, *models.Page, error) {
	page, err := l.fetcher.Fetch(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(page.HTML) == "" {
		return nil, nil, NewError(CodeEmptyBody, opts.URL, "response body is empty", nil)
	}
	base := page.FinalURL
	if base == "" {
		base = opts.URL
	}
	doc, err := document.Parse(base, page.HTML, l.parse)
	if err != nil {
		return nil, nil, NewError(CodeParse, opts.URL, "could not parse page", err)
	}
	return doc, page, nil
}
