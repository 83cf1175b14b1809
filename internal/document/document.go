// Package document turns fetched HTML into an immutable, pre-parsed view
// that field extractors read from.
package document

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/bizscrape/internal/utils/url"
)

// Options controls optional parsing work
type Options struct {
	// InlineScripts evaluates inline <script> blocks and harvests the
	// globals they assign as structured blocks.
	InlineScripts bool
	// ScriptBudget bounds the total time spent evaluating inline scripts.
	ScriptBudget time.Duration
}

// Meta is a single <meta> name/content pair. Key is the lowercased name,
// property or itemprop attribute.
type Meta struct {
	Key     string
	Content string
}

// Link is a hyperlink with its absolute target and anchor text
type Link struct {
	Href string
	Text string
}

// Document is a parsed page. It is never modified after Parse returns.
type Document struct {
	url    string
	html   string
	dom    *goquery.Document
	text   string
	lines  string
	title  string
	meta   []Meta
	links  []Link
	blocks []Block
}

// Parse builds a Document for the page at pageURL
func Parse(pageURL, html string, opts Options) (*Document, error) {
	dom, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	d := &Document{
		url:  pageURL,
		html: html,
		dom:  dom,
	}
	d.lines = visibleLines(dom.Selection)
	d.text = collapse(d.lines)
	d.title = collapse(dom.Find("title").First().Text())
	d.meta = extractMeta(dom)
	d.links = extractLinks(dom, pageURL)

	blocks := extractJSONLD(dom)
	if opts.InlineScripts {
		blocks = append(blocks, evalInlineScripts(dom, pageURL, opts.ScriptBudget)...)
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].rank() < blocks[j].rank()
	})
	d.blocks = blocks

	return d, nil
}

// MustParse is Parse for tests and literals; it panics on error
func MustParse(pageURL, html string) *Document {
	d, err := Parse(pageURL, html, Options{})
	if err != nil {
		panic(err)
	}
	return d
}

// URL returns the page URL the document was fetched from
func (d *Document) URL() string { return d.url }

// HTML returns the raw markup
func (d *Document) HTML() string { return d.html }

// Text returns the visible text with whitespace collapsed to single spaces
func (d *Document) Text() string { return d.text }

// Lines returns the visible text with one collapsed line per block
// element, so patterns can stay within a paragraph or heading
func (d *Document) Lines() string { return d.lines }

// Title returns the collapsed <title> text
func (d *Document) Title() string { return d.title }

// Meta returns a copy of the meta pairs in document order
func (d *Document) Meta() []Meta {
	out := make([]Meta, len(d.meta))
	copy(out, d.meta)
	return out
}

// MetaContent returns the first non-empty content for any of keys, in key order
func (d *Document) MetaContent(keys ...string) (string, bool) {
	for _, key := range keys {
		key = strings.ToLower(key)
		for _, m := range d.meta {
			if m.Key == key && m.Content != "" {
				return m.Content, true
			}
		}
	}
	return "", false
}

// Links returns a copy of the page links
func (d *Document) Links() []Link {
	out := make([]Link, len(d.links))
	copy(out, d.links)
	return out
}

// Blocks returns the structured-data blocks, organisation-typed JSON-LD first
func (d *Document) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// Elements returns up to limit elements matching selector. A limit of zero
// or less returns every match.
func (d *Document) Elements(selector string, limit int) []Element {
	var out []Element
	d.dom.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		out = append(out, newElement(sel))
		return limit <= 0 || len(out) < limit
	})
	return out
}

// Clone returns a private copy of the DOM that callers may mutate
func (d *Document) Clone() *goquery.Document {
	return goquery.NewDocumentFromNode(d.dom.Selection.Clone().Get(0))
}

func extractMeta(dom *goquery.Document) []Meta {
	var out []Meta
	dom.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		content = collapse(content)
		for _, attr := range []string{"name", "property", "itemprop"} {
			if key, exists := sel.Attr(attr); exists && key != "" {
				out = append(out, Meta{Key: strings.ToLower(strings.TrimSpace(key)), Content: content})
			}
		}
	})
	return out
}

func extractLinks(dom *goquery.Document, base string) []Link {
	var out []Link
	dom.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}
		out = append(out, Link{
			Href: urlutil.ResolveURL(base, href),
			Text: visibleText(sel),
		})
	})
	return out
}
