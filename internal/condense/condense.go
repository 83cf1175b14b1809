// Package condense produces the bounded free-text fields of a record.
package condense

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/bizscrape/internal/document"
)

// Sentinels
const (
	NoSummary = "Business summary not available"
	NoContent = "No content extracted"
)

const (
	// MaxContent is the content budget in characters, before the ellipsis
	MaxContent = 2000
	// Ellipsis marks truncated content
	Ellipsis = "..."

	summaryScan = 20
	summaryMin  = 50
	summaryMax  = 300
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	markerWordRe    = regexp.MustCompile(`(?i)\b(we|company|business|our|provides|offers|helps)\b`)
	contentIDRe     = regexp.MustCompile(`(?i)content|main`)
)

var noiseSelector = "script, style, noscript, nav, header, footer, aside"

// Summary returns the first early sentence that reads like a description
// of the business, or NoSummary.
func Summary(doc *document.Document) string {
	if doc == nil {
		return NoSummary
	}
	segments := sentenceSplitRe.Split(doc.Text(), summaryScan+1)
	if len(segments) > summaryScan {
		segments = segments[:summaryScan]
	}
	for _, s := range segments {
		s = strings.TrimSpace(s)
		n := len([]rune(s))
		if n <= summaryMin || n >= summaryMax {
			continue
		}
		if markerWordRe.MatchString(s) {
			return s + "."
		}
	}
	return NoSummary
}

// Content returns the main text of the page, whitespace-collapsed and cut
// to MaxContent characters plus Ellipsis, or NoContent.
func Content(doc *document.Document) string {
	main := mainContent(doc)
	if main == nil {
		return NoContent
	}
	text := document.VisibleText(main)
	if text == "" {
		return NoContent
	}
	r := []rune(text)
	if len(r) > MaxContent {
		return string(r[:MaxContent]) + Ellipsis
	}
	return text
}

// ContentHTML returns the markup of the main content container
func ContentHTML(doc *document.Document) string {
	main := mainContent(doc)
	if main == nil {
		return ""
	}
	h, err := main.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(h)
}

// mainContent strips noise from a private copy of the DOM and picks the
// best container: main, article, a content-like div, then body.
func mainContent(doc *document.Document) *goquery.Selection {
	if doc == nil {
		return nil
	}
	dom := doc.Clone()
	dom.Find(noiseSelector).Remove()

	if sel := dom.Find("main").First(); sel.Length() > 0 {
		return sel
	}
	if sel := dom.Find("article").First(); sel.Length() > 0 {
		return sel
	}
	var found *goquery.Selection
	dom.Find("div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if contentIDRe.MatchString(sel.AttrOr("id", "")) || contentIDRe.MatchString(sel.AttrOr("class", "")) {
			found = sel
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	if sel := dom.Find("body").First(); sel.Length() > 0 {
		return sel
	}
	return nil
}
