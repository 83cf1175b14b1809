package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var skippedTags = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true, "title": true, "body": true,
}

// visibleText renders the human-visible text of a selection. Block
// boundaries become spaces so adjacent paragraphs never run together.
func visibleText(sel *goquery.Selection) string {
	return collapse(blockText(sel))
}

// visibleLines renders the visible text with one line per block, each
// line collapsed, blank lines dropped
func visibleLines(sel *goquery.Selection) string {
	raw := strings.Split(blockText(sel), "\n")
	lines := raw[:0]
	for _, line := range raw {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// blockText writes text nodes in order with a newline at every block boundary
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			// source newlines inside a block are layout, not boundaries
			b.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
			return
		case html.ElementNode:
			if skippedTags[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		block := n.Type == html.ElementNode && blockTags[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

// collapse replaces runs of whitespace with a single space and trims
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Collapse is the whitespace normalisation applied to every text accessor
func Collapse(s string) string {
	return collapse(s)
}

// VisibleText renders the human-visible text of any selection, including
// one taken from a Clone of the document
func VisibleText(sel *goquery.Selection) string {
	return visibleText(sel)
}
