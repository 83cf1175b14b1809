package output

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// keptAttrs lists the attributes that survive cleaning, per tag
var keptAttrs = map[string]map[string]bool{
	"a":   {"href": true, "title": true},
	"img": {"src": true, "alt": true},
}

// CleanHTML strips scripts, forms and embedded media from a content
// fragment and drops every attribute a Markdown converter has no use for
func CleanHTML(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas").Remove()

	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		keep := keptAttrs[node.Data]
		attrs := node.Attr[:0]
		for _, a := range node.Attr {
			if keep[a.Key] {
				attrs = append(attrs, a)
			}
		}
		node.Attr = attrs
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(body), nil
}
