package extract

import (
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

const paragraphScanCap = 200

var boilerplateMarkers = []string{"cookie", "privacy policy", "terms of service", "terms and conditions", "all rights reserved"}

var descriptionChain = Chain{
	Field: "description",
	Strategies: []Strategy{
		{Name: "structured", Run: func(doc *document.Document) (string, bool) {
			return blockString(doc, "description", "slogan")
		}},
		metaStrategy("description"),
		metaStrategy("og:description"),
		metaStrategy("twitter:description"),
		{Name: "paragraph", Run: descriptionFromParagraphs},
	},
	Clean:   document.Collapse,
	Accept:  between(20, 500),
	Default: NoDescription,
}

// Description returns a short description of the business. Structured and
// meta candidates must be 20 to 500 characters, paragraphs 50 to 400.
func Description(doc *document.Document) string {
	return descriptionChain.Run(doc)
}

func descriptionFromParagraphs(doc *document.Document) (string, bool) {
	accept := between(50, 400)
	for _, p := range doc.Elements("p", paragraphScanCap) {
		text := p.Text()
		if !accept(text) || isBoilerplate(text) {
			continue
		}
		return text, true
	}
	return "", false
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range boilerplateMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
