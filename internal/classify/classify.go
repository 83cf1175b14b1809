// Package classify picks a label from a fixed taxonomy by keyword frequency.
package classify

import (
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

// Label is one taxonomy entry and the keywords that vote for it
type Label struct {
	Name     string
	Keywords []string
}

// Classifier scores lowercase visible text against an ordered label table
type Classifier struct {
	Field   string
	Labels  []Label
	NoMatch string
}

// Score is a label with its keyword hit count
type Score struct {
	Label string
	Hits  int
}

// Scores returns the hit count of every label in table order. Hits are
// substring occurrence counts, so repeated mentions add up.
func (c Classifier) Scores(text string) []Score {
	lower := strings.ToLower(text)
	out := make([]Score, len(c.Labels))
	for i, l := range c.Labels {
		hits := 0
		for _, kw := range l.Keywords {
			hits += strings.Count(lower, kw)
		}
		out[i] = Score{Label: l.Name, Hits: hits}
	}
	return out
}

// ClassifyText returns the highest scoring label. Ties go to the label
// listed first; if nothing scores, NoMatch is returned.
func (c Classifier) ClassifyText(text string) string {
	best, bestHits := c.NoMatch, 0
	for _, s := range c.Scores(text) {
		if s.Hits > bestHits {
			best, bestHits = s.Label, s.Hits
		}
	}
	return best
}

// Classify labels a document from its visible text
func (c Classifier) Classify(doc *document.Document) string {
	if doc == nil {
		return c.NoMatch
	}
	return c.ClassifyText(doc.Text())
}
