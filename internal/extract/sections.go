package extract

import (
	"regexp"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

const sectionScanCap = 1000

// sections returns div and section elements whose class or id matches re
func sections(doc *document.Document, re *regexp.Regexp) []document.Element {
	var out []document.Element
	for _, el := range doc.Elements("div[class], section[class], div[id], section[id]", sectionScanCap) {
		if re.MatchString(el.Attr("class")) || re.MatchString(el.Attr("id")) {
			out = append(out, el)
		}
	}
	return out
}

// phrases collects the first capture group of each pattern match over the
// lowercased visible text, keeping those strictly between lo and hi
// characters. Patterns without a group contribute the whole match.
func phrases(doc *document.Document, patterns []*regexp.Regexp, lo, hi int) []string {
	text := strings.ToLower(doc.Text())
	var out []string
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidate := m[0]
			if len(m) > 1 {
				candidate = m[1]
			}
			candidate = strings.TrimSpace(candidate)
			if n := runeLen(candidate); n > lo && n < hi {
				out = append(out, candidate)
			}
		}
	}
	return out
}

type keyword struct {
	label string
	re    *regexp.Regexp
}

// keywords builds word-boundary matchers; each entry is "label=pattern"
// or a bare lowercase term used as both
func keywords(entries ...string) []keyword {
	out := make([]keyword, 0, len(entries))
	for _, e := range entries {
		label, term := e, e
		if i := strings.Index(e, "="); i >= 0 {
			label, term = e[:i], e[i+1:]
		}
		pattern := strings.ReplaceAll(regexp.QuoteMeta(term), " ", `\s+`)
		out = append(out, keyword{label: label, re: regexp.MustCompile(`(?i)\b` + pattern + `\b`)})
	}
	return out
}

// detect returns the labels of every keyword present in the text
func detect(doc *document.Document, kws []keyword) []string {
	text := doc.Text()
	var out []string
	for _, k := range kws {
		if k.re.MatchString(text) {
			out = append(out, k.label)
		}
	}
	return out
}
