package extract

import (
	"regexp"
	"strconv"
	"time"

	"github.com/law-makers/bizscrape/internal/document"
)

const minFoundingYear = 1800

var fourDigitsRe = regexp.MustCompile(`\b\d{4}\b`)

// Patterns run line by line over the block text; a match never spans two
// paragraphs and the loose "history"-style ones stay within a sentence.
var yearPatterns = compileAll(
	`founded\s+in\s+(\d{4})\b`,
	`established\s+in\s+(\d{4})\b`,
	`\bsince\s+(\d{4})\b`,
	`started\s+in\s+(\d{4})\b`,
	`began\s+in\s+(\d{4})\b`,
	`launched\s+in\s+(\d{4})\b`,
	`incorporated\s+in\s+(\d{4})\b`,
	`company\s+founded\s+(\d{4})\b`,
	`\best\.?\s+(\d{4})\b`,
	`established\s+(\d{4})\b`,
	`founded:?\s+(\d{4})\b`,
	`inception:?\s+(\d{4})\b`,
	`©\s*(\d{4})\b`,
	`copyright\s+(\d{4})\b`,
	`\bhistory[^.!?\n]{0,80}?\b(\d{4})\b`,
	`\bour\s+story[^.!?\n]{0,80}?\b(\d{4})\b`,
	`\babout\s+us[^.!?\n]{0,80}?\b(\d{4})\b`,
)

// now is replaced in tests
var now = time.Now

// FoundedYear returns the founding year as four digits, or UnknownYear.
// A structured foundingDate wins; otherwise the earliest plausible year
// mentioned by any text pattern is used.
func FoundedYear(doc *document.Document) string {
	return safe("founded_year", UnknownYear, func() string {
		if doc == nil {
			return ""
		}
		current := now().Year()
		if date, ok := blockString(doc, "foundingDate", "founded", "foundingYear"); ok {
			if y := fourDigitsRe.FindString(date); y != "" {
				if n, _ := strconv.Atoi(y); plausibleYear(n, current) {
					return y
				}
			}
		}

		earliest := 0
		text := doc.Lines()
		for _, re := range yearPatterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				n, err := strconv.Atoi(m[1])
				if err != nil || !plausibleYear(n, current) {
					continue
				}
				if earliest == 0 || n < earliest {
					earliest = n
				}
			}
		}
		if earliest == 0 {
			return ""
		}
		return strconv.Itoa(earliest)
	})
}

func plausibleYear(year, current int) bool {
	return year >= minFoundingYear && year <= current
}

// compileAll compiles case-insensitive patterns
func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}
