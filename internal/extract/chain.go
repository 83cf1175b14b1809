// Package extract maps a parsed document to business attribute values.
//
// Every exported extractor is total: it never panics and never returns an
// empty string. When no strategy yields an accepted candidate the field's
// sentinel is returned instead.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/law-makers/bizscrape/internal/document"
	"github.com/rs/zerolog/log"
)

// Sentinels returned when a field has no usable signal
const (
	UnknownCompany           = "Unknown Company"
	NoDescription            = "No description available"
	UnknownLocation          = "Unknown"
	UnknownYear              = "Unknown"
	NoContact                = "Contact info not found"
	NoSocialMedia            = "No social media found"
	UnknownSize              = "Unknown"
	RevenueNotDisclosed      = "Not disclosed"
	EmployeesNotSpecified    = "Not specified"
	ServicesNotSpecified     = "Services not specified"
	TechnologiesNotSpecified = "Not specified"
	AdvantagesNotSpecified   = "Not specified"
	NoExecutives             = "Leadership info not found"
	NoAwards                 = "No awards mentioned"
	NoRecentNews             = "No recent updates found"
	NoProductCategories      = "Product categories not specified"
	NoTestimonials           = "No testimonials found"
	NoPartnerships           = "No partnerships mentioned"
	NoCertifications         = "No certifications mentioned"
)

// Strategy yields a candidate value or abstains
type Strategy struct {
	Name string
	Run  func(doc *document.Document) (string, bool)
}

// Chain is an ordered list of strategies for one field
type Chain struct {
	Field      string
	Strategies []Strategy
	// Clean normalises each candidate before Accept sees it
	Clean func(string) string
	// Accept is the field's plausibility predicate
	Accept  func(string) bool
	Default string
}

// Run returns the first cleaned candidate that passes Accept, or Default
func (c Chain) Run(doc *document.Document) string {
	value, _ := c.Match(doc)
	return value
}

// Match is Run that also names the strategy that produced the value. The
// strategy is empty when Default is returned.
func (c Chain) Match(doc *document.Document) (value, strategy string) {
	if doc == nil {
		return c.Default, ""
	}
	for _, s := range c.Strategies {
		candidate, ok := c.try(s, doc)
		if !ok {
			continue
		}
		if c.Clean != nil {
			candidate = c.Clean(candidate)
		}
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if c.Accept != nil && !c.Accept(candidate) {
			continue
		}
		return candidate, s.Name
	}
	return c.Default, ""
}

func (c Chain) try(s Strategy, doc *document.Document) (candidate string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().
				Str("field", c.Field).
				Str("strategy", s.Name).
				Interface("panic", r).
				Msg("Extraction strategy failed")
			candidate, ok = "", false
		}
	}()
	return s.Run(doc)
}

// safe runs fn and returns fallback if it panics or yields nothing
func safe(field, fallback string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("field", field).Interface("panic", r).Msg("Extractor failed")
			out = fallback
		}
	}()
	if v := strings.TrimSpace(fn()); v != "" {
		return v
	}
	return fallback
}

// runeLen counts characters rather than bytes
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// between reports whether lo <= len(s) <= hi, counted in characters
func between(lo, hi int) func(string) bool {
	return func(s string) bool {
		n := runeLen(s)
		return n >= lo && n <= hi
	}
}

// truncate cuts s to at most n characters
func truncate(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// joinCapped joins up to limit distinct values with ", "
func joinCapped(values []string, limit int) string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return strings.Join(out, ", ")
}

// blockString returns the first structured value for any of keys
func blockString(doc *document.Document, keys ...string) (string, bool) {
	for _, b := range doc.Blocks() {
		if s, ok := b.String(keys...); ok {
			return s, true
		}
	}
	return "", false
}

func metaStrategy(keys ...string) Strategy {
	return Strategy{
		Name: "meta:" + strings.Join(keys, ","),
		Run: func(doc *document.Document) (string, bool) {
			return doc.MetaContent(keys...)
		},
	}
}
