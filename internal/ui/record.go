package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/law-makers/bizscrape/pkg/models"
)

// headline fields shown by the short card
var headline = map[string]bool{
	"url":           true,
	"business_type": true,
	"industry":      true,
	"description":   true,
	"location":      true,
	"founded_year":  true,
	"contact_info":  true,
	"company_size":  true,
	"summary":       true,
}

// PrintRecord writes a coloured profile card. Unless full is set only the
// headline fields are shown and long values are shortened.
func PrintRecord(w io.Writer, r *models.Record, full bool) {
	fmt.Fprintf(w, "\n%s%s%s", ColorBold+ColorCyan, r.CompanyName, ColorReset)
	if r.ID != "" {
		fmt.Fprintf(w, "  %s", Dim(r.ID))
	}
	fmt.Fprintln(w)

	for _, f := range r.Fields() {
		if f.Name == "company_name" || (!full && !headline[f.Name]) {
			continue
		}
		value := f.Value
		if !full {
			value = Shorten(value, 120)
		}
		fmt.Fprintf(w, "  %s%-24s%s %s\n", ColorWhite, Label(f.Name), ColorReset, value)
	}
	if full && !r.ScrapedAt.IsZero() {
		fmt.Fprintf(w, "  %s%-24s%s %s\n", ColorWhite, "Scraped At", ColorReset, r.ScrapedAt.Local().Format("2006-01-02 15:04"))
	}
}

// Label turns a snake_case field name into a title
func Label(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Shorten cuts s to max runes, appending "..."
func Shorten(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
