package extract

import (
	"regexp"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:located|based|headquartered)\s+(?:in|at)\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?(?:,\s*[A-Z]{2,3})?)`),
	regexp.MustCompile(`(?:offices?\s+in|locations?\s+in)\s+([A-Z][a-z]+(?:\s[A-Z][a-z]+)?(?:,\s*[A-Z]{2,3})?)`),
	regexp.MustCompile(`([A-Z][a-z]+,\s*[A-Z]{2})\s+(?:headquarters|office|location)`),
	regexp.MustCompile(`(?:[Aa]ddress|[Ll]ocation):\s*([A-Z][a-zA-Z ,]{2,60})`),
	regexp.MustCompile(`(?:[Cc]ity|[Tt]own):\s*([A-Z][a-z]+)`),
}

var locationChain = Chain{
	Field: "location",
	Strategies: []Strategy{
		{Name: "structured", Run: locationFromBlocks},
		{Name: "microdata", Run: locationFromMicrodata},
		{Name: "text", Run: locationFromText},
	},
	Clean: func(s string) string {
		return strings.Trim(document.Collapse(s), " ,")
	},
	Accept:  between(3, 120),
	Default: UnknownLocation,
}

// Location returns "City, Region", a city, or UnknownLocation
func Location(doc *document.Document) string {
	return locationChain.Run(doc)
}

func locationFromBlocks(doc *document.Document) (string, bool) {
	for _, b := range doc.Blocks() {
		for _, key := range []string{"address", "location"} {
			for _, v := range b.List(key) {
				if loc, ok := formatAddress(v); ok {
					return loc, true
				}
			}
		}
	}
	return "", false
}

func formatAddress(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := document.Collapse(t)
		return s, s != ""
	case map[string]any:
		if addr, ok := t["address"]; ok {
			return formatAddress(addr)
		}
		city, _ := document.Scalar(t["addressLocality"])
		region, _ := document.Scalar(t["addressRegion"])
		switch {
		case city != "" && region != "":
			return city + ", " + region, true
		case city != "":
			return city, true
		}
		if country, ok := document.Name(t["addressCountry"]); ok {
			return country, true
		}
	}
	return "", false
}

func locationFromMicrodata(doc *document.Document) (string, bool) {
	for _, el := range doc.Elements(`[itemprop="address"]`, 3) {
		city := first(el.Find(`[itemprop="addressLocality"]`, 1))
		region := first(el.Find(`[itemprop="addressRegion"]`, 1))
		switch {
		case city != "" && region != "":
			return city + ", " + region, true
		case city != "":
			return city, true
		}
	}
	return "", false
}

func first(els []document.Element) string {
	if len(els) == 0 {
		return ""
	}
	return els[0].Text()
}

func locationFromText(doc *document.Document) (string, bool) {
	text := doc.Text()
	for _, re := range locationPatterns {
		for _, m := range re.FindAllStringSubmatch(text, 5) {
			if loc := strings.TrimSpace(m[1]); runeLen(loc) > 2 {
				return loc, true
			}
		}
	}
	return "", false
}
