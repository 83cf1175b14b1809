package extract

import (
	"regexp"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
	urlutil "github.com/law-makers/bizscrape/internal/utils/url"
)

var (
	separatedSuffixRe = regexp.MustCompile(`(?i)\s*[-|–]\s*(Inc|LLC|Corp|Ltd|Company|Co|Corporation|Limited)\.?\s*$`)
	trailingSuffixRe  = regexp.MustCompile(`(?i)[\s,]+(Inc|LLC|Corp|Ltd|Company|Co|Corporation|Limited)\.?$`)
	pageSuffixRe      = regexp.MustCompile(`(?i)\s*[-|–]\s*(Official Website|Home|Welcome|Official|Website|About|Contact)\b.*$`)
	pipeSuffixRe      = regexp.MustCompile(`\s*[|–]\s*.*$`)
	anySeparatorRe    = regexp.MustCompile(`\s*[-|–]\s*.*$`)
	logoWordRe        = regexp.MustCompile(`(?i)\blogo\b`)
)

var nameSelectors = []string{
	"header .logo",
	".navbar-brand",
	".site-title",
	".company-name",
	"header h1",
	".header-title",
	`[class*="logo"]`,
	".brand",
}

const nameSelectorCap = 3

const domainStrategy = "domain"

var companyNameChain = Chain{
	Field: "company_name",
	Strategies: []Strategy{
		{Name: "structured", Run: func(doc *document.Document) (string, bool) {
			return blockString(doc, "name", "legalName", "alternateName")
		}},
		metaStrategy("og:site_name"),
		metaStrategy("application-name"),
		metaStrategy("og:title"),
		metaStrategy("title"),
		{Name: "dom", Run: nameFromDOM},
		{Name: "logo-alt", Run: nameFromLogoAlt},
		{Name: "title", Run: nameFromTitle},
		{Name: domainStrategy, Run: func(doc *document.Document) (string, bool) {
			label := urlutil.DomainLabel(doc.URL())
			return label, label != ""
		}},
	},
	Clean: CleanCompanyName,
	Accept: func(s string) bool {
		n := runeLen(s)
		return n > 2 && n < 100
	},
	Default: UnknownCompany,
}

// CompanyName returns the organisation name. The last resort is the
// title-cased registrable domain label, which is accepted at any length.
func CompanyName(doc *document.Document) string {
	name, _ := CompanyNameSource(doc)
	return name
}

// CompanyNameSource is CompanyName that also reports whether the name came
// from the page itself rather than from the URL or the sentinel
func CompanyNameSource(doc *document.Document) (name string, fromPage bool) {
	name, strategy := companyNameChain.Match(doc)
	if strategy != "" && strategy != domainStrategy {
		return name, true
	}
	if name != UnknownCompany || doc == nil {
		return name, false
	}
	if label := urlutil.DomainLabel(doc.URL()); label != "" {
		return label, false
	}
	return UnknownCompany, false
}

// CleanCompanyName drops page-title noise and legal-form suffixes
func CleanCompanyName(name string) string {
	name = document.Collapse(name)
	name = separatedSuffixRe.ReplaceAllString(name, "")
	name = pageSuffixRe.ReplaceAllString(name, "")
	name = pipeSuffixRe.ReplaceAllString(name, "")
	for {
		stripped := strings.TrimSpace(trailingSuffixRe.ReplaceAllString(name, ""))
		if stripped == name || stripped == "" {
			break
		}
		name = stripped
	}
	return strings.Trim(strings.TrimSpace(name), ",")
}

func nameFromDOM(doc *document.Document) (string, bool) {
	for _, selector := range nameSelectors {
		for _, el := range doc.Elements(selector, nameSelectorCap) {
			text := el.Text()
			if n := runeLen(text); n > 2 && n < 100 {
				return text, true
			}
		}
	}
	return "", false
}

func nameFromLogoAlt(doc *document.Document) (string, bool) {
	for _, img := range doc.Elements("img[alt]", 20) {
		alt := img.Attr("alt")
		if !logoWordRe.MatchString(alt) {
			continue
		}
		name := document.Collapse(logoWordRe.ReplaceAllString(alt, ""))
		name = strings.Trim(name, " -|")
		if name != "" {
			return name, true
		}
	}
	return "", false
}

func nameFromTitle(doc *document.Document) (string, bool) {
	title := doc.Title()
	if title == "" {
		return "", false
	}
	for _, re := range []*regexp.Regexp{pageSuffixRe, anySeparatorRe} {
		cleaned := strings.TrimSpace(re.ReplaceAllString(title, ""))
		if runeLen(cleaned) > 2 {
			return cleaned, true
		}
	}
	return "", false
}
