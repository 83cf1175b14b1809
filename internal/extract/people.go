package extract

import (
	"regexp"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

var (
	teamSectionRe        = regexp.MustCompile(`(?i)team|leadership|executives|founders|management`)
	personNameRe         = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`)
	newsSectionRe        = regexp.MustCompile(`(?i)news|blog|updates|announcements|press`)
	productSectionRe     = regexp.MustCompile(`(?i)products|services|solutions|offerings`)
	testimonialSectionRe = regexp.MustCompile(`(?i)testimonial|review|feedback|client`)
	quoteClassRe         = regexp.MustCompile(`(?i)quote|testimonial`)

	awardPatterns = compileAll(
		`\b(?:award|recognition|certified|accredited|winner|best|top)[:\s]+(.*?)(?:\.|$)`,
		`\b(?:iso|soc|gdpr|hipaa|certified)\b`,
		`\b(?:forbes|techcrunch|inc\.|award|medal|trophy)`,
	)
	partnershipPatterns = compileAll(
		`\b(?:partners|partnerships|integrations|collaborations)[:\s]+(.*?)(?:\.|$)`,
		`\b(?:works with|integrates with|partners with)[:\s]+(.*?)(?:\.|$)`,
	)
)

var certificationKeywords = keywords(
	"ISO 9001=iso 9001", "ISO 27001=iso 27001", "SOC 2=soc 2", "GDPR=gdpr",
	"HIPAA=hipaa", "PCI DSS=pci dss", "Security Certified=security certified",
	"Certified=certified", "Accredited=accredited", "Compliance=compliance",
)

// KeyExecutives returns up to three "Name - Title" entries
func KeyExecutives(doc *document.Document) string {
	return safe("key_executives", NoExecutives, func() string {
		if doc == nil {
			return ""
		}
		people := structuredPeople(doc)
		for _, section := range sections(doc, teamSectionRe) {
			for _, heading := range section.Find("h3, h4, h5", 5) {
				name := heading.Text()
				if !personNameRe.MatchString(name) || runeLen(name) > 60 {
					continue
				}
				if next, ok := heading.Next("p, div, span"); ok {
					if title := next.Text(); title != "" && runeLen(title) < 50 {
						people = append(people, name+" - "+title)
						continue
					}
				}
				people = append(people, name)
			}
			if len(people) >= 3 {
				break
			}
		}
		return joinCapped(people, 3)
	})
}

func structuredPeople(doc *document.Document) []string {
	var out []string
	for _, b := range doc.Blocks() {
		for _, key := range []string{"founder", "founders", "employee", "employees"} {
			for _, v := range b.List(key) {
				name, ok := document.Name(v)
				if !ok {
					continue
				}
				title := ""
				if m, isMap := v.(map[string]any); isMap {
					title, _ = document.Scalar(m["jobTitle"])
				}
				if title == "" && strings.HasPrefix(key, "founder") {
					title = "Founder"
				}
				if title != "" {
					name += " - " + title
				}
				out = append(out, name)
			}
		}
	}
	return out
}

// AwardsRecognition returns up to three award or recognition mentions
func AwardsRecognition(doc *document.Document) string {
	return safe("awards_recognition", NoAwards, func() string {
		if doc == nil {
			return ""
		}
		var awards []string
		for _, b := range doc.Blocks() {
			for _, v := range b.List("award") {
				if s, ok := document.Scalar(v); ok {
					awards = append(awards, s)
				}
			}
		}
		awards = append(awards, phrases(doc, awardPatterns, 5, 100)...)
		return joinCapped(awards, 3)
	})
}

// RecentNews returns up to three headlines from news-like sections
func RecentNews(doc *document.Document) string {
	return safe("recent_news", NoRecentNews, func() string {
		if doc == nil {
			return ""
		}
		var updates []string
		for _, section := range sections(doc, newsSectionRe) {
			for _, h := range section.Find("h3, h4, h5, a", 3) {
				if text := h.Text(); runeLen(text) > 10 && runeLen(text) < 150 {
					updates = append(updates, text)
				}
			}
		}
		return joinCapped(updates, 3)
	})
}

// ProductCategories returns up to five product or service headings
func ProductCategories(doc *document.Document) string {
	return safe("product_categories", NoProductCategories, func() string {
		if doc == nil {
			return ""
		}
		categories := offerCatalogNames(doc)
		for _, section := range sections(doc, productSectionRe) {
			for _, h := range section.Find("h3, h4, h5", 0) {
				if text := h.Text(); runeLen(text) > 5 && runeLen(text) < 50 {
					categories = append(categories, text)
				}
			}
		}
		return joinCapped(categories, 5)
	})
}

func offerCatalogNames(doc *document.Document) []string {
	var out []string
	for _, b := range doc.Blocks() {
		catalog, ok := b.Map("hasOfferCatalog")
		if !ok {
			continue
		}
		for _, item := range document.AsList(catalog["itemListElement"]) {
			if m, isMap := item.(map[string]any); isMap {
				if offered, ok := m["itemOffered"]; ok {
					item = offered
				}
			}
			if name, ok := document.Name(item); ok && runeLen(name) < 50 {
				out = append(out, name)
			}
		}
	}
	return out
}

// ClientTestimonials returns up to two customer quotes
func ClientTestimonials(doc *document.Document) string {
	return safe("client_testimonials", NoTestimonials, func() string {
		if doc == nil {
			return ""
		}
		accept := func(s string) bool {
			n := runeLen(s)
			return n > 20 && n < 200
		}
		var quotes []string
		for _, b := range doc.Blocks() {
			for _, v := range b.List("review") {
				m, ok := v.(map[string]any)
				if !ok {
					continue
				}
				if body, ok := document.Scalar(m["reviewBody"]); ok && accept(body) {
					quotes = append(quotes, body)
				}
			}
		}
		for _, section := range sections(doc, testimonialSectionRe) {
			for _, q := range section.Find("blockquote, q, div[class]", 10) {
				if q.Tag == "div" && !quoteClassRe.MatchString(q.Attr("class")) {
					continue
				}
				if text := q.Text(); accept(text) {
					quotes = append(quotes, text)
				}
			}
		}
		return joinCapped(quotes, 2)
	})
}

// Partnerships returns up to three partnership or integration mentions
func Partnerships(doc *document.Document) string {
	return safe("partnerships", NoPartnerships, func() string {
		if doc == nil {
			return ""
		}
		return joinCapped(phrases(doc, partnershipPatterns, 5, 100), 3)
	})
}

// Certifications lists every compliance or certification keyword found
func Certifications(doc *document.Document) string {
	return safe("certifications", NoCertifications, func() string {
		if doc == nil {
			return ""
		}
		var found []string
		for _, b := range doc.Blocks() {
			for _, v := range b.List("hasCredential") {
				if name, ok := document.Name(v); ok {
					found = append(found, name)
				}
			}
		}
		found = append(found, detect(doc, certificationKeywords)...)
		return joinCapped(found, 10)
	})
}
