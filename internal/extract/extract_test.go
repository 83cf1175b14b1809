package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/law-makers/bizscrape/internal/document"
)

func parse(t *testing.T, url, html string) *document.Document {
	t.Helper()
	doc, err := document.Parse(url, html, document.Options{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestCompanyNameStructuredBeatsMeta(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><head>
		<script type="application/ld+json">{"name": "Acme Corp"}</script>
		<meta property="og:site_name" content="Acme-OG">
	</head><body></body></html>`)

	if got := CompanyName(doc); got != "Acme" {
		t.Errorf("CompanyName = %q, want %q", got, "Acme")
	}
}

func TestCompanyNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		url  string
		html string
		want string
	}{
		{
			name: "meta site name",
			url:  "https://x.io",
			html: `<html><head><meta property="og:site_name" content="Globex Corporation"></head></html>`,
			want: "Globex",
		},
		{
			name: "too short meta skipped",
			url:  "https://x.io",
			html: `<html><head><meta property="og:site_name" content="AB"><meta name="application-name" content="Initech"></head></html>`,
			want: "Initech",
		},
		{
			name: "dom brand",
			url:  "https://x.io",
			html: `<html><body><a class="navbar-brand">Umbrella Ltd</a></body></html>`,
			want: "Umbrella",
		},
		{
			name: "logo alt",
			url:  "https://x.io",
			html: `<html><body><img src="l.png" alt="Stark Industries logo"></body></html>`,
			want: "Stark Industries",
		},
		{
			name: "title with page suffix",
			url:  "https://x.io",
			html: `<html><head><title>Wayne Enterprises - Home</title></head></html>`,
			want: "Wayne Enterprises",
		},
		{
			name: "title with pipe",
			url:  "https://x.io",
			html: `<html><head><title>Hooli | Making the world better</title></head></html>`,
			want: "Hooli",
		},
		{
			name: "domain label",
			url:  "https://www.acme.io/about",
			html: `<html><body></body></html>`,
			want: "Acme",
		},
		{
			name: "short domain label still used",
			url:  "https://hp.com",
			html: `<html><body></body></html>`,
			want: "Hp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompanyName(parse(t, tt.url, tt.html)); got != tt.want {
				t.Errorf("CompanyName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompanyNameSource(t *testing.T) {
	empty := parse(t, "https://acme.io", "<html><body></body></html>")
	if name, fromPage := CompanyNameSource(empty); name != "Acme" || fromPage {
		t.Errorf("empty page: got (%q, %v), want (\"Acme\", false)", name, fromPage)
	}

	meta := parse(t, "https://acme.io", `<html><head><meta property="og:site_name" content="Globex"></head><body></body></html>`)
	if name, fromPage := CompanyNameSource(meta); name != "Globex" || !fromPage {
		t.Errorf("og:site_name: got (%q, %v), want (\"Globex\", true)", name, fromPage)
	}

	if name, fromPage := CompanyNameSource(nil); name != UnknownCompany || fromPage {
		t.Errorf("nil document: got (%q, %v)", name, fromPage)
	}
}

func TestCompanyNameIgnoresUntypedInlineState(t *testing.T) {
	html := `<html><head><meta property="og:site_name" content="Globex"></head><body>
		<script>window.widgetConfig = {"name": "Chat Widget", "description": "A floating chat bubble shown on every page of the site."};</script>
	</body></html>`
	doc, err := document.Parse("https://globex.io", html, document.Options{InlineScripts: true, ScriptBudget: time.Second})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := CompanyName(doc); got != "Globex" {
		t.Errorf("CompanyName = %q, want Globex", got)
	}
}

func TestCleanCompanyName(t *testing.T) {
	tests := map[string]string{
		"Acme Corp":                  "Acme",
		"Acme, Inc.":                 "Acme",
		"Acme Holdings Co Ltd":       "Acme Holdings",
		"Acme - LLC":                 "Acme",
		"Acme | Official Website":    "Acme",
		"Acme – Welcome to our site": "Acme",
		"Blue-River Tours":           "Blue-River Tours",
		"Company":                    "Company",
	}
	for in, want := range tests {
		if got := CleanCompanyName(in); got != want {
			t.Errorf("CleanCompanyName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFoundedYearPicksEarliest(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><body>
		<p>Acme was founded in 1998 by two engineers.</p>
		<footer>© 2023 Acme</footer>
	</body></html>`)

	if got := FoundedYear(doc); got != "1998" {
		t.Errorf("FoundedYear = %q, want 1998", got)
	}
}

func TestFoundedYearBounds(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	doc := parse(t, "https://acme.io", `<html><body><p>Since 1750 we dreamed. Launched in 2024. Established in 2011.</p></body></html>`)
	if got := FoundedYear(doc); got != "2011" {
		t.Errorf("FoundedYear = %q, want 2011", got)
	}

	structured := parse(t, "https://acme.io", `<html><head>
		<script type="application/ld+json">{"@type":"Organization","foundingDate":"2005-03-01"}</script>
	</head><body><p>Since 1990.</p></body></html>`)
	if got := FoundedYear(structured); got != "2005" {
		t.Errorf("structured FoundedYear = %q, want 2005", got)
	}
}

func TestFoundedYearStaysWithinBlock(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "nav label does not reach later numbers",
			body: `<nav><a href="/about">About Us</a></nav>
				<p>Trusted by 1850 clients worldwide.</p>
				<p>Founded in 1998 in Berlin.</p>`,
			want: "1998",
		},
		{
			name: "history span ends at the sentence",
			body: `<p>Our history. Over 1900 projects delivered.</p>`,
			want: UnknownYear,
		},
		{
			name: "history within a sentence",
			body: `<p>Our history begins in 1987 with one workshop.</p>`,
			want: "1987",
		},
		{
			name: "five digit numbers are not years",
			body: `<p>Serving customers since 19987 orders ago.</p>`,
			want: UnknownYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, "https://acme.io", "<html><body>"+tt.body+"</body></html>")
			if got := FoundedYear(doc); got != tt.want {
				t.Errorf("FoundedYear = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptionPlausibility(t *testing.T) {
	long := strings.Repeat("Acme helps teams ship reliable rockets. ", 2)
	doc := parse(t, "https://acme.io", `<html><head>
		<meta name="description" content="Too short">
		<meta property="og:description" content="`+long+`">
	</head></html>`)

	if got := Description(doc); got != strings.TrimSpace(long) {
		t.Errorf("Description = %q", got)
	}
}

func TestDescriptionParagraphFallback(t *testing.T) {
	para := "We design and manufacture precision parts for aerospace customers around the world."
	doc := parse(t, "https://acme.io", `<html><body>
		<p>Short.</p>
		<p>We use cookies to improve your experience on this website, please accept them now.</p>
		<p>`+para+`</p>
	</body></html>`)

	if got := Description(doc); got != para {
		t.Errorf("Description = %q", got)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured address",
			html: `<html><head><script type="application/ld+json">{"@type":"Organization","address":{"addressLocality":"Austin","addressRegion":"TX"}}</script></head></html>`,
			want: "Austin, TX",
		},
		{
			name: "microdata",
			html: `<html><body><div itemprop="address"><span itemprop="addressLocality">Denver</span></div></body></html>`,
			want: "Denver",
		},
		{
			name: "text pattern",
			html: `<html><body><p>We are headquartered in Portland, OR and love it.</p></body></html>`,
			want: "Portland, OR",
		},
		{
			name: "none",
			html: `<html><body><p>nothing here</p></body></html>`,
			want: UnknownLocation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Location(parse(t, "https://acme.io", tt.html)); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContactInfo(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><body>
		<p>Write to noreply@acme.io or test@acme.io.</p>
		<p>Email: hello@acme.io</p>
		<p>Call (555) 123-4567 today.</p>
	</body></html>`)

	want := "Email: hello@acme.io, Phone: (555) 123-4567"
	if got := ContactInfo(doc); got != want {
		t.Errorf("ContactInfo = %q, want %q", got, want)
	}

	links := parse(t, "https://acme.io", `<html><body><a href="mailto:sales@acme.io?subject=hi">Mail</a><a href="tel:+15551234567">Call</a></body></html>`)
	if got := ContactInfo(links); got != "Email: sales@acme.io, Phone: +15551234567" {
		t.Errorf("ContactInfo from links = %q", got)
	}

	if got := ContactInfo(parse(t, "https://acme.io", "")); got != NoContact {
		t.Errorf("ContactInfo on empty = %q", got)
	}
}

func TestContactInfoRejectsMalformedPhones(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "structured placeholder falls through to text",
			html: `<html><head><script type="application/ld+json">{"@type":"Organization","telephone":"call us"}</script></head>
				<body><p>Call (555) 123-4567.</p></body></html>`,
			want: "Phone: (555) 123-4567",
		},
		{
			name: "structured international number",
			html: `<html><head><script type="application/ld+json">{"@type":"Organization","telephone":"+49 30 1234567"}</script></head><body></body></html>`,
			want: "Phone: +49 30 1234567",
		},
		{
			name: "short tel link is rejected",
			html: `<html><body><a href="tel:123">Call</a></body></html>`,
			want: NoContact,
		},
		{
			name: "encoded tel link",
			html: `<html><body><a href="tel:+44%2020%207946%200958">Call</a></body></html>`,
			want: "Phone: +44 20 7946 0958",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContactInfo(parse(t, "https://acme.io", tt.html)); got != tt.want {
				t.Errorf("ContactInfo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSocialMediaCapAndDedup(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><body>
		<a href="https://www.facebook.com/sharer/sharer.php?u=acme">Share</a>
		<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
		<a href="https://www.linkedin.com/company/acme/">LinkedIn again</a>
		<a href="https://x.com/acme">X</a>
		<a href="https://github.com/acme">GitHub</a>
		<a href="https://instagram.com/acme">Instagram</a>
		<a href="https://notlinkedin.com/acme">Fake</a>
	</body></html>`)

	got := SocialMedia(doc)
	want := "LinkedIn: https://www.linkedin.com/company/acme, Twitter: https://x.com/acme, GitHub: https://github.com/acme"
	if got != want {
		t.Errorf("SocialMedia = %q, want %q", got, want)
	}
	if n := strings.Count(got, ": "); n > 3 {
		t.Errorf("expected at most 3 entries, got %d", n)
	}
}

func TestBusinessMetrics(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><body>
		<p>Our team of 120 engineers now counts 1,500 employees worldwide.</p>
		<p>Last year we reported $45.5 million in revenue.</p>
	</body></html>`)

	if got := EmployeeCount(doc); got != "1500 employees" {
		t.Errorf("EmployeeCount = %q", got)
	}
	if got := CompanySize(doc); got != "Enterprise (1000+ employees)" {
		t.Errorf("CompanySize = %q", got)
	}
	if got := EstimatedRevenue(doc); got != "$45.5M" {
		t.Errorf("EstimatedRevenue = %q", got)
	}

	billions := parse(t, "https://acme.io", `<html><body><p>Revenue: $2 billion</p></body></html>`)
	if got := EstimatedRevenue(billions); got != "$2B" {
		t.Errorf("EstimatedRevenue = %q", got)
	}

	structured := parse(t, "https://acme.io", `<html><head><script type="application/ld+json">{"@type":"Organization","numberOfEmployees":{"@type":"QuantitativeValue","value":35}}</script></head></html>`)
	if got := CompanySize(structured); got != "Small (11-50 employees)" {
		t.Errorf("structured CompanySize = %q", got)
	}
}

func TestTechnologiesWordBoundary(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><body><p>Built with JavaScript and Python on AWS with a public API.</p></body></html>`)

	if got := Technologies(doc); got != "JavaScript, Python, AWS, API" {
		t.Errorf("Technologies = %q", got)
	}
}

func TestSectionExtractors(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><body>
		<section class="our-services"><ul><li>Consulting</li><li>Design</li><li>Support</li><li>Extra</li></ul></section>
		<div class="leadership-team">
			<h3>Jane Smith</h3><p>Chief Executive Officer</p>
			<h3>John Doe</h3><span>CTO</span>
		</div>
		<div class="news-list"><h4>Acme opens a new office in Berlin</h4></div>
		<div class="testimonials"><blockquote>Acme transformed our delivery pipeline completely.</blockquote></div>
		<div class="products"><h3>Rocket Engines</h3><h3>Launch Pads</h3></div>
	</body></html>`)

	if got := KeyServices(doc); got != "Consulting, Design, Support" {
		t.Errorf("KeyServices = %q", got)
	}
	if got := KeyExecutives(doc); got != "Jane Smith - Chief Executive Officer, John Doe - CTO" {
		t.Errorf("KeyExecutives = %q", got)
	}
	if got := RecentNews(doc); got != "Acme opens a new office in Berlin" {
		t.Errorf("RecentNews = %q", got)
	}
	if got := ClientTestimonials(doc); got != "Acme transformed our delivery pipeline completely." {
		t.Errorf("ClientTestimonials = %q", got)
	}
	if got := ProductCategories(doc); got != "Rocket Engines, Launch Pads" {
		t.Errorf("ProductCategories = %q", got)
	}
}

func TestStructuredFounders(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><head><script type="application/ld+json">
		{"@type":"Organization","founder":[{"@type":"Person","name":"Ada Lovelace"},{"@type":"Person","name":"Alan Turing","jobTitle":"CTO"}]}
	</script></head></html>`)

	if got := KeyExecutives(doc); got != "Ada Lovelace - Founder, Alan Turing - CTO" {
		t.Errorf("KeyExecutives = %q", got)
	}
}

func TestCertificationsAndPartnerships(t *testing.T) {
	doc := parse(t, "https://acme.io", `<html><body>
		<p>We are ISO 27001 and SOC 2 compliant and fully GDPR ready.</p>
		<p>Acme integrates with Salesforce and HubSpot.</p>
	</body></html>`)

	if got := Certifications(doc); got != "ISO 27001, SOC 2, GDPR" {
		t.Errorf("Certifications = %q", got)
	}
	if got := Partnerships(doc); got != "salesforce and hubspot" {
		t.Errorf("Partnerships = %q", got)
	}
}

func TestChainRecoversFromPanics(t *testing.T) {
	chain := Chain{
		Field: "test",
		Strategies: []Strategy{
			{Name: "boom", Run: func(*document.Document) (string, bool) { panic("boom") }},
			{Name: "ok", Run: func(*document.Document) (string, bool) { return "value", true }},
		},
		Default: "default",
	}
	if got := chain.Run(parse(t, "https://acme.io", "")); got != "value" {
		t.Errorf("Run = %q, want value", got)
	}
	if got := chain.Run(nil); got != "default" {
		t.Errorf("Run(nil) = %q, want default", got)
	}
}

func TestExtractorsAreTotal(t *testing.T) {
	extractors := map[string]func(*document.Document) string{
		"company_name":           CompanyName,
		"description":            Description,
		"location":               Location,
		"founded_year":           FoundedYear,
		"contact_info":           ContactInfo,
		"social_media":           SocialMedia,
		"company_size":           CompanySize,
		"estimated_revenue":      EstimatedRevenue,
		"employee_count":         EmployeeCount,
		"key_services":           KeyServices,
		"technologies":           Technologies,
		"competitive_advantages": CompetitiveAdvantages,
		"key_executives":         KeyExecutives,
		"awards_recognition":     AwardsRecognition,
		"recent_news":            RecentNews,
		"product_categories":     ProductCategories,
		"client_testimonials":    ClientTestimonials,
		"partnerships":           Partnerships,
		"certifications":         Certifications,
	}
	docs := []*document.Document{
		nil,
		parse(t, "https://acme.io", ""),
		parse(t, "https://acme.io", "<html><body></body></html>"),
		parse(t, "https://acme.io", "plain text without markup"),
		parse(t, "https://acme.io", `<html><head><script type="application/ld+json">{"name": 42, "address": [null, 7], "founder": {"x": 1}}</script></head></html>`),
	}
	for name, fn := range extractors {
		for i, doc := range docs {
			if got := fn(doc); strings.TrimSpace(got) == "" {
				t.Errorf("%s returned empty value for document %d", name, i)
			}
		}
	}
}

func TestEmptyDocumentSentinels(t *testing.T) {
	doc := parse(t, "https://acme.io", "<html><body></body></html>")

	if got := CompanyName(doc); got != "Acme" {
		t.Errorf("CompanyName = %q", got)
	}
	if got := FoundedYear(doc); got != UnknownYear {
		t.Errorf("FoundedYear = %q", got)
	}
	if got := Description(doc); got != NoDescription {
		t.Errorf("Description = %q", got)
	}
}
