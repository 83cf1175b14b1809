package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

var (
	labelledEmailRe = regexp.MustCompile(`(?i)(?:email|e-mail|contact):\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`)
	emailRe         = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe         = regexp.MustCompile(`(?:^|[^\d])((?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4})(?:$|[^\d])`)
	// structured and tel: numbers may use any national format
	phoneShapeRe    = regexp.MustCompile(`^\+?[0-9][0-9\s().-]*[0-9]$`)
	placeholderMail = []string{"noreply", "no-reply", "example", "test"}
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// ContactInfo returns "Email: <addr>, Phone: <number>" with whichever
// parts were found, or NoContact.
func ContactInfo(doc *document.Document) string {
	return safe("contact_info", NoContact, func() string {
		if doc == nil {
			return ""
		}
		var parts []string
		if email, ok := findEmail(doc); ok {
			parts = append(parts, "Email: "+email)
		}
		if phone, ok := findPhone(doc); ok {
			parts = append(parts, "Phone: "+phone)
		}
		return strings.Join(parts, ", ")
	})
}

// Email returns the first non-placeholder email address
func Email(doc *document.Document) (string, bool) {
	if doc == nil {
		return "", false
	}
	return findEmail(doc)
}

func findEmail(doc *document.Document) (string, bool) {
	for _, b := range doc.Blocks() {
		if s, ok := b.String("email"); ok {
			if email := strings.TrimPrefix(strings.ToLower(s), "mailto:"); acceptEmail(email) {
				return email, true
			}
		}
	}
	for _, l := range doc.Links() {
		if !strings.HasPrefix(strings.ToLower(l.Href), "mailto:") {
			continue
		}
		addr := l.Href[len("mailto:"):]
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if unescaped, err := url.PathUnescape(addr); err == nil {
			addr = unescaped
		}
		if acceptEmail(addr) {
			return addr, true
		}
	}
	text := doc.Text()
	for _, m := range labelledEmailRe.FindAllStringSubmatch(text, -1) {
		if acceptEmail(m[1]) {
			return m[1], true
		}
	}
	for _, m := range emailRe.FindAllString(text, -1) {
		if acceptEmail(m) {
			return m, true
		}
	}
	return "", false
}

func acceptEmail(addr string) bool {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if !emailRe.MatchString(addr) {
		return false
	}
	for _, p := range placeholderMail {
		if strings.Contains(addr, p) {
			return false
		}
	}
	return true
}

func findPhone(doc *document.Document) (string, bool) {
	if s, ok := blockString(doc, "telephone", "phone"); ok && acceptPhone(s) {
		return strings.TrimSpace(s), true
	}
	for _, l := range doc.Links() {
		if !strings.HasPrefix(strings.ToLower(l.Href), "tel:") {
			continue
		}
		n := l.Href[len("tel:"):]
		if unescaped, err := url.PathUnescape(n); err == nil {
			n = unescaped
		}
		if n = strings.TrimSpace(n); acceptPhone(n) {
			return n, true
		}
	}
	if m := phoneRe.FindStringSubmatch(doc.Text()); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// acceptPhone checks a number's shape: digits with common separators and
// between 7 and 15 digits in total
func acceptPhone(s string) bool {
	s = strings.TrimSpace(s)
	if !phoneShapeRe.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}
