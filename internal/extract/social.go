package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

const maxSocialLinks = 3

type platform struct {
	name string
	host *regexp.Regexp
}

var socialPlatforms = []platform{
	{"LinkedIn", regexp.MustCompile(`(^|\.)linkedin\.com$`)},
	{"Twitter", regexp.MustCompile(`(^|\.)(twitter|x)\.com$`)},
	{"Facebook", regexp.MustCompile(`(^|\.)(facebook|fb)\.com$`)},
	{"Instagram", regexp.MustCompile(`(^|\.)instagram\.com$`)},
	{"YouTube", regexp.MustCompile(`(^|\.)(youtube\.com|youtu\.be)$`)},
	{"GitHub", regexp.MustCompile(`(^|\.)github\.com$`)},
}

// SocialMedia lists up to three distinct profile links as
// "Platform: url" pairs. Share-action links are ignored.
func SocialMedia(doc *document.Document) string {
	return safe("social_media", NoSocialMedia, func() string {
		if doc == nil {
			return ""
		}
		seen := make(map[string]bool)
		var out []string
		for _, l := range doc.Links() {
			if strings.Contains(strings.ToLower(l.Href), "share") {
				continue
			}
			name, ok := classifyLink(l.Href)
			if !ok {
				continue
			}
			key := name + "|" + strings.TrimSuffix(strings.ToLower(l.Href), "/")
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name+": "+l.Href)
			if len(out) == maxSocialLinks {
				break
			}
		}
		return strings.Join(out, ", ")
	})
}

func classifyLink(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	for _, p := range socialPlatforms {
		if p.host.MatchString(host) {
			return p.name, true
		}
	}
	return "", false
}
