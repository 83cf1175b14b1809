package fetch

import (
	"regexp"
	"strings"
)

var (
	scriptTagRe   = regexp.MustCompile(`(?i)<script\b`)
	mountPointRe  = regexp.MustCompile(`(?i)<div[^>]+id=["'](root|app|__next|__nuxt|svelte)["'][^>]*>\s*</div>`)
	frameworkHint = []struct {
		name    string
		markers []string
	}{
		{"Next.js", []string{"__next_data__", "/_next/static/"}},
		{"Nuxt", []string{"__nuxt__", "/_nuxt/"}},
		{"React", []string{"data-reactroot", "react-dom"}},
		{"Vue", []string{"data-v-app", "vue.runtime", "data-server-rendered"}},
		{"Angular", []string{"ng-version", "ng-app"}},
		{"Ember", []string{"ember-application"}},
		{"Svelte", []string{"svelte-"}},
	}
)

// DetectFramework names the client-side framework a page was built with,
// or returns "Unknown"
func DetectFramework(html string) string {
	lower := strings.ToLower(html)
	for _, f := range frameworkHint {
		for _, m := range f.markers {
			if strings.Contains(lower, m) {
				return f.name
			}
		}
	}
	return "Unknown"
}

// NeedsRendering reports whether a statically fetched page is probably an
// empty shell filled in by JavaScript
func NeedsRendering(html string) bool {
	if mountPointRe.MatchString(html) {
		return true
	}
	lower := strings.ToLower(html)
	scripts := len(scriptTagRe.FindAllStringIndex(html, -1))
	divs := strings.Count(lower, "<div")
	paragraphs := strings.Count(lower, "<p>") + strings.Count(lower, "<p ")

	if scripts > 0 && divs < 3 && paragraphs == 0 {
		return true
	}
	return scripts > 5 && paragraphs < 2 && DetectFramework(html) != "Unknown"
}
