package output

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/bizscrape/internal/utils/url"
)

// Markdown renders a profile section per record. The page content is
// converted from markup when available, otherwise the stored text is used.
func Markdown(entries []Entry) ([]byte, error) {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		r := e.Record
		fmt.Fprintf(&sb, "# %s\n\n", r.CompanyName)
		sb.WriteString("| Field | Value |\n|---|---|\n")
		for _, f := range r.Fields() {
			if f.Name == "content" || f.Name == "company_name" {
				continue
			}
			fmt.Fprintf(&sb, "| %s | %s |\n", f.Name, escapeCell(f.Value))
		}
		if !r.ScrapedAt.IsZero() {
			fmt.Fprintf(&sb, "| scraped_at | %s |\n", r.ScrapedAt.Format("2006-01-02 15:04 MST"))
		}

		sb.WriteString("\n## Content\n\n")
		content := r.Content
		if e.ContentHTML != "" {
			converted, err := contentMarkdown(r.URL, e.ContentHTML)
			if err != nil {
				return nil, fmt.Errorf("convert content of %s: %w", r.URL, err)
			}
			if converted != "" {
				content = converted
			}
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func contentMarkdown(pageURL, contentHTML string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	// Resolve relative links against the scraped page
	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			str := fmt.Sprintf("[%s](%s)", strings.TrimSpace(selec.Text()), urlutil.ResolveURL(pageURL, href))
			return &str
		},
	})

	cleaned, err := CleanHTML(contentHTML)
	if err != nil {
		return "", err
	}
	out, err := converter.ConvertString(cleaned)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
