package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/law-makers/bizscrape/internal/document"
)

const number = `(\d+(?:,\d{3})*)`

var (
	employeeCountPatterns = compileAll(
		number+`\s*(?:employees?|staff|team members)`,
		`(?:team|staff)\s+(?:of\s+)?`+number,
	)
	companySizePatterns = compileAll(
		number+`\s*(?:\+|plus)?\s*(?:employees|staff|team members|people)`,
		`(?:team|staff|workforce)\s+(?:of\s+)?`+number,
		`employs\s+`+number,
	)
	revenuePatterns = compileAll(
		`\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(million|billion|M|B)\b(?:\s+(?:revenue|sales|annual))?`,
		`(?:revenue|sales)\s*:?\s*\$(\d+(?:,\d{3})*(?:\.\d+)?)\s*(?:(million|billion|M|B)\b)?`,
		`(\d+(?:,\d{3})*(?:\.\d+)?)\s*(million|billion|M|B)\s+(?:in\s+)?(?:revenue|sales)`,
	)
	servicesSectionRe = regexp.MustCompile(`(?i)services|solutions|products|what-?we-?do`)
	advantagePatterns = compileAll(
		`(?:why choose us|advantages|benefits|what makes us|unique|differentiators)[:\s]*(.*?)(?:\.|$)`,
		`(?:our strengths|competitive edge|value proposition)[:\s]*(.*?)(?:\.|$)`,
	)
)

var technologyKeywords = keywords(
	"React=react", "Vue=vue", "Angular=angular", "JavaScript=javascript",
	"Python=python", "Java=java", "AWS=aws", "Azure=azure", "API=api",
	"Cloud=cloud", "Mobile=mobile", "Web=web",
)

var advantageKeywords = []string{
	"award-winning", "industry-leading", "certified", "proven track record",
	"innovative", "cutting-edge", "proprietary", "patent", "exclusive",
}

// EmployeeCount returns "<n> employees" or EmployeesNotSpecified
func EmployeeCount(doc *document.Document) string {
	return safe("employee_count", EmployeesNotSpecified, func() string {
		if doc == nil {
			return ""
		}
		n, ok := structuredEmployees(doc)
		if !ok {
			n, ok = firstCount(doc, employeeCountPatterns)
		}
		if !ok {
			return ""
		}
		return strconv.Itoa(n) + " employees"
	})
}

// CompanySize buckets the employee headcount
func CompanySize(doc *document.Document) string {
	return safe("company_size", UnknownSize, func() string {
		if doc == nil {
			return ""
		}
		n, ok := structuredEmployees(doc)
		if !ok {
			n, ok = firstCount(doc, companySizePatterns)
		}
		if !ok {
			return ""
		}
		return SizeBucket(n)
	})
}

// SizeBucket maps a headcount to a size label
func SizeBucket(n int) string {
	switch {
	case n <= 10:
		return "Startup (1-10 employees)"
	case n <= 50:
		return "Small (11-50 employees)"
	case n <= 200:
		return "Medium (51-200 employees)"
	case n <= 1000:
		return "Large (201-1000 employees)"
	default:
		return "Enterprise (1000+ employees)"
	}
}

func structuredEmployees(doc *document.Document) (int, bool) {
	for _, b := range doc.Blocks() {
		v, ok := b.Data["numberOfEmployees"]
		if !ok {
			continue
		}
		if m, isMap := v.(map[string]any); isMap {
			for _, key := range []string{"value", "maxValue", "minValue"} {
				if s, ok := document.Scalar(m[key]); ok {
					if n, ok := parseCount(s); ok {
						return n, true
					}
				}
			}
			continue
		}
		if s, ok := document.Scalar(v); ok {
			if n, ok := parseCount(s); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func firstCount(doc *document.Document, patterns []*regexp.Regexp) (int, bool) {
	text := doc.Text()
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, ok := parseCount(m[1]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// EstimatedRevenue returns "$<n>M" or "$<n>B", or RevenueNotDisclosed
func EstimatedRevenue(doc *document.Document) string {
	return safe("estimated_revenue", RevenueNotDisclosed, func() string {
		if doc == nil {
			return ""
		}
		text := doc.Text()
		for _, re := range revenuePatterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			unit := strings.ToLower(m[2])
			if unit == "b" || unit == "billion" {
				return "$" + m[1] + "B"
			}
			return "$" + m[1] + "M"
		}
		return ""
	})
}

// KeyServices returns the first few items of a services-like section
func KeyServices(doc *document.Document) string {
	return safe("key_services", ServicesNotSpecified, func() string {
		if doc == nil {
			return ""
		}
		for _, section := range sections(doc, servicesSectionRe) {
			var items []string
			for _, item := range section.Find("li, h3, h4", 3) {
				if text := item.Text(); text != "" && runeLen(text) < 100 {
					items = append(items, text)
				}
			}
			if len(items) > 0 {
				return joinCapped(items, 3)
			}
		}
		return ""
	})
}

// Technologies lists up to six technology keywords mentioned on the page
func Technologies(doc *document.Document) string {
	return safe("technologies", TechnologiesNotSpecified, func() string {
		if doc == nil {
			return ""
		}
		return joinCapped(detect(doc, technologyKeywords), 6)
	})
}

// CompetitiveAdvantages returns up to three differentiating phrases
func CompetitiveAdvantages(doc *document.Document) string {
	return safe("competitive_advantages", AdvantagesNotSpecified, func() string {
		if doc == nil {
			return ""
		}
		found := phrases(doc, advantagePatterns, 10, 200)
		lower := strings.ToLower(doc.Text())
		for _, kw := range advantageKeywords {
			if strings.Contains(lower, kw) {
				found = append(found, kw)
			}
		}
		return joinCapped(found, 3)
	})
}
