package models

import "time"

// Page is the raw result of fetching a URL
type Page struct {
	URL          string            `json:"url"`
	FinalURL     string            `json:"final_url,omitempty"`
	StatusCode   int               `json:"status_code"`
	HTML         string            `json:"html,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
	ResponseTime int64             `json:"response_time_ms"`
	Rendered     bool              `json:"rendered,omitempty"`
}

// FetchMode defines the fetcher to use
type FetchMode string

const (
	ModeAuto     FetchMode = "auto"
	ModeStatic   FetchMode = "static"
	ModeRendered FetchMode = "rendered"
)

// ParseFetchMode maps a flag value to a FetchMode
func ParseFetchMode(s string) (FetchMode, bool) {
	switch FetchMode(s) {
	case ModeAuto, ModeStatic, ModeRendered:
		return FetchMode(s), true
	case "spa", "dynamic":
		return ModeRendered, true
	}
	return "", false
}

// RequestOptions contains options for fetching a single page
type RequestOptions struct {
	URL     string
	Mode    FetchMode
	Headers map[string]string
	Timeout time.Duration
}

// Record is the structured business profile built from one scrape.
// Every field is always populated; missing signal is a sentinel string.
type Record struct {
	ID                    string    `json:"id"`
	URL                   string    `json:"url"`
	CompanyName           string    `json:"company_name"`
	BusinessType          string    `json:"business_type"`
	Industry              string    `json:"industry"`
	Description           string    `json:"description"`
	Location              string    `json:"location"`
	FoundedYear           string    `json:"founded_year"`
	ContactInfo           string    `json:"contact_info"`
	SocialMedia           string    `json:"social_media"`
	Content               string    `json:"content"`
	CompanySize           string    `json:"company_size"`
	EstimatedRevenue      string    `json:"estimated_revenue"`
	EmployeeCount         string    `json:"employee_count"`
	KeyServices           string    `json:"key_services"`
	TargetMarket          string    `json:"target_market"`
	Technologies          string    `json:"technologies"`
	Summary               string    `json:"summary"`
	BusinessModel         string    `json:"business_model"`
	CompetitiveAdvantages string    `json:"competitive_advantages"`
	KeyExecutives         string    `json:"key_executives"`
	AwardsRecognition     string    `json:"awards_recognition"`
	RecentNews            string    `json:"recent_news"`
	ProductCategories     string    `json:"product_categories"`
	ClientTestimonials    string    `json:"client_testimonials"`
	Partnerships          string    `json:"partnerships"`
	Certifications        string    `json:"certifications"`
	MarketFocus           string    `json:"market_focus"`
	BusinessMaturity      string    `json:"business_maturity"`
	ScrapedAt             time.Time `json:"scraped_at"`
}

// Field is a named record value, in stable column order
type Field struct {
	Name  string
	Value string
}

// Fields returns the extracted fields of the record in column order
func (r *Record) Fields() []Field {
	return []Field{
		{"url", r.URL},
		{"company_name", r.CompanyName},
		{"business_type", r.BusinessType},
		{"industry", r.Industry},
		{"description", r.Description},
		{"location", r.Location},
		{"founded_year", r.FoundedYear},
		{"contact_info", r.ContactInfo},
		{"social_media", r.SocialMedia},
		{"content", r.Content},
		{"company_size", r.CompanySize},
		{"estimated_revenue", r.EstimatedRevenue},
		{"employee_count", r.EmployeeCount},
		{"key_services", r.KeyServices},
		{"target_market", r.TargetMarket},
		{"technologies", r.Technologies},
		{"summary", r.Summary},
		{"business_model", r.BusinessModel},
		{"competitive_advantages", r.CompetitiveAdvantages},
		{"key_executives", r.KeyExecutives},
		{"awards_recognition", r.AwardsRecognition},
		{"recent_news", r.RecentNews},
		{"product_categories", r.ProductCategories},
		{"client_testimonials", r.ClientTestimonials},
		{"partnerships", r.Partnerships},
		{"certifications", r.Certifications},
		{"market_focus", r.MarketFocus},
		{"business_maturity", r.BusinessMaturity},
	}
}
