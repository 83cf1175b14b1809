package classify

import "github.com/law-makers/bizscrape/internal/document"

var (
	// BusinessType buckets what the company sells
	BusinessType = Classifier{
		Field:   "business_type",
		NoMatch: "Other",
		Labels: []Label{
			{"SaaS/Software", []string{"software", "saas", "platform", "api", "cloud", "application"}},
			{"E-commerce", []string{"shop", "store", "buy", "sell", "marketplace", "retail"}},
			{"Fintech", []string{"fintech", "financial", "banking", "payment", "cryptocurrency"}},
			{"Consulting", []string{"consulting", "consultant", "advisory", "services"}},
			{"Healthcare/Medtech", []string{"healthcare", "medical", "health", "pharma", "biotech"}},
			{"Education/EdTech", []string{"education", "learning", "training", "course", "edtech"}},
			{"Media/Content", []string{"media", "content", "publishing", "news", "journalism"}},
			{"Technology", []string{"technology", "tech", "innovation", "digital", "ai"}},
		},
	}

	// Industry is the broad market sector
	Industry = Classifier{
		Field:   "industry",
		NoMatch: "Other",
		Labels: []Label{
			{"Technology", []string{"software", "tech", "ai", "machine learning", "cloud", "saas", "platform"}},
			{"Healthcare", []string{"healthcare", "medical", "pharma", "biotech", "health", "wellness"}},
			{"Finance", []string{"fintech", "financial", "banking", "investment", "trading", "cryptocurrency"}},
			{"E-commerce", []string{"ecommerce", "online store", "retail", "marketplace", "shopping"}},
			{"Education", []string{"education", "learning", "training", "edtech", "courses", "university"}},
			{"Marketing", []string{"marketing", "advertising", "seo", "social media", "digital marketing"}},
			{"Manufacturing", []string{"manufacturing", "production", "industrial", "factory", "automotive"}},
			{"Real Estate", []string{"real estate", "property", "housing", "construction", "architecture"}},
			{"Transportation", []string{"logistics", "shipping", "transport", "delivery", "mobility"}},
			{"Entertainment", []string{"entertainment", "media", "gaming", "streaming", "content"}},
		},
	}

	// BusinessModel is how the company charges
	BusinessModel = Classifier{
		Field:   "business_model",
		NoMatch: "Unknown",
		Labels: []Label{
			{"SaaS", []string{"subscription", "saas", "monthly", "annual plan", "software as a service"}},
			{"E-commerce", []string{"buy now", "add to cart", "shop", "products", "checkout"}},
			{"Marketplace", []string{"marketplace", "sellers", "buyers", "commission", "platform"}},
			{"Consulting", []string{"consulting", "services", "consultation", "advisory", "expertise"}},
			{"Freemium", []string{"free trial", "freemium", "upgrade", "premium", "basic plan"}},
			{"B2B", []string{"enterprise", "business", "companies", "organizations", "corporate"}},
			{"B2C", []string{"consumers", "individuals", "personal", "home", "family"}},
		},
	}

	// MarketFocus is the geographic reach
	MarketFocus = Classifier{
		Field:   "market_focus",
		NoMatch: "Unknown",
		Labels: []Label{
			{"Global", []string{"global", "worldwide", "international", "countries"}},
			{"National", []string{"nationwide", "across the country", "national"}},
			{"Regional", []string{"regional", "local", "city", "state", "area"}},
			{"Niche", []string{"specialized", "niche", "specific industry", "vertical"}},
		},
	}

	// BusinessMaturity is the company's life-cycle stage
	BusinessMaturity = Classifier{
		Field:   "business_maturity",
		NoMatch: "Unknown",
		Labels: []Label{
			{"Startup", []string{"startup", "new company", "recently founded", "emerging"}},
			{"Growth", []string{"growing", "expanding", "scaling", "raising funds"}},
			{"Mature", []string{"established", "leading", "industry leader", "decades"}},
			{"Enterprise", []string{"enterprise", "fortune 500", "public company", "nasdaq"}},
		},
	}

	// TargetMarket is the primary customer segment
	TargetMarket = Classifier{
		Field:   "target_market",
		NoMatch: "General Market",
		Labels: []Label{
			{"Enterprise", []string{"enterprise", "large companies", "corporations"}},
			{"SMB", []string{"small business", "smb", "startups"}},
			{"Consumer", []string{"consumer", "individual", "personal"}},
			{"Developers", []string{"developers", "engineers", "technical"}},
		},
	}
)

// All lists every classifier in record column order
var All = []Classifier{BusinessType, Industry, TargetMarket, BusinessModel, MarketFocus, BusinessMaturity}

// Result holds one label per classifier
type Result struct {
	BusinessType     string
	Industry         string
	TargetMarket     string
	BusinessModel    string
	MarketFocus      string
	BusinessMaturity string
}

// Run classifies a document with every table
func Run(doc *document.Document) Result {
	text := ""
	if doc != nil {
		text = doc.Text()
	}
	return Result{
		BusinessType:     BusinessType.ClassifyText(text),
		Industry:         Industry.ClassifyText(text),
		TargetMarket:     TargetMarket.ClassifyText(text),
		BusinessModel:    BusinessModel.ClassifyText(text),
		MarketFocus:      MarketFocus.ClassifyText(text),
		BusinessMaturity: BusinessMaturity.ClassifyText(text),
	}
}
