// Package scraper turns a company website into a business record.
package scraper

import (
	"context"
	"time"

	"github.com/law-makers/bizscrape/internal/classify"
	"github.com/law-makers/bizscrape/internal/condense"
	"github.com/law-makers/bizscrape/internal/document"
	"github.com/law-makers/bizscrape/internal/extract"
	"github.com/law-makers/bizscrape/internal/fetch"
	"github.com/law-makers/bizscrape/internal/ratelimit"
	"github.com/law-makers/bizscrape/internal/reqctx"
	"github.com/law-makers/bizscrape/internal/store"
	urlutil "github.com/law-makers/bizscrape/internal/utils/url"
	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog"
)

// DefaultAuxPaths are tried in order when enriching a record
var DefaultAuxPaths = []string{"/about", "/company", "/about-us", "/team", "/leadership"}

const minAuxDescription = 50

// Options configures a Scraper
type Options struct {
	Mode       models.FetchMode
	Headers    map[string]string
	Timeout    time.Duration
	AuxPaths   []string
	AuxLimit   int
	AuxTimeout time.Duration
	AuxDelay   time.Duration
}

// Result is a successful scrape. A storage failure does not fail the
// scrape: Stored is false and StoreErr holds the cause.
type Result struct {
	Record   *models.Record
	Stored   bool
	StoreErr error
	// ContentHTML is the main-content markup of the primary page
	ContentHTML string
	// Reused is set when the record came from the store instead of a fetch
	Reused bool
}

// Scraper fetches a site, extracts a record and stores it
type Scraper struct {
	loader *fetch.Loader
	store  store.Store
	opts   Options
}

// New creates a scraper. store may be nil, in which case nothing is persisted.
func New(loader *fetch.Loader, st store.Store, opts Options) *Scraper {
	if opts.AuxPaths == nil {
		opts.AuxPaths = DefaultAuxPaths
	}
	if opts.AuxLimit <= 0 {
		opts.AuxLimit = 2
	}
	if opts.AuxTimeout <= 0 {
		opts.AuxTimeout = 10 * time.Second
	}
	if opts.AuxDelay < 0 {
		opts.AuxDelay = 0
	}
	return &Scraper{loader: loader, store: st, opts: opts}
}

// Scrape fetches rawURL, builds its record, enriches it from auxiliary
// pages and stores it. Only a failure to fetch the primary page is an error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Result, error) {
	ctx = reqctx.WithScrape(ctx, rawURL)
	logger := reqctx.Logger(ctx)
	logger.Info().Msg("Scraping website")

	if err := urlutil.ValidateURL(rawURL); err != nil {
		return nil, s.fail(ctx, fetch.NewError(fetch.CodeInvalidURL, rawURL, "invalid URL", err))
	}

	doc, page, err := s.loader.Load(ctx, s.request(rawURL, s.opts.Timeout))
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	rec := Build(rawURL, doc)
	base := page.FinalURL
	if base == "" {
		base = rawURL
	}
	s.enrich(ctx, rec, base)
	rec.ScrapedAt = time.Now().UTC()

	if !Meaningful(rec, doc) {
		logger.Warn().Msg("Low confidence extraction: no meaningful business fields found")
	}

	result := &Result{Record: rec, ContentHTML: condense.ContentHTML(doc)}
	if s.store != nil {
		stored, err := s.store.Insert(ctx, rec)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to store record")
			result.StoreErr = err
		} else {
			result.Record = stored
			result.Stored = true
		}
	}

	logger.Info().
		Str("company", rec.CompanyName).
		Bool("stored", result.Stored).
		Dur("duration", reqctx.Elapsed(ctx)).
		Msg("Scrape completed")
	return result, nil
}

// Build runs every extractor, classifier and condenser over doc. It is a
// pure function of the document content.
func Build(rawURL string, doc *document.Document) *models.Record {
	classes := classify.Run(doc)
	return &models.Record{
		URL:                   rawURL,
		CompanyName:           extract.CompanyName(doc),
		BusinessType:          classes.BusinessType,
		Industry:              classes.Industry,
		Description:           extract.Description(doc),
		Location:              extract.Location(doc),
		FoundedYear:           extract.FoundedYear(doc),
		ContactInfo:           extract.ContactInfo(doc),
		SocialMedia:           extract.SocialMedia(doc),
		Content:               condense.Content(doc),
		CompanySize:           extract.CompanySize(doc),
		EstimatedRevenue:      extract.EstimatedRevenue(doc),
		EmployeeCount:         extract.EmployeeCount(doc),
		KeyServices:           extract.KeyServices(doc),
		TargetMarket:          classes.TargetMarket,
		Technologies:          extract.Technologies(doc),
		Summary:               condense.Summary(doc),
		BusinessModel:         classes.BusinessModel,
		CompetitiveAdvantages: extract.CompetitiveAdvantages(doc),
		KeyExecutives:         extract.KeyExecutives(doc),
		AwardsRecognition:     extract.AwardsRecognition(doc),
		RecentNews:            extract.RecentNews(doc),
		ProductCategories:     extract.ProductCategories(doc),
		ClientTestimonials:    extract.ClientTestimonials(doc),
		Partnerships:          extract.Partnerships(doc),
		Certifications:        extract.Certifications(doc),
		MarketFocus:           classes.MarketFocus,
		BusinessMaturity:      classes.BusinessMaturity,
	}
}

// Meaningful reports whether any headline field holds a value found on the
// page. A company name derived from the domain does not count.
func Meaningful(rec *models.Record, doc *document.Document) bool {
	_, nameFromPage := extract.CompanyNameSource(doc)
	return nameFromPage ||
		rec.Description != extract.NoDescription ||
		rec.BusinessType != classify.BusinessType.NoMatch ||
		rec.Industry != classify.Industry.NoMatch
}

// enrich re-reads the founding year and description from up to AuxLimit
// reachable auxiliary pages. Failures are ignored.
func (s *Scraper) enrich(ctx context.Context, rec *models.Record, base string) {
	logger := reqctx.Logger(ctx)
	pacer := ratelimit.NewPacer(s.opts.AuxDelay)
	reached := 0

	for _, path := range s.opts.AuxPaths {
		if reached >= s.opts.AuxLimit {
			break
		}
		auxURL, err := urlutil.SiteURL(base, path)
		if err != nil {
			return
		}
		if err := pacer.Wait(ctx); err != nil {
			return
		}

		doc, _, err := s.loader.Load(ctx, s.request(auxURL, s.opts.AuxTimeout))
		if err != nil {
			logger.Debug().Err(err).Str("aux_url", auxURL).Msg("Auxiliary page unavailable")
			continue
		}
		reached++
		applyAux(rec, doc, logger.With().Str("aux_url", auxURL).Logger())
	}
}

func applyAux(rec *models.Record, doc *document.Document, logger zerolog.Logger) {
	if year := extract.FoundedYear(doc); year != extract.UnknownYear {
		rec.FoundedYear = year
		logger.Debug().Str("founded_year", year).Msg("Founding year updated from auxiliary page")
	}
	if desc := extract.Description(doc); len([]rune(desc)) > minAuxDescription {
		rec.Description = desc
		logger.Debug().Msg("Description updated from auxiliary page")
	}
}

func (s *Scraper) request(rawURL string, timeout time.Duration) models.RequestOptions {
	return models.RequestOptions{
		URL:     rawURL,
		Mode:    s.opts.Mode,
		Headers: s.opts.Headers,
		Timeout: timeout,
	}
}

func (s *Scraper) fail(ctx context.Context, err error) error {
	sc := reqctx.FromContext(ctx)
	serr := &ScrapeError{URL: sc.URL, ScrapeID: sc.ID, Err: err}
	reqctx.Logger(ctx).Error().
		Err(err).
		Dur("duration", reqctx.Elapsed(ctx)).
		Msg(serr.Cause())
	return serr
}
