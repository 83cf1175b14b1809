package reqctx

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const scrapeKey key = 0

// Scrape identifies one scrape invocation
type Scrape struct {
	ID        string
	URL       string
	StartTime time.Time
}

// WithScrape starts a scrape scope: it assigns an id and attaches a logger
// carrying the url and scrape_id fields to the context
func WithScrape(ctx context.Context, url string) context.Context {
	s := &Scrape{
		ID:        uuid.NewString(),
		URL:       url,
		StartTime: time.Now(),
	}
	ctx = context.WithValue(ctx, scrapeKey, s)
	logger := log.With().Str("scrape_id", s.ID).Str("url", url).Logger()
	return logger.WithContext(ctx)
}

// FromContext returns the current scrape, or a placeholder outside one
func FromContext(ctx context.Context) *Scrape {
	if s, ok := ctx.Value(scrapeKey).(*Scrape); ok {
		return s
	}
	return &Scrape{
		ID:        "unknown",
		StartTime: time.Now(),
	}
}

// Logger returns the scrape-scoped logger, or the global one
func Logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

// Elapsed is the time since the scrape started
func Elapsed(ctx context.Context) time.Duration {
	return time.Since(FromContext(ctx).StartTime)
}
