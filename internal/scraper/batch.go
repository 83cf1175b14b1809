package scraper

import (
	"context"
	"errors"
	"io"
	"runtime"

	"github.com/law-makers/bizscrape/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// BatchOptions configures ScrapeAll
type BatchOptions struct {
	// Concurrency bounds parallel scrapes; <= 0 picks OptimalConcurrency
	Concurrency int
	// ReuseStored returns an already stored record instead of fetching again
	ReuseStored bool
	// Progress receives a progress bar when set
	Progress io.Writer
}

// BatchResult is the outcome for one URL of a batch
type BatchResult struct {
	URL    string
	Result *Result
	Err    error
}

// OptimalConcurrency picks a worker count for I/O bound scraping
func OptimalConcurrency() int {
	n := runtime.NumCPU() * 2
	if n < 2 {
		n = 2
	}
	if n > 16 {
		n = 16
	}
	return n
}

// ScrapeAll scrapes urls concurrently. Results keep the input order; one
// failed URL does not stop the others.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, opts BatchOptions) []BatchResult {
	results := make([]BatchResult, len(urls))
	if len(urls) == 0 {
		return results
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = OptimalConcurrency()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(urls),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("Scraping"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = s.scrapeOne(ctx, u, opts.ReuseStored)
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	if bar != nil {
		bar.Finish()
	}
	return results
}

func (s *Scraper) scrapeOne(ctx context.Context, u string, reuse bool) BatchResult {
	if err := ctx.Err(); err != nil {
		return BatchResult{URL: u, Err: err}
	}
	if reuse && s.store != nil {
		rec, err := s.store.FindByURL(ctx, u)
		if err == nil {
			return BatchResult{URL: u, Result: &Result{Record: rec, Stored: true, Reused: true}}
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("url", u).Msg("Stored record lookup failed, scraping again")
		}
	}
	res, err := s.Scrape(ctx, u)
	return BatchResult{URL: u, Result: res, Err: err}
}
