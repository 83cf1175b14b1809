package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/bizscrape/internal/cache"
	"github.com/law-makers/bizscrape/internal/ratelimit"
	urlutil "github.com/law-makers/bizscrape/internal/utils/url"
	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// settleDelay lets client-side scripts finish after navigation
const settleDelay = 500 * time.Millisecond

// RenderedOptions configures a RenderedFetcher
type RenderedOptions struct {
	Pool     BrowserPoolOptions
	Cache    cache.Cache
	CacheTTL time.Duration
	Limiter  ratelimit.RateLimiter
	Timeout  time.Duration
}

// RenderedFetcher loads pages in headless Chrome and captures the DOM
// after scripts have run. The browser starts on first use.
type RenderedFetcher struct {
	opts RenderedOptions

	once    sync.Once
	pool    *BrowserPool
	poolErr error
}

// NewRendered creates a rendered fetcher
func NewRendered(opts RenderedOptions) *RenderedFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &RenderedFetcher{opts: opts}
}

// Name returns the name of this fetcher
func (r *RenderedFetcher) Name() string {
	return "rendered"
}

func (r *RenderedFetcher) browser() (*BrowserPool, error) {
	r.once.Do(func() {
		r.pool, r.poolErr = NewBrowserPool(r.opts.Pool)
	})
	return r.pool, r.poolErr
}

// Fetch navigates to the URL and returns the rendered outer HTML
func (r *RenderedFetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	if err := urlutil.ValidateURL(opts.URL); err != nil {
		return nil, NewError(CodeInvalidURL, opts.URL, "invalid URL", err)
	}

	key := cache.Key(opts.URL, models.ModeRendered)
	if r.opts.Cache != nil {
		if page, ok := r.opts.Cache.Get(key); ok {
			return page, nil
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = r.opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if r.opts.Limiter != nil {
		if err := r.opts.Limiter.Wait(ctx, opts.URL); err != nil {
			return nil, classify(opts.URL, err)
		}
	}

	pool, err := r.browser()
	if err != nil {
		return nil, NewError(CodeConnection, opts.URL, "browser unavailable", err)
	}
	tab, err := pool.Acquire(ctx)
	if err != nil {
		return nil, classify(opts.URL, err)
	}
	defer pool.Release(tab)

	tabCtx, tabCancel := context.WithTimeout(tab.Ctx, timeout)
	defer tabCancel()
	// propagate caller cancellation into the tab
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	start := time.Now()
	log.Debug().Str("url", opts.URL).Str("fetcher", r.Name()).Msg("Starting fetch")

	var (
		mu       sync.Mutex
		status   int64
		headers  = make(map[string]string)
		html     string
		finalURL string
	)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			mu.Lock()
			defer mu.Unlock()
			if status == 0 {
				status = e.Response.Status
				for k, v := range e.Response.Headers {
					if s, ok := v.(string); ok {
						headers[k] = s
					}
				}
			}
		}
	})

	extra := make(network.Headers, len(opts.Headers))
	for k, v := range opts.Headers {
		extra[k] = v
	}

	err = chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extra),
		chromedp.Navigate(opts.URL),
		chromedp.Sleep(settleDelay),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, classify(opts.URL, err)
	}

	mu.Lock()
	code := int(status)
	mu.Unlock()
	if code >= 400 {
		return nil, statusError(opts.URL, code)
	}
	if code == 0 {
		code = 200
	}

	page := &models.Page{
		URL:          opts.URL,
		FinalURL:     finalURL,
		StatusCode:   code,
		HTML:         html,
		Headers:      headers,
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
		Rendered:     true,
	}

	if r.opts.Cache != nil {
		if err := r.opts.Cache.Set(key, page, r.opts.CacheTTL); err != nil {
			log.Warn().Err(err).Str("url", opts.URL).Msg("Failed to cache page")
		}
	}

	log.Debug().
		Str("url", opts.URL).
		Int("status", page.StatusCode).
		Int64("response_time_ms", page.ResponseTime).
		Msg("Fetch completed")

	return page, nil
}

// Close shuts the browser down if it was started
func (r *RenderedFetcher) Close() error {
	if r.pool != nil {
		return r.pool.Close()
	}
	return nil
}
