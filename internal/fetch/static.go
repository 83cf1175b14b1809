package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/law-makers/bizscrape/internal/cache"
	"github.com/law-makers/bizscrape/internal/proxy"
	"github.com/law-makers/bizscrape/internal/ratelimit"
	urlutil "github.com/law-makers/bizscrape/internal/utils/url"
	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 10 << 20

// StaticOptions configures a StaticFetcher
type StaticOptions struct {
	Cache     cache.Cache
	CacheTTL  time.Duration
	Limiter   ratelimit.RateLimiter
	Proxies   *proxy.Pool
	Timeout   time.Duration
	UserAgent string
}

// StaticFetcher fetches raw HTML with a plain HTTP GET
type StaticFetcher struct {
	client *http.Client
	opts   StaticOptions
}

// NewStatic creates a static fetcher. The client's transport should route
// through proxy.TransportProxy for per-request proxy rotation.
func NewStatic(client *http.Client, opts StaticOptions) *StaticFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &StaticFetcher{client: client, opts: opts}
}

// Name returns the name of this fetcher
func (s *StaticFetcher) Name() string {
	return "static"
}

// Fetch performs one GET without retries
func (s *StaticFetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Page, error) {
	if err := urlutil.ValidateURL(opts.URL); err != nil {
		return nil, NewError(CodeInvalidURL, opts.URL, "invalid URL", err)
	}

	key := cache.Key(opts.URL, models.ModeStatic)
	if s.opts.Cache != nil {
		if page, ok := s.opts.Cache.Get(key); ok {
			return page, nil
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Wait(ctx, opts.URL); err != nil {
			return nil, classify(opts.URL, err)
		}
	}

	proxyURL := s.opts.Proxies.Next()
	ctx = proxy.WithProxy(ctx, proxyURL)

	start := time.Now()
	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", s.Name()).
		Bool("proxied", proxyURL != "").
		Msg("Starting fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, NewError(CodeInvalidURL, opts.URL, "failed to create request", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.opts.Proxies.MarkFailed(proxyURL)
		return nil, classify(opts.URL, err)
	}
	defer resp.Body.Close()
	s.opts.Proxies.MarkHealthy(proxyURL)

	if resp.StatusCode >= 400 {
		return nil, statusError(opts.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(opts.URL, err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil, NewError(CodeEmptyBody, opts.URL, "response body is empty", nil)
	}

	page := &models.Page{
		URL:          opts.URL,
		FinalURL:     resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		HTML:         string(body),
		Headers:      make(map[string]string),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}
	for k, values := range resp.Header {
		if len(values) > 0 {
			page.Headers[k] = values[0]
		}
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(key, page, s.opts.CacheTTL); err != nil {
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
