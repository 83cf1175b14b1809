// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/law-makers/bizscrape/internal/cache"
	"github.com/law-makers/bizscrape/internal/config"
	"github.com/law-makers/bizscrape/internal/document"
	"github.com/law-makers/bizscrape/internal/fetch"
	"github.com/law-makers/bizscrape/internal/proxy"
	"github.com/law-makers/bizscrape/internal/ratelimit"
	"github.com/law-makers/bizscrape/internal/scraper"
	"github.com/law-makers/bizscrape/internal/store"
	"github.com/law-makers/bizscrape/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation. The store and the scraper are
// opened on demand by EnsureStore so commands that never touch records do
// not need a database. Use Close() to release resources on shutdown.
type Application struct {
	Config     *config.Config
	Logger     *zerolog.Logger
	Cache      *cache.PageCache
	Limiter    ratelimit.RateLimiter
	Proxies    *proxy.Pool
	HTTPClient *http.Client
	Static     *fetch.StaticFetcher
	Rendered   *fetch.RenderedFetcher
	Fetcher    fetch.Fetcher
	Loader     *fetch.Loader

	storeMu sync.Mutex
	Store   store.Store
	Scraper *scraper.Scraper

	startTime time.Time
}

// New creates the fetch stack described by cfg
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := setupLogging(cfg, os.Stderr)

	proxies, err := proxy.NewPool(cfg.Proxies)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy list: %w", err)
	}

	pages := cache.NewPageCache(cfg.CacheMaxSizeBytes)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Msg("Page cache initialized")

	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               proxy.TransportProxy(http.ProxyFromEnvironment),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	static := fetch.NewStatic(httpClient, fetch.StaticOptions{
		Cache:     pages,
		CacheTTL:  cfg.CacheTTL,
		Limiter:   limiter,
		Proxies:   proxies,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})

	// The browser pool starts on the first rendered fetch
	rendered := fetch.NewRendered(fetch.RenderedOptions{
		Pool: fetch.BrowserPoolOptions{
			Size:       cfg.BrowserPoolSize,
			Headless:   cfg.BrowserHeadless,
			UserAgent:  cfg.UserAgent,
			ChromePath: cfg.ChromePath,
			Proxy:      proxies.Next(),
		},
		Cache:    pages,
		CacheTTL: cfg.CacheTTL,
		Limiter:  limiter,
		Timeout:  cfg.HTTPTimeout,
	})

	mode, _ := models.ParseFetchMode(cfg.FetchMode)
	var fetcher fetch.Fetcher
	switch mode {
	case models.ModeRendered:
		fetcher = rendered
	case models.ModeAuto:
		fetcher = fetch.NewAuto(static, rendered)
	default:
		fetcher = static
	}

	loader := fetch.NewLoader(fetcher, document.Options{
		InlineScripts: cfg.InlineScripts,
		ScriptBudget:  cfg.ScriptBudget,
	})
	logger.Debug().
		Str("fetcher", fetcher.Name()).
		Int("proxies", proxies.Len()).
		Bool("inline_scripts", cfg.InlineScripts).
		Msg("Fetchers initialized")

	return &Application{
		Config:     cfg,
		Logger:     logger,
		Cache:      pages,
		Limiter:    limiter,
		Proxies:    proxies,
		HTTPClient: httpClient,
		Static:     static,
		Rendered:   rendered,
		Fetcher:    fetcher,
		Loader:     loader,
		startTime:  time.Now(),
	}, nil
}

// setupLogging configures the global zerolog logger. Info logs are hidden
// unless the level is debug.
func setupLogging(cfg *config.Config, out io.Writer) *zerolog.Logger {
	var level zerolog.Level
	switch cfg.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = out
	if !cfg.JSONLog {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return &logger
}

// EnsureStore opens the configured record store and builds the scraper on
// top of it. It is safe to call more than once.
func (a *Application) EnsureStore(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	a.storeMu.Lock()
	defer a.storeMu.Unlock()

	if a.Store != nil {
		return nil
	}

	st, err := store.Open(ctx, a.Config.StoreDriver, a.Config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", a.Config.StoreDriver, err)
	}

	a.Store = st
	a.Scraper = scraper.New(a.Loader, st, a.scraperOptions(nil))

	a.Logger.Debug().Str("driver", a.Config.StoreDriver).Msg("Record store opened")
	return nil
}

// WithHeaders returns a scraper that sends extra request headers
func (a *Application) WithHeaders(headers map[string]string) *scraper.Scraper {
	return scraper.New(a.Loader, a.Store, a.scraperOptions(headers))
}

func (a *Application) scraperOptions(headers map[string]string) scraper.Options {
	mode, _ := models.ParseFetchMode(a.Config.FetchMode)
	opts := scraper.Options{
		Mode:       mode,
		Headers:    headers,
		Timeout:    a.Config.HTTPTimeout,
		AuxLimit:   a.Config.AuxLimit,
		AuxTimeout: a.Config.AuxTimeout,
		AuxDelay:   a.Config.AuxDelay,
	}
	// a zero limit turns enrichment off
	if a.Config.AuxLimit == 0 {
		opts.AuxPaths = []string{}
	}
	return opts
}

// Close gracefully shuts down the application and all its resources.
// Errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	if a.Rendered != nil {
		if err := a.Rendered.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser pool")
		}
	}

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing record store")
		}
	}

	if a.Cache != nil {
		stats := a.Cache.Stats()
		a.Logger.Debug().
			Int("pages", stats.Pages).
			Int64("bytes", stats.Bytes).
			Uint64("hits", stats.Hits).
			Uint64("misses", stats.Misses).
			Msg("Page cache usage")
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
