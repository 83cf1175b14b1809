package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/law-makers/bizscrape/internal/secrets"
	"github.com/law-makers/bizscrape/internal/store"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP/Scraping
	HTTPTimeout time.Duration
	UserAgent   string
	Proxies     []string
	FetchMode   string

	// Auxiliary page enrichment
	AuxTimeout time.Duration
	AuxDelay   time.Duration
	AuxLimit   int

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Browser Pool
	BrowserPoolSize int
	BrowserHeadless bool
	ChromePath      string

	// Caching
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64

	// Storage
	StoreDriver string
	DSN         string

	// Parsing
	InlineScripts bool
	ScriptBudget  time.Duration

	// Batch
	Concurrency int
}

// storedDSN looks up a DSN saved with `bizscrape db set-dsn`
var storedDSN = func() (string, error) {
	return secrets.Default().Get(secrets.DSNKey)
}

// Default returns a Config holding only default values
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		HTTPTimeout:       DefaultHTTPTimeout,
		UserAgent:         DefaultUserAgent,
		FetchMode:         DefaultFetchMode,
		AuxTimeout:        DefaultAuxTimeout,
		AuxDelay:          DefaultAuxDelay,
		AuxLimit:          DefaultAuxLimit,
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
		BrowserPoolSize:   DefaultBrowserPoolSize,
		BrowserHeadless:   DefaultBrowserHeadless,
		CacheTTL:          DefaultCacheTTL,
		CacheMaxSizeBytes: DefaultCacheMaxSizeBytes,
		StoreDriver:       DefaultStoreDriver,
		ScriptBudget:      DefaultScriptBudget,
		Concurrency:       DefaultConcurrency,
	}
}

// Load builds a Config by combining defaults, an optional YAML file, a .env
// file, environment variables and CLI flags, in increasing precedence.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("file", DefaultEnvFile).Msg("Failed to load env file")
	}

	path := os.Getenv("BIZSCRAPE_CONFIG")
	if s := flagString(cmd, "config"); s != "" {
		path = s
	}
	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		fc.apply(cfg)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return nil, fmt.Errorf("invalid flag: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	if cfg.StoreDriver == store.DriverPostgres && cfg.DSN == "" {
		if dsn, err := storedDSN(); err == nil {
			cfg.DSN = dsn
		} else if !errors.Is(err, secrets.ErrNotFound) {
			log.Debug().Err(err).Msg("Stored DSN unavailable")
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.LogLevel, os.Getenv("BIZSCRAPE_LOG_LEVEL"))
	setString(&cfg.UserAgent, os.Getenv("BIZSCRAPE_USER_AGENT"))
	setString(&cfg.ChromePath, os.Getenv("BIZSCRAPE_CHROME_PATH"))
	setString(&cfg.FetchMode, os.Getenv("BIZSCRAPE_MODE"))
	setString(&cfg.StoreDriver, os.Getenv("BIZSCRAPE_STORE"))
	setString(&cfg.DSN, os.Getenv("DATABASE_URL"))
	setString(&cfg.DSN, os.Getenv("BIZSCRAPE_DSN"))
	if v := os.Getenv("BIZSCRAPE_PROXIES"); v != "" {
		cfg.Proxies = splitList(v)
	}

	for name, dst := range map[string]*time.Duration{
		"BIZSCRAPE_TIMEOUT":     &cfg.HTTPTimeout,
		"BIZSCRAPE_AUX_TIMEOUT": &cfg.AuxTimeout,
		"BIZSCRAPE_AUX_DELAY":   &cfg.AuxDelay,
		"BIZSCRAPE_CACHE_TTL":   &cfg.CacheTTL,
	} {
		if v := os.Getenv(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = d
		}
	}

	if v := os.Getenv("BIZSCRAPE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BIZSCRAPE_CONCURRENCY: %w", err)
		}
		cfg.Concurrency = n
	}
	if v := os.Getenv("BIZSCRAPE_INLINE_SCRIPTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BIZSCRAPE_INLINE_SCRIPTS: %w", err)
		}
		cfg.InlineScripts = b
	}
	if v := os.Getenv("BIZSCRAPE_JSON_LOG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BIZSCRAPE_JSON_LOG: %w", err)
		}
		cfg.JSONLog = b
	}
	return nil
}

func applyFlags(cfg *Config, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}
	setString(&cfg.UserAgent, flagString(cmd, "user-agent"))
	setString(&cfg.FetchMode, flagString(cmd, "mode"))
	setString(&cfg.StoreDriver, flagString(cmd, "store"))
	setString(&cfg.DSN, flagString(cmd, "dsn"))

	if s := flagString(cmd, "timeout"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if proxies, err := cmd.Flags().GetStringSlice("proxy"); err == nil && len(proxies) > 0 {
		cfg.Proxies = proxies
	}
	if flagBool(cmd, "json") {
		cfg.JSONLog = true
	}
	if flagBool(cmd, "verbose") {
		cfg.LogLevel = "debug"
	}
	if flagBool(cmd, "quiet") {
		cfg.LogLevel = "error"
	}
	if f := cmd.Flags().Lookup("inline-scripts"); f != nil && f.Changed {
		cfg.InlineScripts = f.Value.String() == "true"
	}
	if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
		n, err := strconv.Atoi(f.Value.String())
		if err != nil {
			return fmt.Errorf("--concurrency: %w", err)
		}
		cfg.Concurrency = n
	}
	return nil
}

// flagString returns a flag value only when it was set on the command line
func flagString(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return ""
	}
	return f.Value.String()
}

func flagBool(cmd *cobra.Command, name string) bool {
	return flagString(cmd, name) == "true"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
