package config

import (
	"fmt"

	"github.com/law-makers/bizscrape/internal/store"
	"github.com/law-makers/bizscrape/pkg/models"
)

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.AuxTimeout <= 0 {
		return fmt.Errorf("auxiliary timeout must be > 0")
	}
	if c.AuxDelay < 0 {
		return fmt.Errorf("auxiliary delay cannot be negative")
	}
	if c.AuxLimit < 0 {
		return fmt.Errorf("auxiliary page limit cannot be negative")
	}
	if c.BrowserPoolSize <= 0 || c.BrowserPoolSize > DefaultMaxBrowserPoolSize {
		return fmt.Errorf("browser pool size must be between 1 and %d", DefaultMaxBrowserPoolSize)
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit rps and burst must be > 0")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	mode, ok := models.ParseFetchMode(c.FetchMode)
	if !ok {
		return fmt.Errorf("unknown fetch mode %q (want static, rendered or auto)", c.FetchMode)
	}
	c.FetchMode = string(mode)
	switch c.StoreDriver {
	case store.DriverMemory, store.DriverSQLite:
	case store.DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("postgres store requires a DSN (--dsn, DATABASE_URL or `bizscrape db set-dsn`)")
		}
	default:
		return fmt.Errorf("unknown store driver %q (want memory, sqlite or postgres)", c.StoreDriver)
	}
	return nil
}
