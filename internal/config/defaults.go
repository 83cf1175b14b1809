package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel           = "info"
	DefaultJSONLog            = false
	DefaultUserAgent          = "Mozilla/5.0 (compatible; bizscrape/1.0; +https://github.com/law-makers/bizscrape)"
	DefaultFetchMode          = "static"
	DefaultCacheTTL           = 5 * time.Minute
	DefaultHTTPTimeout        = 20 * time.Second
	DefaultAuxTimeout         = 10 * time.Second
	DefaultAuxDelay           = 1 * time.Second
	DefaultAuxLimit           = 2
	DefaultRateLimitRPS       = 2.0
	DefaultRateLimitBurst     = 4
	DefaultBrowserPoolSize    = 2
	DefaultMaxBrowserPoolSize = 10
	DefaultBrowserHeadless    = true
	DefaultCacheMaxSizeBytes  = 100 * 1024 * 1024 // 100MB
	DefaultStoreDriver        = "sqlite"
	DefaultScriptBudget       = 500 * time.Millisecond
	DefaultConcurrency        = 4
	DefaultEnvFile            = ".env"
)
