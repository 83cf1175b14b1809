package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file schema. Zero values leave the
// default in place.
type FileConfig struct {
	LogLevel string `yaml:"logLevel"`
	JSONLog  *bool  `yaml:"jsonLog"`

	HTTP struct {
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"userAgent"`
		Proxies   []string      `yaml:"proxies"`
		Mode      string        `yaml:"mode"`
	} `yaml:"http"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`

	Aux struct {
		Timeout time.Duration `yaml:"timeout"`
		Delay   time.Duration `yaml:"delay"`
		Limit   *int          `yaml:"limit"`
	} `yaml:"aux"`

	Browser struct {
		PoolSize   int    `yaml:"poolSize"`
		Headless   *bool  `yaml:"headless"`
		ChromePath string `yaml:"chromePath"`
	} `yaml:"browser"`

	Cache struct {
		TTL      time.Duration `yaml:"ttl"`
		MaxBytes int64         `yaml:"maxBytes"`
	} `yaml:"cache"`

	Store struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"store"`

	InlineScripts *bool         `yaml:"inlineScripts"`
	ScriptBudget  time.Duration `yaml:"scriptBudget"`
	Concurrency   int           `yaml:"concurrency"`
}

// LoadFile reads a YAML configuration file
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.JSONLog != nil {
		cfg.JSONLog = *fc.JSONLog
	}
	setDuration(&cfg.HTTPTimeout, fc.HTTP.Timeout)
	setString(&cfg.UserAgent, fc.HTTP.UserAgent)
	if len(fc.HTTP.Proxies) > 0 {
		cfg.Proxies = fc.HTTP.Proxies
	}
	setString(&cfg.FetchMode, fc.HTTP.Mode)
	if fc.RateLimit.RPS > 0 {
		cfg.RateLimitRPS = fc.RateLimit.RPS
	}
	setInt(&cfg.RateLimitBurst, fc.RateLimit.Burst)
	setDuration(&cfg.AuxTimeout, fc.Aux.Timeout)
	setDuration(&cfg.AuxDelay, fc.Aux.Delay)
	if fc.Aux.Limit != nil {
		cfg.AuxLimit = *fc.Aux.Limit
	}
	setInt(&cfg.BrowserPoolSize, fc.Browser.PoolSize)
	if fc.Browser.Headless != nil {
		cfg.BrowserHeadless = *fc.Browser.Headless
	}
	setString(&cfg.ChromePath, fc.Browser.ChromePath)
	setDuration(&cfg.CacheTTL, fc.Cache.TTL)
	if fc.Cache.MaxBytes > 0 {
		cfg.CacheMaxSizeBytes = fc.Cache.MaxBytes
	}
	setString(&cfg.StoreDriver, fc.Store.Driver)
	setString(&cfg.DSN, fc.Store.DSN)
	if fc.InlineScripts != nil {
		cfg.InlineScripts = *fc.InlineScripts
	}
	setDuration(&cfg.ScriptBudget, fc.ScriptBudget)
	setInt(&cfg.Concurrency, fc.Concurrency)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
