// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config filled with defaults.
// - Load layers an optional YAML file and BABYNAMES_* env vars on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"
)

// DefaultArchiveURL is the public SSA national names archive.
const DefaultArchiveURL = "https://www.ssa.gov/oact/babynames/names.zip"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ArchiveURL is fetched once at startup unless ArchivePath is set.
	ArchiveURL string `koanf:"archive_url"`

	// ArchivePath reads the archive from disk instead of the network.
	ArchivePath string `koanf:"archive_path"`

	// FetchTimeoutMS bounds the archive download; 0 keeps the transport default.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// UserAgent is sent with the archive request.
	UserAgent string `koanf:"user_agent"`

	// DefaultYear, DefaultRangeFrom and DefaultRangeTo seed the dashboard inputs.
	DefaultYear      int `koanf:"default_year"`
	DefaultRangeFrom int `koanf:"default_range_from"`
	DefaultRangeTo   int `koanf:"default_range_to"`

	// DefaultSex seeds the gender selector (F or M).
	DefaultSex string `koanf:"default_sex"`

	// DefaultTopK is used when a year query omits k; MaxTopK caps it.
	DefaultTopK int `koanf:"default_top_k"`
	MaxTopK     int `koanf:"max_top_k"`

	// OneHitWonderPreview is the default preview length; MaxPreview caps ?limit.
	OneHitWonderPreview int `koanf:"one_hit_wonder_preview"`
	MaxPreview          int `koanf:"max_preview"`

	// QueryCacheSize bounds the query result LRU.
	QueryCacheSize int `koanf:"query_cache_size"`

	// MetricsEnabled turns the Prometheus recorders on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshMS paces the gauge updaters.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`

	// MetricsLabels are constant labels added to every series (file only).
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBucketsMS overrides the latency histogram buckets (file only).
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		ArchiveURL:          DefaultArchiveURL,
		ArchivePath:         "",
		FetchTimeoutMS:      0,
		UserAgent:           "babynames-dashboard/1.0",
		DefaultYear:         2000,
		DefaultRangeFrom:    2000,
		DefaultRangeTo:      2023,
		DefaultSex:          "F",
		DefaultTopK:         10,
		MaxTopK:             100,
		OneHitWonderPreview: 10,
		MaxPreview:          1000,
		QueryCacheSize:      512,
		MetricsEnabled:      true,
		MetricsRefreshMS:    10000,
	}
}

// FetchTimeout converts FetchTimeoutMS to a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// MetricsRefresh converts MetricsRefreshMS to a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ArchiveURL == "" && c.ArchivePath == "":
		return fmt.Errorf("%w: one of archive_url or archive_path is required", ErrInvalidConfig)
	case c.FetchTimeoutMS < 0:
		return fmt.Errorf("%w: fetch_timeout_ms must not be negative", ErrInvalidConfig)
	case c.DefaultTopK < 1 || c.MaxTopK < c.DefaultTopK:
		return fmt.Errorf("%w: need 1 <= default_top_k <= max_top_k", ErrInvalidConfig)
	case c.OneHitWonderPreview < 1 || c.MaxPreview < c.OneHitWonderPreview:
		return fmt.Errorf("%w: need 1 <= one_hit_wonder_preview <= max_preview", ErrInvalidConfig)
	case c.DefaultRangeFrom > c.DefaultRangeTo:
		return fmt.Errorf("%w: default_range_from is after default_range_to", ErrInvalidConfig)
	case c.QueryCacheSize < 0:
		return fmt.Errorf("%w: query_cache_size must not be negative", ErrInvalidConfig)
	case c.MetricsRefreshMS < 1:
		return fmt.Errorf("%w: metrics_refresh_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
