package service

import (
	"fmt"

	"github.com/okian/babynames/internal/adapters/source"
	"github.com/okian/babynames/internal/config"
	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/pkg/logger"
	"github.com/okian/babynames/pkg/metrics"
)

// NewFromConfig builds a Service reading the archive cfg points at. Both the
// server and the CLI construct their service here.
func NewFromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	defaults, err := DefaultsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	src := source.New(cfg.ArchiveURL, cfg.ArchivePath,
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithUserAgent(cfg.UserAgent),
		source.WithLogger(log.Named("source")),
	)

	return New(
		WithLogger(log),
		WithSource(src),
		WithDefaults(defaults),
		WithQueryCacheSize(cfg.QueryCacheSize),
		WithMaxTopK(cfg.MaxTopK),
		WithMaxPreview(cfg.MaxPreview),
	), nil
}

// DefaultsFromConfig maps the default_* settings onto dashboard defaults.
func DefaultsFromConfig(cfg *config.Config) (dashboard.Defaults, error) {
	sex, ok := model.ParseSex(cfg.DefaultSex)
	if !ok {
		return dashboard.Defaults{}, fmt.Errorf("%w: default_sex %q", config.ErrInvalidConfig, cfg.DefaultSex)
	}
	return dashboard.Defaults{
		Year:    cfg.DefaultYear,
		From:    cfg.DefaultRangeFrom,
		To:      cfg.DefaultRangeTo,
		Sex:     sex,
		TopK:    cfg.DefaultTopK,
		Preview: cfg.OneHitWonderPreview,
	}, nil
}

// MetricsOptions maps the metrics_* settings onto metrics options.
func MetricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBucketsMS),
	}
}
