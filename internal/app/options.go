package service

import (
	"github.com/okian/babynames/internal/adapters/repository"
	"github.com/okian/babynames/internal/adapters/source"
	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSource sets where the archive is read from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = src
		}
	}
}

// WithStore replaces the snapshot store. The source is then unused.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDefaults sets the fallbacks for unset query parameters.
func WithDefaults(d dashboard.Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// WithQueryCacheSize sets how many query results are kept.
func WithQueryCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithMaxTopK caps the ranking depth of year queries.
func WithMaxTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.maxTopK = k
		}
	}
}

// WithMaxPreview caps the number of one-hit-wonder rows returned.
func WithMaxPreview(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPreview = n
		}
	}
}
