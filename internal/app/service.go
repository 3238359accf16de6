// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/babynames/internal/adapters/repository"
	"github.com/okian/babynames/internal/adapters/source"
	"github.com/okian/babynames/internal/domain/chart"
	"github.com/okian/babynames/internal/domain/dashboard"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
	"github.com/okian/babynames/pkg/logger"
	"github.com/okian/babynames/pkg/metrics"
)

// Query names used for cache keys and metrics labels.
const (
	QueryNameSeries    = "name_series"
	QueryYearSummary   = "year_summary"
	QueryOneHitWonders = "one_hit_wonders"
	QueryFilter        = "filter"
	QueryDashboard     = "dashboard"
)

// Service answers dashboard queries over the loaded snapshot. Results may be
// shared between callers through the cache and must not be modified.
type Service struct {
	mu sync.RWMutex

	// Core components
	src   source.Source
	store repository.Store
	cache *lru.Cache[uint64, any]

	// Configuration
	defaults   dashboard.Defaults
	cacheSize  int
	maxTopK    int
	maxPreview int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaults:   dashboard.StandardDefaults(),
		cacheSize:  512,
		maxTopK:    100,
		maxPreview: 1000,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the snapshot. A load failure is returned and leaves the service
// stopped; callers treat it as fatal.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	var owned *repository.SnapshotStore
	if s.store == nil {
		if s.src == nil {
			return ErrNoSource
		}
		owned = repository.NewSnapshotStore(ctx, s.src, repository.WithLogger(s.logger.Named("repository")))
		s.store = owned
	}

	cache, err := lru.New[uint64, any](s.cacheSize)
	if err != nil {
		return fmt.Errorf("query cache: %w", err)
	}
	s.cache = cache

	s.logger.Info(ctx, "loading name archive...")
	snap, err := s.store.Load(ctx)
	if err != nil {
		if owned != nil {
			_ = owned.Close()
			s.store = nil
		}
		return err
	}

	s.started = true
	first, last, _ := snap.Table().YearRange()
	s.logger.Info(ctx, "baby names service started",
		logger.String("snapshot", snap.Table().ID()),
		logger.Int("records", snap.Table().Len()),
		logger.Int("firstYear", first),
		logger.Int("lastYear", last),
		logger.Int("queryCacheSize", s.cacheSize),
	)

	return nil
}

// Stop releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "baby names service stopped")
}

// Defaults returns the configured parameter fallbacks.
func (s *Service) Defaults() dashboard.Defaults { return s.defaults }

// Years returns the distinct years of the loaded table.
func (s *Service) Years(_ context.Context) ([]int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Table().Years(), nil
}

// NameSeries returns every record of name plus its trend chart.
func (s *Service) NameSeries(ctx context.Context, name string) (dashboard.NameView, error) {
	return run(ctx, s, QueryNameSeries, name, func(snap *repository.Snapshot) (dashboard.NameView, error) {
		series := query.ByName(snap.Table(), name)
		if series.Empty() {
			metrics.RecordQueryEmpty(QueryNameSeries)
		}
		return dashboard.NameView{Series: series, Chart: chart.NameTrend(series)}, nil
	})
}

// YearSummary ranks the names of year. k == 0 takes the default depth, k is
// capped at the configured maximum and a negative k is ErrInvalidLimit.
func (s *Service) YearSummary(ctx context.Context, year, k int, sex model.Sex) (dashboard.YearView, error) {
	k = s.topK(k)
	params := fmt.Sprintf("%d|%d|%s", year, k, sex)
	return run(ctx, s, QueryYearSummary, params, func(snap *repository.Snapshot) (dashboard.YearView, error) {
		summary, err := query.ForYear(snap.Table(), query.YearQuery{Year: year, K: k, Sex: sex})
		if err != nil {
			return dashboard.YearView{}, err
		}
		if summary.Empty() {
			metrics.RecordQueryEmpty(QueryYearSummary)
		}
		return dashboard.YearView{Summary: summary, Chart: chart.TopNames(summary)}, nil
	})
}

// OneHitWonders returns the total plus the first limit rows. limit == 0
// takes the default preview size and a negative limit is ErrInvalidLimit.
func (s *Service) OneHitWonders(ctx context.Context, limit int) (query.OneHitWonderPage, error) {
	limit = s.preview(limit)
	return run(ctx, s, QueryOneHitWonders, strconv.Itoa(limit), func(snap *repository.Snapshot) (query.OneHitWonderPage, error) {
		return snap.OneHitWonders().Page(limit)
	})
}

// Filter counts the distinct names of one sex in an inclusive year range.
func (s *Service) Filter(ctx context.Context, sex model.Sex, from, to int) (query.FilterSummary, error) {
	params := fmt.Sprintf("%s|%d|%d", sex, from, to)
	return run(ctx, s, QueryFilter, params, func(snap *repository.Snapshot) (query.FilterSummary, error) {
		summary, err := query.Filter(snap.Table(), query.FilterQuery{Sex: sex, From: from, To: to})
		if err != nil {
			return query.FilterSummary{}, err
		}
		if summary.Records == 0 {
			metrics.RecordQueryEmpty(QueryFilter)
		}
		return summary, nil
	})
}

// Dashboard renders every panel for p.
func (s *Service) Dashboard(ctx context.Context, p dashboard.Params) (dashboard.Result, error) {
	p = p.Resolve(s.defaults)
	p.TopK = s.topK(p.TopK)
	p.Preview = s.preview(p.Preview)
	params := fmt.Sprintf("%s|%d|%d|%s|%d|%d|%d", p.Name, p.Year, p.TopK, p.Sex, p.From, p.To, p.Preview)
	return run(ctx, s, QueryDashboard, params, func(snap *repository.Snapshot) (dashboard.Result, error) {
		return dashboard.Render(snap, p, s.defaults)
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"queryCacheSize": s.cacheSize,
		"maxTopK":        s.maxTopK,
		"maxPreview":     s.maxPreview,
	}

	if !s.started {
		return stats
	}

	stats["queryCacheEntries"] = s.cache.Len()
	snap, err := s.store.Current()
	if err != nil {
		return stats
	}
	t := snap.Table()
	first, last, _ := t.YearRange()
	ohw := snap.OneHitWonders()
	stats["snapshotId"] = t.ID()
	stats["digest"] = strconv.FormatUint(t.Digest(), 16)
	stats["source"] = snap.Source
	stats["loadedAt"] = t.LoadedAt().UTC().Format(time.RFC3339)
	stats["archiveBytes"] = snap.ArchiveBytes
	stats["files"] = len(snap.Files)
	stats["ignoredEntries"] = snap.Ignored
	stats["records"] = t.Len()
	stats["firstYear"] = first
	stats["lastYear"] = last
	stats["oneHitWonders"] = ohw.Total()
	stats["oneHitWonderPairs"] = ohw.Pairs()
	stats["fetchMs"] = snap.FetchDuration.Milliseconds()
	stats["ingestMs"] = snap.IngestDuration.Milliseconds()

	return stats
}

func (s *Service) snapshot() (*repository.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, repository.ErrNotLoaded
	}
	return s.store.Current()
}

func (s *Service) topK(k int) int {
	if k == 0 {
		k = s.defaults.TopK
	}
	return min(k, s.maxTopK)
}

func (s *Service) preview(n int) int {
	if n == 0 {
		n = s.defaults.Preview
	}
	return min(n, s.maxPreview)
}

// run answers a query from the cache or computes and caches it. Errors are
// never cached.
func run[T any](ctx context.Context, s *Service, name, params string, fn func(*repository.Snapshot) (T, error)) (T, error) {
	var zero T
	snap, err := s.snapshot()
	if err != nil {
		return zero, err
	}

	start := time.Now()
	defer func() {
		metrics.RecordQueryDuration(name, float64(time.Since(start).Microseconds())/1000)
	}()

	key := cacheKey(snap.Table().Digest(), name, params)
	if v, ok := s.cache.Get(key); ok {
		if res, ok := v.(T); ok {
			metrics.RecordQueryCacheHit(name)
			return res, nil
		}
	}
	metrics.RecordQueryCacheMiss(name)

	res, err := fn(snap)
	if err != nil {
		s.logger.Debug(ctx, "query rejected",
			logger.String("query", name),
			logger.String("params", params),
			logger.Error(err),
		)
		return zero, err
	}
	s.cache.Add(key, res)
	return res, nil
}

func cacheKey(digest uint64, name, params string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatUint(digest, 16))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(name)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(params)
	return d.Sum64()
}
