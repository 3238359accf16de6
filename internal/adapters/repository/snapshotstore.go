package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/okian/babynames/internal/adapters/source"
	"github.com/okian/babynames/internal/domain/archive"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/normalize"
	"github.com/okian/babynames/internal/domain/query"
	"github.com/okian/babynames/pkg/logger"
	"github.com/okian/babynames/pkg/metrics"
)

const (
	loadKey = "snapshot"

	// one-hit-wonder sets kept by table digest
	ohwCacheSize = 4
)

// Failure kinds reported to metrics.
const (
	FailureFetch             = "fetch"
	FailureMalformedArchive  = "malformed_archive"
	FailureMalformedFilename = "malformed_filename"
	FailureMalformedRecord   = "malformed_record"
	FailureOther             = "other"
)

// SnapshotStore is the in-memory Store. Concurrent first loads share one
// fetch and parse.
type SnapshotStore struct {
	src   source.Source
	log   logger.Logger
	group singleflight.Group

	current  atomic.Pointer[Snapshot]
	ohwCache *lru.Cache[uint64, *query.OneHitWonderSet]

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewSnapshotStore constructs a store reading from src.
func NewSnapshotStore(ctx context.Context, src source.Source, opts ...Option) *SnapshotStore {
	// only errors on a non-positive size
	cache, _ := lru.New[uint64, *query.OneHitWonderSet](ohwCacheSize)

	s := &SnapshotStore{
		src:                   src,
		log:                   logger.Nop(),
		ohwCache:              cache,
		metricsUpdateInterval: metrics.Default().RefreshInterval(),
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Load implements Store.Load.
func (s *SnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}

	v, err, _ := s.group.Do(loadKey, func() (any, error) {
		if snap := s.current.Load(); snap != nil {
			return snap, nil
		}
		snap, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		s.current.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Current implements Store.Current.
func (s *SnapshotStore) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// OneHitWonders returns the set for t, computing it at most once per digest.
func (s *SnapshotStore) OneHitWonders(t *model.Table) *query.OneHitWonderSet {
	if set, ok := s.ohwCache.Get(t.Digest()); ok {
		return set
	}
	set := query.OneHitWonders(t)
	s.ohwCache.Add(t.Digest(), set)
	return set
}

// Close stops the background metrics updater. It is safe to call twice.
func (s *SnapshotStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *SnapshotStore) build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	data, err := s.src.Fetch(ctx)
	fetchDur := time.Since(start)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	metrics.RecordFetchDuration(float64(fetchDur.Milliseconds()))
	metrics.UpdateArchiveBytes(len(data))

	ingestStart := time.Now()
	res, err := archive.Parse(data)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	for range res.Files {
		metrics.RecordFileParsed()
	}
	normalize.Apply(res.Records)

	digest := xxhash.Sum64(data)
	table := model.NewTable(res.Records, model.WithDigest(digest))
	ohw := s.OneHitWonders(table)
	ingestDur := time.Since(ingestStart)
	metrics.RecordIngestDuration(float64(ingestDur.Milliseconds()))

	snap := &Snapshot{
		table:          table,
		ohw:            ohw,
		Source:         s.src.Location(),
		ArchiveBytes:   len(data),
		Files:          res.Files,
		Ignored:        res.Ignored,
		FetchDuration:  fetchDur,
		IngestDuration: ingestDur,
	}
	s.updateMetrics(snap)
	metrics.MarkSnapshotLoaded()

	s.log.Info(ctx, "snapshot loaded",
		logger.String("snapshot", table.ID()),
		logger.Uint64("digest", digest),
		logger.String("archive", snap.Source),
		logger.Int("files", len(res.Files)),
		logger.Int("records", table.Len()),
		logger.Int("one_hit_wonders", ohw.Total()),
		logger.Duration("fetch", fetchDur),
		logger.Duration("ingest", ingestDur),
	)
	return snap, nil
}

func (s *SnapshotStore) fail(ctx context.Context, err error) error {
	kind := FailureKind(err)
	metrics.RecordIngestFailure(kind)
	s.log.Error(ctx, "snapshot load failed",
		logger.String("archive", s.src.Location()),
		logger.String("kind", kind),
		logger.Error(err),
	)
	return err
}

// FailureKind classifies an ingestion error.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, source.ErrFetch):
		return FailureFetch
	case errors.Is(err, archive.ErrMalformedFilename):
		return FailureMalformedFilename
	case errors.Is(err, archive.ErrMalformedRecord):
		return FailureMalformedRecord
	case errors.Is(err, archive.ErrMalformedArchive):
		return FailureMalformedArchive
	}
	return FailureOther
}

// startMetricsUpdater periodically re-publishes the snapshot gauges.
func (s *SnapshotStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if snap := s.current.Load(); snap != nil {
					s.updateMetrics(snap)
				}
			}
		}
	}()
}

func (s *SnapshotStore) updateMetrics(snap *Snapshot) {
	metrics.UpdateSnapshot(snap.table.Len(), len(snap.table.Years()), snap.ohw.Total())
}
