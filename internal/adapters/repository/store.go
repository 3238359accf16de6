// Package repository loads the name archive once and keeps the resulting
// snapshot in memory for the life of the process.
package repository

import (
	"context"
	"time"

	"github.com/okian/babynames/internal/domain/archive"
	"github.com/okian/babynames/internal/domain/model"
	"github.com/okian/babynames/internal/domain/query"
)

// Snapshot is an immutable loaded table plus everything derived from it.
type Snapshot struct {
	table *model.Table
	ohw   *query.OneHitWonderSet

	Source         string
	ArchiveBytes   int
	Files          []archive.FileInfo
	Ignored        []string
	FetchDuration  time.Duration
	IngestDuration time.Duration
}

// Table returns the unified table.
func (s *Snapshot) Table() *model.Table { return s.table }

// OneHitWonders returns the one-hit-wonder set of the table.
func (s *Snapshot) OneHitWonders() *query.OneHitWonderSet { return s.ohw }

// Store provides access to the loaded snapshot.
type Store interface {
	// Load fetches and ingests the archive on first use and returns the
	// cached snapshot afterwards. A failed load is not cached.
	Load(ctx context.Context) (*Snapshot, error)

	// Current returns the loaded snapshot or ErrNotLoaded.
	Current() (*Snapshot, error)
}
