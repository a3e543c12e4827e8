package state

import (
	"io"
	"time"
)

// RunStore handles run-related persistence operations.
type RunStore interface {
	CreateRun(r *Run) error
	FinishRun(r *Run) error
	GetRun(id string) (*Run, error)
	LatestRun() (*Run, error)
	ListRuns(limit int) ([]Run, error)
	PurgeOldRuns(olderThan time.Duration) (int64, error)
}

// HoleStore records the holes left by a run.
type HoleStore interface {
	RecordHoles(runID string, holes []HoleRecord) error
	ListHoles(runID string) ([]HoleRecord, error)
}

// WordStore records the test words invented by a run.
type WordStore interface {
	RecordInvented(runID string, words []InventedRecord) error
	ListInvented(runID string) ([]InventedRecord, error)
}

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store is the full run ledger.
type Store interface {
	io.Closer
	Migrator
	RunStore
	HoleStore
	WordStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store     = (*DB)(nil)
	_ Migrator  = (*DB)(nil)
	_ RunStore  = (*DB)(nil)
	_ HoleStore = (*DB)(nil)
	_ WordStore = (*DB)(nil)
)
