package config

import (
	"fmt"

	"github.com/eugenenazirov/doctour/internal/environment"
	"github.com/eugenenazirov/doctour/internal/lazy"
)

// Store is the guarded holder of the configuration snapshot. There is no
// mutation API: configuration is loaded once and never reloaded.
type Store struct {
	cell *lazy.Cell[Snapshot]
}

// NewStore returns a Store that runs load on first access only.
func NewStore(load func() (Snapshot, error)) *Store {
	return &Store{cell: lazy.New(load)}
}

// Init forces the one-time load and reports its outcome.
func (s *Store) Init() error {
	_, err := s.cell.Get()
	return err
}

// Snapshot returns a copy of the merged configuration. It panics when the
// load failed: there is no safe default for the logging policy.
func (s *Store) Snapshot() Snapshot {
	snap, err := s.cell.Get()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return snap
}

// LogPolicy returns the master switch and per-severity toggles.
func (s *Store) LogPolicy() LogPolicy {
	return s.Snapshot().Log
}

// Profile is always the value from the environment file.
func (s *Store) Profile() environment.Profile {
	return s.Snapshot().Profile
}

// SaveToDisk reports whether records are persisted.
func (s *Store) SaveToDisk() bool {
	return s.Snapshot().Save
}

// DebugPrint reports whether shown records go to the debug view.
func (s *Store) DebugPrint() bool {
	return s.Snapshot().Debug
}

// Production returns the rotation and throttling settings.
func (s *Store) Production() ProductionConfig {
	return s.Snapshot().Production
}

var std = NewStore(Load)

// Open returns the process-wide store, loading the configuration on first use.
// A failed first load is permanent for the life of the process.
func Open() (*Store, error) {
	if err := std.Init(); err != nil {
		return nil, err
	}
	return std, nil
}

// MustOpen is like Open but panics when the configuration cannot be loaded.
func MustOpen() *Store {
	s, err := Open()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return s
}
