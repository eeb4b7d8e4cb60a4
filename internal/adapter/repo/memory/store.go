package memory

import (
	"sync"
	"time"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/vault"
)

type lease struct {
	owner     string
	expiresAt time.Time
}

// Store keeps every vault in memory. RunInTx serializes writers and restores
// a checkpoint when the transaction fails.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	snapshots map[string]*vault.Snapshot
	events    map[string][]vault.DomainEvent
	runs      map[string][]ports.TickRun

	leaseMu sync.Mutex
	leases  map[string]lease
}

func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]*vault.Snapshot),
		events:    make(map[string][]vault.DomainEvent),
		runs:      make(map[string][]ports.TickRun),
		leases:    make(map[string]lease),
	}
}

// SeedSnapshot stores a vault as-is, keeping its version.
func (s *Store) SeedSnapshot(snap *vault.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Vault.ID] = snap.Clone()
}

// Snapshot returns a copy of everything stored for a vault, including
// finished records.
func (s *Store) Snapshot(vaultID string) (*vault.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[vaultID]
	if !ok {
		return nil, false
	}
	return snap.Clone(), true
}

type checkpoint struct {
	snapshots map[string]*vault.Snapshot
	events    map[string]int
}

func (s *Store) checkpoint() checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := checkpoint{
		snapshots: make(map[string]*vault.Snapshot, len(s.snapshots)),
		events:    make(map[string]int, len(s.events)),
	}
	for id, snap := range s.snapshots {
		cp.snapshots[id] = snap.Clone()
	}
	for id, evs := range s.events {
		cp.events[id] = len(evs)
	}
	return cp
}

func (s *Store) restore(cp checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = cp.snapshots
	for id, evs := range s.events {
		s.events[id] = evs[:cp.events[id]]
	}
}
