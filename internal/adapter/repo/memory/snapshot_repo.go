package memory

import (
	"context"
	"sort"
	"time"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/vault"
)

type SnapshotRepo struct {
	store *Store
}

func NewSnapshotRepo(store *Store) SnapshotRepo {
	return SnapshotRepo{store: store}
}

// LoadSnapshot returns the vault with only its active activity records.
func (r SnapshotRepo) LoadSnapshot(_ context.Context, vaultID string) (*vault.Snapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored, ok := r.store.snapshots[vaultID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return activeView(stored.Clone()), nil
}

func (r SnapshotRepo) SaveSnapshot(_ context.Context, snap *vault.Snapshot, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cur, ok := r.store.snapshots[snap.Vault.ID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		cur = &vault.Snapshot{}
	} else if cur.Vault.Version != expectedVersion {
		return ports.ErrConflict
	}

	in := snap.Clone()
	next := cur.Clone()
	next.Vault = in.Vault
	next.Vault.Version = expectedVersion + 1
	next.Dwellers = mergeByID(next.Dwellers, in.Dwellers, func(d *vault.Dweller) string { return d.ID })
	next.Rooms = mergeByID(next.Rooms, in.Rooms, func(x *vault.Room) string { return x.ID })
	next.Training = mergeByID(next.Training, in.Training, func(x *vault.TrainingSession) string { return x.ID })
	next.Incidents = mergeByID(next.Incidents, in.Incidents, func(x *vault.Incident) string { return x.ID })
	next.Explorations = mergeByID(next.Explorations, in.Explorations, func(x *vault.Exploration) string { return x.ID })
	next.Pregnancies = mergeByID(next.Pregnancies, in.Pregnancies, func(x *vault.Pregnancy) string { return x.ID })
	next.Relationships = mergeByID(next.Relationships, in.Relationships, func(x *vault.Relationship) string { return x.ID })
	r.store.snapshots[snap.Vault.ID] = next
	snap.Vault.Version = next.Vault.Version
	return nil
}

func (r SnapshotRepo) ListDueVaults(_ context.Context, now time.Time, limit int) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	type due struct {
		id   string
		next time.Time
	}
	all := make([]due, 0, len(r.store.snapshots))
	for id, snap := range r.store.snapshots {
		if snap.Vault.NextTickAt.After(now) {
			continue
		}
		all = append(all, due{id: id, next: snap.Vault.NextTickAt})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].next.Equal(all[j].next) {
			return all[i].id < all[j].id
		}
		return all[i].next.Before(all[j].next)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]string, len(all))
	for i, d := range all {
		out[i] = d.id
	}
	return out, nil
}

func activeView(s *vault.Snapshot) *vault.Snapshot {
	s.Training = filter(s.Training, func(t *vault.TrainingSession) bool { return t.Status == vault.TrainingActive })
	s.Incidents = filter(s.Incidents, func(i *vault.Incident) bool { return i.Open() })
	s.Explorations = filter(s.Explorations, func(e *vault.Exploration) bool { return e.Status == vault.ExplorationActive })
	s.Pregnancies = filter(s.Pregnancies, func(p *vault.Pregnancy) bool { return p.Status == vault.PregnancyPregnant })
	s.Reindex()
	return s
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func mergeByID[T any](stored, updates []T, id func(T) string) []T {
	pos := make(map[string]int, len(stored))
	for i, v := range stored {
		pos[id(v)] = i
	}
	for _, v := range updates {
		if i, ok := pos[id(v)]; ok {
			stored[i] = v
			continue
		}
		pos[id(v)] = len(stored)
		stored = append(stored, v)
	}
	return stored
}
