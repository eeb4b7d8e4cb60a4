package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/vault"
)

var t0 = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func seeded() *Store {
	s := NewStore()
	s.SeedSnapshot(&vault.Snapshot{
		Vault:    vault.Vault{ID: "v1", Version: 3, NextTickAt: t0},
		Dwellers: []*vault.Dweller{{ID: "d1", Health: 100, MaxHealth: 100, Happiness: 50, Level: 1}},
		Training: []*vault.TrainingSession{
			{ID: "t-old", DwellerID: "d1", Status: vault.TrainingCompleted},
			{ID: "t-new", DwellerID: "d1", Status: vault.TrainingActive},
		},
	})
	return s
}

func TestSnapshotRepo_LoadFiltersFinishedRecords(t *testing.T) {
	repo := NewSnapshotRepo(seeded())
	snap, err := repo.LoadSnapshot(context.Background(), "v1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Training) != 1 || snap.Training[0].ID != "t-new" {
		t.Fatalf("expected only the active session, got %+v", snap.Training)
	}
	if _, err := repo.LoadSnapshot(context.Background(), "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotRepo_SaveChecksVersionAndMerges(t *testing.T) {
	store := seeded()
	repo := NewSnapshotRepo(store)
	ctx := context.Background()
	snap, _ := repo.LoadSnapshot(ctx, "v1")

	snap.Training[0].Status = vault.TrainingCompleted
	snap.Dwellers = append(snap.Dwellers, &vault.Dweller{ID: "d2", Health: 50, MaxHealth: 100})
	if err := repo.SaveSnapshot(ctx, snap, 2); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on stale version, got %v", err)
	}
	if err := repo.SaveSnapshot(ctx, snap, 3); err != nil {
		t.Fatalf("save: %v", err)
	}
	if snap.Vault.Version != 4 {
		t.Fatalf("expected version bumped to 4, got %d", snap.Vault.Version)
	}

	full, _ := store.Snapshot("v1")
	if len(full.Training) != 2 || len(full.Dwellers) != 2 {
		t.Fatalf("expected history kept and new dweller added, got %d sessions %d dwellers", len(full.Training), len(full.Dwellers))
	}
	for _, s := range full.Training {
		if s.Status == vault.TrainingActive {
			t.Fatalf("expected active session updated in place")
		}
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	store := seeded()
	tx := NewTxManager(store)
	repo := NewSnapshotRepo(store)
	events := NewEventRepo(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		snap, _ := repo.LoadSnapshot(ctx, "v1")
		snap.Vault.Happiness = 1
		if err := repo.SaveSnapshot(ctx, snap, 3); err != nil {
			return err
		}
		if err := events.Append(ctx, "v1", []vault.DomainEvent{{Type: "x"}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	full, _ := store.Snapshot("v1")
	if full.Vault.Version != 3 || full.Vault.Happiness != 0 {
		t.Fatalf("expected rollback, got %+v", full.Vault)
	}
	if got, _ := events.ListByVaultID(ctx, "v1", 0); len(got) != 0 {
		t.Fatalf("expected events rolled back, got %d", len(got))
	}
}

func TestLeaseRepo_ExclusiveUntilExpiry(t *testing.T) {
	repo := NewLeaseRepo(NewStore())
	ctx := context.Background()
	if err := repo.Acquire(ctx, "v1", "a", t0, time.Minute); err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	if err := repo.Acquire(ctx, "v1", "b", t0.Add(30*time.Second), time.Minute); !errors.Is(err, ports.ErrLeaseHeld) {
		t.Fatalf("expected ErrLeaseHeld, got %v", err)
	}
	if err := repo.Acquire(ctx, "v1", "b", t0.Add(2*time.Minute), time.Minute); err != nil {
		t.Fatalf("expired lease should be taken over: %v", err)
	}
	if err := repo.Release(ctx, "v1", "a"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := repo.Acquire(ctx, "v1", "c", t0.Add(2*time.Minute), time.Minute); !errors.Is(err, ports.ErrLeaseHeld) {
		t.Fatalf("release by a non-owner must not free the lease, got %v", err)
	}
}

func TestSnapshotRepo_ListDueVaults(t *testing.T) {
	store := NewStore()
	store.SeedSnapshot(&vault.Snapshot{Vault: vault.Vault{ID: "late", NextTickAt: t0.Add(time.Hour)}})
	store.SeedSnapshot(&vault.Snapshot{Vault: vault.Vault{ID: "b", NextTickAt: t0}})
	store.SeedSnapshot(&vault.Snapshot{Vault: vault.Vault{ID: "a", NextTickAt: t0.Add(-time.Minute)}})
	got, err := NewSnapshotRepo(store).ListDueVaults(context.Background(), t0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}
