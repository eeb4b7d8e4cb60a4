package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
	"vaultsim/internal/domain/vault"
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("VAULTSIM_DB_DSN")
	if dsn == "" {
		t.Skip("VAULTSIM_DB_DSN is required for integration test")
	}
	db, err := OpenPostgres(dsn, DefaultPoolConfig(), nil)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := ApplyMigrations(context.Background(), db, "../../../../db/migrations", nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func cleanupVault(t *testing.T, db *gorm.DB, vaultID string) {
	t.Helper()
	for _, table := range []string{"domain_events", "tick_runs", "vault_leases"} {
		if err := db.Exec("DELETE FROM "+table+" WHERE vault_id = ?", vaultID).Error; err != nil {
			t.Fatalf("cleanup %s: %v", table, err)
		}
	}
	if err := db.Exec("DELETE FROM vaults WHERE id = ?", vaultID).Error; err != nil {
		t.Fatalf("cleanup vaults: %v", err)
	}
}

func TestSnapshotRepo_RoundTripAndVersioning(t *testing.T) {
	db := requireDB(t)
	vaultID := "it-snapshot-roundtrip"
	cleanupVault(t, db, vaultID)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	snap := fixtureSnapshot(vaultID, now)
	repo := NewSnapshotRepo(db)
	tx := NewTxManager(db)
	if err := tx.RunInTx(ctx, func(ctx context.Context) error {
		return repo.SaveSnapshot(ctx, snap, 0)
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if snap.Vault.Version != 1 {
		t.Fatalf("expected version 1, got %d", snap.Vault.Version)
	}

	got, err := repo.LoadSnapshot(ctx, vaultID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Dwellers) != 1 || got.Dwellers[0].Special.Strength != 7 {
		t.Fatalf("expected dweller with special restored, got %+v", got.Dwellers)
	}
	if len(got.Training) != 1 || got.Training[0].ID != vaultID+"-t-active" {
		t.Fatalf("expected only active training loaded, got %+v", got.Training)
	}
	if len(got.Incidents) != 1 || len(got.Incidents[0].RoomsAffected) != 1 {
		t.Fatalf("expected open incident with rooms, got %+v", got.Incidents)
	}
	if !got.Vault.Flags[vault.ResourceFood].Shortage {
		t.Fatalf("expected flags restored, got %+v", got.Vault.Flags)
	}

	if err := repo.SaveSnapshot(ctx, got, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on duplicate create, got %v", err)
	}
	got.Vault.Resources.Food = 42
	if err := repo.SaveSnapshot(ctx, got, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.SaveSnapshot(ctx, got, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected stale version conflict, got %v", err)
	}

	due, err := repo.ListDueVaults(ctx, now.Add(time.Minute), 1000)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	found := false
	for _, id := range due {
		found = found || id == vaultID
	}
	if !found {
		t.Fatalf("expected %s due, got %v", vaultID, due)
	}
}

func TestTxManager_RollsBackSnapshotAndEvents(t *testing.T) {
	db := requireDB(t)
	vaultID := "it-tx-rollback"
	cleanupVault(t, db, vaultID)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	repo := NewSnapshotRepo(db)
	events := NewEventRepo(db)
	if err := repo.SaveSnapshot(ctx, fixtureSnapshot(vaultID, now), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("boom")
	err := NewTxManager(db).RunInTx(ctx, func(ctx context.Context) error {
		snap, err := repo.LoadSnapshot(ctx, vaultID)
		if err != nil {
			return err
		}
		snap.Vault.Happiness = 11
		if err := repo.SaveSnapshot(ctx, snap, snap.Vault.Version); err != nil {
			return err
		}
		if err := events.Append(ctx, vaultID, []vault.DomainEvent{{Type: vault.EventLevelUp, OccurredAt: now}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	snap, err := repo.LoadSnapshot(ctx, vaultID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Vault.Version != 1 || snap.Vault.Happiness == 11 {
		t.Fatalf("expected rollback, got %+v", snap.Vault)
	}
	if got, _ := events.ListByVaultID(ctx, vaultID, 0); len(got) != 0 {
		t.Fatalf("expected no events, got %d", len(got))
	}
}

func TestLeaseRepo_Exclusive(t *testing.T) {
	db := requireDB(t)
	vaultID := "it-lease"
	cleanupVault(t, db, vaultID)
	ctx := context.Background()
	now := time.Now().UTC()

	repo := NewLeaseRepo(db)
	if err := repo.Acquire(ctx, vaultID, "a", now, time.Minute); err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	if err := repo.Acquire(ctx, vaultID, "a", now, time.Minute); err != nil {
		t.Fatalf("re-acquire by owner: %v", err)
	}
	if err := repo.Acquire(ctx, vaultID, "b", now, time.Minute); !errors.Is(err, ports.ErrLeaseHeld) {
		t.Fatalf("expected ErrLeaseHeld, got %v", err)
	}
	if err := repo.Acquire(ctx, vaultID, "b", now.Add(2*time.Minute), time.Minute); err != nil {
		t.Fatalf("expired lease should be taken over: %v", err)
	}
	if err := repo.Release(ctx, vaultID, "b"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := repo.Acquire(ctx, vaultID, "c", now, time.Minute); err != nil {
		t.Fatalf("released lease should be free: %v", err)
	}
}

func TestEventAndTickRunRepos(t *testing.T) {
	db := requireDB(t)
	vaultID := "it-events"
	cleanupVault(t, db, vaultID)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	events := NewEventRepo(db)
	err := events.Append(ctx, vaultID, []vault.DomainEvent{
		{Type: vault.EventLevelUp, SubjectID: "d1", OccurredAt: now.Add(-time.Minute), Payload: map[string]any{"level": 2}},
		{Type: vault.EventBirth, SubjectID: "d2", OccurredAt: now},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := events.ListByVaultID(ctx, vaultID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Type != vault.EventBirth || got[1].Payload["level"] != 2.0 {
		t.Fatalf("unexpected events %+v", got)
	}

	runs := NewTickRunRepo(db)
	run := ports.TickRun{
		VaultID: vaultID, Status: ports.TickCommitted, StartedAt: now, FinishedAt: now.Add(time.Millisecond),
		Elapsed: time.Minute, EventCount: 2,
		Phases: []simulation.PhaseReport{{Phase: simulation.PhaseEconomy, Status: simulation.PhaseOK}},
	}
	if err := runs.Save(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	listed, err := runs.ListByVaultID(ctx, vaultID, 5)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(listed) != 1 || listed[0].Elapsed != time.Minute || len(listed[0].Phases) != 1 {
		t.Fatalf("unexpected runs %+v", listed)
	}
}
