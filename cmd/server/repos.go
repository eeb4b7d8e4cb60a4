package main

import (
	"context"
	"fmt"
	"log/slog"

	gormrepo "vaultsim/internal/adapter/repo/gorm"
	"vaultsim/internal/adapter/repo/memory"
	"vaultsim/internal/app/ports"
	"vaultsim/internal/platform/config"
)

type repoSet struct {
	kind      string
	tx        ports.TxManager
	snapshots ports.VaultSnapshotRepository
	schedule  ports.VaultScheduleRepository
	leases    ports.LeaseRepository
	events    ports.EventRepository
	runs      ports.TickRunRepository
}

// buildRepos uses postgres when a DSN is configured and the in-memory store
// otherwise.
func buildRepos(ctx context.Context, cfg config.Server, logger *slog.Logger) (repoSet, error) {
	if cfg.UseMemoryStore() {
		logger.Warn("VAULTSIM_DB_DSN is empty, vault state is kept in memory")
		return memoryRepos(memory.NewStore()), nil
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN, gormrepo.DefaultPoolConfig(), logger.With("component", "gorm"))
	if err != nil {
		return repoSet{}, err
	}
	if cfg.AutoMigrate {
		if err := gormrepo.ApplyMigrations(ctx, db, cfg.MigrationsDir, logger); err != nil {
			return repoSet{}, fmt.Errorf("migrate: %w", err)
		}
	}
	snapshots := gormrepo.NewSnapshotRepo(db)
	return repoSet{
		kind:      "postgres",
		tx:        gormrepo.NewTxManager(db),
		snapshots: snapshots,
		schedule:  snapshots,
		leases:    gormrepo.NewLeaseRepo(db),
		events:    gormrepo.NewEventRepo(db),
		runs:      gormrepo.NewTickRunRepo(db),
	}, nil
}

func memoryRepos(store *memory.Store) repoSet {
	snapshots := memory.NewSnapshotRepo(store)
	return repoSet{
		kind:      "memory",
		tx:        memory.NewTxManager(store),
		snapshots: snapshots,
		schedule:  snapshots,
		leases:    memory.NewLeaseRepo(store),
		events:    memory.NewEventRepo(store),
		runs:      memory.NewTickRunRepo(store),
	}
}
