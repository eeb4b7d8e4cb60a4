package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vaultsim/internal/adapter/repo/gorm/model"
	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/vault"
)

type SnapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return SnapshotRepo{db: db}
}

// LoadSnapshot reads the vault with its dwellers, rooms, relationships, and
// only the activity records that are still in progress.
func (r SnapshotRepo) LoadSnapshot(ctx context.Context, vaultID string) (*vault.Snapshot, error) {
	db := getDBFromCtx(ctx, r.db).WithContext(ctx)

	var v model.Vault
	if err := db.Where("id = ?", vaultID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}

	var (
		dwellers      []model.Dweller
		rooms         []model.Room
		training      []model.TrainingSession
		incidents     []model.Incident
		explorations  []model.Exploration
		pregnancies   []model.Pregnancy
		relationships []model.Relationship
	)
	byVault := db.Where("vault_id = ?", vaultID).Session(&gorm.Session{})
	queries := []struct {
		name string
		run  func() error
	}{
		{"dwellers", func() error { return byVault.Order("id").Find(&dwellers).Error }},
		{"rooms", func() error { return byVault.Order("id").Find(&rooms).Error }},
		{"training_sessions", func() error {
			return byVault.Where("status = ?", vault.TrainingActive).Order("started_at, id").Find(&training).Error
		}},
		{"incidents", func() error {
			return byVault.Where("status IN ?", []string{string(vault.IncidentActive), string(vault.IncidentSpreading)}).Order("started_at, id").Find(&incidents).Error
		}},
		{"explorations", func() error {
			return byVault.Where("status = ?", vault.ExplorationActive).Order("started_at, id").Find(&explorations).Error
		}},
		{"pregnancies", func() error {
			return byVault.Where("status = ?", vault.PregnancyPregnant).Order("conceived_at, id").Find(&pregnancies).Error
		}},
		{"relationships", func() error { return byVault.Order("id").Find(&relationships).Error }},
	}
	for _, q := range queries {
		if err := q.run(); err != nil {
			return nil, fmt.Errorf("load %s: %w", q.name, err)
		}
	}

	return &vault.Snapshot{
		Vault:         vaultFromRow(v),
		Dwellers:      mapRows(dwellers, dwellerFromRow),
		Rooms:         mapRows(rooms, roomFromRow),
		Training:      mapRows(training, trainingFromRow),
		Incidents:     mapRows(incidents, incidentFromRow),
		Explorations:  mapRows(explorations, explorationFromRow),
		Pregnancies:   mapRows(pregnancies, pregnancyFromRow),
		Relationships: mapRows(relationships, relationshipFromRow),
	}, nil
}

// SaveSnapshot writes the vault row guarded by expectedVersion and upserts
// every record in snap. Records missing from snap are left untouched.
func (r SnapshotRepo) SaveSnapshot(ctx context.Context, snap *vault.Snapshot, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db).WithContext(ctx)
	row := vaultRow(snap.Vault)
	row.Version = expectedVersion + 1

	if expectedVersion == 0 {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ports.ErrConflict
		}
	} else {
		updates := map[string]any{
			"name":             row.Name,
			"power":            row.Power,
			"food":             row.Food,
			"water":            row.Water,
			"caps":             row.Caps,
			"power_capacity":   row.PowerCapacity,
			"food_capacity":    row.FoodCapacity,
			"water_capacity":   row.WaterCapacity,
			"caps_capacity":    row.CapsCapacity,
			"flags":            row.Flags,
			"happiness":        row.Happiness,
			"fertility":        row.Fertility,
			"last_incident_at": row.LastIncidentAt,
			"last_tick_at":     row.LastTickAt,
			"next_tick_at":     row.NextTickAt,
			"tick_count":       row.TickCount,
			"version":          row.Version,
			"updated_at":       row.UpdatedAt,
		}
		res := db.Model(&model.Vault{}).
			Where("id = ? AND version = ?", row.ID, expectedVersion).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ports.ErrConflict
		}
	}

	stampVaultID(snap)
	steps := []func() error{
		func() error { return upsert(db, "rooms", mapRows(snap.Rooms, roomRow)) },
		func() error { return upsert(db, "dwellers", mapRows(snap.Dwellers, dwellerRow)) },
		func() error { return upsert(db, "training_sessions", mapRows(snap.Training, trainingRow)) },
		func() error { return upsert(db, "incidents", mapRows(snap.Incidents, incidentRow)) },
		func() error { return upsert(db, "explorations", mapRows(snap.Explorations, explorationRow)) },
		func() error { return upsert(db, "pregnancies", mapRows(snap.Pregnancies, pregnancyRow)) },
		func() error { return upsert(db, "relationships", mapRows(snap.Relationships, relationshipRow)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	snap.Vault.Version = row.Version
	return nil
}

func stampVaultID(snap *vault.Snapshot) {
	id := snap.Vault.ID
	for _, x := range snap.Rooms {
		x.VaultID = id
	}
	for _, x := range snap.Dwellers {
		x.VaultID = id
	}
	for _, x := range snap.Training {
		x.VaultID = id
	}
	for _, x := range snap.Incidents {
		x.VaultID = id
	}
	for _, x := range snap.Explorations {
		x.VaultID = id
	}
	for _, x := range snap.Pregnancies {
		x.VaultID = id
	}
	for _, x := range snap.Relationships {
		x.VaultID = id
	}
}

func upsert[T any](db *gorm.DB, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (r SnapshotRepo) ListDueVaults(ctx context.Context, now time.Time, limit int) ([]string, error) {
	ids := []string{}
	query := getDBFromCtx(ctx, r.db).WithContext(ctx).
		Model(&model.Vault{}).
		Where("next_tick_at <= ?", now).
		Order("next_tick_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
