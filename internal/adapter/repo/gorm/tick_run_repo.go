package gormrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vaultsim/internal/adapter/repo/gorm/model"
	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
)

type TickRunRepo struct {
	db *gorm.DB
}

func NewTickRunRepo(db *gorm.DB) TickRunRepo {
	return TickRunRepo{db: db}
}

func (r TickRunRepo) Save(ctx context.Context, run ports.TickRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	m := model.TickRun{
		ID:         run.ID,
		VaultID:    run.VaultID,
		Status:     string(run.Status),
		Reason:     run.Reason,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		ElapsedMs:  run.Elapsed.Milliseconds(),
		Phases:     toJSON(nonNil(run.Phases)),
		EventCount: int32(run.EventCount),
	}
	return getDBFromCtx(ctx, r.db).WithContext(ctx).Create(&m).Error
}

func (r TickRunRepo) ListByVaultID(ctx context.Context, vaultID string, limit int) ([]ports.TickRun, error) {
	rows := []model.TickRun{}
	query := getDBFromCtx(ctx, r.db).WithContext(ctx).
		Where(&model.TickRun{VaultID: vaultID}).
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.TickRun, 0, len(rows))
	for _, m := range rows {
		var phases []simulation.PhaseReport
		fromJSON(m.Phases, &phases)
		out = append(out, ports.TickRun{
			ID:         m.ID,
			VaultID:    m.VaultID,
			Status:     ports.TickStatus(m.Status),
			Reason:     m.Reason,
			StartedAt:  m.StartedAt,
			FinishedAt: m.FinishedAt,
			Elapsed:    time.Duration(m.ElapsedMs) * time.Millisecond,
			Phases:     phases,
			EventCount: int(m.EventCount),
		})
	}
	return out, nil
}
