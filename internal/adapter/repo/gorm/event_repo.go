package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vaultsim/internal/adapter/repo/gorm/model"
	"vaultsim/internal/domain/vault"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, vaultID string, events []vault.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.DomainEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, model.DomainEvent{
			VaultID:    vaultID,
			Type:       e.Type,
			SubjectID:  e.SubjectID,
			OccurredAt: e.OccurredAt,
			Payload:    toJSON(e.Payload),
		})
	}
	return getDBFromCtx(ctx, r.db).WithContext(ctx).Create(&rows).Error
}

func (r EventRepo) ListByVaultID(ctx context.Context, vaultID string, limit int) ([]vault.DomainEvent, error) {
	rows := []model.DomainEvent{}
	query := getDBFromCtx(ctx, r.db).WithContext(ctx).
		Where(&model.DomainEvent{VaultID: vaultID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]vault.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		fromJSON(row.Payload, &payload)
		out = append(out, vault.DomainEvent{
			Type:       row.Type,
			VaultID:    row.VaultID,
			SubjectID:  row.SubjectID,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
