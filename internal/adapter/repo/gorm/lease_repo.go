package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vaultsim/internal/adapter/repo/gorm/model"
	"vaultsim/internal/app/ports"
)

type LeaseRepo struct {
	db *gorm.DB
}

func NewLeaseRepo(db *gorm.DB) LeaseRepo {
	return LeaseRepo{db: db}
}

// Acquire takes the vault lease when it is free, expired, or already ours.
func (r LeaseRepo) Acquire(ctx context.Context, vaultID, owner string, now time.Time, ttl time.Duration) error {
	res := getDBFromCtx(ctx, r.db).WithContext(ctx).Exec(`
INSERT INTO vault_leases (vault_id, owner, expires_at) VALUES (?, ?, ?)
ON CONFLICT (vault_id) DO UPDATE SET owner = EXCLUDED.owner, expires_at = EXCLUDED.expires_at
WHERE vault_leases.expires_at <= ? OR vault_leases.owner = ?`,
		vaultID, owner, now.Add(ttl), now, owner)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrLeaseHeld
	}
	return nil
}

func (r LeaseRepo) Release(ctx context.Context, vaultID, owner string) error {
	return getDBFromCtx(ctx, r.db).WithContext(ctx).
		Where("vault_id = ? AND owner = ?", vaultID, owner).
		Delete(&model.VaultLease{}).Error
}
