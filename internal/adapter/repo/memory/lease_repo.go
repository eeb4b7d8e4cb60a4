package memory

import (
	"context"
	"time"

	"vaultsim/internal/app/ports"
)

type LeaseRepo struct {
	store *Store
}

func NewLeaseRepo(store *Store) LeaseRepo {
	return LeaseRepo{store: store}
}

func (r LeaseRepo) Acquire(_ context.Context, vaultID, owner string, now time.Time, ttl time.Duration) error {
	r.store.leaseMu.Lock()
	defer r.store.leaseMu.Unlock()
	cur, ok := r.store.leases[vaultID]
	if ok && cur.owner != owner && now.Before(cur.expiresAt) {
		return ports.ErrLeaseHeld
	}
	r.store.leases[vaultID] = lease{owner: owner, expiresAt: now.Add(ttl)}
	return nil
}

func (r LeaseRepo) Release(_ context.Context, vaultID, owner string) error {
	r.store.leaseMu.Lock()
	defer r.store.leaseMu.Unlock()
	if cur, ok := r.store.leases[vaultID]; ok && cur.owner == owner {
		delete(r.store.leases, vaultID)
	}
	return nil
}
