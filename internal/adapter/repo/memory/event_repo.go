package memory

import (
	"context"

	"vaultsim/internal/domain/vault"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, vaultID string, events []vault.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[vaultID] = append(r.store.events[vaultID], events...)
	return nil
}

// ListByVaultID returns the newest events first.
func (r EventRepo) ListByVaultID(_ context.Context, vaultID string, limit int) ([]vault.DomainEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.events[vaultID]
	out := make([]vault.DomainEvent, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}
