package memory

import (
	"context"

	"github.com/google/uuid"

	"vaultsim/internal/app/ports"
)

type TickRunRepo struct {
	store *Store
}

func NewTickRunRepo(store *Store) TickRunRepo {
	return TickRunRepo{store: store}
}

func (r TickRunRepo) Save(_ context.Context, run ports.TickRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.runs[run.VaultID] = append(r.store.runs[run.VaultID], run)
	return nil
}

func (r TickRunRepo) ListByVaultID(_ context.Context, vaultID string, limit int) ([]ports.TickRun, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.runs[vaultID]
	out := make([]ports.TickRun, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}
