package ports

import (
	"context"
	"time"

	"vaultsim/internal/domain/simulation"
	"vaultsim/internal/domain/vault"
)

type TickStatus string

const (
	TickCommitted TickStatus = "committed"
	TickSkipped   TickStatus = "skipped"
	TickFailed    TickStatus = "failed"
)

// TickRun is the persisted outcome of one vault-tick.
type TickRun struct {
	ID         string                   `json:"id"`
	VaultID    string                   `json:"vault_id"`
	Status     TickStatus               `json:"status"`
	Reason     string                   `json:"reason,omitempty"`
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	Elapsed    time.Duration            `json:"elapsed"`
	Phases     []simulation.PhaseReport `json:"phases"`
	EventCount int                      `json:"event_count"`
}

type VaultSnapshotRepository interface {
	LoadSnapshot(ctx context.Context, vaultID string) (*vault.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap *vault.Snapshot, expectedVersion int64) error
}

type VaultScheduleRepository interface {
	ListDueVaults(ctx context.Context, now time.Time, limit int) ([]string, error)
}

// LeaseRepository grants exclusive per-vault processing. Acquire returns
// ErrLeaseHeld while another owner holds an unexpired lease.
type LeaseRepository interface {
	Acquire(ctx context.Context, vaultID, owner string, now time.Time, ttl time.Duration) error
	Release(ctx context.Context, vaultID, owner string) error
}

type EventRepository interface {
	Append(ctx context.Context, vaultID string, events []vault.DomainEvent) error
	ListByVaultID(ctx context.Context, vaultID string, limit int) ([]vault.DomainEvent, error)
}

type TickRunRepository interface {
	Save(ctx context.Context, run TickRun) error
	ListByVaultID(ctx context.Context, vaultID string, limit int) ([]TickRun, error)
}

// TxManager runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
