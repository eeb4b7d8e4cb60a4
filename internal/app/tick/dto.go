package tick

import (
	"time"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
)

type Request struct {
	VaultID string
	Now     time.Time
	// DueOnly skips the tick when the vault was already advanced past Now.
	DueOnly bool
}

// Result reports one vault-tick, including per-phase outcomes.
type Result struct {
	VaultID    string                   `json:"vault_id"`
	Status     ports.TickStatus         `json:"status"`
	Reason     string                   `json:"reason,omitempty"`
	Elapsed    time.Duration            `json:"elapsed"`
	Duration   time.Duration            `json:"duration"`
	Phases     []simulation.PhaseReport `json:"phases"`
	EventCount int                      `json:"event_count"`
	NextTickAt time.Time                `json:"next_tick_at"`
}
