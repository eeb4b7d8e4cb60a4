package replay

import (
	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/vault"
)

type Request struct {
	VaultID      string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
	Types        []string
}

type Response struct {
	Events []vault.DomainEvent `json:"events"`
	Counts map[string]int      `json:"counts"`
	Runs   []ports.TickRun     `json:"tick_runs,omitempty"`
}
