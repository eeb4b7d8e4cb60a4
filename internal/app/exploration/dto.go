package exploration

import (
	"time"

	"vaultsim/internal/domain/vault"
)

type DispatchRequest struct {
	VaultID         string `json:"-"`
	DwellerID       string `json:"dweller_id"`
	DurationSeconds int64  `json:"duration_seconds"`
	Stimpaks        int    `json:"stimpaks"`
	Radaways        int    `json:"radaways"`
}

type RecallRequest struct {
	VaultID       string
	ExplorationID string
}

type Response struct {
	Exploration vault.Exploration   `json:"exploration"`
	XPAwarded   int64               `json:"xp_awarded,omitempty"`
	Events      []vault.DomainEvent `json:"events,omitempty"`
	Version     int64               `json:"vault_version"`
	ReturnsAt   time.Time           `json:"returns_at"`
}
