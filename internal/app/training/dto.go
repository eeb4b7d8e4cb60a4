package training

import (
	"time"

	"vaultsim/internal/domain/vault"
)

type StartRequest struct {
	VaultID   string `json:"-"`
	DwellerID string `json:"dweller_id"`
	RoomID    string `json:"room_id"`
}

type CancelRequest struct {
	VaultID   string
	SessionID string
}

type Response struct {
	Session  vault.TrainingSession `json:"session"`
	Duration time.Duration         `json:"duration"`
	Version  int64                 `json:"vault_version"`
}
