package status

import (
	"time"

	"vaultsim/internal/domain/simulation"
	"vaultsim/internal/domain/vault"
)

type Request struct {
	VaultID   string
	DwellerID string
}

type VaultResponse struct {
	Vault      vault.Vault `json:"vault"`
	Population int         `json:"population"`
	Exploring  int         `json:"exploring"`
	Rooms      int         `json:"rooms"`
	Incidents  int         `json:"active_incidents"`
	Pregnant   int         `json:"pregnancies"`
}

type DwellerResponse struct {
	Dweller        vault.Dweller         `json:"dweller"`
	Modifiers      []simulation.Modifier `json:"happiness_modifiers"`
	HappinessDelta float64               `json:"happiness_delta"`
	XPToNextLevel  int64                 `json:"xp_to_next_level"`
	Training       *TrainingView         `json:"training,omitempty"`
	Exploration    *ExplorationView      `json:"exploration,omitempty"`
}

type TrainingView struct {
	Session    vault.TrainingSession `json:"session"`
	Percent    float64               `json:"percent"`
	ETASeconds int64                 `json:"eta_seconds"`
}

type IncidentView struct {
	Incident        vault.Incident `json:"incident"`
	Threshold       float64        `json:"threshold"`
	ProgressPercent float64        `json:"progress_percent"`
	AgeSeconds      int64          `json:"age_seconds"`
}

type ExplorationView struct {
	Exploration vault.Exploration `json:"exploration"`
	Percent     float64           `json:"percent"`
	ReturnsAt   time.Time         `json:"returns_at"`
}

type TrainingResponse struct {
	Sessions []TrainingView `json:"sessions"`
}

type IncidentsResponse struct {
	Incidents []IncidentView `json:"incidents"`
}

type ExplorationsResponse struct {
	Explorations []ExplorationView `json:"explorations"`
}
