package ports

import (
	"time"

	"vaultsim/internal/domain/simulation"
)

type TickMetrics interface {
	RecordTick(status TickStatus, duration time.Duration)
	RecordPhase(phase simulation.PhaseName, status simulation.PhaseStatus)
	RecordConflict()
}
