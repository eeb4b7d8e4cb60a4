package inmemory

import (
	"sync"
	"time"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
)

type Snapshot struct {
	TickTotal      uint64                       `json:"tick_total"`
	TickCommitted  uint64                       `json:"tick_committed"`
	TickSkipped    uint64                       `json:"tick_skipped"`
	TickFailed     uint64                       `json:"tick_failed"`
	TickConflict   uint64                       `json:"tick_conflict"`
	LastDurationMS int64                        `json:"last_duration_ms"`
	MaxDurationMS  int64                        `json:"max_duration_ms"`
	ByPhase        map[string]map[string]uint64 `json:"by_phase"`
}

type Recorder struct {
	mu        sync.Mutex
	committed uint64
	skipped   uint64
	failed    uint64
	conflict  uint64
	last      time.Duration
	max       time.Duration
	byPhase   map[string]map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byPhase: map[string]map[string]uint64{},
	}
}

func (r *Recorder) RecordTick(status ports.TickStatus, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch status {
	case ports.TickCommitted:
		r.committed++
	case ports.TickSkipped:
		r.skipped++
		return
	default:
		r.failed++
	}
	r.last = duration
	if duration > r.max {
		r.max = duration
	}
}

func (r *Recorder) RecordPhase(phase simulation.PhaseName, status simulation.PhaseStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byStatus, ok := r.byPhase[string(phase)]
	if !ok {
		byStatus = map[string]uint64{}
		r.byPhase[string(phase)] = byStatus
	}
	byStatus[string(status)]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TickCommitted:  r.committed,
		TickSkipped:    r.skipped,
		TickFailed:     r.failed,
		TickConflict:   r.conflict,
		TickTotal:      r.committed + r.skipped + r.failed,
		LastDurationMS: r.last.Milliseconds(),
		MaxDurationMS:  r.max.Milliseconds(),
		ByPhase:        make(map[string]map[string]uint64, len(r.byPhase)),
	}
	for phase, byStatus := range r.byPhase {
		cp := make(map[string]uint64, len(byStatus))
		for k, v := range byStatus {
			cp[k] = v
		}
		out.ByPhase[phase] = cp
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
