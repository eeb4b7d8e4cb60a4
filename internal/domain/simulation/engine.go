package simulation

import (
	"context"
	"fmt"
	"time"

	"vaultsim/internal/domain/vault"
)

type PhaseName string

const (
	PhaseEconomy     PhaseName = "economy"
	PhaseLifecycle   PhaseName = "lifecycle"
	PhaseTraining    PhaseName = "training"
	PhaseIncident    PhaseName = "incident"
	PhaseExploration PhaseName = "exploration"
	PhaseBreeding    PhaseName = "breeding"
)

type PhaseStatus string

const (
	PhaseOK       PhaseStatus = "ok"
	PhaseDegraded PhaseStatus = "degraded"
	PhaseFailed   PhaseStatus = "failed"
)

// Phase advances one concern of a vault snapshot. Issues describe records
// that were skipped; a returned error discards the phase's writes.
type Phase interface {
	Name() PhaseName
	Apply(snap *vault.Snapshot, t *Tick) (issues []string, err error)
}

type PhaseReport struct {
	Phase    PhaseName     `json:"phase"`
	Status   PhaseStatus   `json:"status"`
	Duration time.Duration `json:"duration"`
	Issues   []string      `json:"issues,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type Result struct {
	Elapsed time.Duration       `json:"elapsed"`
	Phases  []PhaseReport       `json:"phases"`
	Events  []vault.DomainEvent `json:"events"`
}

func (r Result) Failed() []PhaseName {
	out := make([]PhaseName, 0)
	for _, p := range r.Phases {
		if p.Status == PhaseFailed {
			out = append(out, p.Phase)
		}
	}
	return out
}

// PhaseObserver is notified around each phase, e.g. for tracing.
type PhaseObserver interface {
	PhaseStarted(ctx context.Context, phase PhaseName) func(PhaseReport)
}

type Engine struct {
	Config   Config
	Phases   []Phase
	Observer PhaseObserver
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		Config: cfg,
		Phases: []Phase{
			EconomyPhase{},
			LifecyclePhase{},
			TrainingPhase{},
			IncidentPhase{},
			ExplorationPhase{},
			BreedingPhase{},
		},
	}
}

// ElapsedSince is the simulated span for a tick at now. A vault that never
// ticked advances by one interval; long gaps are capped.
func (e *Engine) ElapsedSince(last, now time.Time) time.Duration {
	if last.IsZero() {
		return e.Config.TickInterval
	}
	if !now.After(last) {
		return 0
	}
	dt := now.Sub(last)
	if e.Config.MaxTickElapsed > 0 && dt > e.Config.MaxTickElapsed {
		dt = e.Config.MaxTickElapsed
	}
	return dt
}

// Run advances snap in place by one tick. Phases run strictly in order; a
// failing phase is rolled back to its pre-phase state and the rest still run.
// Run stops early only when ctx is done, returning its error.
func (e *Engine) Run(ctx context.Context, snap *vault.Snapshot, now time.Time, rnd Rand) (Result, error) {
	elapsed := e.ElapsedSince(snap.Vault.LastTickAt, now)
	t := NewTick(snap.Vault.ID, now, elapsed, rnd, e.Config)
	res := Result{Elapsed: elapsed, Phases: make([]PhaseReport, 0, len(e.Phases))}

	for _, phase := range e.Phases {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var done func(PhaseReport)
		if e.Observer != nil {
			done = e.Observer.PhaseStarted(ctx, phase.Name())
		}
		report := e.runPhase(phase, snap, t)
		if done != nil {
			done(report)
		}
		res.Phases = append(res.Phases, report)
	}

	snap.Vault.LastTickAt = now
	snap.Vault.TickCount++
	res.Events = t.Events()
	return res, nil
}

func (e *Engine) runPhase(phase Phase, snap *vault.Snapshot, t *Tick) (report PhaseReport) {
	start := time.Now()
	backup := snap.Clone()
	mark := t.eventMark()
	report.Phase = phase.Name()

	defer func() {
		if r := recover(); r != nil {
			*snap = *backup
			t.rollbackEvents(mark)
			report.Status = PhaseFailed
			report.Error = fmt.Sprintf("panic: %v", r)
			report.Issues = nil
		}
		report.Duration = time.Since(start)
	}()

	issues, err := phase.Apply(snap, t)
	snap.Reindex()
	switch {
	case err != nil:
		*snap = *backup
		t.rollbackEvents(mark)
		report.Status = PhaseFailed
		report.Error = err.Error()
	case len(issues) > 0:
		report.Status = PhaseDegraded
		report.Issues = issues
	default:
		report.Status = PhaseOK
	}
	return report
}
