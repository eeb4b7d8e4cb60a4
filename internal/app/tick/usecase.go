package tick

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
)

var ErrInvalidRequest = errors.New("invalid tick request")

const ReasonNotDue = "not_due"

type UseCase struct {
	TxManager ports.TxManager
	Snapshots ports.VaultSnapshotRepository
	Events    ports.EventRepository
	Runs      ports.TickRunRepository
	Metrics   ports.TickMetrics
	Engine    *simulation.Engine
	Tracer    trace.Tracer
	Logger    *slog.Logger
	// Budget bounds the wall-clock time of one vault-tick; zero disables it.
	Budget  time.Duration
	RandFor func(vaultID string, now time.Time) simulation.Rand
	Now     func() time.Time
}

// RunVault advances one vault by a tick inside a single transaction. Any
// load, commit, or budget failure rolls the whole tick back.
func (u UseCase) RunVault(ctx context.Context, req Request) (Result, error) {
	req.VaultID = strings.TrimSpace(req.VaultID)
	if req.VaultID == "" || u.Engine == nil {
		return Result{}, ErrInvalidRequest
	}
	now := req.Now
	if now.IsZero() {
		now = u.now()
	}
	logger := u.logger().With("vault_id", req.VaultID)

	tickCtx := ctx
	if u.Budget > 0 {
		var cancel context.CancelFunc
		tickCtx, cancel = context.WithTimeout(ctx, u.Budget)
		defer cancel()
	}
	tickCtx, span := u.tracer().Start(tickCtx, "vault.tick", trace.WithAttributes(attribute.String("vault.id", req.VaultID)))
	defer span.End()

	start := time.Now()
	out := Result{VaultID: req.VaultID}
	engine := *u.Engine
	engine.Observer = phaseSpans{tracer: u.tracer(), metrics: u.Metrics}
	skipped := false

	err := u.TxManager.RunInTx(tickCtx, func(txCtx context.Context) error {
		snap, err := u.Snapshots.LoadSnapshot(txCtx, req.VaultID)
		if err != nil {
			return err
		}
		expected := snap.Vault.Version
		if req.DueOnly && snap.Vault.NextTickAt.After(now) {
			skipped = true
			return nil
		}

		res, err := engine.Run(txCtx, snap, now, u.randFor(req.VaultID, now))
		if err != nil {
			return err
		}
		snap.Vault.NextTickAt = now.Add(engine.Config.TickInterval)
		snap.Vault.UpdatedAt = now

		if err := u.Snapshots.SaveSnapshot(txCtx, snap, expected); err != nil {
			return err
		}
		if len(res.Events) > 0 {
			if err := u.Events.Append(txCtx, req.VaultID, res.Events); err != nil {
				return err
			}
		}
		if err := txCtx.Err(); err != nil {
			return err
		}

		out.Elapsed = res.Elapsed
		out.Phases = res.Phases
		out.EventCount = len(res.Events)
		out.NextTickAt = snap.Vault.NextTickAt
		return nil
	})
	out.Duration = time.Since(start)

	if err != nil {
		out.Status = ports.TickFailed
		out.Reason = err.Error()
		out.Phases = nil
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if u.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				u.Metrics.RecordConflict()
			}
			u.Metrics.RecordTick(ports.TickFailed, out.Duration)
		}
		logger.Warn("vault tick aborted", "error", err, "duration", out.Duration)
		u.saveRun(ctx, out, now, logger)
		return out, err
	}

	if skipped {
		out.Status = ports.TickSkipped
		out.Reason = ReasonNotDue
		if u.Metrics != nil {
			u.Metrics.RecordTick(ports.TickSkipped, out.Duration)
		}
		return out, nil
	}

	out.Status = ports.TickCommitted
	for _, p := range out.Phases {
		if p.Status == simulation.PhaseOK {
			continue
		}
		logger.Warn("vault tick phase not ok", "phase", p.Phase, "status", p.Status, "issues", p.Issues, "error", p.Error)
	}
	span.SetAttributes(attribute.Int("tick.events", out.EventCount))
	if u.Metrics != nil {
		u.Metrics.RecordTick(ports.TickCommitted, out.Duration)
	}
	logger.Debug("vault tick committed", "duration", out.Duration, "events", out.EventCount)
	u.saveRun(ctx, out, now, logger)
	return out, nil
}

func (u UseCase) saveRun(ctx context.Context, res Result, startedAt time.Time, logger *slog.Logger) {
	if u.Runs == nil {
		return
	}
	run := ports.TickRun{
		VaultID:    res.VaultID,
		Status:     res.Status,
		Reason:     res.Reason,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(res.Duration),
		Elapsed:    res.Elapsed,
		Phases:     res.Phases,
		EventCount: res.EventCount,
	}
	if err := u.Runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Error("save tick run", "error", err)
	}
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now().UTC()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

func (u UseCase) tracer() trace.Tracer {
	if u.Tracer != nil {
		return u.Tracer
	}
	return otel.Tracer("vaultsim/tick")
}

func (u UseCase) randFor(vaultID string, now time.Time) simulation.Rand {
	if u.RandFor != nil {
		return u.RandFor(vaultID, now)
	}
	return simulation.SeedFor(vaultID, now)
}

type phaseSpans struct {
	tracer  trace.Tracer
	metrics ports.TickMetrics
}

func (p phaseSpans) PhaseStarted(ctx context.Context, phase simulation.PhaseName) func(simulation.PhaseReport) {
	_, span := p.tracer.Start(ctx, "vault.phase."+string(phase))
	return func(r simulation.PhaseReport) {
		span.SetAttributes(
			attribute.String("phase.status", string(r.Status)),
			attribute.Int("phase.issues", len(r.Issues)),
		)
		if r.Status == simulation.PhaseFailed {
			span.SetStatus(codes.Error, r.Error)
		}
		span.End()
		if p.metrics != nil {
			p.metrics.RecordPhase(r.Phase, r.Status)
		}
	}
}
