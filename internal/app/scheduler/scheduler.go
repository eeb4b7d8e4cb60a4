package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/app/tick"
)

const ReasonLeaseHeld = "lease_held"

const (
	defaultWorkers   = 4
	defaultBatchSize = 100
	defaultLeaseTTL  = time.Minute
	defaultPoll      = 5 * time.Second
)

// Scheduler ticks every due vault. Vaults run in parallel up to Workers and a
// vault is only advanced while its lease is held by Owner.
type Scheduler struct {
	Ticks        tick.UseCase
	Schedule     ports.VaultScheduleRepository
	Leases       ports.LeaseRepository
	Metrics      ports.TickMetrics
	Owner        string
	LeaseTTL     time.Duration
	PollInterval time.Duration
	Workers      int
	BatchSize    int
	Logger       *slog.Logger
	Now          func() time.Time
}

// Run polls for due vaults until ctx is done.
func (s Scheduler) Run(ctx context.Context) error {
	if s.Schedule == nil || s.Leases == nil {
		return errors.New("scheduler missing schedule or lease repository")
	}
	interval := s.PollInterval
	if interval <= 0 {
		interval = defaultPoll
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.poll(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s Scheduler) poll(ctx context.Context) {
	results, err := s.RunDueVaults(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger().Error("list due vaults", "error", err)
		}
		return
	}
	if len(results) == 0 {
		return
	}
	counts := map[ports.TickStatus]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	s.logger().Info("scheduler pass",
		"vaults", len(results),
		"committed", counts[ports.TickCommitted],
		"skipped", counts[ports.TickSkipped],
		"failed", counts[ports.TickFailed],
	)
}

// RunDueVaults advances each vault due at now once. A failing vault never
// affects the others; only listing errors are returned.
func (s Scheduler) RunDueVaults(ctx context.Context, now time.Time) ([]tick.Result, error) {
	ids, err := s.Schedule.ListDueVaults(ctx, now, s.batchSize())
	if err != nil {
		return nil, fmt.Errorf("list due vaults: %w", err)
	}
	results := make([]tick.Result, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, id := range ids {
		g.Go(func() error {
			results[i] = s.runOne(gctx, id, now)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (s Scheduler) runOne(ctx context.Context, vaultID string, now time.Time) tick.Result {
	logger := s.logger().With("vault_id", vaultID)
	owner := s.owner()
	if err := s.Leases.Acquire(ctx, vaultID, owner, now, s.leaseTTL()); err != nil {
		res := tick.Result{VaultID: vaultID, Status: ports.TickSkipped, Reason: ReasonLeaseHeld}
		if !errors.Is(err, ports.ErrLeaseHeld) {
			res.Status = ports.TickFailed
			res.Reason = err.Error()
			logger.Warn("acquire vault lease", "error", err)
		}
		if s.Metrics != nil {
			s.Metrics.RecordTick(res.Status, 0)
		}
		return res
	}
	defer func() {
		if err := s.Leases.Release(context.WithoutCancel(ctx), vaultID, owner); err != nil {
			logger.Warn("release vault lease", "error", err)
		}
	}()

	res, err := s.Ticks.RunVault(ctx, tick.Request{VaultID: vaultID, Now: now, DueOnly: true})
	if err != nil {
		res.VaultID = vaultID
		res.Status = ports.TickFailed
		res.Reason = err.Error()
	}
	return res
}

func (s Scheduler) owner() string {
	if s.Owner != "" {
		return s.Owner
	}
	return "local"
}

func (s Scheduler) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return defaultWorkers
}

func (s Scheduler) batchSize() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return defaultBatchSize
}

func (s Scheduler) leaseTTL() time.Duration {
	if s.LeaseTTL > 0 {
		return s.LeaseTTL
	}
	return defaultLeaseTTL
}

func (s Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
