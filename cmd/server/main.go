package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	httpadapter "vaultsim/internal/adapter/http"
	metricsinmem "vaultsim/internal/adapter/metrics/inmemory"
	"vaultsim/internal/app/exploration"
	"vaultsim/internal/app/replay"
	"vaultsim/internal/app/scheduler"
	"vaultsim/internal/app/status"
	"vaultsim/internal/app/tick"
	"vaultsim/internal/app/training"
	"vaultsim/internal/domain/simulation"
	"vaultsim/internal/platform/config"
	vaultotel "vaultsim/internal/platform/otel"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/google/uuid"
)

const serviceName = "vaultsim"

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("vaultsim server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return err
	}
	shutdownTracing, err := vaultotel.Setup(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	repos, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cfg.SeedDemoVault {
		if err := seedDemoVault(ctx, repos, time.Now().UTC()); err != nil {
			return fmt.Errorf("seed demo vault: %w", err)
		}
	}

	kpiRecorder := metricsinmem.NewRecorder()
	ticks := tick.UseCase{
		TxManager: repos.tx,
		Snapshots: repos.snapshots,
		Events:    repos.events,
		Runs:      repos.runs,
		Metrics:   kpiRecorder,
		Engine:    simulation.NewEngine(tuning),
		Logger:    logger.With("component", "tick"),
		Budget:    cfg.TickBudget,
	}
	sched := scheduler.Scheduler{
		Ticks:        ticks,
		Schedule:     repos.schedule,
		Leases:       repos.leases,
		Metrics:      kpiRecorder,
		Owner:        uuid.NewString(),
		LeaseTTL:     cfg.Scheduler.LeaseTTL,
		PollInterval: cfg.Scheduler.PollInterval,
		Workers:      cfg.Scheduler.Workers,
		BatchSize:    cfg.Scheduler.BatchSize,
		Logger:       logger.With("component", "scheduler"),
	}

	h := newHandler(cfg, tuning, repos, kpiRecorder)
	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	schedCtx, stopScheduler := context.WithCancel(ctx)
	schedDone := make(chan error, 1)
	if cfg.DisableTicking {
		logger.Warn("vault ticking disabled")
		schedDone <- nil
	} else {
		go func() { schedDone <- sched.Run(schedCtx) }()
	}

	logger.Info("vaultsim server listening", "addr", cfg.HTTPAddr, "store", repos.kind, "scheduler_owner", sched.Owner)
	s.Spin()

	stopScheduler()
	return <-schedDone
}

func newHandler(cfg config.Server, tuning simulation.Config, repos repoSet, kpi *metricsinmem.Recorder) httpadapter.Handler {
	return httpadapter.Handler{
		TrainingUC: training.UseCase{
			TxManager: repos.tx,
			Snapshots: repos.snapshots,
			Config:    tuning.Training,
		},
		ExplorationUC: exploration.UseCase{
			TxManager: repos.tx,
			Snapshots: repos.snapshots,
			Events:    repos.events,
			Config:    tuning,
		},
		StatusUC:    status.UseCase{Snapshots: repos.snapshots, Config: tuning},
		ReplayUC:    replay.UseCase{Events: repos.events, Runs: repos.runs},
		KPI:         kpi,
		CORSOrigins: cfg.CORSOrigins,
	}
}

func newLogger(cfg config.Server, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
