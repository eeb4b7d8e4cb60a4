package exploration

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
)

var ErrInvalidRequest = errors.New("invalid exploration request")

type UseCase struct {
	TxManager ports.TxManager
	Snapshots ports.VaultSnapshotRepository
	Events    ports.EventRepository
	Config    simulation.Config
	Now       func() time.Time
	NewID     func() string
}

func (u UseCase) Dispatch(ctx context.Context, req DispatchRequest) (Response, error) {
	req.VaultID = strings.TrimSpace(req.VaultID)
	req.DwellerID = strings.TrimSpace(req.DwellerID)
	if req.VaultID == "" || req.DwellerID == "" || req.DurationSeconds <= 0 {
		return Response{}, ErrInvalidRequest
	}
	now := u.now()
	duration := time.Duration(req.DurationSeconds) * time.Second
	loadout := simulation.Loadout{Stimpaks: req.Stimpaks, Radaways: req.Radaways}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		snap, err := u.Snapshots.LoadSnapshot(txCtx, req.VaultID)
		if err != nil {
			return err
		}
		expected := snap.Vault.Version
		e, err := simulation.Dispatch(snap, req.DwellerID, u.newID(), duration, loadout, now, u.Config.Exploration)
		if err != nil {
			return err
		}
		snap.Vault.UpdatedAt = now
		if err := u.Snapshots.SaveSnapshot(txCtx, snap, expected); err != nil {
			return err
		}
		out = Response{Exploration: *e, Version: snap.Vault.Version, ReturnsAt: e.StartedAt.Add(e.Duration)}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}

// Recall brings an explorer home now, paying out what was gathered so far.
func (u UseCase) Recall(ctx context.Context, req RecallRequest) (Response, error) {
	req.VaultID = strings.TrimSpace(req.VaultID)
	req.ExplorationID = strings.TrimSpace(req.ExplorationID)
	if req.VaultID == "" || req.ExplorationID == "" {
		return Response{}, ErrInvalidRequest
	}
	now := u.now()

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		snap, err := u.Snapshots.LoadSnapshot(txCtx, req.VaultID)
		if err != nil {
			return err
		}
		expected := snap.Vault.Version
		t := simulation.NewTick(req.VaultID, now, 0, simulation.SeedFor(req.VaultID, now), u.Config)
		e, err := simulation.Recall(snap, t, req.ExplorationID)
		if err != nil {
			return err
		}
		snap.Vault.UpdatedAt = now
		if err := u.Snapshots.SaveSnapshot(txCtx, snap, expected); err != nil {
			return err
		}
		if events := t.Events(); len(events) > 0 && u.Events != nil {
			if err := u.Events.Append(txCtx, req.VaultID, events); err != nil {
				return err
			}
		}
		out = Response{
			Exploration: *e,
			XPAwarded:   e.XPAwarded,
			Events:      t.Events(),
			Version:     snap.Vault.Version,
			ReturnsAt:   now,
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now().UTC()
}

func (u UseCase) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}
