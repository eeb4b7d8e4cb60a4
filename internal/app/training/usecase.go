package training

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
)

var ErrInvalidRequest = errors.New("invalid training request")

type UseCase struct {
	TxManager ports.TxManager
	Snapshots ports.VaultSnapshotRepository
	Config    simulation.TrainingConfig
	Now       func() time.Time
	NewID     func() string
}

// Start opens a training session for a dweller in a training room.
func (u UseCase) Start(ctx context.Context, req StartRequest) (Response, error) {
	req.VaultID = strings.TrimSpace(req.VaultID)
	req.DwellerID = strings.TrimSpace(req.DwellerID)
	req.RoomID = strings.TrimSpace(req.RoomID)
	if req.VaultID == "" || req.DwellerID == "" || req.RoomID == "" {
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
		session, err := simulation.StartTraining(snap, req.DwellerID, req.RoomID, u.newID(), now, u.Config)
		if err != nil {
			return err
		}
		snap.Vault.UpdatedAt = now
		if err := u.Snapshots.SaveSnapshot(txCtx, snap, expected); err != nil {
			return err
		}
		out = Response{
			Session:  *session,
			Duration: session.EstimatedCompletionAt.Sub(session.StartedAt),
			Version:  snap.Vault.Version,
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}

// Cancel stops an active session without granting the stat or XP.
func (u UseCase) Cancel(ctx context.Context, req CancelRequest) (Response, error) {
	req.VaultID = strings.TrimSpace(req.VaultID)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.VaultID == "" || req.SessionID == "" {
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
		session, err := simulation.CancelTraining(snap, req.SessionID, now)
		if err != nil {
			return err
		}
		snap.Vault.UpdatedAt = now
		if err := u.Snapshots.SaveSnapshot(txCtx, snap, expected); err != nil {
			return err
		}
		out = Response{Session: *session, Version: snap.Vault.Version}
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
