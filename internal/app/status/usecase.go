package status

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/simulation"
	"vaultsim/internal/domain/vault"
)

var ErrInvalidRequest = errors.New("invalid status request")

// UseCase serves read models over the latest committed snapshot.
type UseCase struct {
	Snapshots ports.VaultSnapshotRepository
	Config    simulation.Config
	Now       func() time.Time
}

func (u UseCase) Vault(ctx context.Context, req Request) (VaultResponse, error) {
	snap, err := u.load(ctx, req)
	if err != nil {
		return VaultResponse{}, err
	}
	out := VaultResponse{
		Vault:     snap.Vault,
		Rooms:     len(snap.Rooms),
		Incidents: len(snap.OpenIncidents()),
		Pregnant:  len(snap.Pregnancies),
	}
	for _, d := range snap.LivingDwellers() {
		out.Population++
		if d.Status == vault.StatusExploring {
			out.Exploring++
		}
	}
	return out, nil
}

func (u UseCase) Dweller(ctx context.Context, req Request) (DwellerResponse, error) {
	if strings.TrimSpace(req.DwellerID) == "" {
		return DwellerResponse{}, ErrInvalidRequest
	}
	snap, err := u.load(ctx, req)
	if err != nil {
		return DwellerResponse{}, err
	}
	idx := snap.Index()
	d, ok := idx.Dweller(req.DwellerID)
	if !ok {
		return DwellerResponse{}, fmt.Errorf("%w: dweller %s", ports.ErrNotFound, req.DwellerID)
	}
	now := u.now()

	mods := simulation.HappinessModifiers(snap, d, u.Config.Happiness)
	out := DwellerResponse{Dweller: *d, Modifiers: mods}
	for _, m := range mods {
		out.HappinessDelta += m.Value
	}
	if d.Level < simulation.MaxLevel {
		out.XPToNextLevel = max(0, simulation.XPRequired(d.Level+1)-d.Experience)
	}
	if s, ok := idx.ActiveTraining(d.ID); ok {
		view := trainingView(s, now)
		out.Training = &view
	}
	if e, ok := idx.ActiveExploration(d.ID); ok {
		view := explorationView(e, now)
		out.Exploration = &view
	}
	return out, nil
}

func (u UseCase) Training(ctx context.Context, req Request) (TrainingResponse, error) {
	snap, err := u.load(ctx, req)
	if err != nil {
		return TrainingResponse{}, err
	}
	now := u.now()
	out := TrainingResponse{Sessions: make([]TrainingView, 0, len(snap.Training))}
	for _, s := range snap.Training {
		out.Sessions = append(out.Sessions, trainingView(s, now))
	}
	return out, nil
}

func (u UseCase) Incidents(ctx context.Context, req Request) (IncidentsResponse, error) {
	snap, err := u.load(ctx, req)
	if err != nil {
		return IncidentsResponse{}, err
	}
	now := u.now()
	open := snap.OpenIncidents()
	out := IncidentsResponse{Incidents: make([]IncidentView, 0, len(open))}
	for _, inc := range open {
		threshold := simulation.ResolutionThreshold(inc, u.Config.Incident)
		progress := 0.0
		if threshold > 0 {
			progress = math.Min(100, inc.DamageDealt/threshold*100)
		}
		out.Incidents = append(out.Incidents, IncidentView{
			Incident:        *inc,
			Threshold:       threshold,
			ProgressPercent: progress,
			AgeSeconds:      int64(simulation.IncidentAge(inc, now).Seconds()),
		})
	}
	return out, nil
}

func (u UseCase) Explorations(ctx context.Context, req Request) (ExplorationsResponse, error) {
	snap, err := u.load(ctx, req)
	if err != nil {
		return ExplorationsResponse{}, err
	}
	now := u.now()
	out := ExplorationsResponse{Explorations: make([]ExplorationView, 0, len(snap.Explorations))}
	for _, e := range snap.Explorations {
		out.Explorations = append(out.Explorations, explorationView(e, now))
	}
	return out, nil
}

func (u UseCase) load(ctx context.Context, req Request) (*vault.Snapshot, error) {
	if strings.TrimSpace(req.VaultID) == "" {
		return nil, ErrInvalidRequest
	}
	return u.Snapshots.LoadSnapshot(ctx, strings.TrimSpace(req.VaultID))
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now().UTC()
}

func trainingView(s *vault.TrainingSession, now time.Time) TrainingView {
	percent, eta := simulation.TrainingProgress(s, now)
	return TrainingView{Session: *s, Percent: percent, ETASeconds: int64(eta.Seconds())}
}

func explorationView(e *vault.Exploration, now time.Time) ExplorationView {
	return ExplorationView{
		Exploration: *e,
		Percent:     simulation.ExplorationProgress(e, now),
		ReturnsAt:   e.StartedAt.Add(e.Duration),
	}
}
