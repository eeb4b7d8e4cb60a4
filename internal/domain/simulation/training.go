package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"vaultsim/internal/domain/vault"
)

var (
	ErrDwellerNotFound    = errors.New("dweller not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrNotTrainingRoom    = errors.New("room does not train a stat")
	ErrStatAtCap          = errors.New("stat already at maximum")
	ErrAlreadyTraining    = errors.New("dweller already has an active training session")
	ErrRoomAtCapacity     = errors.New("training room is at capacity")
	ErrDwellerUnavailable = errors.New("dweller is unavailable")
	ErrInvalidStat        = errors.New("invalid stat")
)

// TrainingDuration is the full session length for a stat value in a room tier.
func TrainingDuration(statValue, tier int, cfg TrainingConfig) time.Duration {
	base := cfg.BaseDuration + time.Duration(statValue)*cfg.PerLevelIncrease
	factor := cfg.TierSpeed[clampInt(tier, 1, 3)-1]
	return time.Duration(math.Round(float64(base) * factor))
}

// ValidateTrainingStart checks room capacity and dweller eligibility.
func ValidateTrainingStart(snap *vault.Snapshot, dwellerID, roomID string) (*vault.Dweller, *vault.Room, error) {
	idx := snap.Index()
	d, ok := idx.Dweller(dwellerID)
	if !ok || d.Dead {
		return nil, nil, fmt.Errorf("%w: %s", ErrDwellerNotFound, dwellerID)
	}
	room, ok := idx.Room(roomID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	if room.Category() != vault.CategoryTraining {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrNotTrainingRoom, room.ID, room.Type)
	}
	if _, active := idx.ActiveTraining(d.ID); active {
		return nil, nil, ErrAlreadyTraining
	}
	if d.Status == vault.StatusExploring || d.Status == vault.StatusInCombat || d.Incapacitated() || d.AgeGroup == vault.AgeChild {
		return nil, nil, fmt.Errorf("%w: status %s", ErrDwellerUnavailable, d.Status)
	}
	if d.Special.Get(room.Ability()) >= vault.MaxStat {
		return nil, nil, fmt.Errorf("%w: %s=%d", ErrStatAtCap, room.Ability(), vault.MaxStat)
	}
	if idx.ActiveTrainingInRoom(room.ID) >= room.Capacity() {
		return nil, nil, fmt.Errorf("%w: %d/%d", ErrRoomAtCapacity, idx.ActiveTrainingInRoom(room.ID), room.Capacity())
	}
	return d, room, nil
}

// StartTraining validates and opens a session, moving the dweller into room.
func StartTraining(snap *vault.Snapshot, dwellerID, roomID, sessionID string, now time.Time, cfg TrainingConfig) (*vault.TrainingSession, error) {
	d, room, err := ValidateTrainingStart(snap, dwellerID, roomID)
	if err != nil {
		return nil, err
	}
	stat := room.Ability()
	start := d.Special.Get(stat)
	session := &vault.TrainingSession{
		ID:                    sessionID,
		VaultID:               snap.Vault.ID,
		DwellerID:             d.ID,
		RoomID:                room.ID,
		ReturnRoomID:          returnRoom(d, room.ID),
		Stat:                  stat,
		StartValue:            start,
		StartedAt:             now,
		EstimatedCompletionAt: now.Add(TrainingDuration(start, room.Tier, cfg)),
		Status:                vault.TrainingActive,
	}
	d.Status = vault.StatusTraining
	d.RoomID = vault.StringPtr(room.ID)
	snap.Training = append(snap.Training, session)
	snap.Reindex()
	return session, nil
}

// returnRoom is the assignment a dweller goes back to once training ends.
func returnRoom(d *vault.Dweller, trainingRoomID string) *string {
	if d.RoomID == nil || *d.RoomID == trainingRoomID {
		return nil
	}
	return vault.StringPtr(*d.RoomID)
}

// leaveTraining moves the dweller back to their previous room, if it still
// exists, and derives the status from where they end up.
func leaveTraining(snap *vault.Snapshot, s *vault.TrainingSession, d *vault.Dweller) {
	idx := snap.Index()
	if s.ReturnRoomID != nil {
		if _, ok := idx.Room(*s.ReturnRoomID); ok {
			d.RoomID = vault.StringPtr(*s.ReturnRoomID)
		}
	}
	snap.Reindex()
	if d.Status == vault.StatusTraining {
		d.Status = restingStatus(snap.Index(), d)
	}
}

var ErrTrainingNotActive = errors.New("training session is not active")

func CancelTraining(snap *vault.Snapshot, sessionID string, now time.Time) (*vault.TrainingSession, error) {
	for _, s := range snap.Training {
		if s.ID != sessionID {
			continue
		}
		if s.Status != vault.TrainingActive {
			return nil, ErrTrainingNotActive
		}
		s.Status = vault.TrainingCancelled
		s.FinishedAt = vault.TimePtr(now)
		if d, ok := snap.Index().Dweller(s.DwellerID); ok {
			leaveTraining(snap, s, d)
		}
		return s, nil
	}
	return nil, ErrTrainingNotActive
}

type TrainingPhase struct{}

func (TrainingPhase) Name() PhaseName { return PhaseTraining }

func (TrainingPhase) Apply(snap *vault.Snapshot, t *Tick) ([]string, error) {
	cfg := t.Config.Training
	issues := make([]string, 0)

	for _, s := range snap.Training {
		if s.Status != vault.TrainingActive {
			continue
		}
		idx := snap.Index()
		if !s.Stat.Valid() {
			return nil, fmt.Errorf("session %s: %w %q", s.ID, ErrInvalidStat, s.Stat)
		}
		d, ok := idx.Dweller(s.DwellerID)
		if !ok || d.Dead {
			issues = append(issues, fmt.Sprintf("session %s: dweller %s missing", s.ID, s.DwellerID))
			continue
		}
		room, ok := idx.Room(s.RoomID)
		if !ok {
			issues = append(issues, fmt.Sprintf("session %s: room %s missing", s.ID, s.RoomID))
			continue
		}

		total := TrainingDuration(s.StartValue, room.Tier, cfg)
		s.EstimatedCompletionAt = s.StartedAt.Add(total)
		elapsed := t.Now.Sub(s.StartedAt)
		if total <= 0 {
			s.Progress = 1
		} else {
			s.Progress = math.Min(1, math.Max(0, elapsed.Seconds()/total.Seconds()))
		}
		if s.Progress < 1 {
			continue
		}

		raised := d.Special.Increase(s.Stat)
		s.Status = vault.TrainingCompleted
		s.FinishedAt = vault.TimePtr(t.Now)
		leaveTraining(snap, s, d)
		xp := int64(math.Round(cfg.XPPerHour * total.Hours()))
		t.Emit(vault.EventTrainingCompleted, d.ID, map[string]any{
			"session_id": s.ID,
			"stat":       string(s.Stat),
			"value":      d.Special.Get(s.Stat),
			"raised":     raised,
			"xp":         xp,
		})
		GrantXP(t, d, xp, "training")
	}
	return issues, nil
}

// TrainingProgress is the read-model view of an active session at now.
func TrainingProgress(s *vault.TrainingSession, now time.Time) (percent float64, eta time.Duration) {
	if s.Status != vault.TrainingActive {
		return 100, 0
	}
	total := s.EstimatedCompletionAt.Sub(s.StartedAt)
	if total <= 0 {
		return 100, 0
	}
	p := math.Min(1, math.Max(0, now.Sub(s.StartedAt).Seconds()/total.Seconds()))
	eta = s.EstimatedCompletionAt.Sub(now)
	if eta < 0 {
		eta = 0
	}
	return p * 100, eta
}
