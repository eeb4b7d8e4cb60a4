package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"vaultsim/internal/domain/vault"
)

var (
	ErrExplorationNotActive = errors.New("exploration is not active")
	ErrInvalidDuration      = errors.New("exploration duration out of range")
	ErrInvalidLoadout       = errors.New("invalid consumable loadout")
)

type DurationRangeError struct {
	Requested time.Duration
	Min       time.Duration
	Max       time.Duration
}

func (e *DurationRangeError) Error() string {
	return fmt.Sprintf("%s: %s not in [%s, %s]", ErrInvalidDuration, e.Requested, e.Min, e.Max)
}

func (e *DurationRangeError) Unwrap() error {
	return ErrInvalidDuration
}

type Loadout struct {
	Stimpaks int `json:"stimpaks"`
	Radaways int `json:"radaways"`
}

// Dispatch sends a dweller into the wasteland, leaving its room.
func Dispatch(snap *vault.Snapshot, dwellerID, explorationID string, duration time.Duration, loadout Loadout, now time.Time, cfg ExplorationConfig) (*vault.Exploration, error) {
	idx := snap.Index()
	d, ok := idx.Dweller(dwellerID)
	if !ok || d.Dead {
		return nil, fmt.Errorf("%w: %s", ErrDwellerNotFound, dwellerID)
	}
	if duration < cfg.MinDuration || duration > cfg.MaxDuration {
		return nil, &DurationRangeError{Requested: duration, Min: cfg.MinDuration, Max: cfg.MaxDuration}
	}
	if loadout.Stimpaks < 0 || loadout.Radaways < 0 || loadout.Stimpaks > cfg.MaxConsumables || loadout.Radaways > cfg.MaxConsumables {
		return nil, fmt.Errorf("%w: at most %d of each", ErrInvalidLoadout, cfg.MaxConsumables)
	}
	if _, active := idx.ActiveExploration(d.ID); active || d.Status == vault.StatusExploring {
		return nil, fmt.Errorf("%w: already exploring", ErrDwellerUnavailable)
	}
	if _, training := idx.ActiveTraining(d.ID); training {
		return nil, fmt.Errorf("%w: in training", ErrDwellerUnavailable)
	}
	if d.Status == vault.StatusInCombat || d.Incapacitated() || d.AgeGroup == vault.AgeChild {
		return nil, fmt.Errorf("%w: status %s", ErrDwellerUnavailable, d.Status)
	}

	e := &vault.Exploration{
		ID:        explorationID,
		VaultID:   snap.Vault.ID,
		DwellerID: d.ID,
		StartedAt: now,
		Duration:  duration,
		Events:    []vault.ExplorationEvent{},
		Stimpaks:  loadout.Stimpaks,
		Radaways:  loadout.Radaways,
		Status:    vault.ExplorationActive,
	}
	d.Status = vault.StatusExploring
	d.RoomID = nil
	snap.Explorations = append(snap.Explorations, e)
	snap.Reindex()
	return e, nil
}

// Recall ends an active expedition immediately and pays out its rewards.
func Recall(snap *vault.Snapshot, t *Tick, explorationID string) (*vault.Exploration, error) {
	for _, e := range snap.Explorations {
		if e.ID != explorationID {
			continue
		}
		if e.Status != vault.ExplorationActive {
			return nil, ErrExplorationNotActive
		}
		d, ok := snap.Index().Dweller(e.DwellerID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDwellerNotFound, e.DwellerID)
		}
		finishExploration(snap, t, e, d, vault.ExplorationRecalled)
		return e, nil
	}
	return nil, ErrExplorationNotActive
}

// ExplorationXP is the completion reward before it is granted.
func ExplorationXP(e *vault.Exploration, d *vault.Dweller, cfg ExplorationConfig) int64 {
	xp := e.Distance*10 + float64(e.EnemiesDefeated)*50 + float64(e.NotableEvents())*20
	if d.HealthRatio() > cfg.SurvivalRatio {
		xp *= 1 + cfg.SurvivalBonus
	}
	xp *= 1 + float64(d.Special.Luck)*cfg.LuckBonusPerPoint
	return int64(math.Round(xp))
}

// ExplorationProgress is the elapsed share of the planned duration, in percent.
func ExplorationProgress(e *vault.Exploration, now time.Time) float64 {
	if e.Status != vault.ExplorationActive || e.Duration <= 0 {
		return 100
	}
	return math.Min(1, math.Max(0, now.Sub(e.StartedAt).Seconds()/e.Duration.Seconds())) * 100
}

type ExplorationPhase struct{}

func (ExplorationPhase) Name() PhaseName { return PhaseExploration }

func (ExplorationPhase) Apply(snap *vault.Snapshot, t *Tick) ([]string, error) {
	cfg := t.Config.Exploration
	idx := snap.Index()
	issues := make([]string, 0)
	hours := t.Hours()

	for _, e := range snap.Explorations {
		if e.Status != vault.ExplorationActive {
			continue
		}
		d, ok := idx.Dweller(e.DwellerID)
		if !ok || d.Dead {
			issues = append(issues, fmt.Sprintf("exploration %s: dweller %s missing", e.ID, e.DwellerID))
			continue
		}

		e.Distance += (cfg.BaseDistancePerHour + cfg.EnduranceDistanceBonus*float64(d.Special.Endurance)) * hours
		d.Radiation += cfg.RadiationPerHour * hours

		if chance(t.Rand, cfg.EventChancePerHour*hours) {
			rollExplorationEvent(t, e, d)
		}
		useConsumables(t, e, d)

		switch {
		case d.Incapacitated():
			t.Emit(vault.EventDwellerIncapacitated, d.ID, map[string]any{"exploration_id": e.ID})
			finishExploration(snap, t, e, d, vault.ExplorationCompleted)
		case t.Now.Sub(e.StartedAt) >= e.Duration:
			finishExploration(snap, t, e, d, vault.ExplorationCompleted)
		}
	}
	return issues, nil
}

func rollExplorationEvent(t *Tick, e *vault.Exploration, d *vault.Dweller) {
	cfg := t.Config.Exploration
	ev := vault.ExplorationEvent{
		OccurredAt:     t.Now,
		ElapsedSeconds: int64(t.Now.Sub(e.StartedAt).Seconds()),
	}

	if chance(t.Rand, cfg.StatFindBase+cfg.StatFindPerLuck*float64(d.Special.Luck)) {
		if stat, ok := pickRaisableStat(t.Rand, d); ok {
			d.Special.Increase(stat)
			ev.Type = vault.ExplorationStatFind
			ev.Stat = stat
			ev.Description = fmt.Sprintf("found a bobblehead, %s raised to %d", stat, d.Special.Get(stat))
			e.Events = append(e.Events, ev)
			return
		}
	}

	switch pickWeighted(t.Rand, []float64{cfg.CombatWeight, cfg.ItemWeight, cfg.CapsWeight}) {
	case 0:
		dmg := uniform(t.Rand, cfg.CombatDamageMin, cfg.CombatDamageMax) * (1 - 0.03*float64(d.Special.Endurance))
		ev.Type = vault.ExplorationCombat
		ev.HealthDelta = -d.Damage(dmg)
		e.EnemiesDefeated++
		ev.Description = "fought off a wasteland creature"
	case 1:
		item := lootItem(t.Rand, rollRarity(t.Rand, 0.1+0.01*float64(d.Special.Luck), 0.01))
		ev.Type = vault.ExplorationItem
		ev.Item = &item
		e.Loot = append(e.Loot, item)
		ev.Description = "found " + item.Name
	default:
		caps := math.Round(float64(intBetween(t.Rand, 5, 25)) * (1 + 0.1*float64(d.Special.Luck)))
		ev.Type = vault.ExplorationCaps
		ev.Caps = caps
		e.Caps += caps
		ev.Description = fmt.Sprintf("found %.0f caps", caps)
	}
	e.Events = append(e.Events, ev)
}

func pickRaisableStat(r Rand, d *vault.Dweller) (vault.Stat, bool) {
	open := make([]vault.Stat, 0, len(vault.AllStats))
	for _, s := range vault.AllStats {
		if d.Special.Get(s) < vault.MaxStat {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		return "", false
	}
	return open[r.IntN(len(open))], true
}

func useConsumables(t *Tick, e *vault.Exploration, d *vault.Dweller) {
	cfg := t.Config.Exploration
	elapsed := int64(t.Now.Sub(e.StartedAt).Seconds())
	if e.Stimpaks > 0 && !d.Incapacitated() && d.HealthRatio() < cfg.StimpakThreshold {
		before := d.Health
		d.Heal(d.MaxHealth * cfg.StimpakHeal)
		e.Stimpaks--
		e.Events = append(e.Events, vault.ExplorationEvent{
			Type: vault.ExplorationStimpak, Description: "used a stimpak",
			OccurredAt: t.Now, ElapsedSeconds: elapsed, HealthDelta: d.Health - before,
		})
	}
	if e.Radaways > 0 && d.Radiation > cfg.RadawayThreshold {
		before := d.Radiation
		d.Radiation = math.Max(0, d.Radiation-cfg.RadawayAmount)
		e.Radaways--
		e.Events = append(e.Events, vault.ExplorationEvent{
			Type: vault.ExplorationRadaway, Description: "used a radaway",
			OccurredAt: t.Now, ElapsedSeconds: elapsed, RadiationDelta: d.Radiation - before,
		})
	}
}

func finishExploration(snap *vault.Snapshot, t *Tick, e *vault.Exploration, d *vault.Dweller, status vault.ExplorationStatus) {
	cfg := t.Config.Exploration
	xp := ExplorationXP(e, d, cfg)
	e.XPAwarded = xp
	e.Status = status
	e.EndedAt = vault.TimePtr(t.Now)
	snap.Vault.AddResource(vault.ResourceCaps, e.Caps)
	if d.Status == vault.StatusExploring {
		d.Status = vault.StatusIdle
	}

	eventType := vault.EventExplorationCompleted
	if status == vault.ExplorationRecalled {
		eventType = vault.EventExplorationRecalled
	}
	t.Emit(eventType, e.ID, map[string]any{
		"dweller_id":       d.ID,
		"distance":         e.Distance,
		"enemies_defeated": e.EnemiesDefeated,
		"events":           e.NotableEvents(),
		"caps":             e.Caps,
		"loot":             len(e.Loot),
		"xp":               xp,
	})
	GrantXP(t, d, xp, "exploration")
	snap.Reindex()
}
