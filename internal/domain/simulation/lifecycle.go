package simulation

import (
	"fmt"
	"math"

	"vaultsim/internal/domain/vault"
)

// Modifier is one itemized contribution to a dweller's happiness delta.
type Modifier struct {
	Source string  `json:"source"`
	Value  float64 `json:"value"`
}

type LifecyclePhase struct{}

func (LifecyclePhase) Name() PhaseName { return PhaseLifecycle }

func (LifecyclePhase) Apply(snap *vault.Snapshot, t *Tick) ([]string, error) {
	living := snap.LivingDwellers()
	if len(living) == 0 {
		return nil, nil
	}
	cfg := t.Config.Happiness
	idx := snap.Index()
	hc := newHappinessContext(snap, cfg)
	issues := make([]string, 0)

	total := 0.0
	for _, d := range living {
		if d.AgeGroup == vault.AgeChild && cfg.ChildhoodDuration > 0 && t.Now.Sub(d.BornAt) >= cfg.ChildhoodDuration {
			d.AgeGroup = vault.AgeAdult
			t.Emit(vault.EventGrewUp, d.ID, map[string]any{"name": d.FullName()})
		}

		delta := 0.0
		for _, m := range hc.modifiers(idx, d) {
			delta += m.Value
		}
		d.AddHappiness(delta)

		if d.Status == vault.StatusWorking && d.RoomID != nil {
			room, ok := idx.Room(*d.RoomID)
			if !ok {
				issues = append(issues, fmt.Sprintf("dweller %s: working in missing room %s", d.ID, *d.RoomID))
			} else {
				GrantXP(t, d, WorkingXP(room, cfg), "working")
			}
		}
		applyLevelUps(t, d, "lifecycle")

		d.Health = clampFloat(d.Health, 0, d.MaxHealth)
		total += d.Happiness
	}
	snap.Vault.Happiness = total / float64(len(living))
	return issues, nil
}

func WorkingXP(room *vault.Room, cfg HappinessConfig) int64 {
	xp := float64(cfg.WorkingXP)
	if room.Efficiency >= 1 {
		xp *= cfg.FullEfficiencyXPMult
	}
	return int64(math.Round(xp))
}

// HappinessModifiers itemizes the per-tick happiness delta for d.
func HappinessModifiers(snap *vault.Snapshot, d *vault.Dweller, cfg HappinessConfig) []Modifier {
	return newHappinessContext(snap, cfg).modifiers(snap.Index(), d)
}

type happinessContext struct {
	cfg           HappinessConfig
	flags         map[vault.ResourceType]vault.ResourceFlag
	openIncidents int
	radioBonus    float64
	highResources bool
}

func newHappinessContext(snap *vault.Snapshot, cfg HappinessConfig) happinessContext {
	hc := happinessContext{
		cfg:           cfg,
		flags:         snap.Vault.Flags,
		openIncidents: len(snap.OpenIncidents()),
		highResources: true,
	}
	speedup := 0.0
	for _, room := range snap.Rooms {
		if room.Type == vault.RoomRadioStudio && room.RadioMode == vault.RadioHappiness {
			speedup += room.SpeedupMultiplier
		}
	}
	hc.radioBonus = cfg.RadioModeRate * speedup
	for _, res := range vault.ConsumableResources {
		if resourceRatio(snap.Vault, res) <= cfg.HighResourcesRatio {
			hc.highResources = false
			break
		}
	}
	return hc
}

func (hc happinessContext) modifiers(idx *vault.Index, d *vault.Dweller) []Modifier {
	cfg := hc.cfg
	mods := []Modifier{{Source: "base_decay", Value: cfg.BaseDecay}}
	add := func(source string, v float64) {
		if v != 0 {
			mods = append(mods, Modifier{Source: source, Value: v})
		}
	}

	for _, res := range vault.ConsumableResources {
		f := hc.flags[res]
		switch {
		case f.Critical:
			add("critical_"+string(res), cfg.CriticalPenalty)
		case f.Shortage:
			add("shortage_"+string(res), cfg.ShortagePenalty)
		}
	}
	add("active_incidents", cfg.IncidentPenalty*float64(hc.openIncidents))

	switch d.Status {
	case vault.StatusIdle:
		add("idle", cfg.IdlePenalty)
	case vault.StatusInCombat:
		add("in_combat", cfg.CombatPenalty)
	case vault.StatusTraining:
		add("training", cfg.TrainingBonus)
	}

	ratio := d.HealthRatio()
	switch {
	case ratio < 0.3:
		add("low_health", cfg.LowHealthPenalty)
	case ratio < 0.5:
		add("hurt", cfg.HurtPenalty)
	}
	if d.Radiation > cfg.RadiationThreshold {
		add("radiation", cfg.RadiationPenalty)
	}

	if d.Status == vault.StatusWorking {
		add("working", cfg.WorkingBonus)
		if ratio > 0.8 {
			add("healthy_worker", cfg.HealthyWorkerBonus)
		}
		if d.RoomID != nil {
			if room, ok := idx.Room(*d.RoomID); ok {
				switch room.Type {
				case vault.RoomLivingQuarters:
					add("living_quarters", cfg.LivingQuartersBonus)
				case vault.RoomRadioStudio:
					add("radio_room", cfg.RadioRoomBonus)
				}
			}
		}
	}

	add("radio_broadcast", hc.radioBonus)

	if d.PartnerID != nil {
		if partner, ok := idx.Dweller(*d.PartnerID); ok && partner.Alive() {
			add("partner", cfg.PartnerBonus)
			if d.RoomID != nil && partner.InRoom(*d.RoomID) {
				add("partner_nearby", cfg.PartnerNearbyBonus)
			}
		}
	}

	if hc.highResources {
		add("high_resources", cfg.HighResourcesBonus)
	}
	if hc.openIncidents == 0 {
		add("no_incidents", cfg.NoIncidentsBonus)
	}
	return mods
}
