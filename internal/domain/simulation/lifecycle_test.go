package simulation

import (
	"math"
	"strings"
	"testing"
	"time"

	"vaultsim/internal/domain/vault"
)

func TestLifecycle_WorkingHealthyDwellerGainsOnePointEight(t *testing.T) {
	cfg := DefaultConfig()
	roomID := "diner-1"
	d := newDweller("d1", vault.StatusWorking)
	d.Health = 90
	d.RoomID = &roomID
	snap := &vault.Snapshot{
		Vault:    newVault(),
		Dwellers: []*vault.Dweller{d},
		Rooms:    []*vault.Room{{ID: roomID, Type: vault.RoomDiner, Tier: 1, Size: 1, Efficiency: 0.5}},
	}

	mods := HappinessModifiers(snap, d, cfg.Happiness)
	sum := 0.0
	for _, m := range mods {
		sum += m.Value
	}
	if math.Abs(sum-1.8) > 1e-9 {
		t.Fatalf("expected +1.8 net, got %v (%+v)", sum, mods)
	}

	if _, err := (LifecyclePhase{}).Apply(snap, minuteTick(baseTime, &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if math.Abs(d.Happiness-51.8) > 1e-9 {
		t.Fatalf("expected happiness 51.8, got %v", d.Happiness)
	}
	if d.Experience != 2 {
		t.Fatalf("expected 2 xp for working below full efficiency, got %d", d.Experience)
	}
}

func TestLifecycle_FullEfficiencyBoostsWorkingXP(t *testing.T) {
	cfg := DefaultConfig()
	roomID := "pg-1"
	d := newDweller("d1", vault.StatusWorking)
	d.RoomID = &roomID
	snap := &vault.Snapshot{
		Vault:    newVault(),
		Dwellers: []*vault.Dweller{d},
		Rooms:    []*vault.Room{{ID: roomID, Type: vault.RoomPowerGenerator, Tier: 1, Size: 1, Efficiency: 1}},
	}
	if _, err := (LifecyclePhase{}).Apply(snap, minuteTick(baseTime, &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if d.Experience != 3 {
		t.Fatalf("expected 3 xp at full efficiency, got %d", d.Experience)
	}
}

func TestLifecycle_HappinessClampedToBounds(t *testing.T) {
	cfg := DefaultConfig()
	low := newDweller("low", vault.StatusIdle)
	low.Happiness = 11
	low.Health = 10
	low.Radiation = 80
	high := newDweller("high", vault.StatusTraining)
	high.Happiness = 99.9

	v := newVault()
	v.Flags = map[vault.ResourceType]vault.ResourceFlag{
		vault.ResourcePower: {Shortage: true, Critical: true},
		vault.ResourceFood:  {Shortage: true, Critical: true},
	}
	snap := &vault.Snapshot{Vault: v, Dwellers: []*vault.Dweller{low, high}}
	snap.Vault.Resources = vault.Resources{Power: 99, Food: 99, Water: 99}
	if _, err := (LifecyclePhase{}).Apply(snap, minuteTick(baseTime, &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if low.Happiness != vault.MinHappiness {
		t.Fatalf("expected happiness floor %v, got %v", vault.MinHappiness, low.Happiness)
	}

	high.Happiness = 99.9
	snap.Vault.Flags = map[vault.ResourceType]vault.ResourceFlag{}
	if _, err := (LifecyclePhase{}).Apply(snap, minuteTick(baseTime, &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if high.Happiness != vault.MaxHappiness {
		t.Fatalf("expected happiness cap %v, got %v", vault.MaxHappiness, high.Happiness)
	}
}

func TestLifecycle_PartnerInSameRoomAndRadioMode(t *testing.T) {
	cfg := DefaultConfig()
	lq := "lq-1"
	a := newDweller("a", vault.StatusWorking)
	b := newDweller("b", vault.StatusWorking)
	a.RoomID, b.RoomID = &lq, &lq
	a.PartnerID, b.PartnerID = vault.StringPtr("b"), vault.StringPtr("a")
	snap := &vault.Snapshot{
		Vault:    newVault(),
		Dwellers: []*vault.Dweller{a, b},
		Rooms: []*vault.Room{
			{ID: lq, Type: vault.RoomLivingQuarters, Tier: 1, Size: 1},
			{ID: "radio", Type: vault.RoomRadioStudio, Tier: 1, Size: 1, RadioMode: vault.RadioHappiness, SpeedupMultiplier: 2},
		},
	}

	got := map[string]float64{}
	for _, m := range HappinessModifiers(snap, a, cfg.Happiness) {
		got[m.Source] = m.Value
	}
	if got["living_quarters"] != 1.5 {
		t.Fatalf("expected living quarters bonus, got %+v", got)
	}
	if got["partner"] != 0.17 || got["partner_nearby"] != 1.0 {
		t.Fatalf("expected partner bonuses, got %+v", got)
	}
	if got["radio_broadcast"] != 1.0 {
		t.Fatalf("expected radio bonus 0.5*2, got %+v", got)
	}
}

func TestLifecycle_ZeroPopulationKeepsAggregate(t *testing.T) {
	cfg := DefaultConfig()
	v := newVault()
	v.Happiness = 64
	snap := &vault.Snapshot{Vault: v}
	issues, err := (LifecyclePhase{}).Apply(snap, minuteTick(baseTime, &scriptedRand{}, cfg))
	if err != nil || len(issues) != 0 {
		t.Fatalf("expected clean no-op, got issues=%v err=%v", issues, err)
	}
	if snap.Vault.Happiness != 64 {
		t.Fatalf("expected aggregate kept, got %v", snap.Vault.Happiness)
	}
}

func TestLifecycle_ChildGrowsUp(t *testing.T) {
	cfg := DefaultConfig()
	child := newDweller("kid", vault.StatusIdle)
	child.AgeGroup = vault.AgeChild
	child.BornAt = baseTime.Add(-cfg.Happiness.ChildhoodDuration - time.Minute)
	snap := &vault.Snapshot{Vault: newVault(), Dwellers: []*vault.Dweller{child}}
	tick := minuteTick(baseTime, &scriptedRand{}, cfg)
	if _, err := (LifecyclePhase{}).Apply(snap, tick); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if child.AgeGroup != vault.AgeAdult {
		t.Fatalf("expected child to grow up")
	}
	if len(tick.Events()) != 1 || tick.Events()[0].Type != vault.EventGrewUp {
		t.Fatalf("expected grew-up event, got %+v", tick.Events())
	}
}

func TestXPRequired_IsMonotonic(t *testing.T) {
	for level := 1; level < MaxLevel; level++ {
		if XPRequired(level+1) <= XPRequired(level) {
			t.Fatalf("requirement(%d)=%d not above requirement(%d)=%d", level+1, XPRequired(level+1), level, XPRequired(level))
		}
	}
}

func TestGrantXP_ReachesLevelAtExactRequirement(t *testing.T) {
	cfg := DefaultConfig()
	for level := 2; level <= MaxLevel; level++ {
		d := newDweller("d", vault.StatusIdle)
		GrantXP(minuteTick(baseTime, &scriptedRand{}, cfg), d, XPRequired(level), "test")
		if d.Level < level {
			t.Fatalf("dweller with %d xp is level %d, want at least %d", d.Experience, d.Level, level)
		}
	}
}

func TestGrantXP_AppliesMultipleLevelUps(t *testing.T) {
	cfg := DefaultConfig()
	d := newDweller("d", vault.StatusIdle)
	d.Health = 40
	tick := minuteTick(baseTime, &scriptedRand{}, cfg)
	gained := GrantXP(tick, d, XPRequired(5), "test")
	if gained != 4 || d.Level != 5 {
		t.Fatalf("expected 4 level-ups to level 5, got gained=%d level=%d", gained, d.Level)
	}
	if d.MaxHealth != 120 || d.Health != 120 {
		t.Fatalf("expected max health 120 and full heal, got %v/%v", d.Health, d.MaxHealth)
	}
	if len(tick.Events()) != 4 {
		t.Fatalf("expected one level_up event per level, got %d", len(tick.Events()))
	}

	d.Experience = XPRequired(MaxLevel) * 10
	GrantXP(tick, d, 0, "test")
	if d.Level != MaxLevel {
		t.Fatalf("expected level capped at %d, got %d", MaxLevel, d.Level)
	}
}

func TestLifecycle_ShortagePenaltyPerDistinctResource(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name  string
		flags map[vault.ResourceType]vault.ResourceFlag
		want  float64
	}{
		{
			name: "two shortages",
			flags: map[vault.ResourceType]vault.ResourceFlag{
				vault.ResourcePower: {Shortage: true},
				vault.ResourceFood:  {Shortage: true},
			},
			want: -4.0,
		},
		{
			name: "shortage and critical",
			flags: map[vault.ResourceType]vault.ResourceFlag{
				vault.ResourcePower: {Shortage: true},
				vault.ResourceWater: {Shortage: true, Critical: true},
			},
			want: -7.0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDweller("d1", vault.StatusIdle)
			v := newVault()
			v.Flags = tc.flags
			snap := &vault.Snapshot{Vault: v, Dwellers: []*vault.Dweller{d}}
			got := 0.0
			for _, m := range HappinessModifiers(snap, d, cfg.Happiness) {
				if strings.HasPrefix(m.Source, "shortage_") || strings.HasPrefix(m.Source, "critical_") {
					got += m.Value
				}
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("expected resource penalties %v, got %v", tc.want, got)
			}
		})
	}
}

func TestLifecycle_StoredExperienceLevelsAnyDweller(t *testing.T) {
	cfg := DefaultConfig()
	idle := newDweller("idle", vault.StatusIdle)
	idle.Experience = XPRequired(3)
	trainee := newDweller("trainee", vault.StatusTraining)
	trainee.Experience = XPRequired(2)
	snap := &vault.Snapshot{Vault: newVault(), Dwellers: []*vault.Dweller{idle, trainee}}

	tick := minuteTick(baseTime, &scriptedRand{}, cfg)
	if _, err := (LifecyclePhase{}).Apply(snap, tick); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if idle.Level != 3 || idle.MaxHealth != 110 || idle.Health != 110 {
		t.Fatalf("expected idle dweller at level 3 with 110 health, got level=%d health=%v/%v", idle.Level, idle.Health, idle.MaxHealth)
	}
	if trainee.Level != 2 {
		t.Fatalf("expected trainee at level 2, got %d", trainee.Level)
	}
	levelUps := 0
	for _, ev := range tick.Events() {
		if ev.Type == vault.EventLevelUp {
			levelUps++
		}
	}
	if levelUps != 3 {
		t.Fatalf("expected 3 level-up events, got %d", levelUps)
	}
}
