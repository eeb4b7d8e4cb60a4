package simulation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"vaultsim/internal/domain/vault"
)

type funcPhase struct {
	name PhaseName
	fn   func(*vault.Snapshot, *Tick) ([]string, error)
}

func (p funcPhase) Name() PhaseName { return p.name }

func (p funcPhase) Apply(snap *vault.Snapshot, t *Tick) ([]string, error) {
	return p.fn(snap, t)
}

func TestEngine_CriticalShortageAndIncidentScenario(t *testing.T) {
	cfg := DefaultConfig()
	d := newDweller("d1", vault.StatusIdle)
	v := newVault()
	v.Resources = vault.Resources{Power: 50, Food: 1, Water: 50}
	v.LastTickAt = baseTime.Add(-time.Minute)
	snap := &vault.Snapshot{
		Vault:    v,
		Dwellers: []*vault.Dweller{d},
		Incidents: []*vault.Incident{{
			ID: "inc-1", RoomID: "elsewhere", Type: vault.IncidentFire, Difficulty: 1,
			Status: vault.IncidentActive, RoomsAffected: []string{"elsewhere"}, StartedAt: baseTime.Add(-time.Minute),
		}},
	}

	res, err := NewEngine(cfg).Run(context.Background(), snap, baseTime, &scriptedRand{floatFallback: 0.99})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, p := range res.Phases {
		if p.Status != PhaseOK {
			t.Fatalf("phase %s: %s %v %s", p.Phase, p.Status, p.Issues, p.Error)
		}
	}
	if !snap.Vault.Flags[vault.ResourceFood].Critical {
		t.Fatalf("expected food critical, got %+v", snap.Vault.Flags)
	}
	if math.Abs(d.Happiness-40.5) > 1e-9 {
		t.Fatalf("expected happiness 40.5, got %v", d.Happiness)
	}
	if snap.Vault.Happiness != d.Happiness {
		t.Fatalf("expected vault aggregate %v, got %v", d.Happiness, snap.Vault.Happiness)
	}
	if !snap.Vault.LastTickAt.Equal(baseTime) || snap.Vault.TickCount != 1 {
		t.Fatalf("expected tick bookkeeping, got %s / %d", snap.Vault.LastTickAt, snap.Vault.TickCount)
	}
}

func TestEngine_FailedPhaseRollsBackAndOthersRun(t *testing.T) {
	cfg := DefaultConfig()
	d := newDweller("d1", vault.StatusIdle)
	snap := &vault.Snapshot{Vault: newVault(), Dwellers: []*vault.Dweller{d}}

	engine := &Engine{Config: cfg, Phases: []Phase{
		funcPhase{name: PhaseEconomy, fn: func(s *vault.Snapshot, t *Tick) ([]string, error) {
			s.Vault.Resources.Food = 0
			s.Dwellers[0].Happiness = 10
			t.Emit("should_vanish", "d1", nil)
			return nil, errors.New("malformed legacy row")
		}},
		funcPhase{name: PhaseLifecycle, fn: func(s *vault.Snapshot, t *Tick) ([]string, error) {
			s.Dwellers[0].Experience = 7
			return []string{"skipped one"}, nil
		}},
		funcPhase{name: PhaseTraining, fn: func(s *vault.Snapshot, t *Tick) ([]string, error) {
			s.Dwellers[0].Level = 99
			panic("boom")
		}},
		funcPhase{name: PhaseIncident, fn: func(s *vault.Snapshot, t *Tick) ([]string, error) {
			t.Emit("kept", "d1", nil)
			return nil, nil
		}},
	}}

	res, err := engine.Run(context.Background(), snap, baseTime, &scriptedRand{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []PhaseStatus{PhaseFailed, PhaseDegraded, PhaseFailed, PhaseOK}
	for i, p := range res.Phases {
		if p.Status != want[i] {
			t.Fatalf("phase %s: expected %s, got %s", p.Phase, want[i], p.Status)
		}
	}
	if snap.Vault.Resources.Food != 90 {
		t.Fatalf("failed phase writes must be discarded, food=%v", snap.Vault.Resources.Food)
	}
	got := snap.Dwellers[0]
	if got.Happiness != 50 || got.Level != 1 || got.Experience != 7 {
		t.Fatalf("unexpected dweller after containment: %+v", got)
	}
	if len(res.Events) != 1 || res.Events[0].Type != "kept" {
		t.Fatalf("expected only events from successful phases, got %+v", res.Events)
	}
	if failed := res.Failed(); len(failed) != 2 {
		t.Fatalf("expected two failed phases, got %v", failed)
	}
}

func TestEngine_StopsWhenContextDone(t *testing.T) {
	cfg := DefaultConfig()
	snap := &vault.Snapshot{Vault: newVault()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEngine(cfg).Run(ctx, snap, baseTime, &scriptedRand{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if snap.Vault.TickCount != 0 {
		t.Fatalf("aborted tick must not be counted")
	}
}

func TestEngine_ElapsedSince(t *testing.T) {
	e := NewEngine(DefaultConfig())
	if got := e.ElapsedSince(time.Time{}, baseTime); got != time.Minute {
		t.Fatalf("first tick should use the interval, got %s", got)
	}
	if got := e.ElapsedSince(baseTime.Add(-10*time.Hour), baseTime); got != time.Hour {
		t.Fatalf("long gaps should be capped, got %s", got)
	}
	if got := e.ElapsedSince(baseTime, baseTime); got != 0 {
		t.Fatalf("no time passed, got %s", got)
	}
}

func TestEngine_InvariantsHoldOverManyTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Incident.SpawnChancePerHour = 2
	cfg.Breeding.ConceptionChancePerHour = 2
	lq, pg, gym := "lq", "pg", "gym"
	dwellers := make([]*vault.Dweller, 0, 6)
	for i, room := range []*string{&lq, &lq, &pg, &pg, &gym, nil} {
		d := newDweller("d"+string(rune('0'+i)), vault.StatusWorking)
		if i%2 == 1 {
			d.Gender = vault.GenderMale
		}
		d.RoomID = room
		if room == nil {
			d.Status = vault.StatusIdle
		}
		dwellers = append(dwellers, d)
	}
	snap := &vault.Snapshot{
		Vault:    newVault(),
		Dwellers: dwellers,
		Rooms: []*vault.Room{
			{ID: lq, Type: vault.RoomLivingQuarters, Tier: 2, Size: 3, Floor: 1, Column: 0},
			{ID: pg, Type: vault.RoomPowerGenerator, Tier: 1, Size: 2, Floor: 1, Column: 3},
			{ID: gym, Type: vault.RoomWeight, Tier: 3, Size: 1, Floor: 2, Column: 0},
		},
	}
	if _, err := StartTraining(snap, "d4", gym, "s1", baseTime, cfg.Training); err != nil {
		t.Fatalf("start training: %v", err)
	}
	if _, err := Dispatch(snap, "d5", "e1", 3*time.Hour, Loadout{Stimpaks: 1}, baseTime, cfg.Exploration); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	engine := NewEngine(cfg)
	now := baseTime
	for i := 0; i < 48; i++ {
		now = now.Add(15 * time.Minute)
		if _, err := engine.Run(context.Background(), snap, now, SeedFor("v1", now)); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		for _, res := range vault.ConsumableResources {
			if got := snap.Vault.Resources.Get(res); got < 0 || got > snap.Vault.Capacity.Get(res) {
				t.Fatalf("tick %d: %s=%v outside capacity %v", i, res, got, snap.Vault.Capacity.Get(res))
			}
		}
		for _, d := range snap.Dwellers {
			if d.Health < 0 || d.Health > d.MaxHealth {
				t.Fatalf("tick %d: %s health %v outside [0,%v]", i, d.ID, d.Health, d.MaxHealth)
			}
			if d.Happiness < vault.MinHappiness || d.Happiness > vault.MaxHappiness {
				t.Fatalf("tick %d: %s happiness %v out of range", i, d.ID, d.Happiness)
			}
			if !d.Special.InBounds() {
				t.Fatalf("tick %d: %s special out of bounds %+v", i, d.ID, d.Special)
			}
			if d.Level < 1 || d.Level > MaxLevel {
				t.Fatalf("tick %d: %s level %d", i, d.ID, d.Level)
			}
		}
	}
}

func TestSeedFor_IsReproducible(t *testing.T) {
	a := SeedFor("vault-a", baseTime)
	b := SeedFor("vault-a", baseTime)
	c := SeedFor("vault-b", baseTime)
	same, differs := true, false
	for i := 0; i < 5; i++ {
		x, y, z := a.Float64(), b.Float64(), c.Float64()
		if x != y {
			same = false
		}
		if x != z {
			differs = true
		}
	}
	if !same || !differs {
		t.Fatalf("expected identical streams per (vault, time) and distinct across vaults")
	}
}
