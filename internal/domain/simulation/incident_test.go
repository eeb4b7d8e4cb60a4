package simulation

import (
	"math"
	"testing"
	"time"

	"vaultsim/internal/domain/vault"
)

func quietIncidentConfig() Config {
	cfg := DefaultConfig()
	cfg.Incident.SpawnChancePerHour = 0
	cfg.Incident.SpreadChance = 0
	return cfg
}

func TestIncidentPhase_DamageIsConservedUntilResolution(t *testing.T) {
	cfg := quietIncidentConfig()
	roomID := "pg-1"
	d := newDweller("d1", vault.StatusWorking)
	d.Special.Strength = 5
	d.RoomID = &roomID
	inc := &vault.Incident{
		ID:            "inc-1",
		RoomID:        roomID,
		Type:          vault.IncidentRadroach,
		Difficulty:    2,
		Status:        vault.IncidentActive,
		RoomsAffected: []string{roomID},
		StartedAt:     baseTime,
	}
	snap := &vault.Snapshot{
		Vault:     newVault(),
		Dwellers:  []*vault.Dweller{d},
		Rooms:     []*vault.Room{{ID: roomID, Type: vault.RoomPowerGenerator, Tier: 1, Size: 1, IncidentID: vault.StringPtr(inc.ID)}},
		Incidents: []*vault.Incident{inc},
	}
	threshold := ResolutionThreshold(inc, cfg.Incident)

	sum := 0.0
	now := baseTime
	for i := 0; i < 100 && inc.Open(); i++ {
		now = now.Add(time.Minute)
		before := inc.DamageDealt
		if _, err := (IncidentPhase{}).Apply(snap, minuteTick(now, &scriptedRand{floatFallback: 0.5}, cfg)); err != nil {
			t.Fatalf("apply: %v", err)
		}
		sum += inc.DamageDealt - before
		if d.Status != vault.StatusInCombat && inc.Open() {
			t.Fatalf("expected fighter in combat while incident open, got %s", d.Status)
		}
	}

	if inc.Status != vault.IncidentResolved {
		t.Fatalf("expected incident resolved, got %s", inc.Status)
	}
	if inc.DamageDealt != threshold {
		t.Fatalf("expected damage dealt to equal threshold %v, got %v", threshold, inc.DamageDealt)
	}
	if math.Abs(sum-threshold) > 1e-9 {
		t.Fatalf("expected per-tick damage to sum to %v, got %v", threshold, sum)
	}
	if snap.Rooms[0].IncidentID != nil {
		t.Fatalf("expected room incident flag cleared")
	}
	if d.Status != vault.StatusWorking {
		t.Fatalf("expected dweller back to working, got %s", d.Status)
	}
	if d.Health <= 0 || d.Health >= 100 {
		t.Fatalf("expected some damage taken without incapacitation, got %v", d.Health)
	}
	if d.Experience != 40 {
		t.Fatalf("expected 40 combat xp, got %d", d.Experience)
	}
	if inc.LootCaps <= 0 || len(inc.Loot) != 1 || snap.Vault.Resources.Caps != inc.LootCaps {
		t.Fatalf("expected loot credited, got caps=%v loot=%v vault=%v", inc.LootCaps, inc.Loot, snap.Vault.Resources.Caps)
	}
}

func TestIncidentPhase_HealthNeverBelowZero(t *testing.T) {
	cfg := quietIncidentConfig()
	roomID := "pg-1"
	d := newDweller("weak", vault.StatusWorking)
	d.Special.Strength = 1
	d.Health = 1
	d.RoomID = &roomID
	inc := &vault.Incident{ID: "inc-1", RoomID: roomID, Type: vault.IncidentDeathclaw, Difficulty: 10, Status: vault.IncidentActive, RoomsAffected: []string{roomID}, StartedAt: baseTime}
	snap := &vault.Snapshot{
		Vault:     newVault(),
		Dwellers:  []*vault.Dweller{d},
		Rooms:     []*vault.Room{{ID: roomID, Type: vault.RoomPowerGenerator, Tier: 1, Size: 1}},
		Incidents: []*vault.Incident{inc},
	}
	tick := NewTick("v1", baseTime.Add(time.Hour), time.Hour, &scriptedRand{}, cfg)
	if _, err := (IncidentPhase{}).Apply(snap, tick); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if d.Health != 0 || !d.Incapacitated() {
		t.Fatalf("expected health floored at 0, got %v", d.Health)
	}
	found := false
	for _, ev := range tick.Events() {
		if ev.Type == vault.EventDwellerIncapacitated {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected incapacitated event")
	}
}

func TestIncidentPhase_SpawnsWhenRollSucceeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Incident.SpawnChancePerHour = 1000
	roomID := "pg-1"
	d := newDweller("d1", vault.StatusWorking)
	d.RoomID = &roomID
	snap := &vault.Snapshot{
		Vault:    newVault(),
		Dwellers: []*vault.Dweller{d},
		Rooms:    []*vault.Room{{ID: roomID, Type: vault.RoomPowerGenerator, Tier: 1, Size: 1}},
	}
	tick := minuteTick(baseTime, NewRand(1, 2), cfg)
	if _, err := (IncidentPhase{}).Apply(snap, tick); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(snap.Incidents) != 1 {
		t.Fatalf("expected one spawned incident, got %d", len(snap.Incidents))
	}
	inc := snap.Incidents[0]
	if inc.Difficulty < 1 || inc.Difficulty > 10 {
		t.Fatalf("difficulty out of range: %d", inc.Difficulty)
	}
	if snap.Rooms[0].IncidentID == nil || *snap.Rooms[0].IncidentID != inc.ID {
		t.Fatalf("expected room flagged with incident")
	}

	// cooldown suppresses an immediate second spawn
	snap.Rooms = append(snap.Rooms, &vault.Room{ID: "pg-2", Type: vault.RoomPowerGenerator, Tier: 1, Size: 1})
	if _, err := (IncidentPhase{}).Apply(snap, minuteTick(baseTime.Add(time.Minute), NewRand(3, 4), cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(snap.Incidents) != 1 {
		t.Fatalf("expected cooldown to suppress spawn, got %d incidents", len(snap.Incidents))
	}
}

func TestIncidentPhase_SpreadsToAdjacentRoomUpToCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Incident.SpawnChancePerHour = 0
	cfg.Incident.SpreadChance = 1
	cfg.Incident.MaxSpread = 1
	inc := &vault.Incident{ID: "inc-1", RoomID: "a", Type: vault.IncidentFire, Difficulty: 3, Status: vault.IncidentActive, RoomsAffected: []string{"a"}, StartedAt: baseTime}
	snap := &vault.Snapshot{
		Vault: newVault(),
		Rooms: []*vault.Room{
			{ID: "a", Type: vault.RoomDiner, Tier: 1, Size: 1, Floor: 1, Column: 0, IncidentID: vault.StringPtr("inc-1")},
			{ID: "b", Type: vault.RoomDiner, Tier: 1, Size: 1, Floor: 1, Column: 1},
			{ID: "c", Type: vault.RoomDiner, Tier: 1, Size: 1, Floor: 1, Column: 2},
		},
		Incidents: []*vault.Incident{inc},
	}

	later := baseTime.Add(cfg.Incident.SpreadCooldown)
	for i := 0; i < 3; i++ {
		if _, err := (IncidentPhase{}).Apply(snap, minuteTick(later.Add(time.Duration(i)*time.Hour), &scriptedRand{}, cfg)); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if inc.SpreadCount != 1 || len(inc.RoomsAffected) != 2 || inc.RoomsAffected[1] != "b" {
		t.Fatalf("expected a single spread to the adjacent room, got %+v", inc)
	}
	if inc.Status != vault.IncidentSpreading {
		t.Fatalf("expected spreading status, got %s", inc.Status)
	}
	if snap.Rooms[2].IncidentID != nil {
		t.Fatalf("room c must not be affected")
	}
}

func TestIncidentPhase_SpawnsOnlyWhereSomeoneCanFight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Incident.SpawnChancePerHour = 1000
	away := newDweller("away", vault.StatusExploring)
	away.RoomID = vault.StringPtr("pg-1")
	snap := &vault.Snapshot{
		Vault:    newVault(),
		Dwellers: []*vault.Dweller{away},
		Rooms: []*vault.Room{
			{ID: "empty", Type: vault.RoomWeight, Tier: 1, Size: 1},
			{ID: "pg-1", Type: vault.RoomPowerGenerator, Tier: 1, Size: 1},
			{ID: "diner", Type: vault.RoomDiner, Tier: 1, Size: 1},
		},
	}
	if _, err := (IncidentPhase{}).Apply(snap, minuteTick(baseTime, &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(snap.Incidents) != 0 {
		t.Fatalf("expected no incident without anyone able to respond, got %+v", snap.Incidents[0])
	}

	cook := newDweller("cook", vault.StatusWorking)
	cook.RoomID = vault.StringPtr("diner")
	snap.AddDweller(cook)
	if _, err := (IncidentPhase{}).Apply(snap, minuteTick(baseTime.Add(time.Minute), &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(snap.Incidents) != 1 || snap.Incidents[0].RoomID != "diner" {
		t.Fatalf("expected an incident in the staffed diner, got %+v", snap.Incidents)
	}
}

func TestIncidentPhase_UnansweredIncidentBurnsOut(t *testing.T) {
	cfg := quietIncidentConfig()
	stale := &vault.Incident{ID: "inc-1", RoomID: "wr-1", Type: vault.IncidentRadroach, Difficulty: 3, Status: vault.IncidentActive, RoomsAffected: []string{"wr-1"}, StartedAt: baseTime}
	engaged := &vault.Incident{ID: "inc-2", RoomID: "wr-2", Type: vault.IncidentFire, Difficulty: 3, Status: vault.IncidentActive, RoomsAffected: []string{"wr-2"}, StartedAt: baseTime, LastEngagedAt: vault.TimePtr(baseTime.Add(3 * time.Hour))}
	snap := &vault.Snapshot{
		Vault: newVault(),
		Rooms: []*vault.Room{
			{ID: "wr-1", Type: vault.RoomWeight, Tier: 1, Size: 1, IncidentID: vault.StringPtr("inc-1")},
			{ID: "wr-2", Type: vault.RoomWeight, Tier: 1, Size: 1, IncidentID: vault.StringPtr("inc-2")},
		},
		Incidents: []*vault.Incident{stale, engaged},
	}

	early := minuteTick(baseTime.Add(cfg.Incident.BurnOut-time.Minute), &scriptedRand{}, cfg)
	if _, err := (IncidentPhase{}).Apply(snap, early); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !stale.Open() {
		t.Fatalf("expected incident still open before the burn-out window, got %s", stale.Status)
	}

	tick := minuteTick(baseTime.Add(cfg.Incident.BurnOut), &scriptedRand{}, cfg)
	if _, err := (IncidentPhase{}).Apply(snap, tick); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stale.Status != vault.IncidentBurnedOut || stale.Open() || stale.ResolvedAt == nil {
		t.Fatalf("expected unanswered incident burned out, got %+v", stale)
	}
	if snap.Rooms[0].IncidentID != nil {
		t.Fatalf("expected room flag cleared")
	}
	if stale.LootCaps != 0 || len(stale.Loot) != 0 || snap.Vault.Resources.Caps != 0 {
		t.Fatalf("expected no loot from a burned-out incident, got caps=%v loot=%v", stale.LootCaps, stale.Loot)
	}
	if !engaged.Open() {
		t.Fatalf("expected recently engaged incident to stay open")
	}
	if len(snap.OpenIncidents()) != 1 {
		t.Fatalf("expected burned-out incident to free its slot, got %d open", len(snap.OpenIncidents()))
	}
	burned := 0
	for _, ev := range tick.Events() {
		if ev.Type == vault.EventIncidentBurnedOut && ev.SubjectID == stale.ID {
			burned++
		}
	}
	if burned != 1 {
		t.Fatalf("expected one burned-out event, got %d", burned)
	}
}

func TestIncidentPhase_SpawnSuppressedAtMaxActive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Incident.SpawnChancePerHour = 1000
	cfg.Incident.SpreadChance = 0
	cfg.Incident.MaxActive = 2
	rooms := []string{"a", "b", "c"}
	snap := &vault.Snapshot{Vault: newVault()}
	for i, id := range rooms {
		d := newDweller("d-"+id, vault.StatusWorking)
		d.RoomID = vault.StringPtr(id)
		snap.Dwellers = append(snap.Dwellers, d)
		snap.Rooms = append(snap.Rooms, &vault.Room{ID: id, Type: vault.RoomPowerGenerator, Tier: 1, Size: 1, Column: i * 4})
	}
	for _, id := range rooms[:2] {
		inc := &vault.Incident{ID: "inc-" + id, RoomID: id, Type: vault.IncidentDeathclaw, Difficulty: 10, Status: vault.IncidentActive, RoomsAffected: []string{id}, StartedAt: baseTime}
		for _, r := range snap.Rooms {
			if r.ID == id {
				r.IncidentID = vault.StringPtr(inc.ID)
			}
		}
		snap.Incidents = append(snap.Incidents, inc)
	}

	if _, err := (IncidentPhase{}).Apply(snap, minuteTick(baseTime.Add(time.Minute), &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(snap.Incidents) != 2 {
		t.Fatalf("expected spawning suppressed at the active limit, got %d incidents", len(snap.Incidents))
	}

	cfg.Incident.MaxActive = 3
	if _, err := (IncidentPhase{}).Apply(snap, minuteTick(baseTime.Add(2*time.Minute), &scriptedRand{}, cfg)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(snap.Incidents) != 3 || snap.Incidents[2].RoomID != "c" {
		t.Fatalf("expected a spawn in room c once below the limit, got %d incidents", len(snap.Incidents))
	}
}
