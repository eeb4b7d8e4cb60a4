package gormrepo

import (
	"testing"
	"time"

	"vaultsim/internal/domain/vault"
)

func fixtureSnapshot(vaultID string, now time.Time) *vault.Snapshot {
	return &vault.Snapshot{
		Vault: vault.Vault{
			ID:         vaultID,
			Name:       "Vault 111",
			Resources:  vault.Resources{Power: 50, Food: 10, Water: 60, Caps: 300},
			Capacity:   vault.Resources{Power: 100, Food: 100, Water: 100, Caps: 999999},
			Flags:      map[vault.ResourceType]vault.ResourceFlag{vault.ResourceFood: {Shortage: true}},
			Happiness:  55,
			Fertility:  1,
			NextTickAt: now,
			UpdatedAt:  now,
		},
		Dwellers: []*vault.Dweller{{
			ID: vaultID + "-d1", FirstName: "Nora", Gender: vault.GenderFemale, AgeGroup: vault.AgeAdult,
			Special: vault.Special{Strength: 7, Perception: 2, Endurance: 3, Charisma: 4, Intelligence: 5, Agility: 6, Luck: 1},
			Health:  90, MaxHealth: 105, Happiness: 60, Level: 2, Experience: 300, Status: vault.StatusWorking,
			RoomID: vault.StringPtr(vaultID + "-r1"), BornAt: now, UpdatedAt: now,
		}},
		Rooms: []*vault.Room{{
			ID: vaultID + "-r1", Type: vault.RoomDiner, Tier: 2, Size: 3, Floor: 1, Column: 4, Efficiency: 0.5, SpeedupMultiplier: 1,
		}},
		Training: []*vault.TrainingSession{
			{ID: vaultID + "-t-done", DwellerID: vaultID + "-d1", RoomID: vaultID + "-r1", Stat: vault.StatStrength, Status: vault.TrainingCompleted, StartedAt: now, EstimatedCompletionAt: now, FinishedAt: vault.TimePtr(now)},
			{ID: vaultID + "-t-active", DwellerID: vaultID + "-d1", RoomID: vaultID + "-r1", Stat: vault.StatStrength, StartValue: 7, Status: vault.TrainingActive, StartedAt: now, EstimatedCompletionAt: now.Add(time.Hour), ReturnRoomID: vault.StringPtr(vaultID + "-r1")},
		},
		Incidents: []*vault.Incident{{
			ID: vaultID + "-i1", RoomID: vaultID + "-r1", Type: vault.IncidentFire, Difficulty: 2, Status: vault.IncidentActive,
			RoomsAffected: []string{vaultID + "-r1"}, StartedAt: now, LastEngagedAt: vault.TimePtr(now),
		}},
	}
}

func TestMapping_RoundTripsEntities(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	snap := fixtureSnapshot("v1", now)

	v := vaultFromRow(vaultRow(snap.Vault))
	if v.Resources != snap.Vault.Resources || v.Capacity != snap.Vault.Capacity || !v.Flags[vault.ResourceFood].Shortage {
		t.Fatalf("vault mismatch: %+v", v)
	}
	if !v.LastTickAt.IsZero() {
		t.Fatalf("expected zero last tick to stay zero, got %s", v.LastTickAt)
	}

	d := dwellerFromRow(dwellerRow(snap.Dwellers[0]))
	if d.Special != snap.Dwellers[0].Special || d.Level != 2 || *d.RoomID != "v1-r1" {
		t.Fatalf("dweller mismatch: %+v", d)
	}

	r := roomFromRow(roomRow(snap.Rooms[0]))
	if *r != *snap.Rooms[0] {
		t.Fatalf("room mismatch: %+v", r)
	}

	inc := incidentFromRow(incidentRow(snap.Incidents[0]))
	if len(inc.RoomsAffected) != 1 || inc.Participants == nil || len(inc.Participants) != 0 {
		t.Fatalf("incident lists mismatch: %+v", inc)
	}
	if inc.LastEngagedAt == nil || !inc.LastEngagedAt.Equal(now) {
		t.Fatalf("incident engagement time lost: %+v", inc)
	}

	ts := trainingFromRow(trainingRow(snap.Training[1]))
	if ts.ReturnRoomID == nil || *ts.ReturnRoomID != "v1-r1" {
		t.Fatalf("training return room lost: %+v", ts)
	}

	e := &vault.Exploration{
		ID: "e1", DwellerID: "d1", StartedAt: now, Duration: 90 * time.Minute, Distance: 2.5,
		Events: []vault.ExplorationEvent{{Type: vault.ExplorationCaps, Caps: 12, OccurredAt: now}},
		Status: vault.ExplorationActive,
	}
	back := explorationFromRow(explorationRow(e))
	if back.Duration != e.Duration || len(back.Events) != 1 || back.Events[0].Caps != 12 {
		t.Fatalf("exploration mismatch: %+v", back)
	}
}
