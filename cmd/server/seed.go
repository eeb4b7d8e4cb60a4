package main

import (
	"context"
	"errors"
	"time"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/vault"
)

const demoVaultID = "demo-vault"

// seedDemoVault creates a small starter vault unless one already exists.
func seedDemoVault(ctx context.Context, repos repoSet, now time.Time) error {
	_, err := repos.snapshots.LoadSnapshot(ctx, demoVaultID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	snap := demoSnapshot(now)
	return repos.tx.RunInTx(ctx, func(ctx context.Context) error {
		return repos.snapshots.SaveSnapshot(ctx, snap, 0)
	})
}

func demoSnapshot(now time.Time) *vault.Snapshot {
	room := func(id string, t vault.RoomType, floor, col int) *vault.Room {
		return &vault.Room{ID: id, VaultID: demoVaultID, Type: t, Tier: 1, Size: 1, Floor: floor, Column: col, SpeedupMultiplier: 1}
	}
	dweller := func(id, first string, g vault.Gender, roomID string, s vault.Special) *vault.Dweller {
		return &vault.Dweller{
			ID: id, VaultID: demoVaultID, FirstName: first, LastName: "Overseer",
			Gender: g, AgeGroup: vault.AgeAdult, Special: s,
			Health: vault.DefaultMaxHealth, MaxHealth: vault.DefaultMaxHealth, Happiness: 50,
			Level: 1, Status: vault.StatusWorking, RoomID: vault.StringPtr(roomID),
			BornAt: now, UpdatedAt: now,
		}
	}
	base := vault.Special{Strength: 3, Perception: 3, Endurance: 3, Charisma: 3, Intelligence: 3, Agility: 3, Luck: 3}
	strong, sharp, quick, charming := base, base, base, base
	strong.Strength = 6
	sharp.Perception = 6
	quick.Agility = 6
	charming.Charisma = 6

	return &vault.Snapshot{
		Vault: vault.Vault{
			ID:         demoVaultID,
			Name:       "Demo Vault",
			Resources:  vault.Resources{Power: 50, Food: 50, Water: 50, Caps: 500},
			Capacity:   vault.Resources{Power: 100, Food: 100, Water: 100, Caps: 999999},
			Happiness:  50,
			Fertility:  1,
			LastTickAt: now,
			NextTickAt: now,
			UpdatedAt:  now,
		},
		Rooms: []*vault.Room{
			room("demo-power", vault.RoomPowerGenerator, 1, 0),
			room("demo-diner", vault.RoomDiner, 1, 1),
			room("demo-water", vault.RoomWaterTreatment, 1, 2),
			room("demo-quarters", vault.RoomLivingQuarters, 2, 0),
			room("demo-weights", vault.RoomWeight, 2, 1),
		},
		Dwellers: []*vault.Dweller{
			dweller("demo-d1", "Ada", vault.GenderFemale, "demo-power", strong),
			dweller("demo-d2", "Bram", vault.GenderMale, "demo-water", sharp),
			dweller("demo-d3", "Cleo", vault.GenderFemale, "demo-diner", quick),
			dweller("demo-d4", "Dov", vault.GenderMale, "demo-quarters", charming),
		},
	}
}
