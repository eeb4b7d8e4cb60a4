package simulation

import (
	"time"

	"vaultsim/internal/domain/vault"
)

// scriptedRand replays fixed values, then repeats the fallback.
type scriptedRand struct {
	floats        []float64
	ints          []int
	floatFallback float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return r.floatFallback
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newDweller(id string, status vault.DwellerStatus) *vault.Dweller {
	return &vault.Dweller{
		ID:        id,
		VaultID:   "v1",
		FirstName: id,
		Gender:    vault.GenderFemale,
		AgeGroup:  vault.AgeAdult,
		Special:   vault.Special{Strength: 3, Perception: 3, Endurance: 3, Charisma: 3, Intelligence: 3, Agility: 3, Luck: 3},
		Health:    100,
		MaxHealth: 100,
		Happiness: 50,
		Level:     1,
		Status:    status,
	}
}

func newVault() vault.Vault {
	return vault.Vault{
		ID:        "v1",
		Resources: vault.Resources{Power: 90, Food: 90, Water: 90},
		Capacity:  vault.Resources{Power: 100, Food: 100, Water: 100, Caps: 1000},
		Flags:     map[vault.ResourceType]vault.ResourceFlag{},
	}
}

func minuteTick(now time.Time, rnd Rand, cfg Config) *Tick {
	return NewTick("v1", now, time.Minute, rnd, cfg)
}
