package simulation

import (
	"fmt"
	"math"

	"vaultsim/internal/domain/vault"
)

type EconomyPhase struct{}

func (EconomyPhase) Name() PhaseName { return PhaseEconomy }

func (EconomyPhase) Apply(snap *vault.Snapshot, t *Tick) ([]string, error) {
	cfg := t.Config.Economy
	idx := snap.Index()
	v := &snap.Vault
	hours := t.Hours()
	issues := make([]string, 0)

	v.Capacity = Capacity(snap.Rooms, cfg)
	outage := v.Resources.Power <= 0

	produced := make(map[vault.ResourceType]float64, len(vault.ConsumableResources))
	for _, room := range snap.Rooms {
		if !room.Type.Valid() {
			issues = append(issues, fmt.Sprintf("room %s: unknown type %q", room.ID, room.Type))
			continue
		}
		room.Efficiency = RoomEfficiency(room, idx.Occupants(room.ID), cfg)
		res, ok := room.Type.Produces()
		if !ok || room.IncidentID != nil {
			continue
		}
		out := RoomOutputPerHour(room, cfg) * hours
		if outage && res != vault.ResourcePower {
			out *= cfg.OutageFactor
		}
		produced[res] += out
	}

	residents := 0
	for _, d := range snap.Dwellers {
		if d.Alive() && d.Status != vault.StatusExploring {
			residents++
		}
	}
	upkeep := map[vault.ResourceType]float64{
		vault.ResourceFood:  float64(residents) * cfg.FoodPerDwellerHour * hours,
		vault.ResourceWater: float64(residents) * cfg.WaterPerDwellerHour * hours,
		vault.ResourcePower: float64(len(snap.Rooms)) * cfg.PowerPerRoomHour * hours,
	}

	for _, res := range vault.ConsumableResources {
		v.AddResource(res, produced[res]-upkeep[res])
	}
	v.AddResource(vault.ResourceCaps, 0)
	v.Flags = ResourceFlags(*v, cfg)
	return issues, nil
}

// Capacity derives storage limits from the built rooms.
func Capacity(rooms []*vault.Room, cfg EconomyConfig) vault.Resources {
	c := vault.Resources{
		Power: cfg.BaseCapacity,
		Food:  cfg.BaseCapacity,
		Water: cfg.BaseCapacity,
		Caps:  cfg.CapsCapacity,
	}
	for _, room := range rooms {
		scale := float64(clampInt(room.Size, 1, 3) * clampInt(room.Tier, 1, 3))
		if res, ok := room.Type.Produces(); ok {
			c.Set(res, c.Get(res)+cfg.ProductionCapacity*scale)
			continue
		}
		if room.Type == vault.RoomStorage {
			for _, res := range vault.ConsumableResources {
				c.Set(res, c.Get(res)+cfg.StorageCapacity*scale)
			}
		}
	}
	return c
}

// RoomEfficiency is the staffed fraction of the room weighted by how well each
// working occupant's stat matches the room tier.
func RoomEfficiency(room *vault.Room, occupants []*vault.Dweller, cfg EconomyConfig) float64 {
	capacity := room.Capacity()
	if capacity <= 0 {
		return 0
	}
	need := cfg.EfficiencyStatDivisor + float64(clampInt(room.Tier, 1, 3))
	stat := room.Ability()
	sum := 0.0
	for _, d := range occupants {
		if d.Status != vault.StatusWorking || d.Incapacitated() {
			continue
		}
		sum += math.Min(1, float64(d.Special.Get(stat))/need)
	}
	return math.Min(1, sum/float64(capacity))
}

func RoomOutputPerHour(room *vault.Room, cfg EconomyConfig) float64 {
	res, ok := room.Type.Produces()
	if !ok {
		return 0
	}
	var base float64
	switch res {
	case vault.ResourcePower:
		base = cfg.PowerPerHour
	case vault.ResourceFood:
		base = cfg.FoodPerHour
	case vault.ResourceWater:
		base = cfg.WaterPerHour
	}
	tier := clampInt(room.Tier, 1, 3)
	return base * float64(clampInt(room.Size, 1, 3)) * cfg.TierMultipliers[tier-1] * room.Efficiency
}

func ResourceFlags(v vault.Vault, cfg EconomyConfig) map[vault.ResourceType]vault.ResourceFlag {
	flags := make(map[vault.ResourceType]vault.ResourceFlag, len(vault.ConsumableResources))
	for _, res := range vault.ConsumableResources {
		ratio := resourceRatio(v, res)
		flags[res] = vault.ResourceFlag{
			Shortage: ratio < cfg.ShortageRatio,
			Critical: ratio < cfg.CriticalRatio,
		}
	}
	return flags
}

func resourceRatio(v vault.Vault, res vault.ResourceType) float64 {
	capacity := v.Capacity.Get(res)
	if capacity <= 0 {
		return 0
	}
	return v.Resources.Get(res) / capacity
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
