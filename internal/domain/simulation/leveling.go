package simulation

import (
	"math"

	"vaultsim/internal/domain/vault"
)

// XPRequired is the cumulative experience needed to reach level.
func XPRequired(level int) int64 {
	if level <= 1 {
		return int64(XPCurveBase)
	}
	return int64(math.Round(XPCurveBase * math.Pow(float64(level), XPCurveExponent)))
}

// GrantXP adds experience and applies every level-up it unlocks.
func GrantXP(t *Tick, d *vault.Dweller, xp int64, source string) int {
	if xp > 0 {
		d.Experience += xp
	}
	return applyLevelUps(t, d, source)
}

func applyLevelUps(t *Tick, d *vault.Dweller, source string) int {
	gained := 0
	for d.Level < MaxLevel && d.Experience >= XPRequired(d.Level+1) {
		d.Level++
		d.MaxHealth += LevelUpHealthBonus
		d.Health = d.MaxHealth
		gained++
		t.Emit(vault.EventLevelUp, d.ID, map[string]any{
			"level":      d.Level,
			"max_health": d.MaxHealth,
			"source":     source,
		})
	}
	return gained
}
