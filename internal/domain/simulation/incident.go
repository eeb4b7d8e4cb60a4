package simulation

import (
	"fmt"
	"math"
	"time"

	"vaultsim/internal/domain/vault"
)

type incidentKind struct {
	kind       vault.IncidentType
	stat       vault.Stat
	minPop     int
	hasEnemies bool
}

var incidentKinds = []incidentKind{
	{kind: vault.IncidentFire, stat: vault.StatAgility, minPop: 0},
	{kind: vault.IncidentRadroach, stat: vault.StatStrength, minPop: 0, hasEnemies: true},
	{kind: vault.IncidentMoleRat, stat: vault.StatStrength, minPop: 15, hasEnemies: true},
	{kind: vault.IncidentRaider, stat: vault.StatPerception, minPop: 10, hasEnemies: true},
	{kind: vault.IncidentDeathclaw, stat: vault.StatEndurance, minPop: 35, hasEnemies: true},
}

func incidentKindOf(t vault.IncidentType) (incidentKind, bool) {
	for _, k := range incidentKinds {
		if k.kind == t {
			return k, true
		}
	}
	return incidentKind{}, false
}

var lootTable = map[vault.LootRarity][]string{
	vault.RarityCommon:    {"Rusty BB Gun", "Leather Armor", "Pipe Pistol", "Scrap Metal"},
	vault.RarityRare:      {"Hunting Rifle", "Combat Armor", "Laser Pistol"},
	vault.RarityLegendary: {"Fat Man", "Power Armor", "Lincoln's Repeater"},
}

// ResolutionThreshold is the total damage that resolves the incident.
func ResolutionThreshold(inc *vault.Incident, cfg IncidentConfig) float64 {
	return float64(inc.Difficulty) * cfg.ThresholdPerDifficulty * float64(1+inc.SpreadCount)
}

// CombatStrength of a single dweller against the incident kind.
func CombatStrength(d *vault.Dweller, stat vault.Stat) float64 {
	return 1 + float64(d.Special.Get(stat)) + d.WeaponDamage + float64(d.Level)/5
}

type IncidentPhase struct{}

func (IncidentPhase) Name() PhaseName { return PhaseIncident }

func (IncidentPhase) Apply(snap *vault.Snapshot, t *Tick) ([]string, error) {
	cfg := t.Config.Incident
	issues := make([]string, 0)

	for _, inc := range snap.OpenIncidents() {
		kind, ok := incidentKindOf(inc.Type)
		if !ok {
			issues = append(issues, fmt.Sprintf("incident %s: unknown type %q", inc.ID, inc.Type))
			continue
		}
		if !fight(snap, t, inc, kind) {
			burnOut(snap, t, inc)
		}
		if inc.Open() {
			spread(snap, t, inc)
		}
	}

	spawnIncident(snap, t, cfg)
	return issues, nil
}

// responders are the dwellers in roomIDs able to fight.
func responders(idx *vault.Index, roomIDs ...string) []*vault.Dweller {
	out := make([]*vault.Dweller, 0)
	for _, roomID := range roomIDs {
		for _, d := range idx.Occupants(roomID) {
			if d.Incapacitated() || d.Status == vault.StatusExploring {
				continue
			}
			out = append(out, d)
		}
	}
	return out
}

// fight reports whether anyone was there to engage the incident.
func fight(snap *vault.Snapshot, t *Tick, inc *vault.Incident, kind incidentKind) bool {
	cfg := t.Config.Incident
	idx := snap.Index()
	minutes := t.Minutes()

	fighters := responders(idx, inc.RoomsAffected...)
	if len(fighters) == 0 {
		return false
	}
	inc.LastEngagedAt = vault.TimePtr(t.Now)
	if minutes <= 0 {
		return true
	}

	strengths := make([]float64, len(fighters))
	total := 0.0
	for i, d := range fighters {
		d.Status = vault.StatusInCombat
		inc.AddParticipant(d.ID)
		strengths[i] = CombatStrength(d, kind.stat)
		total += strengths[i]
	}

	threshold := ResolutionThreshold(inc, cfg)
	remaining := threshold - inc.DamageDealt
	dealt := total * cfg.DamagePerStrengthMinute * minutes
	if dealt >= remaining {
		inc.DamageDealt = threshold
	} else if dealt > 0 {
		inc.DamageDealt += dealt
	}
	if kind.hasEnemies {
		enemies := 1 + inc.Difficulty/3
		inc.EnemiesDefeated = int(math.Floor(inc.DamageDealt / threshold * float64(enemies)))
	}

	difficulty := float64(inc.Difficulty)
	pressure := 1 - total/(total+difficulty*cfg.DifficultyStrength)
	received := difficulty * cfg.EnemyDamagePerDifficultyMinute * minutes * pressure
	for i, d := range fighters {
		d.Damage(received * strengths[i] / total)
		if d.Incapacitated() {
			t.Emit(vault.EventDwellerIncapacitated, d.ID, map[string]any{
				"incident_id": inc.ID,
				"cause":       string(inc.Type),
			})
		}
	}

	if inc.DamageDealt >= threshold {
		resolveIncident(snap, t, inc)
	}
	return true
}

// burnOut ends an incident that has gone unanswered for the configured window.
func burnOut(snap *vault.Snapshot, t *Tick, inc *vault.Incident) {
	window := t.Config.Incident.BurnOut
	if window <= 0 {
		return
	}
	since := inc.StartedAt
	if inc.LastEngagedAt != nil {
		since = *inc.LastEngagedAt
	}
	if t.Now.Sub(since) < window {
		return
	}
	inc.Status = vault.IncidentBurnedOut
	inc.ResolvedAt = vault.TimePtr(t.Now)
	idx := snap.Index()
	clearIncidentRooms(idx, inc)
	for _, id := range inc.Participants {
		d, ok := idx.Dweller(id)
		if ok && !d.Dead && d.Status == vault.StatusInCombat {
			d.Status = restingStatus(idx, d)
		}
	}
	t.Emit(vault.EventIncidentBurnedOut, inc.ID, map[string]any{
		"type":         string(inc.Type),
		"difficulty":   inc.Difficulty,
		"damage_dealt": inc.DamageDealt,
		"rooms":        len(inc.RoomsAffected),
	})
}

func clearIncidentRooms(idx *vault.Index, inc *vault.Incident) {
	for _, roomID := range inc.RoomsAffected {
		room, ok := idx.Room(roomID)
		if !ok {
			continue
		}
		if room.IncidentID != nil && *room.IncidentID == inc.ID {
			room.IncidentID = nil
		}
	}
}

func resolveIncident(snap *vault.Snapshot, t *Tick, inc *vault.Incident) {
	cfg := t.Config.Incident
	idx := snap.Index()

	inc.Status = vault.IncidentResolved
	inc.ResolvedAt = vault.TimePtr(t.Now)
	inc.LootCaps = math.Round(float64(inc.Difficulty) * cfg.CapsPerDifficulty * uniform(t.Rand, 0.5, 1.5))
	rarity := rollRarity(t.Rand, cfg.RareChance, cfg.LegendaryChance+0.002*float64(inc.Difficulty))
	inc.Loot = append(inc.Loot, lootItem(t.Rand, rarity))
	snap.Vault.AddResource(vault.ResourceCaps, inc.LootCaps)

	clearIncidentRooms(idx, inc)

	xp := int64(math.Round(float64(inc.Difficulty) * cfg.XPPerDifficulty))
	for _, id := range inc.Participants {
		d, ok := idx.Dweller(id)
		if !ok || d.Dead {
			continue
		}
		if d.Status == vault.StatusInCombat {
			d.Status = restingStatus(idx, d)
		}
		if !d.Incapacitated() {
			GrantXP(t, d, xp, "incident")
		}
	}

	t.Emit(vault.EventIncidentResolved, inc.ID, map[string]any{
		"type":             string(inc.Type),
		"difficulty":       inc.Difficulty,
		"damage_dealt":     inc.DamageDealt,
		"enemies_defeated": inc.EnemiesDefeated,
		"loot_caps":        inc.LootCaps,
		"loot":             inc.Loot,
		"participants":     len(inc.Participants),
	})
}

// restingStatus is what a dweller returns to once an activity ends.
func restingStatus(idx *vault.Index, d *vault.Dweller) vault.DwellerStatus {
	if d.RoomID == nil {
		return vault.StatusIdle
	}
	room, ok := idx.Room(*d.RoomID)
	if !ok {
		return vault.StatusIdle
	}
	if _, training := idx.ActiveTraining(d.ID); training {
		return vault.StatusTraining
	}
	if room.Category() == vault.CategoryProduction || room.Type == vault.RoomLivingQuarters || room.Type == vault.RoomRadioStudio {
		return vault.StatusWorking
	}
	return vault.StatusIdle
}

func spread(snap *vault.Snapshot, t *Tick, inc *vault.Incident) {
	cfg := t.Config.Incident
	if inc.SpreadCount >= cfg.MaxSpread {
		return
	}
	since := inc.StartedAt
	if inc.LastSpreadAt != nil {
		since = *inc.LastSpreadAt
	}
	if t.Now.Sub(since) < cfg.SpreadCooldown || !chance(t.Rand, cfg.SpreadChance) {
		return
	}

	idx := snap.Index()
	candidates := make([]*vault.Room, 0)
	for _, room := range snap.Rooms {
		if room.IncidentID != nil || inc.Affects(room.ID) {
			continue
		}
		for _, affectedID := range inc.RoomsAffected {
			affected, ok := idx.Room(affectedID)
			if ok && affected.Adjacent(room) {
				candidates = append(candidates, room)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return
	}
	target := candidates[t.Rand.IntN(len(candidates))]
	target.IncidentID = vault.StringPtr(inc.ID)
	inc.RoomsAffected = append(inc.RoomsAffected, target.ID)
	inc.SpreadCount++
	inc.Status = vault.IncidentSpreading
	inc.LastSpreadAt = vault.TimePtr(t.Now)
	t.Emit(vault.EventIncidentSpread, inc.ID, map[string]any{
		"room_id":      target.ID,
		"spread_count": inc.SpreadCount,
	})
}

func spawnIncident(snap *vault.Snapshot, t *Tick, cfg IncidentConfig) {
	if len(snap.OpenIncidents()) >= cfg.MaxActive {
		return
	}
	v := &snap.Vault
	if v.LastIncidentAt != nil && t.Now.Sub(*v.LastIncidentAt) < cfg.SpawnCooldown {
		return
	}
	population := len(snap.LivingDwellers())
	if population == 0 {
		return
	}
	idx := snap.Index()
	rooms := make([]*vault.Room, 0, len(snap.Rooms))
	tierSum := 0
	for _, room := range snap.Rooms {
		tierSum += clampInt(room.Tier, 1, 3)
		if room.IncidentID == nil && len(responders(idx, room.ID)) > 0 {
			rooms = append(rooms, room)
		}
	}
	if len(rooms) == 0 || !chance(t.Rand, math.Min(1, cfg.SpawnChancePerHour*t.Hours())) {
		return
	}

	kind := pickIncidentKind(t.Rand, population)
	avgTier := float64(tierSum) / float64(len(snap.Rooms))
	difficulty := clampInt(1+population/10+int(math.Round(avgTier))-1+intBetween(t.Rand, -1, 1), 1, 10)
	room := rooms[t.Rand.IntN(len(rooms))]

	inc := &vault.Incident{
		ID:            t.NewID("incident"),
		VaultID:       v.ID,
		RoomID:        room.ID,
		Type:          kind.kind,
		Difficulty:    difficulty,
		Status:        vault.IncidentActive,
		RoomsAffected: []string{room.ID},
		Participants:  []string{},
		StartedAt:     t.Now,
	}
	room.IncidentID = vault.StringPtr(inc.ID)
	v.LastIncidentAt = vault.TimePtr(t.Now)
	snap.AddIncident(inc)
	t.Emit(vault.EventIncidentSpawned, inc.ID, map[string]any{
		"type":       string(inc.Type),
		"difficulty": inc.Difficulty,
		"room_id":    room.ID,
	})
}

// pickIncidentKind weights larger vaults toward tougher hazards.
func pickIncidentKind(r Rand, population int) incidentKind {
	weights := make([]float64, len(incidentKinds))
	for i, k := range incidentKinds {
		if population < k.minPop {
			continue
		}
		weights[i] = 1 + float64(population-k.minPop)/20
	}
	i := pickWeighted(r, weights)
	if i < 0 {
		return incidentKinds[0]
	}
	return incidentKinds[i]
}

func rollRarity(r Rand, rare, legendary float64) vault.LootRarity {
	roll := r.Float64()
	switch {
	case roll < legendary:
		return vault.RarityLegendary
	case roll < legendary+rare:
		return vault.RarityRare
	default:
		return vault.RarityCommon
	}
}

func lootItem(r Rand, rarity vault.LootRarity) vault.LootItem {
	names := lootTable[rarity]
	return vault.LootItem{Name: names[r.IntN(len(names))], Rarity: rarity}
}

// IncidentAge is how long an incident has been open at now.
func IncidentAge(inc *vault.Incident, now time.Time) time.Duration {
	end := now
	if inc.ResolvedAt != nil {
		end = *inc.ResolvedAt
	}
	return end.Sub(inc.StartedAt)
}
