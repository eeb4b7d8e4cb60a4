package simulation

import (
	"fmt"
	"math"

	"vaultsim/internal/domain/vault"
)

var childNames = map[vault.Gender][]string{
	vault.GenderFemale: {"Ada", "June", "Nora", "Piper", "Rose", "Vera"},
	vault.GenderMale:   {"Abe", "Cole", "Dale", "Hank", "Milo", "Reed"},
}

type BreedingPhase struct{}

func (BreedingPhase) Name() PhaseName { return PhaseBreeding }

func (BreedingPhase) Apply(snap *vault.Snapshot, t *Tick) ([]string, error) {
	issues := deliverDue(snap, t)
	bond(snap, t)
	conceive(snap, t)
	return issues, nil
}

// Compatibility blends SPECIAL similarity with relationship affinity, in [0,1].
func Compatibility(a, b *vault.Dweller, affinity float64) float64 {
	diff := 0
	for _, s := range vault.AllStats {
		d := a.Special.Get(s) - b.Special.Get(s)
		if d < 0 {
			d = -d
		}
		diff += d
	}
	maxDiff := len(vault.AllStats) * (vault.MaxStat - vault.MinStat)
	similarity := 1 - float64(diff)/float64(maxDiff)
	return clampFloat(0.5*similarity+0.5*clampFloat(affinity, 0, 100)/100, 0, 1)
}

// Related reports close family ties that rule out pairing.
func Related(a, b *vault.Dweller) bool {
	same := func(x, y *string) bool { return x != nil && y != nil && *x == *y }
	isParent := func(p, c *vault.Dweller) bool {
		return (c.MotherID != nil && *c.MotherID == p.ID) || (c.FatherID != nil && *c.FatherID == p.ID)
	}
	return same(a.MotherID, b.MotherID) || same(a.FatherID, b.FatherID) || isParent(a, b) || isParent(b, a)
}

// PopulationCapacity is the number of dwellers the living quarters support.
func PopulationCapacity(rooms []*vault.Room, cfg BreedingConfig) int {
	beds := 0
	for _, room := range rooms {
		if room.Type == vault.RoomLivingQuarters {
			beds += room.Capacity()
		}
	}
	return beds * cfg.PopulationPerBed
}

func deliverDue(snap *vault.Snapshot, t *Tick) []string {
	idx := snap.Index()
	issues := make([]string, 0)
	for _, p := range snap.Pregnancies {
		if p.Status != vault.PregnancyPregnant || t.Now.Before(p.DueAt) {
			continue
		}
		mother, ok := idx.Dweller(p.MotherID)
		if !ok {
			issues = append(issues, fmt.Sprintf("pregnancy %s: mother %s missing", p.ID, p.MotherID))
			continue
		}
		father, ok := idx.Dweller(p.FatherID)
		if !ok {
			father = mother
		}

		child := newChild(t, mother, father)
		snap.AddDweller(child)
		p.Status = vault.PregnancyDelivered
		p.DeliveredAt = vault.TimePtr(t.Now)
		p.ChildID = vault.StringPtr(child.ID)
		t.Emit(vault.EventBirth, child.ID, map[string]any{
			"pregnancy_id": p.ID,
			"mother_id":    mother.ID,
			"father_id":    p.FatherID,
			"name":         child.FullName(),
			"special":      child.Special,
		})
	}
	snap.Reindex()
	return issues
}

func newChild(t *Tick, mother, father *vault.Dweller) *vault.Dweller {
	gender := vault.GenderFemale
	if t.Rand.IntN(2) == 1 {
		gender = vault.GenderMale
	}
	names := childNames[gender]
	lastName := father.LastName
	if lastName == "" {
		lastName = mother.LastName
	}
	child := &vault.Dweller{
		ID:        t.NewID("dweller"),
		VaultID:   mother.VaultID,
		FirstName: names[t.Rand.IntN(len(names))],
		LastName:  lastName,
		Gender:    gender,
		AgeGroup:  vault.AgeChild,
		Health:    vault.DefaultMaxHealth,
		MaxHealth: vault.DefaultMaxHealth,
		Happiness: 50,
		Level:     1,
		Status:    vault.StatusIdle,
		MotherID:  vault.StringPtr(mother.ID),
		FatherID:  vault.StringPtr(father.ID),
		BornAt:    t.Now,
	}
	for _, s := range vault.AllStats {
		lo, hi := mother.Special.Get(s), father.Special.Get(s)
		if lo > hi {
			lo, hi = hi, lo
		}
		_ = child.Special.Set(s, intBetween(t.Rand, lo, hi))
	}
	return child
}

type couple struct {
	female, male *vault.Dweller
	room         *vault.Room
}

// candidateCouples lists adult opposite-gender pairs sharing living quarters.
func candidateCouples(snap *vault.Snapshot) []couple {
	idx := snap.Index()
	out := make([]couple, 0)
	for _, room := range snap.Rooms {
		if room.Type != vault.RoomLivingQuarters {
			continue
		}
		occ := idx.Occupants(room.ID)
		for _, f := range occ {
			if f.Gender != vault.GenderFemale || !eligibleAdult(f) {
				continue
			}
			for _, m := range occ {
				if m.Gender != vault.GenderMale || !eligibleAdult(m) || Related(f, m) {
					continue
				}
				if !partnersCompatible(f, m) {
					continue
				}
				out = append(out, couple{female: f, male: m, room: room})
			}
		}
	}
	return out
}

func eligibleAdult(d *vault.Dweller) bool {
	return d.Alive() && d.AgeGroup == vault.AgeAdult && !d.Incapacitated() &&
		d.Status != vault.StatusExploring && d.Status != vault.StatusInCombat
}

// partnersCompatible rejects pairs where either is partnered to someone else.
func partnersCompatible(a, b *vault.Dweller) bool {
	if a.PartnerID != nil && *a.PartnerID != b.ID {
		return false
	}
	if b.PartnerID != nil && *b.PartnerID != a.ID {
		return false
	}
	return true
}

func bond(snap *vault.Snapshot, t *Tick) {
	cfg := t.Config.Breeding
	gain := cfg.AffinityPerHour * t.Hours()
	for _, c := range candidateCouples(snap) {
		rel, ok := snap.Index().Relationship(c.female.ID, c.male.ID)
		if !ok {
			rel = &vault.Relationship{
				ID:         t.NewID("relationship"),
				VaultID:    snap.Vault.ID,
				DwellerAID: c.female.ID,
				DwellerBID: c.male.ID,
			}
			snap.AddRelationship(rel)
		}
		rel.Affinity = math.Min(100, rel.Affinity+gain)
		if rel.Affinity >= cfg.PartnerThreshold && c.female.PartnerID == nil && c.male.PartnerID == nil {
			c.female.PartnerID = vault.StringPtr(c.male.ID)
			c.male.PartnerID = vault.StringPtr(c.female.ID)
			t.Emit(vault.EventPartnered, c.female.ID, map[string]any{
				"partner_id": c.male.ID,
				"affinity":   rel.Affinity,
			})
		}
	}
}

func conceive(snap *vault.Snapshot, t *Tick) {
	cfg := t.Config.Breeding
	population := len(snap.LivingDwellers())
	for _, p := range snap.Pregnancies {
		if p.Status == vault.PregnancyPregnant {
			population++
		}
	}
	limit := PopulationCapacity(snap.Rooms, cfg)

	fertility := snap.Vault.Fertility
	if fertility <= 0 {
		fertility = cfg.DefaultFertility
	}

	idx := snap.Index()
	busy := make(map[string]bool)
	for _, p := range snap.Pregnancies {
		if p.DeliveredAt != nil && p.DeliveredAt.Equal(t.Now) {
			busy[p.MotherID] = true
		}
	}

	for _, c := range bestCouples(snap, candidateCouples(snap)) {
		if population >= limit {
			return
		}
		if busy[c.female.ID] || busy[c.male.ID] {
			continue
		}
		if _, pregnant := idx.Pregnancy(c.female.ID); pregnant {
			continue
		}
		affinity := 0.0
		if rel, ok := idx.Relationship(c.female.ID, c.male.ID); ok {
			affinity = rel.Affinity
		}
		p := cfg.ConceptionChancePerHour * t.Hours() * Compatibility(c.female, c.male, affinity) * fertility
		busy[c.female.ID] = true
		busy[c.male.ID] = true
		if !chance(t.Rand, p) {
			continue
		}
		preg := &vault.Pregnancy{
			ID:          t.NewID("pregnancy"),
			VaultID:     snap.Vault.ID,
			MotherID:    c.female.ID,
			FatherID:    c.male.ID,
			ConceivedAt: t.Now,
			DueAt:       t.Now.Add(cfg.Gestation),
			Status:      vault.PregnancyPregnant,
		}
		snap.AddPregnancy(preg)
		idx = snap.Index()
		population++
		t.Emit(vault.EventConception, c.female.ID, map[string]any{
			"pregnancy_id": preg.ID,
			"father_id":    c.male.ID,
			"due_at":       preg.DueAt,
		})
	}
}

// bestCouples greedily keeps, per female, the most compatible male not
// already matched, in snapshot order.
func bestCouples(snap *vault.Snapshot, all []couple) []couple {
	idx := snap.Index()
	score := func(c couple) float64 {
		affinity := 0.0
		if rel, ok := idx.Relationship(c.female.ID, c.male.ID); ok {
			affinity = rel.Affinity
		}
		return Compatibility(c.female, c.male, affinity)
	}
	takenMale := make(map[string]bool)
	done := make(map[string]bool)
	out := make([]couple, 0)
	for _, c := range all {
		if done[c.female.ID] {
			continue
		}
		best := -1
		bestScore := -1.0
		for j, other := range all {
			if other.female.ID != c.female.ID || takenMale[other.male.ID] {
				continue
			}
			if s := score(other); s > bestScore {
				best, bestScore = j, s
			}
		}
		done[c.female.ID] = true
		if best < 0 {
			continue
		}
		takenMale[all[best].male.ID] = true
		out = append(out, all[best])
	}
	return out
}
