package vault

import "time"

// Snapshot is the full working set of one vault for a single tick. Records
// finished during the tick stay in their slice with a terminal status so the
// commit can persist them.
type Snapshot struct {
	Vault         Vault              `json:"vault"`
	Dwellers      []*Dweller         `json:"dwellers"`
	Rooms         []*Room            `json:"rooms"`
	Training      []*TrainingSession `json:"training"`
	Incidents     []*Incident        `json:"incidents"`
	Explorations  []*Exploration     `json:"explorations"`
	Pregnancies   []*Pregnancy       `json:"pregnancies"`
	Relationships []*Relationship    `json:"relationships"`

	index *Index
}

// Index holds lookup maps built once per tick.
type Index struct {
	dwellers          map[string]*Dweller
	rooms             map[string]*Room
	occupants         map[string][]*Dweller
	activeTraining    map[string]*TrainingSession
	roomTraining      map[string]int
	activeExploration map[string]*Exploration
	pregnantMothers   map[string]*Pregnancy
	relationships     map[pairKey]*Relationship
}

type pairKey struct{ a, b string }

func makePairKey(x, y string) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// Index returns the cached lookup maps, building them on first use.
func (s *Snapshot) Index() *Index {
	if s.index == nil {
		s.index = buildIndex(s)
	}
	return s.index
}

// Reindex drops cached lookups after structural changes.
func (s *Snapshot) Reindex() {
	s.index = nil
}

func buildIndex(s *Snapshot) *Index {
	idx := &Index{
		dwellers:          make(map[string]*Dweller, len(s.Dwellers)),
		rooms:             make(map[string]*Room, len(s.Rooms)),
		occupants:         make(map[string][]*Dweller, len(s.Rooms)),
		activeTraining:    make(map[string]*TrainingSession),
		roomTraining:      make(map[string]int),
		activeExploration: make(map[string]*Exploration),
		pregnantMothers:   make(map[string]*Pregnancy),
		relationships:     make(map[pairKey]*Relationship, len(s.Relationships)),
	}
	for _, r := range s.Rooms {
		idx.rooms[r.ID] = r
	}
	for _, d := range s.Dwellers {
		idx.dwellers[d.ID] = d
		if d.Dead || d.RoomID == nil {
			continue
		}
		idx.occupants[*d.RoomID] = append(idx.occupants[*d.RoomID], d)
	}
	for _, t := range s.Training {
		if t.Status != TrainingActive {
			continue
		}
		idx.activeTraining[t.DwellerID] = t
		idx.roomTraining[t.RoomID]++
	}
	for _, e := range s.Explorations {
		if e.Status == ExplorationActive {
			idx.activeExploration[e.DwellerID] = e
		}
	}
	for _, p := range s.Pregnancies {
		if p.Status == PregnancyPregnant {
			idx.pregnantMothers[p.MotherID] = p
		}
	}
	for _, r := range s.Relationships {
		idx.relationships[makePairKey(r.DwellerAID, r.DwellerBID)] = r
	}
	return idx
}

func (i *Index) Dweller(id string) (*Dweller, bool) {
	d, ok := i.dwellers[id]
	return d, ok
}

func (i *Index) Room(id string) (*Room, bool) {
	r, ok := i.rooms[id]
	return r, ok
}

// Occupants lists living dwellers assigned to roomID.
func (i *Index) Occupants(roomID string) []*Dweller {
	return i.occupants[roomID]
}

func (i *Index) ActiveTraining(dwellerID string) (*TrainingSession, bool) {
	t, ok := i.activeTraining[dwellerID]
	return t, ok
}

func (i *Index) ActiveTrainingInRoom(roomID string) int {
	return i.roomTraining[roomID]
}

func (i *Index) ActiveExploration(dwellerID string) (*Exploration, bool) {
	e, ok := i.activeExploration[dwellerID]
	return e, ok
}

func (i *Index) Pregnancy(motherID string) (*Pregnancy, bool) {
	p, ok := i.pregnantMothers[motherID]
	return p, ok
}

func (i *Index) Relationship(x, y string) (*Relationship, bool) {
	r, ok := i.relationships[makePairKey(x, y)]
	return r, ok
}

// LivingDwellers returns dwellers that are not dead, in snapshot order.
func (s *Snapshot) LivingDwellers() []*Dweller {
	out := make([]*Dweller, 0, len(s.Dwellers))
	for _, d := range s.Dwellers {
		if !d.Dead {
			out = append(out, d)
		}
	}
	return out
}

func (s *Snapshot) OpenIncidents() []*Incident {
	out := make([]*Incident, 0, len(s.Incidents))
	for _, inc := range s.Incidents {
		if inc.Open() {
			out = append(out, inc)
		}
	}
	return out
}

func (s *Snapshot) AddDweller(d *Dweller) {
	s.Dwellers = append(s.Dwellers, d)
	s.index = nil
}

func (s *Snapshot) AddRelationship(r *Relationship) {
	s.Relationships = append(s.Relationships, r)
	s.index = nil
}

func (s *Snapshot) AddPregnancy(p *Pregnancy) {
	s.Pregnancies = append(s.Pregnancies, p)
	s.index = nil
}

func (s *Snapshot) AddIncident(inc *Incident) {
	s.Incidents = append(s.Incidents, inc)
}

// Clone returns a deep copy that shares no mutable state with s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{Vault: cloneVault(s.Vault)}
	out.Dwellers = make([]*Dweller, len(s.Dwellers))
	for i, d := range s.Dwellers {
		c := *d
		c.RoomID = cloneString(d.RoomID)
		c.PartnerID = cloneString(d.PartnerID)
		c.MotherID = cloneString(d.MotherID)
		c.FatherID = cloneString(d.FatherID)
		out.Dwellers[i] = &c
	}
	out.Rooms = make([]*Room, len(s.Rooms))
	for i, r := range s.Rooms {
		c := *r
		c.IncidentID = cloneString(r.IncidentID)
		out.Rooms[i] = &c
	}
	out.Training = make([]*TrainingSession, len(s.Training))
	for i, t := range s.Training {
		c := *t
		c.FinishedAt = cloneTime(t.FinishedAt)
		c.ReturnRoomID = cloneString(t.ReturnRoomID)
		out.Training[i] = &c
	}
	out.Incidents = make([]*Incident, len(s.Incidents))
	for i, inc := range s.Incidents {
		c := *inc
		c.RoomsAffected = append([]string(nil), inc.RoomsAffected...)
		c.Participants = append([]string(nil), inc.Participants...)
		c.Loot = append([]LootItem(nil), inc.Loot...)
		c.LastSpreadAt = cloneTime(inc.LastSpreadAt)
		c.LastEngagedAt = cloneTime(inc.LastEngagedAt)
		c.ResolvedAt = cloneTime(inc.ResolvedAt)
		out.Incidents[i] = &c
	}
	out.Explorations = make([]*Exploration, len(s.Explorations))
	for i, e := range s.Explorations {
		c := *e
		c.Events = make([]ExplorationEvent, len(e.Events))
		for j, ev := range e.Events {
			if ev.Item != nil {
				item := *ev.Item
				ev.Item = &item
			}
			c.Events[j] = ev
		}
		c.Loot = append([]LootItem(nil), e.Loot...)
		c.EndedAt = cloneTime(e.EndedAt)
		out.Explorations[i] = &c
	}
	out.Pregnancies = make([]*Pregnancy, len(s.Pregnancies))
	for i, p := range s.Pregnancies {
		c := *p
		c.DeliveredAt = cloneTime(p.DeliveredAt)
		c.ChildID = cloneString(p.ChildID)
		out.Pregnancies[i] = &c
	}
	out.Relationships = make([]*Relationship, len(s.Relationships))
	for i, r := range s.Relationships {
		c := *r
		out.Relationships[i] = &c
	}
	return out
}

func cloneVault(v Vault) Vault {
	if v.Flags != nil {
		flags := make(map[ResourceType]ResourceFlag, len(v.Flags))
		for k, f := range v.Flags {
			flags[k] = f
		}
		v.Flags = flags
	}
	v.LastIncidentAt = cloneTime(v.LastIncidentAt)
	return v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func StringPtr(v string) *string {
	return &v
}

func TimePtr(v time.Time) *time.Time {
	return &v
}
