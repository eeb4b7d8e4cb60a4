package vault

import "time"

type ResourceType string

const (
	ResourcePower ResourceType = "power"
	ResourceFood  ResourceType = "food"
	ResourceWater ResourceType = "water"
	ResourceCaps  ResourceType = "caps"
)

// ConsumableResources are the stocks tracked for shortage.
var ConsumableResources = []ResourceType{ResourcePower, ResourceFood, ResourceWater}

type Resources struct {
	Power float64 `json:"power"`
	Food  float64 `json:"food"`
	Water float64 `json:"water"`
	Caps  float64 `json:"caps"`
}

func (r Resources) Get(t ResourceType) float64 {
	switch t {
	case ResourcePower:
		return r.Power
	case ResourceFood:
		return r.Food
	case ResourceWater:
		return r.Water
	case ResourceCaps:
		return r.Caps
	default:
		return 0
	}
}

func (r *Resources) Set(t ResourceType, v float64) {
	switch t {
	case ResourcePower:
		r.Power = v
	case ResourceFood:
		r.Food = v
	case ResourceWater:
		r.Water = v
	case ResourceCaps:
		r.Caps = v
	}
}

type ResourceFlag struct {
	Shortage bool `json:"shortage"`
	Critical bool `json:"critical"`
}

type Vault struct {
	ID             string                        `json:"id"`
	Name           string                        `json:"name"`
	Resources      Resources                     `json:"resources"`
	Capacity       Resources                     `json:"capacity"`
	Flags          map[ResourceType]ResourceFlag `json:"flags"`
	Happiness      float64                       `json:"happiness"`
	Fertility      float64                       `json:"fertility"`
	LastIncidentAt *time.Time                    `json:"last_incident_at,omitempty"`
	LastTickAt     time.Time                     `json:"last_tick_at"`
	NextTickAt     time.Time                     `json:"next_tick_at"`
	TickCount      int64                         `json:"tick_count"`
	Version        int64                         `json:"version"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

// AddResource applies delta clamped to [0, capacity].
func (v *Vault) AddResource(t ResourceType, delta float64) float64 {
	before := v.Resources.Get(t)
	next := clampFloat(before+delta, 0, v.Capacity.Get(t))
	v.Resources.Set(t, next)
	return next - before
}

func (v Vault) Flag(t ResourceType) ResourceFlag {
	if v.Flags == nil {
		return ResourceFlag{}
	}
	return v.Flags[t]
}

type DwellerStatus string

const (
	StatusIdle      DwellerStatus = "idle"
	StatusWorking   DwellerStatus = "working"
	StatusTraining  DwellerStatus = "training"
	StatusExploring DwellerStatus = "exploring"
	StatusInCombat  DwellerStatus = "in_combat"
)

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

type AgeGroup string

const (
	AgeChild AgeGroup = "child"
	AgeAdult AgeGroup = "adult"
)

const (
	MinHappiness     = 10.0
	MaxHappiness     = 100.0
	MaxLevel         = 50
	DefaultMaxHealth = 100.0
)

type Dweller struct {
	ID           string        `json:"id"`
	VaultID      string        `json:"vault_id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Gender       Gender        `json:"gender"`
	AgeGroup     AgeGroup      `json:"age_group"`
	Special      Special       `json:"special"`
	Health       float64       `json:"health"`
	MaxHealth    float64       `json:"max_health"`
	Radiation    float64       `json:"radiation"`
	Happiness    float64       `json:"happiness"`
	Level        int           `json:"level"`
	Experience   int64         `json:"experience"`
	Status       DwellerStatus `json:"status"`
	RoomID       *string       `json:"room_id,omitempty"`
	PartnerID    *string       `json:"partner_id,omitempty"`
	MotherID     *string       `json:"mother_id,omitempty"`
	FatherID     *string       `json:"father_id,omitempty"`
	WeaponDamage float64       `json:"weapon_damage"`
	Dead         bool          `json:"dead"`
	BornAt       time.Time     `json:"born_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (d *Dweller) Alive() bool {
	return !d.Dead
}

// Incapacitated dwellers are left to the death/revival collaborator.
func (d *Dweller) Incapacitated() bool {
	return d.Health <= 0
}

func (d *Dweller) HealthRatio() float64 {
	if d.MaxHealth <= 0 {
		return 0
	}
	return d.Health / d.MaxHealth
}

func (d *Dweller) Damage(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	before := d.Health
	d.Health = clampFloat(d.Health-amount, 0, d.MaxHealth)
	return before - d.Health
}

func (d *Dweller) Heal(amount float64) {
	if amount <= 0 {
		return
	}
	d.Health = clampFloat(d.Health+amount, 0, d.MaxHealth)
}

func (d *Dweller) AddHappiness(delta float64) {
	d.Happiness = clampFloat(d.Happiness+delta, MinHappiness, MaxHappiness)
}

func (d *Dweller) InRoom(roomID string) bool {
	return d.RoomID != nil && *d.RoomID == roomID
}

func (d *Dweller) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

type TrainingStatus string

const (
	TrainingActive    TrainingStatus = "active"
	TrainingCompleted TrainingStatus = "completed"
	TrainingCancelled TrainingStatus = "cancelled"
)

type TrainingSession struct {
	ID                    string         `json:"id"`
	VaultID               string         `json:"vault_id"`
	DwellerID             string         `json:"dweller_id"`
	RoomID                string         `json:"room_id"`
	ReturnRoomID          *string        `json:"return_room_id,omitempty"`
	Stat                  Stat           `json:"stat"`
	StartValue            int            `json:"start_value"`
	Progress              float64        `json:"progress"`
	StartedAt             time.Time      `json:"started_at"`
	EstimatedCompletionAt time.Time      `json:"estimated_completion_at"`
	FinishedAt            *time.Time     `json:"finished_at,omitempty"`
	Status                TrainingStatus `json:"status"`
}

type IncidentType string

const (
	IncidentFire      IncidentType = "fire"
	IncidentRadroach  IncidentType = "radroach_infestation"
	IncidentMoleRat   IncidentType = "mole_rat_attack"
	IncidentRaider    IncidentType = "raider_attack"
	IncidentDeathclaw IncidentType = "deathclaw_attack"
)

type IncidentStatus string

const (
	IncidentActive    IncidentStatus = "active"
	IncidentSpreading IncidentStatus = "spreading"
	IncidentResolved  IncidentStatus = "resolved"
	// IncidentBurnedOut ends an incident nobody fought; it yields no loot.
	IncidentBurnedOut IncidentStatus = "burned_out"
)

type LootRarity string

const (
	RarityCommon    LootRarity = "common"
	RarityRare      LootRarity = "rare"
	RarityLegendary LootRarity = "legendary"
)

type LootItem struct {
	Name   string     `json:"name"`
	Rarity LootRarity `json:"rarity"`
}

type Incident struct {
	ID              string         `json:"id"`
	VaultID         string         `json:"vault_id"`
	RoomID          string         `json:"room_id"`
	Type            IncidentType   `json:"type"`
	Difficulty      int            `json:"difficulty"`
	Status          IncidentStatus `json:"status"`
	DamageDealt     float64        `json:"damage_dealt"`
	EnemiesDefeated int            `json:"enemies_defeated"`
	SpreadCount     int            `json:"spread_count"`
	RoomsAffected   []string       `json:"rooms_affected"`
	Participants    []string       `json:"participants"`
	Loot            []LootItem     `json:"loot,omitempty"`
	LootCaps        float64        `json:"loot_caps"`
	StartedAt       time.Time      `json:"started_at"`
	LastSpreadAt    *time.Time     `json:"last_spread_at,omitempty"`
	LastEngagedAt   *time.Time     `json:"last_engaged_at,omitempty"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
}

func (i *Incident) Open() bool {
	return i.Status == IncidentActive || i.Status == IncidentSpreading
}

func (i *Incident) Affects(roomID string) bool {
	for _, id := range i.RoomsAffected {
		if id == roomID {
			return true
		}
	}
	return false
}

func (i *Incident) AddParticipant(dwellerID string) {
	for _, id := range i.Participants {
		if id == dwellerID {
			return
		}
	}
	i.Participants = append(i.Participants, dwellerID)
}

type ExplorationStatus string

const (
	ExplorationActive    ExplorationStatus = "active"
	ExplorationRecalled  ExplorationStatus = "recalled"
	ExplorationCompleted ExplorationStatus = "completed"
)

type ExplorationEventType string

const (
	ExplorationCombat   ExplorationEventType = "combat"
	ExplorationItem     ExplorationEventType = "item_found"
	ExplorationCaps     ExplorationEventType = "caps_found"
	ExplorationStatFind ExplorationEventType = "stat_increase"
	ExplorationStimpak  ExplorationEventType = "stimpak_used"
	ExplorationRadaway  ExplorationEventType = "radaway_used"
)

type ExplorationEvent struct {
	Type           ExplorationEventType `json:"type"`
	Description    string               `json:"description"`
	OccurredAt     time.Time            `json:"occurred_at"`
	ElapsedSeconds int64                `json:"elapsed_seconds"`
	HealthDelta    float64              `json:"health_delta,omitempty"`
	RadiationDelta float64              `json:"radiation_delta,omitempty"`
	Caps           float64              `json:"caps,omitempty"`
	Item           *LootItem            `json:"item,omitempty"`
	Stat           Stat                 `json:"stat,omitempty"`
}

type Exploration struct {
	ID              string             `json:"id"`
	VaultID         string             `json:"vault_id"`
	DwellerID       string             `json:"dweller_id"`
	StartedAt       time.Time          `json:"started_at"`
	Duration        time.Duration      `json:"duration"`
	Distance        float64            `json:"distance"`
	Events          []ExplorationEvent `json:"events"`
	Loot            []LootItem         `json:"loot,omitempty"`
	Caps            float64            `json:"caps"`
	EnemiesDefeated int                `json:"enemies_defeated"`
	Stimpaks        int                `json:"stimpaks"`
	Radaways        int                `json:"radaways"`
	XPAwarded       int64              `json:"xp_awarded"`
	Status          ExplorationStatus  `json:"status"`
	EndedAt         *time.Time         `json:"ended_at,omitempty"`
}

// NotableEvents excludes consumable usage from the reward count.
func (e *Exploration) NotableEvents() int {
	n := 0
	for _, ev := range e.Events {
		if ev.Type == ExplorationStimpak || ev.Type == ExplorationRadaway {
			continue
		}
		n++
	}
	return n
}

type PregnancyStatus string

const (
	PregnancyPregnant  PregnancyStatus = "pregnant"
	PregnancyDelivered PregnancyStatus = "delivered"
)

type Pregnancy struct {
	ID          string          `json:"id"`
	VaultID     string          `json:"vault_id"`
	MotherID    string          `json:"mother_id"`
	FatherID    string          `json:"father_id"`
	ConceivedAt time.Time       `json:"conceived_at"`
	DueAt       time.Time       `json:"due_at"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	ChildID     *string         `json:"child_id,omitempty"`
	Status      PregnancyStatus `json:"status"`
}

type Relationship struct {
	ID         string  `json:"id"`
	VaultID    string  `json:"vault_id"`
	DwellerAID string  `json:"dweller_a_id"`
	DwellerBID string  `json:"dweller_b_id"`
	Affinity   float64 `json:"affinity"`
}

type DomainEvent struct {
	Type       string         `json:"type"`
	VaultID    string         `json:"vault_id"`
	SubjectID  string         `json:"subject_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventLevelUp              = "level_up"
	EventTrainingCompleted    = "training_completed"
	EventIncidentSpawned      = "incident_spawned"
	EventIncidentSpread       = "incident_spread"
	EventIncidentResolved     = "incident_resolved"
	EventIncidentBurnedOut    = "incident_burned_out"
	EventDwellerIncapacitated = "dweller_incapacitated"
	EventExplorationCompleted = "exploration_completed"
	EventExplorationRecalled  = "exploration_recalled"
	EventPartnered            = "dwellers_partnered"
	EventConception           = "conception"
	EventBirth                = "birth"
	EventGrewUp               = "dweller_grew_up"
)
