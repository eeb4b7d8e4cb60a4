package vault

type RoomCategory string

const (
	CategoryProduction RoomCategory = "production"
	CategoryTraining   RoomCategory = "training"
	CategoryOther      RoomCategory = "other"
)

type RoomType string

const (
	RoomPowerGenerator RoomType = "power_generator"
	RoomDiner          RoomType = "diner"
	RoomWaterTreatment RoomType = "water_treatment"
	RoomLivingQuarters RoomType = "living_quarters"
	RoomRadioStudio    RoomType = "radio_studio"
	RoomStorage        RoomType = "storage_room"
	RoomWeight         RoomType = "weight_room"
	RoomArmory         RoomType = "armory"
	RoomFitness        RoomType = "fitness_room"
	RoomLounge         RoomType = "lounge"
	RoomClassroom      RoomType = "classroom"
	RoomAthletics      RoomType = "athletics_room"
	RoomGame           RoomType = "game_room"
)

type RadioMode string

const (
	RadioRecruitment RadioMode = "recruitment"
	RadioHappiness   RadioMode = "happiness"
)

type roomSpec struct {
	category RoomCategory
	ability  Stat
	produces ResourceType
}

var roomSpecs = map[RoomType]roomSpec{
	RoomPowerGenerator: {category: CategoryProduction, ability: StatStrength, produces: ResourcePower},
	RoomDiner:          {category: CategoryProduction, ability: StatAgility, produces: ResourceFood},
	RoomWaterTreatment: {category: CategoryProduction, ability: StatPerception, produces: ResourceWater},
	RoomRadioStudio:    {category: CategoryOther, ability: StatCharisma},
	RoomLivingQuarters: {category: CategoryOther, ability: StatCharisma},
	RoomStorage:        {category: CategoryOther, ability: StatEndurance},
	RoomWeight:         {category: CategoryTraining, ability: StatStrength},
	RoomArmory:         {category: CategoryTraining, ability: StatPerception},
	RoomFitness:        {category: CategoryTraining, ability: StatEndurance},
	RoomLounge:         {category: CategoryTraining, ability: StatCharisma},
	RoomClassroom:      {category: CategoryTraining, ability: StatIntelligence},
	RoomAthletics:      {category: CategoryTraining, ability: StatAgility},
	RoomGame:           {category: CategoryTraining, ability: StatLuck},
}

func (t RoomType) Valid() bool {
	_, ok := roomSpecs[t]
	return ok
}

func (t RoomType) Category() RoomCategory {
	if s, ok := roomSpecs[t]; ok {
		return s.category
	}
	return CategoryOther
}

// Ability is the SPECIAL stat the room produces from or trains.
func (t RoomType) Ability() Stat {
	return roomSpecs[t].ability
}

// Produces returns the resource output of a production room.
func (t RoomType) Produces() (ResourceType, bool) {
	s, ok := roomSpecs[t]
	if !ok || s.produces == "" {
		return "", false
	}
	return s.produces, true
}

type Room struct {
	ID                string    `json:"id"`
	VaultID           string    `json:"vault_id"`
	Type              RoomType  `json:"type"`
	Tier              int       `json:"tier"`
	Size              int       `json:"size"`
	Floor             int       `json:"floor"`
	Column            int       `json:"column"`
	Efficiency        float64   `json:"efficiency"`
	RadioMode         RadioMode `json:"radio_mode,omitempty"`
	SpeedupMultiplier float64   `json:"speedup_multiplier"`
	IncidentID        *string   `json:"incident_id,omitempty"`
}

func (r *Room) Category() RoomCategory {
	return r.Type.Category()
}

func (r *Room) Ability() Stat {
	return r.Type.Ability()
}

// Capacity is the number of dwellers the room holds: two per size unit,
// plus one per tier above the first.
func (r *Room) Capacity() int {
	size := clampInt(r.Size, 1, 3)
	tier := clampInt(r.Tier, 1, 3)
	return 2*size + (tier - 1)
}

// Adjacent reports whether other shares the floor and touches this room,
// or sits directly above or below it.
func (r *Room) Adjacent(other *Room) bool {
	if r.ID == other.ID {
		return false
	}
	if r.Floor == other.Floor {
		end := r.Column + clampInt(r.Size, 1, 3)
		otherEnd := other.Column + clampInt(other.Size, 1, 3)
		return end == other.Column || otherEnd == r.Column
	}
	if r.Floor-other.Floor == 1 || other.Floor-r.Floor == 1 {
		return r.Column < other.Column+clampInt(other.Size, 1, 3) && other.Column < r.Column+clampInt(r.Size, 1, 3)
	}
	return false
}
