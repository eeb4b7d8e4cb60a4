package simulation

import (
	"errors"
	"time"
)

const (
	MaxLevel           = 50
	LevelUpHealthBonus = 5.0
	XPCurveBase        = 100.0
	XPCurveExponent    = 1.5
)

type Config struct {
	TickInterval   time.Duration     `yaml:"tick_interval" json:"tick_interval"`
	MaxTickElapsed time.Duration     `yaml:"max_tick_elapsed" json:"max_tick_elapsed"`
	Economy        EconomyConfig     `yaml:"economy" json:"economy"`
	Happiness      HappinessConfig   `yaml:"happiness" json:"happiness"`
	Training       TrainingConfig    `yaml:"training" json:"training"`
	Incident       IncidentConfig    `yaml:"incident" json:"incident"`
	Exploration    ExplorationConfig `yaml:"exploration" json:"exploration"`
	Breeding       BreedingConfig    `yaml:"breeding" json:"breeding"`
}

type EconomyConfig struct {
	PowerPerHour          float64    `yaml:"power_per_hour" json:"power_per_hour"`
	FoodPerHour           float64    `yaml:"food_per_hour" json:"food_per_hour"`
	WaterPerHour          float64    `yaml:"water_per_hour" json:"water_per_hour"`
	TierMultipliers       [3]float64 `yaml:"tier_multipliers" json:"tier_multipliers"`
	FoodPerDwellerHour    float64    `yaml:"food_per_dweller_hour" json:"food_per_dweller_hour"`
	WaterPerDwellerHour   float64    `yaml:"water_per_dweller_hour" json:"water_per_dweller_hour"`
	PowerPerRoomHour      float64    `yaml:"power_per_room_hour" json:"power_per_room_hour"`
	OutageFactor          float64    `yaml:"outage_factor" json:"outage_factor"`
	ShortageRatio         float64    `yaml:"shortage_ratio" json:"shortage_ratio"`
	CriticalRatio         float64    `yaml:"critical_ratio" json:"critical_ratio"`
	BaseCapacity          float64    `yaml:"base_capacity" json:"base_capacity"`
	ProductionCapacity    float64    `yaml:"production_capacity" json:"production_capacity"`
	StorageCapacity       float64    `yaml:"storage_capacity" json:"storage_capacity"`
	CapsCapacity          float64    `yaml:"caps_capacity" json:"caps_capacity"`
	EfficiencyStatDivisor float64    `yaml:"efficiency_stat_divisor" json:"efficiency_stat_divisor"`
}

type HappinessConfig struct {
	BaseDecay            float64       `yaml:"base_decay" json:"base_decay"`
	ShortagePenalty      float64       `yaml:"shortage_penalty" json:"shortage_penalty"`
	CriticalPenalty      float64       `yaml:"critical_penalty" json:"critical_penalty"`
	IncidentPenalty      float64       `yaml:"incident_penalty" json:"incident_penalty"`
	IdlePenalty          float64       `yaml:"idle_penalty" json:"idle_penalty"`
	CombatPenalty        float64       `yaml:"combat_penalty" json:"combat_penalty"`
	LowHealthPenalty     float64       `yaml:"low_health_penalty" json:"low_health_penalty"`
	HurtPenalty          float64       `yaml:"hurt_penalty" json:"hurt_penalty"`
	RadiationPenalty     float64       `yaml:"radiation_penalty" json:"radiation_penalty"`
	RadiationThreshold   float64       `yaml:"radiation_threshold" json:"radiation_threshold"`
	WorkingBonus         float64       `yaml:"working_bonus" json:"working_bonus"`
	HealthyWorkerBonus   float64       `yaml:"healthy_worker_bonus" json:"healthy_worker_bonus"`
	TrainingBonus        float64       `yaml:"training_bonus" json:"training_bonus"`
	LivingQuartersBonus  float64       `yaml:"living_quarters_bonus" json:"living_quarters_bonus"`
	RadioRoomBonus       float64       `yaml:"radio_room_bonus" json:"radio_room_bonus"`
	RadioModeRate        float64       `yaml:"radio_mode_rate" json:"radio_mode_rate"`
	PartnerBonus         float64       `yaml:"partner_bonus" json:"partner_bonus"`
	PartnerNearbyBonus   float64       `yaml:"partner_nearby_bonus" json:"partner_nearby_bonus"`
	HighResourcesBonus   float64       `yaml:"high_resources_bonus" json:"high_resources_bonus"`
	HighResourcesRatio   float64       `yaml:"high_resources_ratio" json:"high_resources_ratio"`
	NoIncidentsBonus     float64       `yaml:"no_incidents_bonus" json:"no_incidents_bonus"`
	WorkingXP            int64         `yaml:"working_xp" json:"working_xp"`
	FullEfficiencyXPMult float64       `yaml:"full_efficiency_xp_mult" json:"full_efficiency_xp_mult"`
	ChildhoodDuration    time.Duration `yaml:"childhood_duration" json:"childhood_duration"`
}

type TrainingConfig struct {
	BaseDuration     time.Duration `yaml:"base_duration" json:"base_duration"`
	PerLevelIncrease time.Duration `yaml:"per_level_increase" json:"per_level_increase"`
	TierSpeed        [3]float64    `yaml:"tier_speed" json:"tier_speed"`
	XPPerHour        float64       `yaml:"xp_per_hour" json:"xp_per_hour"`
}

type IncidentConfig struct {
	SpawnChancePerHour             float64       `yaml:"spawn_chance_per_hour" json:"spawn_chance_per_hour"`
	MaxActive                      int           `yaml:"max_active" json:"max_active"`
	SpawnCooldown                  time.Duration `yaml:"spawn_cooldown" json:"spawn_cooldown"`
	ThresholdPerDifficulty         float64       `yaml:"threshold_per_difficulty" json:"threshold_per_difficulty"`
	DamagePerStrengthMinute        float64       `yaml:"damage_per_strength_minute" json:"damage_per_strength_minute"`
	EnemyDamagePerDifficultyMinute float64       `yaml:"enemy_damage_per_difficulty_minute" json:"enemy_damage_per_difficulty_minute"`
	DifficultyStrength             float64       `yaml:"difficulty_strength" json:"difficulty_strength"`
	SpreadCooldown                 time.Duration `yaml:"spread_cooldown" json:"spread_cooldown"`
	SpreadChance                   float64       `yaml:"spread_chance" json:"spread_chance"`
	MaxSpread                      int           `yaml:"max_spread" json:"max_spread"`
	BurnOut                        time.Duration `yaml:"burn_out" json:"burn_out"`
	XPPerDifficulty                float64       `yaml:"xp_per_difficulty" json:"xp_per_difficulty"`
	CapsPerDifficulty              float64       `yaml:"caps_per_difficulty" json:"caps_per_difficulty"`
	RareChance                     float64       `yaml:"rare_chance" json:"rare_chance"`
	LegendaryChance                float64       `yaml:"legendary_chance" json:"legendary_chance"`
}

type ExplorationConfig struct {
	BaseDistancePerHour    float64       `yaml:"base_distance_per_hour" json:"base_distance_per_hour"`
	EnduranceDistanceBonus float64       `yaml:"endurance_distance_bonus" json:"endurance_distance_bonus"`
	EventChancePerHour     float64       `yaml:"event_chance_per_hour" json:"event_chance_per_hour"`
	StatFindBase           float64       `yaml:"stat_find_base" json:"stat_find_base"`
	StatFindPerLuck        float64       `yaml:"stat_find_per_luck" json:"stat_find_per_luck"`
	CombatWeight           float64       `yaml:"combat_weight" json:"combat_weight"`
	ItemWeight             float64       `yaml:"item_weight" json:"item_weight"`
	CapsWeight             float64       `yaml:"caps_weight" json:"caps_weight"`
	CombatDamageMin        float64       `yaml:"combat_damage_min" json:"combat_damage_min"`
	CombatDamageMax        float64       `yaml:"combat_damage_max" json:"combat_damage_max"`
	RadiationPerHour       float64       `yaml:"radiation_per_hour" json:"radiation_per_hour"`
	StimpakThreshold       float64       `yaml:"stimpak_threshold" json:"stimpak_threshold"`
	StimpakHeal            float64       `yaml:"stimpak_heal" json:"stimpak_heal"`
	RadawayThreshold       float64       `yaml:"radaway_threshold" json:"radaway_threshold"`
	RadawayAmount          float64       `yaml:"radaway_amount" json:"radaway_amount"`
	SurvivalRatio          float64       `yaml:"survival_ratio" json:"survival_ratio"`
	SurvivalBonus          float64       `yaml:"survival_bonus" json:"survival_bonus"`
	LuckBonusPerPoint      float64       `yaml:"luck_bonus_per_point" json:"luck_bonus_per_point"`
	MinDuration            time.Duration `yaml:"min_duration" json:"min_duration"`
	MaxDuration            time.Duration `yaml:"max_duration" json:"max_duration"`
	MaxConsumables         int           `yaml:"max_consumables" json:"max_consumables"`
}

type BreedingConfig struct {
	Gestation               time.Duration `yaml:"gestation" json:"gestation"`
	ConceptionChancePerHour float64       `yaml:"conception_chance_per_hour" json:"conception_chance_per_hour"`
	DefaultFertility        float64       `yaml:"default_fertility" json:"default_fertility"`
	AffinityPerHour         float64       `yaml:"affinity_per_hour" json:"affinity_per_hour"`
	PartnerThreshold        float64       `yaml:"partner_threshold" json:"partner_threshold"`
	PopulationPerBed        int           `yaml:"population_per_bed" json:"population_per_bed"`
}

func DefaultConfig() Config {
	return Config{
		TickInterval:   time.Minute,
		MaxTickElapsed: time.Hour,
		Economy: EconomyConfig{
			PowerPerHour:          12,
			FoodPerHour:           10,
			WaterPerHour:          10,
			TierMultipliers:       [3]float64{1, 1.5, 2},
			FoodPerDwellerHour:    0.6,
			WaterPerDwellerHour:   0.6,
			PowerPerRoomHour:      0.5,
			OutageFactor:          0.5,
			ShortageRatio:         0.2,
			CriticalRatio:         0.05,
			BaseCapacity:          100,
			ProductionCapacity:    25,
			StorageCapacity:       50,
			CapsCapacity:          999999,
			EfficiencyStatDivisor: 4,
		},
		Happiness: HappinessConfig{
			BaseDecay:            -0.5,
			ShortagePenalty:      -2.0,
			CriticalPenalty:      -5.0,
			IncidentPenalty:      -3.0,
			IdlePenalty:          -1.0,
			CombatPenalty:        -2.0,
			LowHealthPenalty:     -2.0,
			HurtPenalty:          -1.0,
			RadiationPenalty:     -1.0,
			RadiationThreshold:   50,
			WorkingBonus:         1.0,
			HealthyWorkerBonus:   0.5,
			TrainingBonus:        0.5,
			LivingQuartersBonus:  1.5,
			RadioRoomBonus:       1.0,
			RadioModeRate:        0.5,
			PartnerBonus:         0.17,
			PartnerNearbyBonus:   1.0,
			HighResourcesBonus:   0.5,
			HighResourcesRatio:   0.8,
			NoIncidentsBonus:     0.3,
			WorkingXP:            2,
			FullEfficiencyXPMult: 1.5,
			ChildhoodDuration:    24 * time.Hour,
		},
		Training: TrainingConfig{
			BaseDuration:     7200 * time.Second,
			PerLevelIncrease: 1800 * time.Second,
			TierSpeed:        [3]float64{1.0, 0.75, 0.6},
			XPPerHour:        50,
		},
		Incident: IncidentConfig{
			SpawnChancePerHour:             0.03,
			MaxActive:                      2,
			SpawnCooldown:                  2 * time.Hour,
			ThresholdPerDifficulty:         100,
			DamagePerStrengthMinute:        2,
			EnemyDamagePerDifficultyMinute: 0.5,
			DifficultyStrength:             5,
			SpreadCooldown:                 10 * time.Minute,
			SpreadChance:                   0.25,
			MaxSpread:                      3,
			BurnOut:                        4 * time.Hour,
			XPPerDifficulty:                20,
			CapsPerDifficulty:              25,
			RareChance:                     0.15,
			LegendaryChance:                0.02,
		},
		Exploration: ExplorationConfig{
			BaseDistancePerHour:    1,
			EnduranceDistanceBonus: 0.2,
			EventChancePerHour:     3,
			StatFindBase:           0.01,
			StatFindPerLuck:        0.001,
			CombatWeight:           0.4,
			ItemWeight:             0.25,
			CapsWeight:             0.35,
			CombatDamageMin:        5,
			CombatDamageMax:        15,
			RadiationPerHour:       2,
			StimpakThreshold:       0.3,
			StimpakHeal:            0.3,
			RadawayThreshold:       50,
			RadawayAmount:          50,
			SurvivalRatio:          0.7,
			SurvivalBonus:          0.2,
			LuckBonusPerPoint:      0.02,
			MinDuration:            30 * time.Minute,
			MaxDuration:            72 * time.Hour,
			MaxConsumables:         25,
		},
		Breeding: BreedingConfig{
			Gestation:               3 * time.Hour,
			ConceptionChancePerHour: 0.2,
			DefaultFertility:        1.0,
			AffinityPerHour:         10,
			PartnerThreshold:        50,
			PopulationPerBed:        1,
		},
	}
}

var ErrInvalidConfig = errors.New("invalid simulation config")

func (c Config) Validate() error {
	switch {
	case c.TickInterval <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("tick_interval must be positive"))
	case c.MaxTickElapsed < c.TickInterval:
		return errors.Join(ErrInvalidConfig, errors.New("max_tick_elapsed must be at least tick_interval"))
	case c.Economy.CriticalRatio > c.Economy.ShortageRatio:
		return errors.Join(ErrInvalidConfig, errors.New("critical_ratio must not exceed shortage_ratio"))
	case c.Training.BaseDuration <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("training base_duration must be positive"))
	case c.Breeding.Gestation <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("gestation must be positive"))
	case c.Incident.MaxSpread < 0 || c.Incident.MaxActive < 0 || c.Incident.BurnOut < 0:
		return errors.Join(ErrInvalidConfig, errors.New("incident limits must not be negative"))
	}
	for _, s := range c.Training.TierSpeed {
		if s <= 0 {
			return errors.Join(ErrInvalidConfig, errors.New("training tier_speed must be positive"))
		}
	}
	return nil
}
