package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameTrainingSession = "training_sessions"

type TrainingSession struct {
	ID                    string     `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID               string     `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	DwellerID             string     `gorm:"column:dweller_id;type:text;not null" json:"dweller_id"`
	RoomID                string     `gorm:"column:room_id;type:text;not null" json:"room_id"`
	ReturnRoomID          *string    `gorm:"column:return_room_id;type:text" json:"return_room_id"`
	Stat                  string     `gorm:"column:stat;type:text;not null" json:"stat"`
	StartValue            int32      `gorm:"column:start_value;not null" json:"start_value"`
	Progress              float64    `gorm:"column:progress;not null" json:"progress"`
	StartedAt             time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	EstimatedCompletionAt time.Time  `gorm:"column:estimated_completion_at;not null" json:"estimated_completion_at"`
	FinishedAt            *time.Time `gorm:"column:finished_at" json:"finished_at"`
	Status                string     `gorm:"column:status;type:text;not null" json:"status"`
}

func (*TrainingSession) TableName() string {
	return TableNameTrainingSession
}

const TableNameIncident = "incidents"

type Incident struct {
	ID              string         `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID         string         `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	RoomID          string         `gorm:"column:room_id;type:text;not null" json:"room_id"`
	Type            string         `gorm:"column:type;type:text;not null" json:"type"`
	Difficulty      int32          `gorm:"column:difficulty;not null" json:"difficulty"`
	Status          string         `gorm:"column:status;type:text;not null" json:"status"`
	DamageDealt     float64        `gorm:"column:damage_dealt;not null" json:"damage_dealt"`
	EnemiesDefeated int32          `gorm:"column:enemies_defeated;not null" json:"enemies_defeated"`
	SpreadCount     int32          `gorm:"column:spread_count;not null" json:"spread_count"`
	RoomsAffected   datatypes.JSON `gorm:"column:rooms_affected;type:jsonb;not null" json:"rooms_affected"`
	Participants    datatypes.JSON `gorm:"column:participants;type:jsonb;not null" json:"participants"`
	Loot            datatypes.JSON `gorm:"column:loot;type:jsonb;not null" json:"loot"`
	LootCaps        float64        `gorm:"column:loot_caps;not null" json:"loot_caps"`
	StartedAt       time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	LastSpreadAt    *time.Time     `gorm:"column:last_spread_at" json:"last_spread_at"`
	LastEngagedAt   *time.Time     `gorm:"column:last_engaged_at" json:"last_engaged_at"`
	ResolvedAt      *time.Time     `gorm:"column:resolved_at" json:"resolved_at"`
}

func (*Incident) TableName() string {
	return TableNameIncident
}

const TableNameExploration = "explorations"

type Exploration struct {
	ID              string         `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID         string         `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	DwellerID       string         `gorm:"column:dweller_id;type:text;not null" json:"dweller_id"`
	StartedAt       time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	DurationSeconds int64          `gorm:"column:duration_seconds;not null" json:"duration_seconds"`
	Distance        float64        `gorm:"column:distance;not null" json:"distance"`
	Events          datatypes.JSON `gorm:"column:events;type:jsonb;not null" json:"events"`
	Loot            datatypes.JSON `gorm:"column:loot;type:jsonb;not null" json:"loot"`
	Caps            float64        `gorm:"column:caps;not null" json:"caps"`
	EnemiesDefeated int32          `gorm:"column:enemies_defeated;not null" json:"enemies_defeated"`
	Stimpaks        int32          `gorm:"column:stimpaks;not null" json:"stimpaks"`
	Radaways        int32          `gorm:"column:radaways;not null" json:"radaways"`
	XpAwarded       int64          `gorm:"column:xp_awarded;not null" json:"xp_awarded"`
	Status          string         `gorm:"column:status;type:text;not null" json:"status"`
	EndedAt         *time.Time     `gorm:"column:ended_at" json:"ended_at"`
}

func (*Exploration) TableName() string {
	return TableNameExploration
}
