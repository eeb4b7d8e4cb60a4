package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameDomainEvent = "domain_events"

type DomainEvent struct {
	ID         int64          `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	VaultID    string         `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	Type       string         `gorm:"column:type;type:text;not null" json:"type"`
	SubjectID  string         `gorm:"column:subject_id;type:text;not null" json:"subject_id"`
	OccurredAt time.Time      `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload    datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
}

func (*DomainEvent) TableName() string {
	return TableNameDomainEvent
}

const TableNameTickRun = "tick_runs"

type TickRun struct {
	ID         string         `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID    string         `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	Status     string         `gorm:"column:status;type:text;not null" json:"status"`
	Reason     string         `gorm:"column:reason;type:text;not null" json:"reason"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null" json:"finished_at"`
	ElapsedMs  int64          `gorm:"column:elapsed_ms;not null" json:"elapsed_ms"`
	Phases     datatypes.JSON `gorm:"column:phases;type:jsonb;not null" json:"phases"`
	EventCount int32          `gorm:"column:event_count;not null" json:"event_count"`
}

func (*TickRun) TableName() string {
	return TableNameTickRun
}
