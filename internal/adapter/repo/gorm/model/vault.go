package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameVault = "vaults"

type Vault struct {
	ID             string         `gorm:"column:id;type:text;primaryKey" json:"id"`
	Name           string         `gorm:"column:name;type:text;not null" json:"name"`
	Power          float64        `gorm:"column:power;not null" json:"power"`
	Food           float64        `gorm:"column:food;not null" json:"food"`
	Water          float64        `gorm:"column:water;not null" json:"water"`
	Caps           float64        `gorm:"column:caps;not null" json:"caps"`
	PowerCapacity  float64        `gorm:"column:power_capacity;not null" json:"power_capacity"`
	FoodCapacity   float64        `gorm:"column:food_capacity;not null" json:"food_capacity"`
	WaterCapacity  float64        `gorm:"column:water_capacity;not null" json:"water_capacity"`
	CapsCapacity   float64        `gorm:"column:caps_capacity;not null" json:"caps_capacity"`
	Flags          datatypes.JSON `gorm:"column:flags;type:jsonb;not null" json:"flags"`
	Happiness      float64        `gorm:"column:happiness;not null" json:"happiness"`
	Fertility      float64        `gorm:"column:fertility;not null" json:"fertility"`
	LastIncidentAt *time.Time     `gorm:"column:last_incident_at" json:"last_incident_at"`
	LastTickAt     *time.Time     `gorm:"column:last_tick_at" json:"last_tick_at"`
	NextTickAt     time.Time      `gorm:"column:next_tick_at;not null" json:"next_tick_at"`
	TickCount      int64          `gorm:"column:tick_count;not null" json:"tick_count"`
	Version        int64          `gorm:"column:version;not null" json:"version"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (*Vault) TableName() string {
	return TableNameVault
}

const TableNameVaultLease = "vault_leases"

type VaultLease struct {
	VaultID   string    `gorm:"column:vault_id;type:text;primaryKey" json:"vault_id"`
	Owner     string    `gorm:"column:owner;type:text;not null" json:"owner"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
}

func (*VaultLease) TableName() string {
	return TableNameVaultLease
}
