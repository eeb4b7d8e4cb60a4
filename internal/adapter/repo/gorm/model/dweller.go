package model

import (
	"time"

	"gorm.io/datatypes"
)

const TableNameDweller = "dwellers"

type Dweller struct {
	ID           string         `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID      string         `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	FirstName    string         `gorm:"column:first_name;type:text;not null" json:"first_name"`
	LastName     string         `gorm:"column:last_name;type:text;not null" json:"last_name"`
	Gender       string         `gorm:"column:gender;type:text;not null" json:"gender"`
	AgeGroup     string         `gorm:"column:age_group;type:text;not null" json:"age_group"`
	Special      datatypes.JSON `gorm:"column:special;type:jsonb;not null" json:"special"`
	Health       float64        `gorm:"column:health;not null" json:"health"`
	MaxHealth    float64        `gorm:"column:max_health;not null" json:"max_health"`
	Radiation    float64        `gorm:"column:radiation;not null" json:"radiation"`
	Happiness    float64        `gorm:"column:happiness;not null" json:"happiness"`
	Level        int32          `gorm:"column:level;not null" json:"level"`
	Experience   int64          `gorm:"column:experience;not null" json:"experience"`
	Status       string         `gorm:"column:status;type:text;not null" json:"status"`
	RoomID       *string        `gorm:"column:room_id;type:text" json:"room_id"`
	PartnerID    *string        `gorm:"column:partner_id;type:text" json:"partner_id"`
	MotherID     *string        `gorm:"column:mother_id;type:text" json:"mother_id"`
	FatherID     *string        `gorm:"column:father_id;type:text" json:"father_id"`
	WeaponDamage float64        `gorm:"column:weapon_damage;not null" json:"weapon_damage"`
	Dead         bool           `gorm:"column:dead;not null" json:"dead"`
	BornAt       time.Time      `gorm:"column:born_at;not null" json:"born_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (*Dweller) TableName() string {
	return TableNameDweller
}

const TableNameRelationship = "relationships"

type Relationship struct {
	ID         string  `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID    string  `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	DwellerAID string  `gorm:"column:dweller_a_id;type:text;not null" json:"dweller_a_id"`
	DwellerBID string  `gorm:"column:dweller_b_id;type:text;not null" json:"dweller_b_id"`
	Affinity   float64 `gorm:"column:affinity;not null" json:"affinity"`
}

func (*Relationship) TableName() string {
	return TableNameRelationship
}

const TableNamePregnancy = "pregnancies"

type Pregnancy struct {
	ID          string     `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID     string     `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	MotherID    string     `gorm:"column:mother_id;type:text;not null" json:"mother_id"`
	FatherID    string     `gorm:"column:father_id;type:text;not null" json:"father_id"`
	ConceivedAt time.Time  `gorm:"column:conceived_at;not null" json:"conceived_at"`
	DueAt       time.Time  `gorm:"column:due_at;not null" json:"due_at"`
	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"delivered_at"`
	ChildID     *string    `gorm:"column:child_id;type:text" json:"child_id"`
	Status      string     `gorm:"column:status;type:text;not null" json:"status"`
}

func (*Pregnancy) TableName() string {
	return TableNamePregnancy
}
