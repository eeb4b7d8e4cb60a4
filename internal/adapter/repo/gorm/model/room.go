package model

const TableNameRoom = "rooms"

type Room struct {
	ID                string  `gorm:"column:id;type:text;primaryKey" json:"id"`
	VaultID           string  `gorm:"column:vault_id;type:text;not null" json:"vault_id"`
	Type              string  `gorm:"column:type;type:text;not null" json:"type"`
	Tier              int32   `gorm:"column:tier;not null" json:"tier"`
	Size              int32   `gorm:"column:size;not null" json:"size"`
	Floor             int32   `gorm:"column:floor;not null" json:"floor"`
	Col               int32   `gorm:"column:col;not null" json:"col"`
	Efficiency        float64 `gorm:"column:efficiency;not null" json:"efficiency"`
	RadioMode         string  `gorm:"column:radio_mode;type:text;not null" json:"radio_mode"`
	SpeedupMultiplier float64 `gorm:"column:speedup_multiplier;not null" json:"speedup_multiplier"`
	IncidentID        *string `gorm:"column:incident_id;type:text" json:"incident_id"`
}

func (*Room) TableName() string {
	return TableNameRoom
}
