package gormrepo

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"vaultsim/internal/adapter/repo/gorm/model"
	"vaultsim/internal/domain/vault"
)

func toJSON(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func fromJSON(raw datatypes.JSON, v any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, v)
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func vaultRow(v vault.Vault) model.Vault {
	return model.Vault{
		ID:             v.ID,
		Name:           v.Name,
		Power:          v.Resources.Power,
		Food:           v.Resources.Food,
		Water:          v.Resources.Water,
		Caps:           v.Resources.Caps,
		PowerCapacity:  v.Capacity.Power,
		FoodCapacity:   v.Capacity.Food,
		WaterCapacity:  v.Capacity.Water,
		CapsCapacity:   v.Capacity.Caps,
		Flags:          toJSON(v.Flags),
		Happiness:      v.Happiness,
		Fertility:      v.Fertility,
		LastIncidentAt: v.LastIncidentAt,
		LastTickAt:     nullableTime(v.LastTickAt),
		NextTickAt:     v.NextTickAt,
		TickCount:      v.TickCount,
		Version:        v.Version,
		UpdatedAt:      v.UpdatedAt,
	}
}

func vaultFromRow(m model.Vault) vault.Vault {
	v := vault.Vault{
		ID:             m.ID,
		Name:           m.Name,
		Resources:      vault.Resources{Power: m.Power, Food: m.Food, Water: m.Water, Caps: m.Caps},
		Capacity:       vault.Resources{Power: m.PowerCapacity, Food: m.FoodCapacity, Water: m.WaterCapacity, Caps: m.CapsCapacity},
		Flags:          map[vault.ResourceType]vault.ResourceFlag{},
		Happiness:      m.Happiness,
		Fertility:      m.Fertility,
		LastIncidentAt: m.LastIncidentAt,
		LastTickAt:     timeOrZero(m.LastTickAt),
		NextTickAt:     m.NextTickAt,
		TickCount:      m.TickCount,
		Version:        m.Version,
		UpdatedAt:      m.UpdatedAt,
	}
	fromJSON(m.Flags, &v.Flags)
	return v
}

func dwellerRow(d *vault.Dweller) model.Dweller {
	return model.Dweller{
		ID:           d.ID,
		VaultID:      d.VaultID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Gender:       string(d.Gender),
		AgeGroup:     string(d.AgeGroup),
		Special:      toJSON(d.Special),
		Health:       d.Health,
		MaxHealth:    d.MaxHealth,
		Radiation:    d.Radiation,
		Happiness:    d.Happiness,
		Level:        int32(d.Level),
		Experience:   d.Experience,
		Status:       string(d.Status),
		RoomID:       d.RoomID,
		PartnerID:    d.PartnerID,
		MotherID:     d.MotherID,
		FatherID:     d.FatherID,
		WeaponDamage: d.WeaponDamage,
		Dead:         d.Dead,
		BornAt:       d.BornAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func dwellerFromRow(m model.Dweller) *vault.Dweller {
	d := &vault.Dweller{
		ID:           m.ID,
		VaultID:      m.VaultID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Gender:       vault.Gender(m.Gender),
		AgeGroup:     vault.AgeGroup(m.AgeGroup),
		Health:       m.Health,
		MaxHealth:    m.MaxHealth,
		Radiation:    m.Radiation,
		Happiness:    m.Happiness,
		Level:        int(m.Level),
		Experience:   m.Experience,
		Status:       vault.DwellerStatus(m.Status),
		RoomID:       m.RoomID,
		PartnerID:    m.PartnerID,
		MotherID:     m.MotherID,
		FatherID:     m.FatherID,
		WeaponDamage: m.WeaponDamage,
		Dead:         m.Dead,
		BornAt:       m.BornAt,
		UpdatedAt:    m.UpdatedAt,
	}
	fromJSON(m.Special, &d.Special)
	return d
}

func roomRow(r *vault.Room) model.Room {
	return model.Room{
		ID:                r.ID,
		VaultID:           r.VaultID,
		Type:              string(r.Type),
		Tier:              int32(r.Tier),
		Size:              int32(r.Size),
		Floor:             int32(r.Floor),
		Col:               int32(r.Column),
		Efficiency:        r.Efficiency,
		RadioMode:         string(r.RadioMode),
		SpeedupMultiplier: r.SpeedupMultiplier,
		IncidentID:        r.IncidentID,
	}
}

func roomFromRow(m model.Room) *vault.Room {
	return &vault.Room{
		ID:                m.ID,
		VaultID:           m.VaultID,
		Type:              vault.RoomType(m.Type),
		Tier:              int(m.Tier),
		Size:              int(m.Size),
		Floor:             int(m.Floor),
		Column:            int(m.Col),
		Efficiency:        m.Efficiency,
		RadioMode:         vault.RadioMode(m.RadioMode),
		SpeedupMultiplier: m.SpeedupMultiplier,
		IncidentID:        m.IncidentID,
	}
}

func trainingRow(s *vault.TrainingSession) model.TrainingSession {
	return model.TrainingSession{
		ID:                    s.ID,
		VaultID:               s.VaultID,
		DwellerID:             s.DwellerID,
		RoomID:                s.RoomID,
		ReturnRoomID:          s.ReturnRoomID,
		Stat:                  string(s.Stat),
		StartValue:            int32(s.StartValue),
		Progress:              s.Progress,
		StartedAt:             s.StartedAt,
		EstimatedCompletionAt: s.EstimatedCompletionAt,
		FinishedAt:            s.FinishedAt,
		Status:                string(s.Status),
	}
}

func trainingFromRow(m model.TrainingSession) *vault.TrainingSession {
	return &vault.TrainingSession{
		ID:                    m.ID,
		VaultID:               m.VaultID,
		DwellerID:             m.DwellerID,
		RoomID:                m.RoomID,
		ReturnRoomID:          m.ReturnRoomID,
		Stat:                  vault.Stat(m.Stat),
		StartValue:            int(m.StartValue),
		Progress:              m.Progress,
		StartedAt:             m.StartedAt,
		EstimatedCompletionAt: m.EstimatedCompletionAt,
		FinishedAt:            m.FinishedAt,
		Status:                vault.TrainingStatus(m.Status),
	}
}

func incidentRow(i *vault.Incident) model.Incident {
	return model.Incident{
		ID:              i.ID,
		VaultID:         i.VaultID,
		RoomID:          i.RoomID,
		Type:            string(i.Type),
		Difficulty:      int32(i.Difficulty),
		Status:          string(i.Status),
		DamageDealt:     i.DamageDealt,
		EnemiesDefeated: int32(i.EnemiesDefeated),
		SpreadCount:     int32(i.SpreadCount),
		RoomsAffected:   toJSON(nonNil(i.RoomsAffected)),
		Participants:    toJSON(nonNil(i.Participants)),
		Loot:            toJSON(nonNil(i.Loot)),
		LootCaps:        i.LootCaps,
		StartedAt:       i.StartedAt,
		LastSpreadAt:    i.LastSpreadAt,
		LastEngagedAt:   i.LastEngagedAt,
		ResolvedAt:      i.ResolvedAt,
	}
}

func incidentFromRow(m model.Incident) *vault.Incident {
	i := &vault.Incident{
		ID:              m.ID,
		VaultID:         m.VaultID,
		RoomID:          m.RoomID,
		Type:            vault.IncidentType(m.Type),
		Difficulty:      int(m.Difficulty),
		Status:          vault.IncidentStatus(m.Status),
		DamageDealt:     m.DamageDealt,
		EnemiesDefeated: int(m.EnemiesDefeated),
		SpreadCount:     int(m.SpreadCount),
		LootCaps:        m.LootCaps,
		StartedAt:       m.StartedAt,
		LastSpreadAt:    m.LastSpreadAt,
		LastEngagedAt:   m.LastEngagedAt,
		ResolvedAt:      m.ResolvedAt,
	}
	fromJSON(m.RoomsAffected, &i.RoomsAffected)
	fromJSON(m.Participants, &i.Participants)
	fromJSON(m.Loot, &i.Loot)
	return i
}

func explorationRow(e *vault.Exploration) model.Exploration {
	return model.Exploration{
		ID:              e.ID,
		VaultID:         e.VaultID,
		DwellerID:       e.DwellerID,
		StartedAt:       e.StartedAt,
		DurationSeconds: int64(e.Duration / time.Second),
		Distance:        e.Distance,
		Events:          toJSON(nonNil(e.Events)),
		Loot:            toJSON(nonNil(e.Loot)),
		Caps:            e.Caps,
		EnemiesDefeated: int32(e.EnemiesDefeated),
		Stimpaks:        int32(e.Stimpaks),
		Radaways:        int32(e.Radaways),
		XpAwarded:       e.XPAwarded,
		Status:          string(e.Status),
		EndedAt:         e.EndedAt,
	}
}

func explorationFromRow(m model.Exploration) *vault.Exploration {
	e := &vault.Exploration{
		ID:              m.ID,
		VaultID:         m.VaultID,
		DwellerID:       m.DwellerID,
		StartedAt:       m.StartedAt,
		Duration:        time.Duration(m.DurationSeconds) * time.Second,
		Distance:        m.Distance,
		Caps:            m.Caps,
		EnemiesDefeated: int(m.EnemiesDefeated),
		Stimpaks:        int(m.Stimpaks),
		Radaways:        int(m.Radaways),
		XPAwarded:       m.XpAwarded,
		Status:          vault.ExplorationStatus(m.Status),
		EndedAt:         m.EndedAt,
	}
	fromJSON(m.Events, &e.Events)
	fromJSON(m.Loot, &e.Loot)
	return e
}

func pregnancyRow(p *vault.Pregnancy) model.Pregnancy {
	return model.Pregnancy{
		ID:          p.ID,
		VaultID:     p.VaultID,
		MotherID:    p.MotherID,
		FatherID:    p.FatherID,
		ConceivedAt: p.ConceivedAt,
		DueAt:       p.DueAt,
		DeliveredAt: p.DeliveredAt,
		ChildID:     p.ChildID,
		Status:      string(p.Status),
	}
}

func pregnancyFromRow(m model.Pregnancy) *vault.Pregnancy {
	return &vault.Pregnancy{
		ID:          m.ID,
		VaultID:     m.VaultID,
		MotherID:    m.MotherID,
		FatherID:    m.FatherID,
		ConceivedAt: m.ConceivedAt,
		DueAt:       m.DueAt,
		DeliveredAt: m.DeliveredAt,
		ChildID:     m.ChildID,
		Status:      vault.PregnancyStatus(m.Status),
	}
}

func relationshipRow(r *vault.Relationship) model.Relationship {
	return model.Relationship{
		ID:         r.ID,
		VaultID:    r.VaultID,
		DwellerAID: r.DwellerAID,
		DwellerBID: r.DwellerBID,
		Affinity:   r.Affinity,
	}
}

func relationshipFromRow(m model.Relationship) *vault.Relationship {
	return &vault.Relationship{
		ID:         m.ID,
		VaultID:    m.VaultID,
		DwellerAID: m.DwellerAID,
		DwellerBID: m.DwellerBID,
		Affinity:   m.Affinity,
	}
}

func mapRows[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
