package vault

import "fmt"

type Stat string

const (
	StatStrength     Stat = "strength"
	StatPerception   Stat = "perception"
	StatEndurance    Stat = "endurance"
	StatCharisma     Stat = "charisma"
	StatIntelligence Stat = "intelligence"
	StatAgility      Stat = "agility"
	StatLuck         Stat = "luck"
)

const (
	MinStat = 1
	MaxStat = 10
)

// AllStats lists SPECIAL in canonical order.
var AllStats = []Stat{
	StatStrength,
	StatPerception,
	StatEndurance,
	StatCharisma,
	StatIntelligence,
	StatAgility,
	StatLuck,
}

func (s Stat) Valid() bool {
	switch s {
	case StatStrength, StatPerception, StatEndurance, StatCharisma, StatIntelligence, StatAgility, StatLuck:
		return true
	default:
		return false
	}
}

type Special struct {
	Strength     int `json:"strength"`
	Perception   int `json:"perception"`
	Endurance    int `json:"endurance"`
	Charisma     int `json:"charisma"`
	Intelligence int `json:"intelligence"`
	Agility      int `json:"agility"`
	Luck         int `json:"luck"`
}

func (s Special) Get(stat Stat) int {
	switch stat {
	case StatStrength:
		return s.Strength
	case StatPerception:
		return s.Perception
	case StatEndurance:
		return s.Endurance
	case StatCharisma:
		return s.Charisma
	case StatIntelligence:
		return s.Intelligence
	case StatAgility:
		return s.Agility
	case StatLuck:
		return s.Luck
	default:
		return 0
	}
}

// Set stores v clamped to [MinStat, MaxStat].
func (s *Special) Set(stat Stat, v int) error {
	v = clampInt(v, MinStat, MaxStat)
	switch stat {
	case StatStrength:
		s.Strength = v
	case StatPerception:
		s.Perception = v
	case StatEndurance:
		s.Endurance = v
	case StatCharisma:
		s.Charisma = v
	case StatIntelligence:
		s.Intelligence = v
	case StatAgility:
		s.Agility = v
	case StatLuck:
		s.Luck = v
	default:
		return fmt.Errorf("unknown stat %q", stat)
	}
	return nil
}

// Increase raises stat by one and reports whether the value changed.
func (s *Special) Increase(stat Stat) bool {
	cur := s.Get(stat)
	if cur >= MaxStat || !stat.Valid() {
		return false
	}
	_ = s.Set(stat, cur+1)
	return true
}

func (s Special) Total() int {
	return s.Strength + s.Perception + s.Endurance + s.Charisma + s.Intelligence + s.Agility + s.Luck
}

func (s Special) InBounds() bool {
	for _, stat := range AllStats {
		v := s.Get(stat)
		if v < MinStat || v > MaxStat {
			return false
		}
	}
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
