package simulation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"vaultsim/internal/domain/vault"
)

var idNamespace = uuid.MustParse("6f1d3c9e-2b1a-4c55-9a58-0d1f4b7e9c21")

// Tick carries the per-tick inputs shared by every phase.
type Tick struct {
	VaultID string
	Now     time.Time
	Elapsed time.Duration
	Rand    Rand
	Config  Config

	idSeq  int
	events []vault.DomainEvent
}

func NewTick(vaultID string, now time.Time, elapsed time.Duration, rnd Rand, cfg Config) *Tick {
	return &Tick{VaultID: vaultID, Now: now, Elapsed: elapsed, Rand: rnd, Config: cfg}
}

func (t *Tick) Hours() float64 {
	return t.Elapsed.Hours()
}

func (t *Tick) Minutes() float64 {
	return t.Elapsed.Minutes()
}

// NewID returns a deterministic id scoped to the vault, tick time, and kind.
func (t *Tick) NewID(kind string) string {
	t.idSeq++
	name := fmt.Sprintf("%s/%d/%s/%d", t.VaultID, t.Now.UnixNano(), kind, t.idSeq)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

func (t *Tick) Emit(eventType, subjectID string, payload map[string]any) {
	t.events = append(t.events, vault.DomainEvent{
		Type:       eventType,
		VaultID:    t.VaultID,
		SubjectID:  subjectID,
		OccurredAt: t.Now,
		Payload:    payload,
	})
}

func (t *Tick) Events() []vault.DomainEvent {
	return t.events
}

func (t *Tick) eventMark() int {
	return len(t.events)
}

func (t *Tick) rollbackEvents(mark int) {
	t.events = t.events[:mark]
}
