package replay

import (
	"context"
	"errors"
	"strings"

	"vaultsim/internal/app/ports"
	"vaultsim/internal/domain/vault"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const defaultRunLimit = 20

type UseCase struct {
	Events ports.EventRepository
	Runs   ports.TickRunRepository
}

// Execute lists a vault's emitted events, newest first, and the recent tick
// runs that produced them.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.VaultID) == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListByVaultID(ctx, req.VaultID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	events = filterByType(events, req.Types)

	out := Response{Events: events, Counts: countByType(events)}
	if u.Runs != nil {
		runs, err := u.Runs.ListByVaultID(ctx, req.VaultID, defaultRunLimit)
		if err != nil {
			return Response{}, err
		}
		out.Runs = runs
	}
	return out, nil
}

func filterByTimeWindow(events []vault.DomainEvent, from, to int64) []vault.DomainEvent {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]vault.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func filterByType(events []vault.DomainEvent, types []string) []vault.DomainEvent {
	if len(types) == 0 {
		return events
	}
	want := make(map[string]bool, len(types))
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			want[t] = true
		}
	}
	if len(want) == 0 {
		return events
	}
	out := make([]vault.DomainEvent, 0, len(events))
	for _, evt := range events {
		if want[evt.Type] {
			out = append(out, evt)
		}
	}
	return out
}

func countByType(events []vault.DomainEvent) map[string]int {
	counts := make(map[string]int)
	for _, evt := range events {
		counts[evt.Type]++
	}
	return counts
}
