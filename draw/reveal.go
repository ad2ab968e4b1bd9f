// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Reveal is what a participant learns about their own assignment.
type Reveal struct {
	Target      Identity
	EventID     uuid.UUID
	EventName   string
	EventDate   time.Time
	EventBudget float64
}

// RevealTarget returns the target assigned to requester in eventID and
// nothing else. It never exposes who drew requester, nor any other pair.
// Absent event, non-participant and undrawn event all yield CodeNotFound.
func RevealTarget(ctx context.Context, r Reader, eventID, requester uuid.UUID) (*Reveal, error) {
	ev, err := r.LoadEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		slog.Error("failed to load event for reveal", "event_id", eventID, "error", err)
		return nil, newError(CodeDrawFailed, "load event", err)
	}

	slot, ok := ev.Slot(requester)
	if !ok {
		return nil, newError(CodeNotFound, "participant not found", nil)
	}
	if !slot.TargetID.Valid {
		return nil, newError(CodeNotFound, "draw not yet performed", nil)
	}

	target, err := r.LoadIdentity(ctx, slot.TargetID.UUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(CodeNotFound, "target user not found", nil)
		}
		slog.Error("failed to load target identity", "event_id", eventID, "error", err)
		return nil, newError(CodeDrawFailed, "load target", err)
	}

	return &Reveal{
		Target:      *target,
		EventID:     ev.ID,
		EventName:   ev.Name,
		EventDate:   ev.Date,
		EventBudget: ev.Budget,
	}, nil
}
