// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Identity is the public part of a user record.
type Identity struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Reader loads what the guard and the reveal gate need.
type Reader interface {
	// LoadEvent returns the event with its participants in join order, or
	// an error matching ErrNotFound.
	LoadEvent(ctx context.Context, eventID uuid.UUID) (*Event, error)
	// LoadIdentity returns a user's public identity, or an error matching
	// ErrNotFound.
	LoadIdentity(ctx context.Context, userID uuid.UUID) (*Identity, error)
}

// Writer is the write side available inside one atomic unit.
type Writer interface {
	// MarkDrawn flags the event as drawn unless it already is. It reports
	// false when the flag was already set.
	MarkDrawn(ctx context.Context, eventID uuid.UUID, at time.Time) (bool, error)
	// MemberIDs re-reads the participant set inside the unit.
	MemberIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	// AssignTarget sets the target of a participant whose target is still
	// null. It reports false when no row changed.
	AssignTarget(ctx context.Context, eventID, memberID, targetID uuid.UUID) (bool, error)
}

// Store is the persistence collaborator of the draw core.
type Store interface {
	Reader
	// RunAtomic executes fn so that its writes all commit or none do.
	RunAtomic(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}

// Drawer runs draws against a Store.
type Drawer struct {
	store Store
	rng   *rand.Rand
	now   func() time.Time
}

// NewDrawer returns a Drawer using the global random source.
func NewDrawer(store Store) *Drawer {
	return &Drawer{store: store, now: time.Now}
}

// WithRand returns a copy of d that draws from rng. The copy must not be used
// from more than one goroutine.
func (d *Drawer) WithRand(rng *rand.Rand) *Drawer {
	c := *d
	c.rng = rng
	return &c
}

// Execute draws eventID on behalf of requester. Denials from the guard are
// returned as-is; persistence failures roll the whole draw back and surface
// as CodeDrawFailed.
func (d *Drawer) Execute(ctx context.Context, eventID, requester uuid.UUID) error {
	ev, err := d.store.LoadEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		slog.Error("failed to load event for draw", "event_id", eventID, "error", err)
		return newError(CodeDrawFailed, "load event", err)
	}

	if err := Authorize(ev, requester); err != nil {
		return err
	}

	members := ev.MemberIDs()
	targets, err := Derange(members, d.rng)
	if err != nil {
		slog.Error("derangement failed", "event_id", eventID, "participants", len(members), "alert", true, "error", err)
		return newError(CodeInternal, "derangement failed", err)
	}

	err = d.store.RunAtomic(ctx, func(ctx context.Context, w Writer) error {
		marked, err := w.MarkDrawn(ctx, eventID, d.now())
		if err != nil {
			return err
		}
		if !marked {
			return ErrAlreadyDrawn
		}

		current, err := w.MemberIDs(ctx, eventID)
		if err != nil {
			return err
		}
		if !sameMembers(members, current) {
			return ErrParticipantsChanged
		}

		for i, member := range members {
			ok, err := w.AssignTarget(ctx, eventID, member, targets[i])
			if err != nil {
				return err
			}
			if !ok {
				return ErrAlreadyDrawn
			}
		}
		return nil
	})
	if err != nil {
		var de *Error
		if errors.As(err, &de) {
			slog.Warn("draw rejected", "event_id", eventID, "code", de.Code)
			return de
		}
		slog.Error("failed to persist draw", "event_id", eventID, "error", err)
		return newError(CodeDrawFailed, "persist draw", err)
	}

	slog.Info("draw completed", "event_id", eventID, "participants", len(members))
	return nil
}

func sameMembers(want, got []uuid.UUID) bool {
	if len(want) != len(got) {
		return false
	}
	set := make(map[uuid.UUID]struct{}, len(want))
	for _, id := range want {
		set[id] = struct{}{}
	}
	for _, id := range got {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
