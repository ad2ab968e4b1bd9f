// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package draw

import (
	"time"

	"github.com/google/uuid"
)

// MinParticipants is the smallest participant set a draw accepts.
const MinParticipants = 3

// Slot is one participant row as seen by the draw core.
type Slot struct {
	MemberID uuid.UUID
	TargetID uuid.NullUUID
}

// Event is the drawing-relevant view of an event. Participants are in
// loader order, which is also the order the generator output is aligned to.
type Event struct {
	ID           uuid.UUID
	Name         string
	Date         time.Time
	Budget       float64
	OrganizerID  uuid.UUID
	Participants []Slot
}

// Drawn reports whether any participant already has a target.
func (e *Event) Drawn() bool {
	for _, p := range e.Participants {
		if p.TargetID.Valid {
			return true
		}
	}
	return false
}

// MemberIDs returns the participant user ids in loader order.
func (e *Event) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(e.Participants))
	for i, p := range e.Participants {
		ids[i] = p.MemberID
	}
	return ids
}

// Slot returns the participant row of userID, if any.
func (e *Event) Slot(userID uuid.UUID) (Slot, bool) {
	for _, p := range e.Participants {
		if p.MemberID == userID {
			return p, true
		}
	}
	return Slot{}, false
}

// Authorize decides whether requester may draw ev. A nil ev means the event
// does not exist. Checks short-circuit in order: existence, organizer,
// already drawn, participant count.
func Authorize(ev *Event, requester uuid.UUID) error {
	if ev == nil {
		return ErrNotFound
	}
	if ev.OrganizerID != requester {
		return ErrForbidden
	}
	if ev.Drawn() {
		return ErrAlreadyDrawn
	}
	if len(ev.Participants) < MinParticipants {
		return ErrInsufficientParticipants
	}
	return nil
}
