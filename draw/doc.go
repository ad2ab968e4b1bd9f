// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package draw assigns every participant of a Secret Santa event a gift recipient.

# Derangement

Derange produces a permutation of participant ids with no fixed points, index
aligned with its input:

	targets, err := draw.Derange(members, nil)
	// targets[i] is the recipient of members[i], never members[i] itself

# Guard

Authorize checks, in order: the event exists, the requester is its organizer,
nobody has a target yet, and at least MinParticipants are registered.

# Execution

Drawer.Execute runs the guard, derives the assignment and persists it through
Store.RunAtomic. Inside the unit the event is flagged drawn with a
compare-and-set, the participant set is re-read, and each target is written
only where it is still null, so of two racing draws exactly one commits:

	err := draw.NewDrawer(store).Execute(ctx, eventID, userID)

# Reveal

RevealTarget returns the requester's own target plus event name, date and
budget. It never returns the full assignment map, not even to the organizer.

# Errors

Every denial is an *Error with a stable Code:

	NOT_FOUND                 404
	FORBIDDEN                 403
	ALREADY_DRAWN             409
	PARTICIPANTS_CHANGED      409
	INSUFFICIENT_PARTICIPANTS 422
	DRAW_FAILED               500 (rolled back)
	INTERNAL_LOGIC_ERROR      500 (logged with alert=true)
*/
package draw
