// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Secret Santa API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: Registration, login, token refresh
  - FriendHandler: Friend requests and friend lists
  - NotificationHandler: Inbox, unread count, invite listing
  - EventHandler: Event lifecycle, invitations, joining, wish lists
  - DrawHandler: Drawing an event and revealing a participant's target

Handlers are created via constructor functions that accept *sql.DB and Config:

	eventHandler := handlers.NewEventHandler(db, cfg)

Every handler except register, login and refresh expects the caller's id in
the request context, put there by middleware.RequireAuth.

# Event Lifecycle

An event is open until it is drawn, and drawn until it is deleted:

	POST /events             → Create (organizer joins, friends invited)
	POST /events/{id}/invite → Invite (organizer only, open events only)
	POST /events/{id}/join   → Join (accept or decline, open events only)
	POST /events/{id}/draw   → Draw (organizer only, at least 3 participants)
	GET  /events/{id}/target → Target (your own target, drawn events only)

Participant entries returned by the event endpoints never carry targets.

# Draw Errors

Draw and Target answer denials with a stable code next to the message:

	{"error": "Conflict", "message": "already drawn", "code": "ALREADY_DRAWN"}

Persistence failures are reported as DRAW_FAILED without detail.

# Notifications

Invitations sent while creating an event and the DRAW_COMPLETED fan-out are
delivered by notify.Notifier after the main write has committed. A failed
notification is logged and never fails the request.
*/
package handlers
