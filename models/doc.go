// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON. Their validate tags are enforced by
middleware.DecodeAndValidate:

  - RegisterRequest: name (3-100), email, password (6+)
  - LoginRequest, RefreshRequest
  - FriendRequestRequest: email
  - RespondFriendRequest, JoinEventRequest: accept (required, may be false)
  - CreateEventRequest: name, date, budget (> 0), invited_friends (2+, unique)
  - InviteRequest: invited_user_id
  - WishListRequest: items (1+)

# Response Types

  - AuthResponse: user, token, refresh_token
  - MessageResponse, CountResponse
  - EventResponse, EventsResponse
  - FriendsResponse, FriendRequestsResponse, NotificationsResponse
  - TargetResponse: target, event
  - ErrorResponse: error, message, code

# Domain Types

  - User: public identity (never the password hash)
  - Event: event with organizer, drawn flag and participants
  - Participant: member of an event; the drawn target is not part of it
  - FriendRequest, Notification

# Constants

Friendship status:

	FriendshipPending  = "PENDING"
	FriendshipAccepted = "ACCEPTED"
	FriendshipRejected = "REJECTED"

Notification types:

	NotificationFriendRequest = "FRIEND_REQUEST"
	NotificationEventInvite   = "EVENT_INVITE"
	NotificationDrawCompleted = "DRAW_COMPLETED"

Invite responses:

	ResponseAccepted = "accepted"
	ResponseDeclined = "declined"
*/
package models
