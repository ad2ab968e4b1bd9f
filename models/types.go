// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Friendship status constants
const (
	FriendshipPending  = "PENDING"
	FriendshipAccepted = "ACCEPTED"
	FriendshipRejected = "REJECTED"
)

// Notification type constants
const (
	NotificationFriendRequest = "FRIEND_REQUEST"
	NotificationEventInvite   = "EVENT_INVITE"
	NotificationDrawCompleted = "DRAW_COMPLETED"
)

// Invitation response constants
const (
	ResponseAccepted = "accepted"
	ResponseDeclined = "declined"
)

// Request types

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type FriendRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RespondFriendRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type CreateEventRequest struct {
	Name           string      `json:"name" validate:"required,min=3,max=100"`
	Date           time.Time   `json:"date" validate:"required"`
	Budget         float64     `json:"budget" validate:"required,gt=0"`
	InvitedFriends []uuid.UUID `json:"invited_friends" validate:"required,min=2,unique,dive,required"`
}

type InviteRequest struct {
	InvitedUserID uuid.UUID `json:"invited_user_id" validate:"required"`
}

type JoinEventRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type WishListRequest struct {
	Items []string `json:"items" validate:"required,min=1,dive,required,max=500"`
}

// Response types

type AuthResponse struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type EventResponse struct {
	Event Event `json:"event"`
}

type EventsResponse struct {
	Events []Event `json:"events"`
}

type FriendsResponse struct {
	Friends []User `json:"friends"`
}

type FriendRequestsResponse struct {
	Requests []FriendRequest `json:"requests"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type TargetEvent struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
	Budget float64   `json:"budget"`
}

type TargetResponse struct {
	Target User        `json:"target"`
	Event  TargetEvent `json:"event"`
}

// Domain types

// User is the public identity of an account. The password hash never
// leaves the database layer.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Participant is one member of an event as seen by API clients. The drawn
// target is deliberately absent; it is only available through the reveal
// endpoint.
type Participant struct {
	ID       uuid.UUID `json:"id"`
	User     User      `json:"user"`
	WishList []string  `json:"wish_list,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

type Event struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Date         time.Time     `json:"date"`
	Budget       float64       `json:"budget"`
	Organizer    User          `json:"organizer"`
	Drawn        bool          `json:"drawn"`
	Participants []Participant `json:"participants"`
	CreatedAt    time.Time     `json:"created_at"`
}

type FriendRequest struct {
	ID        uuid.UUID `json:"id"`
	Sender    User      `json:"sender"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Content      string     `json:"content"`
	Read         bool       `json:"read"`
	Response     *string    `json:"response,omitempty"`
	Sender       User       `json:"sender"`
	EventID      *uuid.UUID `json:"event_id,omitempty"`
	FriendshipID *uuid.UUID `json:"friendship_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
