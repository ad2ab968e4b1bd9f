// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/notify"
)

type EventHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	notifier *notify.Notifier
}

func NewEventHandler(db *sql.DB, cfg cliparse.Config) *EventHandler {
	return &EventHandler{db: db, cfg: cfg, notifier: notify.New(db)}
}

var (
	errDrawn         = errors.New("event already drawn")
	errAlreadyMember = errors.New("already a participant")
)

// loadEvent reads an event with its organizer and participants. Targets are
// never selected.
func loadEvent(ctx context.Context, q queryer, eventID uuid.UUID) (*models.Event, error) {
	var ev models.Event
	var drawnAt sql.NullTime
	err := q.QueryRowContext(ctx, `
		SELECT e.id, e.name, e.date, e.budget, e.drawn_at, e.created_at, u.id, u.name, u.email
		FROM event e
		JOIN users u ON u.id = e.organizer_id
		WHERE e.id = $1
	`, eventID).Scan(&ev.ID, &ev.Name, &ev.Date, &ev.Budget, &drawnAt, &ev.CreatedAt,
		&ev.Organizer.ID, &ev.Organizer.Name, &ev.Organizer.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query event: %w", err)
	}
	ev.Drawn = drawnAt.Valid

	rows, err := q.QueryContext(ctx, `
		SELECT p.id, p.wish_list, p.joined_at, u.id, u.name, u.email
		FROM participant p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.joined_at, p.id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	ev.Participants = []models.Participant{}
	for rows.Next() {
		var p models.Participant
		var wishList sql.NullString
		if err := rows.Scan(&p.ID, &wishList, &p.JoinedAt, &p.User.ID, &p.User.Name, &p.User.Email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if wishList.Valid {
			if err := json.Unmarshal([]byte(wishList.String), &p.WishList); err != nil {
				slog.Warn("ignoring malformed wish list", "participant_id", p.ID, "error", err)
			}
		}
		ev.Participants = append(ev.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	return &ev, nil
}

func isMember(ev *models.Event, userID uuid.UUID) bool {
	if ev.Organizer.ID == userID {
		return true
	}
	for _, p := range ev.Participants {
		if p.User.ID == userID {
			return true
		}
	}
	return false
}

func areFriends(ctx context.Context, q queryer, a, b uuid.UUID) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM friendship
		WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		AND status = $3
	`, a, b, models.FriendshipAccepted).Scan(&count)
	return count > 0, err
}

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	if !req.Date.After(now) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be in the future")
		return
	}

	ctx := r.Context()
	for _, friendID := range req.InvitedFriends {
		if friendID == userID {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot invite yourself")
			return
		}
		friends, err := areFriends(ctx, h.db, userID, friendID)
		if err != nil {
			dbError(w, "failed to query friendship", err, "user_id", userID)
			return
		}
		if !friends {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Only friends can be invited")
			return
		}
	}

	organizer, err := loadUser(ctx, h.db, userID)
	if err != nil {
		dbError(w, "failed to query user", err, "user_id", userID)
		return
	}

	eventID := auth.NewID()
	name := strings.TrimSpace(req.Name)
	err = db.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		createdAt := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event (id, name, date, budget, organizer_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, eventID, name, req.Date.UTC(), req.Budget, userID, createdAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participant (id, event_id, user_id, joined_at)
			VALUES ($1, $2, $3, $4)
		`, auth.NewID(), eventID, userID, createdAt)
		return err
	})
	if err != nil {
		dbError(w, "failed to create event", err, "user_id", userID)
		return
	}

	slog.Info("event created", "event_id", eventID, "organizer_id", userID, "invited", len(req.InvitedFriends))

	// Invitations are best-effort; the event exists either way
	content := notify.InviteContent(organizer.Name, name, req.Date, req.Budget, now)
	invites := make([]notify.Notification, 0, len(req.InvitedFriends))
	for _, friendID := range req.InvitedFriends {
		invites = append(invites, notify.Notification{
			Type:       models.NotificationEventInvite,
			Content:    content,
			SenderID:   userID,
			ReceiverID: friendID,
			EventID:    uuid.NullUUID{UUID: eventID, Valid: true},
		})
	}
	h.notifier.Notify(ctx, invites...)

	ev, err := loadEvent(ctx, h.db, eventID)
	if err != nil {
		dbError(w, "failed to load event", err, "event_id", eventID)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.EventResponse{Event: *ev})
}

// List handles GET /events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	rows, err := h.db.QueryContext(ctx, `
		SELECT DISTINCT e.id, e.created_at
		FROM event e
		LEFT JOIN participant p ON p.event_id = e.id
		WHERE e.organizer_id = $1 OR p.user_id = $1
		ORDER BY e.created_at DESC, e.id
	`, userID)
	if err != nil {
		dbError(w, "failed to query events", err, "user_id", userID)
		return
	}

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		var createdAt time.Time
		if err := rows.Scan(&id, &createdAt); err != nil {
			rows.Close()
			dbError(w, "failed to scan event", err)
			return
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		dbError(w, "failed to iterate events", err)
		return
	}

	events := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		ev, err := loadEvent(ctx, h.db, id)
		if errors.Is(err, errNotFound) {
			// Deleted since the id query
			continue
		}
		if err != nil {
			dbError(w, "failed to load event", err, "event_id", id)
			return
		}
		events = append(events, *ev)
	}

	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{Events: events})
}

// Get handles GET /events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "event")
	if !ok {
		return
	}

	ev, err := loadEvent(r.Context(), h.db, eventID)
	if errors.Is(err, errNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		dbError(w, "failed to load event", err, "event_id", eventID)
		return
	}

	if !isMember(ev, userID) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not a participant of this event")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EventResponse{Event: *ev})
}

// Invite handles POST /events/{id}/invite
func (h *EventHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "event")
	if !ok {
		return
	}

	var req models.InviteRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	ev, err := loadEvent(ctx, h.db, eventID)
	if errors.Is(err, errNotFound) || (err == nil && ev.Organizer.ID != userID) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found or you are not the organizer")
		return
	}
	if err != nil {
		dbError(w, "failed to load event", err, "event_id", eventID)
		return
	}

	if ev.Drawn {
		middleware.ErrorResponse(w, http.StatusConflict, "Draw already performed")
		return
	}
	if isMember(ev, req.InvitedUserID) {
		middleware.ErrorResponse(w, http.StatusConflict, "User is already a participant")
		return
	}

	if _, err := loadUser(ctx, h.db, req.InvitedUserID); errors.Is(err, errNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		dbError(w, "failed to query user", err, "user_id", req.InvitedUserID)
		return
	}

	_, err = notify.Insert(ctx, h.db, notify.Notification{
		Type:       models.NotificationEventInvite,
		Content:    notify.InviteContent(ev.Organizer.Name, ev.Name, ev.Date, ev.Budget, time.Now()),
		SenderID:   userID,
		ReceiverID: req.InvitedUserID,
		EventID:    uuid.NullUUID{UUID: eventID, Valid: true},
	})
	if err != nil {
		dbError(w, "failed to create invitation", err, "event_id", eventID)
		return
	}

	slog.Info("participant invited", "event_id", eventID, "invited_user_id", req.InvitedUserID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Invitation sent"})
}

// Join handles POST /events/{id}/join. accept=false records a decline on the
// pending invitation; accept=true adds the caller as a participant.
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "event")
	if !ok {
		return
	}

	var req models.JoinEventRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	if !*req.Accept {
		h.decline(w, r, eventID, userID)
		return
	}

	ctx := r.Context()
	err := db.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		// Lock the event row so a concurrent draw either sees this member or
		// commits before it is added.
		res, err := tx.ExecContext(ctx, "UPDATE event SET drawn_at = drawn_at WHERE id = $1", eventID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errNotFound
		}

		var drawnAt sql.NullTime
		if err := tx.QueryRowContext(ctx, "SELECT drawn_at FROM event WHERE id = $1", eventID).Scan(&drawnAt); err != nil {
			return err
		}
		if drawnAt.Valid {
			return errDrawn
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM participant WHERE event_id = $1 AND user_id = $2", eventID, userID).
			Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return errAlreadyMember
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO participant (id, event_id, user_id, joined_at)
			VALUES ($1, $2, $3, $4)
		`, auth.NewID(), eventID, userID, time.Now().UTC()); err != nil {
			if db.IsUniqueViolation(err) {
				return errAlreadyMember
			}
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE notification SET read = $1, response = $2
			WHERE event_id = $3 AND receiver_id = $4 AND type = $5 AND response IS NULL
		`, true, models.ResponseAccepted, eventID, userID, models.NotificationEventInvite)
		return err
	})
	switch {
	case errors.Is(err, errNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	case errors.Is(err, errDrawn):
		middleware.ErrorResponse(w, http.StatusConflict, "Draw already performed")
		return
	case errors.Is(err, errAlreadyMember):
		middleware.ErrorResponse(w, http.StatusConflict, "Already a participant")
		return
	case err != nil:
		dbError(w, "failed to join event", err, "event_id", eventID, "user_id", userID)
		return
	}

	slog.Info("participant joined", "event_id", eventID, "user_id", userID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Joined event"})
}

func (h *EventHandler) decline(w http.ResponseWriter, r *http.Request, eventID, userID uuid.UUID) {
	res, err := h.db.ExecContext(r.Context(), `
		UPDATE notification SET read = $1, response = $2
		WHERE event_id = $3 AND receiver_id = $4 AND type = $5 AND response IS NULL
	`, true, models.ResponseDeclined, eventID, userID, models.NotificationEventInvite)
	if err != nil {
		dbError(w, "failed to decline invitation", err, "event_id", eventID)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Invitation not found")
		return
	}

	slog.Info("invitation declined", "event_id", eventID, "user_id", userID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Invitation declined"})
}

// UpdateWishList handles PUT /events/{id}/wishlist
func (h *EventHandler) UpdateWishList(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "event")
	if !ok {
		return
	}

	var req models.WishListRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	items, err := json.Marshal(req.Items)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid wish list")
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"UPDATE participant SET wish_list = $1 WHERE event_id = $2 AND user_id = $3",
		string(items), eventID, userID)
	if err != nil {
		dbError(w, "failed to update wish list", err, "event_id", eventID)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Wish list updated"})
}

// Delete handles DELETE /events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := pathID(w, r, "event")
	if !ok {
		return
	}

	ctx := r.Context()
	var organizerID uuid.UUID
	err := h.db.QueryRowContext(ctx, "SELECT organizer_id FROM event WHERE id = $1", eventID).Scan(&organizerID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		dbError(w, "failed to query event", err, "event_id", eventID)
		return
	}
	if organizerID != userID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the organizer can delete the event")
		return
	}

	err = db.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM notification WHERE event_id = $1",
			"DELETE FROM participant WHERE event_id = $1",
			"DELETE FROM event WHERE id = $1",
		} {
			if _, err := tx.ExecContext(ctx, stmt, eventID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		dbError(w, "failed to delete event", err, "event_id", eventID)
		return
	}

	slog.Info("event deleted", "event_id", eventID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Event deleted"})
}
