// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
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

type FriendHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewFriendHandler(db *sql.DB, cfg cliparse.Config) *FriendHandler {
	return &FriendHandler{db: db, cfg: cfg}
}

var errConflict = errors.New("conflict")

// SendRequest handles POST /friends/requests
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.FriendRequestRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var receiverID uuid.UUID
	err := h.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&receiverID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		dbError(w, "failed to query user", err)
		return
	}
	if receiverID == userID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cannot send a friend request to yourself")
		return
	}

	sender, err := loadUser(ctx, h.db, userID)
	if err != nil {
		dbError(w, "failed to query user", err, "user_id", userID)
		return
	}

	friendshipID := auth.NewID()
	createdAt := time.Now().UTC()
	var conflictMsg string
	err = db.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		var existingID uuid.UUID
		var status string
		err := tx.QueryRowContext(ctx, `
			SELECT id, status FROM friendship
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		`, userID, receiverID).Scan(&existingID, &status)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return err
		case status == models.FriendshipPending:
			conflictMsg = "Friend request already pending"
			return errConflict
		case status == models.FriendshipAccepted:
			conflictMsg = "Already friends"
			return errConflict
		default:
			// A rejected request may be sent again
			if _, err := tx.ExecContext(ctx, "DELETE FROM friendship WHERE id = $1", existingID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO friendship (id, sender_id, receiver_id, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, friendshipID, userID, receiverID, models.FriendshipPending, createdAt); err != nil {
			return err
		}

		_, err = notify.Insert(ctx, tx, notify.Notification{
			Type:         models.NotificationFriendRequest,
			Content:      notify.FriendRequestContent(sender.Name),
			SenderID:     userID,
			ReceiverID:   receiverID,
			FriendshipID: uuid.NullUUID{UUID: friendshipID, Valid: true},
		})
		return err
	})
	if errors.Is(err, errConflict) {
		middleware.ErrorResponse(w, http.StatusConflict, conflictMsg)
		return
	}
	if err != nil {
		dbError(w, "failed to create friend request", err, "user_id", userID)
		return
	}

	slog.Info("friend request sent", "friendship_id", friendshipID, "sender_id", userID, "receiver_id", receiverID)

	middleware.JSONResponse(w, http.StatusCreated, models.FriendRequest{
		ID:        friendshipID,
		Sender:    sender,
		Status:    models.FriendshipPending,
		CreatedAt: createdAt,
	})
}

// Respond handles POST /friends/requests/{id}/respond
func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	friendshipID, ok := pathID(w, r, "friend request")
	if !ok {
		return
	}

	var req models.RespondFriendRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}
	accept := *req.Accept

	ctx := r.Context()
	var senderID uuid.UUID
	err := h.db.QueryRowContext(ctx, `
		SELECT sender_id FROM friendship
		WHERE id = $1 AND receiver_id = $2 AND status = $3
	`, friendshipID, userID, models.FriendshipPending).Scan(&senderID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Friend request not found")
		return
	}
	if err != nil {
		dbError(w, "failed to query friendship", err, "friendship_id", friendshipID)
		return
	}

	me, err := loadUser(ctx, h.db, userID)
	if err != nil {
		dbError(w, "failed to query user", err, "user_id", userID)
		return
	}

	err = db.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM notification WHERE friendship_id = $1", friendshipID); err != nil {
			return err
		}

		var res sql.Result
		var err error
		if accept {
			res, err = tx.ExecContext(ctx,
				"UPDATE friendship SET status = $1 WHERE id = $2 AND status = $3",
				models.FriendshipAccepted, friendshipID, models.FriendshipPending)
		} else {
			res, err = tx.ExecContext(ctx,
				"DELETE FROM friendship WHERE id = $1 AND status = $2",
				friendshipID, models.FriendshipPending)
		}
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n != 1 {
			// Answered concurrently
			return errNotFound
		}

		_, err = notify.Insert(ctx, tx, notify.Notification{
			Type:       models.NotificationFriendRequest,
			Content:    notify.FriendResponseContent(me.Name, accept),
			SenderID:   userID,
			ReceiverID: senderID,
		})
		return err
	})
	if errors.Is(err, errNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Friend request not found")
		return
	}
	if err != nil {
		dbError(w, "failed to respond to friend request", err, "friendship_id", friendshipID)
		return
	}

	slog.Info("friend request answered", "friendship_id", friendshipID, "accepted", accept)

	message := "Friend request declined"
	if accept {
		message = "Friend request accepted"
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: message})
}

// ListFriends handles GET /friends
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT u.id, u.name, u.email
		FROM friendship f
		JOIN users u ON u.id = CASE WHEN f.sender_id = $1 THEN f.receiver_id ELSE f.sender_id END
		WHERE (f.sender_id = $1 OR f.receiver_id = $1) AND f.status = $2
		ORDER BY u.name, u.id
	`, userID, models.FriendshipAccepted)
	if err != nil {
		dbError(w, "failed to query friends", err, "user_id", userID)
		return
	}
	defer rows.Close()

	friends := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			dbError(w, "failed to scan friend", err)
			return
		}
		friends = append(friends, u)
	}
	if err := rows.Err(); err != nil {
		dbError(w, "failed to iterate friends", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.FriendsResponse{Friends: friends})
}

// ListPending handles GET /friends/pending
func (h *FriendHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT f.id, f.status, f.created_at, u.id, u.name, u.email
		FROM friendship f
		JOIN users u ON u.id = f.sender_id
		WHERE f.receiver_id = $1 AND f.status = $2
		ORDER BY f.created_at DESC, f.id
	`, userID, models.FriendshipPending)
	if err != nil {
		dbError(w, "failed to query friend requests", err, "user_id", userID)
		return
	}
	defer rows.Close()

	requests := []models.FriendRequest{}
	for rows.Next() {
		var fr models.FriendRequest
		if err := rows.Scan(&fr.ID, &fr.Status, &fr.CreatedAt, &fr.Sender.ID, &fr.Sender.Name, &fr.Sender.Email); err != nil {
			dbError(w, "failed to scan friend request", err)
			return
		}
		requests = append(requests, fr)
	}
	if err := rows.Err(); err != nil {
		dbError(w, "failed to iterate friend requests", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.FriendRequestsResponse{Requests: requests})
}

// Cleanup handles POST /friends/cleanup. It drops rejected friendships and
// friend-request notifications whose friendship no longer exists.
func (h *FriendHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	ctx := r.Context()
	var removed int64
	err := db.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM friendship WHERE status = $1", models.FriendshipRejected)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		removed += n

		res, err = tx.ExecContext(ctx, `
			DELETE FROM notification
			WHERE type = $1 AND friendship_id IS NOT NULL
			AND friendship_id NOT IN (SELECT id FROM friendship)
		`, models.NotificationFriendRequest)
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		removed += n
		return nil
	})
	if err != nil {
		dbError(w, "failed to clean up friend requests", err)
		return
	}

	slog.Info("friend requests cleaned up", "removed", removed)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Cleanup complete"})
}
