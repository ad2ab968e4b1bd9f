// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
)

type NotificationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewNotificationHandler(db *sql.DB, cfg cliparse.Config) *NotificationHandler {
	return &NotificationHandler{db: db, cfg: cfg}
}

const notificationColumns = `
	n.id, n.type, n.content, n.read, n.response, n.event_id, n.friendship_id, n.created_at,
	u.id, u.name, u.email
`

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request, where string, args ...any) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT `+notificationColumns+`
		FROM notification n
		JOIN users u ON u.id = n.sender_id
		WHERE `+where+`
		ORDER BY n.created_at DESC, n.id
	`, args...)
	if err != nil {
		dbError(w, "failed to query notifications", err)
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var (
			n            models.Notification
			response     sql.NullString
			eventID      uuid.NullUUID
			friendshipID uuid.NullUUID
		)
		if err := rows.Scan(&n.ID, &n.Type, &n.Content, &n.Read, &response, &eventID, &friendshipID, &n.CreatedAt,
			&n.Sender.ID, &n.Sender.Name, &n.Sender.Email); err != nil {
			dbError(w, "failed to scan notification", err)
			return
		}
		if response.Valid {
			n.Response = &response.String
		}
		if eventID.Valid {
			n.EventID = &eventID.UUID
		}
		if friendshipID.Valid {
			n.FriendshipID = &friendshipID.UUID
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		dbError(w, "failed to iterate notifications", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NotificationsResponse{Notifications: notifications})
}

// List handles GET /notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.list(w, r, "n.receiver_id = $1", userID)
}

// EventInvites handles GET /notifications/event-invites
func (h *NotificationHandler) EventInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	h.list(w, r, "n.receiver_id = $1 AND n.type = $2 AND n.response IS NULL",
		userID, models.NotificationEventInvite)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var count int
	err := h.db.QueryRowContext(r.Context(),
		"SELECT COUNT(*) FROM notification WHERE receiver_id = $1 AND read = $2", userID, false).
		Scan(&count)
	if err != nil {
		dbError(w, "failed to count notifications", err, "user_id", userID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CountResponse{Count: count})
}

// MarkRead handles POST /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	notificationID, ok := pathID(w, r, "notification")
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"UPDATE notification SET read = $1 WHERE id = $2 AND receiver_id = $3", true, notificationID, userID)
	if err != nil {
		dbError(w, "failed to mark notification read", err, "notification_id", notificationID)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Notification not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Notification marked as read"})
}

// Delete handles DELETE /notifications/{id}. Deleting a friend request
// notification withdraws the friendship it belongs to.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	notificationID, ok := pathID(w, r, "notification")
	if !ok {
		return
	}

	ctx := r.Context()
	err := db.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		var kind string
		var friendshipID uuid.NullUUID
		err := tx.QueryRowContext(ctx,
			"SELECT type, friendship_id FROM notification WHERE id = $1 AND receiver_id = $2",
			notificationID, userID).Scan(&kind, &friendshipID)
		if errors.Is(err, sql.ErrNoRows) {
			return errNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM notification WHERE id = $1", notificationID); err != nil {
			return err
		}
		if kind == models.NotificationFriendRequest && friendshipID.Valid {
			if _, err := tx.ExecContext(ctx, "DELETE FROM friendship WHERE id = $1", friendshipID.UUID); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		dbError(w, "failed to delete notification", err, "notification_id", notificationID)
		return
	}

	slog.Info("notification deleted", "notification_id", notificationID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Notification deleted"})
}
