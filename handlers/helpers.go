// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/draw"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
)

// errNotFound is returned by the loaders in this package when a row is absent
var errNotFound = errors.New("not found")

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// currentUser returns the authenticated caller or writes a 401
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the {id} path value or writes a 400
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := auth.ParseID(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

// writeDrawError maps a draw.Error onto its status and stable code
func writeDrawError(w http.ResponseWriter, err error) {
	var de *draw.Error
	if !errors.As(err, &de) {
		de = draw.ErrDrawFailed
	}
	message := de.Message
	if de.Code == draw.CodeDrawFailed || de.Code == draw.CodeInternal {
		// Never leak driver or internal details
		message = "Draw failed, please try again"
	}
	middleware.CodedErrorResponse(w, de.Code.HTTPStatus(), string(de.Code), message)
}

func loadUser(ctx context.Context, q queryer, userID uuid.UUID) (models.User, error) {
	var u models.User
	var createdAt sql.NullTime
	err := q.QueryRowContext(ctx, "SELECT id, name, email, created_at FROM users WHERE id = $1", userID).
		Scan(&u.ID, &u.Name, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, errNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	if createdAt.Valid {
		u.CreatedAt = &createdAt.Time
	}
	return u, nil
}

// dbError logs err and writes a generic 500
func dbError(w http.ResponseWriter, msg string, err error, args ...any) {
	slog.Error(msg, append(args, "error", err)...)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
