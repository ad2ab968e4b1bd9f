// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/draw"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/notify"
)

type DrawHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	store    *db.DrawStore
	drawer   *draw.Drawer
	notifier *notify.Notifier
}

func NewDrawHandler(conn *sql.DB, cfg cliparse.Config) *DrawHandler {
	store := db.NewDrawStore(conn)
	return &DrawHandler{
		db:       conn,
		cfg:      cfg,
		store:    store,
		drawer:   draw.NewDrawer(store),
		notifier: notify.New(conn),
	}
}

// drawEventID parses {id}. A malformed id cannot name an event, so it is reported
// the same way as an absent one.
func drawEventID(r *http.Request) (uuid.UUID, bool) {
	id, err := auth.ParseID(r.PathValue("id"))
	return id, err == nil
}

// Draw handles POST /events/{id}/draw
func (h *DrawHandler) Draw(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := drawEventID(r)
	if !ok {
		writeDrawError(w, draw.ErrNotFound)
		return
	}

	ctx := r.Context()
	if err := h.drawer.Execute(ctx, eventID, userID); err != nil {
		writeDrawError(w, err)
		return
	}

	// The draw is committed; notifications can no longer affect it
	if ev, err := h.store.LoadEvent(ctx, eventID); err == nil {
		h.notifier.Notify(ctx, notify.DrawCompleted(userID, eventID, ev.Name, ev.MemberIDs())...)
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Draw completed"})
}

// Target handles GET /events/{id}/target
func (h *DrawHandler) Target(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID, ok := drawEventID(r)
	if !ok {
		writeDrawError(w, draw.ErrNotFound)
		return
	}

	reveal, err := draw.RevealTarget(r.Context(), h.store, eventID, userID)
	if err != nil {
		writeDrawError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TargetResponse{
		Target: models.User{
			ID:    reveal.Target.ID,
			Name:  reveal.Target.Name,
			Email: reveal.Target.Email,
		},
		Event: models.TargetEvent{
			ID:     reveal.EventID,
			Name:   reveal.EventName,
			Date:   reveal.EventDate,
			Budget: reveal.EventBudget,
		},
	})
}
