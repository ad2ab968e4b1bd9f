// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/handlers"
	"github.com/danielhkuo/secret-santa/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	friendHandler := handlers.NewFriendHandler(db, cfg)
	notificationHandler := handlers.NewNotificationHandler(db, cfg)
	eventHandler := handlers.NewEventHandler(db, cfg)
	drawHandler := handlers.NewDrawHandler(db, cfg)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	public := middleware.WithLogging
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(requireAuth(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/register", public(authHandler.Register))
	mux.HandleFunc("POST /auth/login", public(authHandler.Login))
	mux.HandleFunc("POST /auth/refresh", public(authHandler.Refresh))
	mux.HandleFunc("POST /auth/logout", private(authHandler.Logout))
	mux.HandleFunc("GET /auth/me", private(authHandler.Me))

	// Friends
	mux.HandleFunc("POST /friends/requests", private(friendHandler.SendRequest))
	mux.HandleFunc("POST /friends/requests/{id}/respond", private(friendHandler.Respond))
	mux.HandleFunc("GET /friends", private(friendHandler.ListFriends))
	mux.HandleFunc("GET /friends/pending", private(friendHandler.ListPending))
	mux.HandleFunc("POST /friends/cleanup", private(friendHandler.Cleanup))

	// Notifications
	mux.HandleFunc("GET /notifications", private(notificationHandler.List))
	mux.HandleFunc("GET /notifications/unread-count", private(notificationHandler.UnreadCount))
	mux.HandleFunc("GET /notifications/event-invites", private(notificationHandler.EventInvites))
	mux.HandleFunc("POST /notifications/{id}/read", private(notificationHandler.MarkRead))
	mux.HandleFunc("DELETE /notifications/{id}", private(notificationHandler.Delete))

	// Events
	mux.HandleFunc("POST /events", private(eventHandler.Create))
	mux.HandleFunc("GET /events", private(eventHandler.List))
	mux.HandleFunc("GET /events/{id}", private(eventHandler.Get))
	mux.HandleFunc("DELETE /events/{id}", private(eventHandler.Delete))
	mux.HandleFunc("POST /events/{id}/invite", private(eventHandler.Invite))
	mux.HandleFunc("POST /events/{id}/join", private(eventHandler.Join))
	mux.HandleFunc("PUT /events/{id}/wishlist", private(eventHandler.UpdateWishList))

	// Drawing
	mux.HandleFunc("POST /events/{id}/draw", private(drawHandler.Draw))
	mux.HandleFunc("GET /events/{id}/target", private(drawHandler.Target))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret-santa API v1"))
	})

	return mux
}
