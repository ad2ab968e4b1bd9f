// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Secret Santa API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Public:

	GET  /health
	GET  /
	POST /auth/register
	POST /auth/login
	POST /auth/refresh

Everything else requires an "Authorization: Bearer <token>" header:

	POST   /auth/logout
	GET    /auth/me

	POST   /friends/requests
	POST   /friends/requests/{id}/respond
	GET    /friends
	GET    /friends/pending
	POST   /friends/cleanup

	GET    /notifications
	GET    /notifications/unread-count
	GET    /notifications/event-invites
	POST   /notifications/{id}/read
	DELETE /notifications/{id}

	POST   /events
	GET    /events
	GET    /events/{id}
	DELETE /events/{id}
	POST   /events/{id}/invite
	POST   /events/{id}/join
	PUT    /events/{id}/wishlist
	POST   /events/{id}/draw
	GET    /events/{id}/target

All API routes are wrapped in middleware.WithLogging.
*/
package router
