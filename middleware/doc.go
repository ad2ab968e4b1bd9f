// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /events", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (duration_ms).

# Authentication

RequireAuth verifies an "Authorization: Bearer <token>" access token and
stores the caller's id in the request context:

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(requireAuth(h.Me)))

	userID, ok := middleware.UserID(r.Context())

Missing, malformed or expired tokens get a 401.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.CodedErrorResponse(w, http.StatusConflict, "ALREADY_DRAWN", "already drawn")

Parse and validate request bodies in one step. The validate struct tags of
the target are checked with go-playground/validator; the first failure is
reported by its JSON field name:

	var req models.RegisterRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
