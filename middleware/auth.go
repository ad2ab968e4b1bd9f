// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/auth"
)

type contextKey struct{}

// RequireAuth verifies the bearer access token and stores the caller's id
// in the request context.
func RequireAuth(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			userID, err := auth.ParseToken(strings.TrimSpace(token), secret)
			if errors.Is(err, auth.ErrExpiredToken) {
				ErrorResponse(w, http.StatusUnauthorized, "Token expired")
				return
			}
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next(w, r.WithContext(WithUserID(r.Context(), userID)))
		}
	}
}

// WithUserID returns a context carrying the authenticated user id
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user id, if any
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}
