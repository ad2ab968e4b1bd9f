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

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
)

type AuthHandler struct {
	db   *sql.DB
	cfg  cliparse.Config
	keys auth.Keys
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, keys: cfg.TokenKeys()}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	userID := auth.NewID()
	createdAt := time.Now().UTC()
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, name, email, hash, createdAt)
	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		dbError(w, "failed to insert user", err)
		return
	}

	tokens, err := h.keys.Issue(userID)
	if err != nil {
		slog.Error("failed to issue tokens", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("user registered", "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		User:         models.User{ID: userID, Name: name, Email: email, CreatedAt: &createdAt},
		Token:        tokens.Access,
		RefreshToken: tokens.Refresh,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	var hash string
	err := h.db.QueryRowContext(r.Context(),
		"SELECT id, name, email, password_hash FROM users WHERE email = $1", email).
		Scan(&user.ID, &user.Name, &user.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		dbError(w, "failed to query user", err)
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokens, err := h.keys.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue tokens", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		User:         user,
		Token:        tokens.Access,
		RefreshToken: tokens.Refresh,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, err := auth.ParseToken(req.RefreshToken, h.keys.RefreshSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := loadUser(r.Context(), h.db, userID)
	if errors.Is(err, errNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if err != nil {
		dbError(w, "failed to query user", err, "user_id", userID)
		return
	}

	tokens, err := h.keys.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue tokens", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		User:         user,
		Token:        tokens.Access,
		RefreshToken: tokens.Refresh,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so the client
// simply discards them.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := loadUser(r.Context(), h.db, userID)
	if errors.Is(err, errNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		dbError(w, "failed to query user", err, "user_id", userID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}
