// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/models"
)

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "password123"

// bcrypt at DefaultCost is slow enough to dominate handler tests
var testPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
})

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      ":memory:",
		DatabaseType:     db.TypeSQLite,
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTTL:        time.Hour,
		RefreshTTL:       24 * time.Hour,
		RequestTimeout:   5 * time.Second,
	}
}

// CreateTestUser inserts a user named name with email <name>@example.com
func CreateTestUser(t *testing.T, conn *sql.DB, name string) uuid.UUID {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, name, strings.ToLower(name)+"@example.com", testPasswordHash(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// MakeFriends inserts an ACCEPTED friendship between a and b
func MakeFriends(t *testing.T, conn *sql.DB, a, b uuid.UUID) uuid.UUID {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO friendship (id, sender_id, receiver_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, a, b, models.FriendshipAccepted, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test friendship: %v", err)
	}

	return id
}

// CreateTestEvent creates an event a month from now with organizerID as its
// first participant
func CreateTestEvent(t *testing.T, conn *sql.DB, organizerID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	eventID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO event (id, name, date, budget, organizer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, eventID, name, time.Now().UTC().AddDate(0, 1, 0), 50.0, organizerID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	AddTestParticipant(t, conn, eventID, organizerID)
	return eventID
}

// AddTestParticipant adds userID to an event and returns the participant id
func AddTestParticipant(t *testing.T, conn *sql.DB, eventID, userID uuid.UUID) uuid.UUID {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO participant (id, event_id, user_id, joined_at)
		VALUES ($1, $2, $3, $4)
	`, id, eventID, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add test participant: %v", err)
	}

	return id
}

// CreateTestInvite inserts an unanswered EVENT_INVITE from sender to receiver
func CreateTestInvite(t *testing.T, conn *sql.DB, eventID, senderID, receiverID uuid.UUID) uuid.UUID {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO notification (id, type, content, read, sender_id, receiver_id, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, models.NotificationEventInvite, "You are invited", false, senderID, receiverID, eventID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test invite: %v", err)
	}

	return id
}

// AuthHeader returns an Authorization header with a fresh access token
func AuthHeader(t *testing.T, cfg cliparse.Config, userID uuid.UUID) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(userID, cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the machine-readable code of an error response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Code != code {
		t.Errorf("Expected error code %s, got %s (%s)", code, resp.Code, resp.Message)
	}
}
