// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/draw"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/testutil"
)

// call runs h with userID as the authenticated caller and id as the {id}
// path value. A nil userID means an anonymous request.
func call(h http.HandlerFunc, method, path, id string, body interface{}, userID uuid.UUID) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	if id != "" {
		req.SetPathValue("id", id)
	}
	if userID != uuid.Nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func countRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// targets reads the persisted assignment of an event
func targets(t *testing.T, conn *sql.DB, eventID uuid.UUID) map[uuid.UUID]uuid.NullUUID {
	t.Helper()
	rows, err := conn.Query("SELECT user_id, target_user_id FROM participant WHERE event_id = $1", eventID)
	if err != nil {
		t.Fatalf("Failed to query targets: %v", err)
	}
	defer rows.Close()

	out := map[uuid.UUID]uuid.NullUUID{}
	for rows.Next() {
		var member uuid.UUID
		var target uuid.NullUUID
		if err := rows.Scan(&member, &target); err != nil {
			t.Fatalf("Failed to scan target: %v", err)
		}
		out[member] = target
	}
	return out
}

// assertDerangement checks that every member of the event has a target, that
// nobody drew themselves and that every member is drawn exactly once
func assertDerangement(t *testing.T, conn *sql.DB, eventID uuid.UUID) {
	t.Helper()
	assigned := targets(t, conn, eventID)
	received := map[uuid.UUID]int{}
	for member, target := range assigned {
		if !target.Valid {
			t.Fatalf("Member %s has no target", member)
		}
		if target.UUID == member {
			t.Errorf("Member %s drew themselves", member)
		}
		if _, ok := assigned[target.UUID]; !ok {
			t.Errorf("Target %s is not a member", target.UUID)
		}
		received[target.UUID]++
	}
	for member := range assigned {
		if received[member] != 1 {
			t.Errorf("Member %s drawn %d times, want 1", member, received[member])
		}
	}
}

// drawableEvent creates an event organized by the first of three new users,
// with all three as participants
func drawableEvent(t *testing.T, conn *sql.DB) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	alice := testutil.CreateTestUser(t, conn, "Alice")
	bob := testutil.CreateTestUser(t, conn, "Bob")
	carol := testutil.CreateTestUser(t, conn, "Carol")

	eventID := testutil.CreateTestEvent(t, conn, alice, "Office Party")
	testutil.AddTestParticipant(t, conn, eventID, bob)
	testutil.AddTestParticipant(t, conn, eventID, carol)
	return eventID, []uuid.UUID{alice, bob, carol}
}

func TestWriteDrawError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"not found", draw.ErrNotFound, http.StatusNotFound, "NOT_FOUND", ""},
		{"forbidden", draw.ErrForbidden, http.StatusForbidden, "FORBIDDEN", ""},
		{"already drawn", draw.ErrAlreadyDrawn, http.StatusConflict, "ALREADY_DRAWN", ""},
		{"participants changed", draw.ErrParticipantsChanged, http.StatusConflict, "PARTICIPANTS_CHANGED", ""},
		{"insufficient", draw.ErrInsufficientParticipants, http.StatusUnprocessableEntity, "INSUFFICIENT_PARTICIPANTS", ""},
		{"draw failed", draw.ErrDrawFailed, http.StatusInternalServerError, "DRAW_FAILED", "Draw failed, please try again"},
		{"internal", draw.ErrInternal, http.StatusInternalServerError, "INTERNAL_LOGIC_ERROR", "Draw failed, please try again"},
		{"foreign error", sql.ErrConnDone, http.StatusInternalServerError, "DRAW_FAILED", "Draw failed, please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeDrawError(w, tt.err)

			testutil.AssertStatus(t, w, tt.wantStatus)
			testutil.AssertErrorCode(t, w, tt.wantCode)
			if tt.wantMessage != "" && !strings.Contains(w.Body.String(), tt.wantMessage) {
				t.Errorf("Expected message %q in %s", tt.wantMessage, w.Body.String())
			}
		})
	}
}
