// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/testutil"
)

// TestConcurrentDraws verifies that when several requests draw the same event
// at once exactly one wins and the rest see ALREADY_DRAWN
func TestConcurrentDraws(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDrawHandler(db, testutil.GetTestConfig())
	eventID, members := drawableEvent(t, db)
	id := eventID.String()

	numRequests := 8
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			w := call(handler.Draw, "POST", "/events/"+id+"/draw", id, nil, members[0])
			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}()
	}

	close(start)
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful draw, got %d", successCount.Load())
	}
	if conflictCount.Load() != int32(numRequests-1) {
		t.Errorf("Expected %d conflicts, got %d", numRequests-1, conflictCount.Load())
	}

	assertDerangement(t, db, eventID)

	// Only the winning draw notifies
	if n := countRows(t, db, "SELECT COUNT(*) FROM notification WHERE type = $1",
		models.NotificationDrawCompleted); n != len(members) {
		t.Errorf("Expected %d draw notifications, got %d", len(members), n)
	}
}

// TestConcurrentJoinAndDraw verifies that members joining while the event is
// drawn either make it into the draw or are turned away, never left without
// a target in a drawn event
func TestConcurrentJoinAndDraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	events := NewEventHandler(db, cfg)
	draws := NewDrawHandler(db, cfg)
	eventID, members := drawableEvent(t, db)
	id := eventID.String()

	joiners := make([]uuid.UUID, 5)
	for i := range joiners {
		joiners[i] = testutil.CreateTestUser(t, db, fmt.Sprintf("Joiner%d", i))
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	var drawStatus atomic.Int32

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		w := call(draws.Draw, "POST", "/events/"+id+"/draw", id, nil, members[0])
		drawStatus.Store(int32(w.Code))
	}()

	accept := true
	for _, joiner := range joiners {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			<-start
			w := call(events.Join, "POST", "/events/"+id+"/join", id, models.JoinEventRequest{Accept: &accept}, userID)
			if w.Code != http.StatusOK && w.Code != http.StatusConflict {
				t.Errorf("Unexpected join status %d: %s", w.Code, w.Body.String())
			}
		}(joiner)
	}

	close(start)
	wg.Wait()

	switch drawStatus.Load() {
	case http.StatusOK:
		assertDerangement(t, db, eventID)
	case http.StatusConflict:
		// A join landed between the draw's read and its write
		for member, target := range targets(t, db, eventID) {
			if target.Valid {
				t.Errorf("Member %s has a target after a rejected draw", member)
			}
		}
	default:
		t.Fatalf("Unexpected draw status %d", drawStatus.Load())
	}
}

// TestParallelEvents verifies that draws of unrelated events do not interfere
func TestParallelEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDrawHandler(db, testutil.GetTestConfig())

	numEvents := 4
	eventIDs := make([]uuid.UUID, numEvents)
	organizers := make([]uuid.UUID, numEvents)
	for i := range eventIDs {
		organizer := testutil.CreateTestUser(t, db, fmt.Sprintf("Organizer%d", i))
		eventIDs[i] = testutil.CreateTestEvent(t, db, organizer, fmt.Sprintf("Party %d", i))
		organizers[i] = organizer
		for j := 0; j < 3+i; j++ {
			member := testutil.CreateTestUser(t, db, fmt.Sprintf("Member%d_%d", i, j))
			testutil.AddTestParticipant(t, db, eventIDs[i], member)
		}
	}

	var wg sync.WaitGroup
	for i := range eventIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := eventIDs[i].String()
			w := call(handler.Draw, "POST", "/events/"+id+"/draw", id, nil, organizers[i])
			if w.Code != http.StatusOK {
				t.Errorf("Draw of event %d failed: %d %s", i, w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	for _, eventID := range eventIDs {
		assertDerangement(t, db, eventID)
	}
}
