// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/draw"
	"github.com/danielhkuo/secret-santa/testutil"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("second CreateSchema() error = %v", err)
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := db.Open("mysql", "root@/santa"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, conn, "alice")

	_, err := conn.Exec(`
		INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)
	`, uuid.New(), "Alice Again", "alice@example.com", "x")
	if !db.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
	if db.IsUniqueViolation(errors.New("boom")) || db.IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation() matched a foreign error")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	_, err := conn.Exec(`
		INSERT INTO participant (id, event_id, user_id) VALUES ($1, $2, $3)
	`, uuid.New(), uuid.New(), uuid.New())
	if err == nil {
		t.Error("Expected foreign key violation for dangling participant")
	}
}

func TestWithTx(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, conn, "alice")

	rename := func(name string, fail bool) error {
		return db.WithTx(ctx, conn, func(tx *sql.Tx) error {
			if _, err := tx.Exec("UPDATE users SET name = $1 WHERE id = $2", name, alice); err != nil {
				return err
			}
			if fail {
				return errors.New("abort")
			}
			return nil
		})
	}

	if err := rename("Alice B", true); err == nil {
		t.Fatal("Expected error from aborted transaction")
	}
	var name string
	conn.QueryRow("SELECT name FROM users WHERE id = $1", alice).Scan(&name)
	if name != "alice" {
		t.Errorf("Aborted transaction leaked write: name = %s", name)
	}

	if err := rename("Alice B", false); err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}
	conn.QueryRow("SELECT name FROM users WHERE id = $1", alice).Scan(&name)
	if name != "Alice B" {
		t.Errorf("Committed transaction lost write: name = %s", name)
	}
}

func TestDrawStore_LoadEvent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewDrawStore(conn)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")
	carol := testutil.CreateTestUser(t, conn, "carol")
	eventID := testutil.CreateTestEvent(t, conn, alice, "Office Party")
	testutil.AddTestParticipant(t, conn, eventID, bob)
	testutil.AddTestParticipant(t, conn, eventID, carol)

	ev, err := store.LoadEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("LoadEvent() error = %v", err)
	}
	if ev.ID != eventID || ev.Name != "Office Party" || ev.OrganizerID != alice {
		t.Errorf("Unexpected event: %+v", ev)
	}
	if ev.Budget != 50 {
		t.Errorf("Expected budget 50, got %v", ev.Budget)
	}
	if ev.Date.Before(time.Now()) {
		t.Errorf("Expected a future date, got %s", ev.Date)
	}

	want := []uuid.UUID{alice, bob, carol}
	got := ev.MemberIDs()
	if len(got) != len(want) {
		t.Fatalf("Expected %d participants, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Participant %d = %s, want %s (join order)", i, got[i], want[i])
		}
	}
	if ev.Drawn() {
		t.Error("Fresh event reported as drawn")
	}
}

func TestDrawStore_LoadEvent_NoParticipants(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	alice := testutil.CreateTestUser(t, conn, "alice")
	eventID := testutil.CreateTestEvent(t, conn, alice, "Office Party")
	conn.Exec("DELETE FROM participant WHERE event_id = $1", eventID)

	ev, err := db.NewDrawStore(conn).LoadEvent(context.Background(), eventID)
	if err != nil {
		t.Fatalf("LoadEvent() error = %v", err)
	}
	if len(ev.Participants) != 0 {
		t.Errorf("Expected no participants, got %d", len(ev.Participants))
	}
}

func TestDrawStore_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewDrawStore(conn)
	ctx := context.Background()

	if _, err := store.LoadEvent(ctx, uuid.New()); !errors.Is(err, draw.ErrNotFound) {
		t.Errorf("LoadEvent() error = %v, want %v", err, draw.ErrNotFound)
	}
	if _, err := store.LoadIdentity(ctx, uuid.New()); !errors.Is(err, draw.ErrNotFound) {
		t.Errorf("LoadIdentity() error = %v, want %v", err, draw.ErrNotFound)
	}
}

func TestDrawStore_Writer(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewDrawStore(conn)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")
	eventID := testutil.CreateTestEvent(t, conn, alice, "Office Party")
	testutil.AddTestParticipant(t, conn, eventID, bob)

	err := store.RunAtomic(ctx, func(ctx context.Context, w draw.Writer) error {
		marked, err := w.MarkDrawn(ctx, eventID, time.Now())
		if err != nil || !marked {
			t.Fatalf("first MarkDrawn() = %v, %v", marked, err)
		}
		marked, err = w.MarkDrawn(ctx, eventID, time.Now())
		if err != nil || marked {
			t.Errorf("second MarkDrawn() = %v, %v; want false", marked, err)
		}

		ok, err := w.AssignTarget(ctx, eventID, alice, bob)
		if err != nil || !ok {
			t.Fatalf("AssignTarget() = %v, %v", ok, err)
		}
		ok, err = w.AssignTarget(ctx, eventID, alice, alice)
		if err != nil || ok {
			t.Errorf("AssignTarget() over a set target = %v, %v; want false", ok, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunAtomic() error = %v", err)
	}

	ev, _ := store.LoadEvent(ctx, eventID)
	slot, _ := ev.Slot(alice)
	if !slot.TargetID.Valid || slot.TargetID.UUID != bob {
		t.Errorf("Expected alice -> bob, got %+v", slot.TargetID)
	}
}

func TestDrawStore_RunAtomicRollsBack(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewDrawStore(conn)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")
	eventID := testutil.CreateTestEvent(t, conn, alice, "Office Party")
	testutil.AddTestParticipant(t, conn, eventID, bob)

	boom := errors.New("boom")
	err := store.RunAtomic(ctx, func(ctx context.Context, w draw.Writer) error {
		w.MarkDrawn(ctx, eventID, time.Now())
		w.AssignTarget(ctx, eventID, alice, bob)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunAtomic() error = %v, want %v", err, boom)
	}

	var drawnAt sql.NullTime
	conn.QueryRow("SELECT drawn_at FROM event WHERE id = $1", eventID).Scan(&drawnAt)
	if drawnAt.Valid {
		t.Error("drawn_at survived the rollback")
	}
	ev, _ := store.LoadEvent(ctx, eventID)
	if ev.Drawn() {
		t.Error("target survived the rollback")
	}
}

func TestDrawStore_Execute(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	store := db.NewDrawStore(conn)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, conn, "alice")
	bob := testutil.CreateTestUser(t, conn, "bob")
	carol := testutil.CreateTestUser(t, conn, "carol")
	eventID := testutil.CreateTestEvent(t, conn, alice, "Office Party")
	testutil.AddTestParticipant(t, conn, eventID, bob)
	testutil.AddTestParticipant(t, conn, eventID, carol)

	drawer := draw.NewDrawer(store)
	if err := drawer.Execute(ctx, eventID, alice); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if err := drawer.Execute(ctx, eventID, alice); !errors.Is(err, draw.ErrAlreadyDrawn) {
		t.Errorf("second Execute() error = %v, want %v", err, draw.ErrAlreadyDrawn)
	}

	received := make(map[uuid.UUID]bool)
	for _, member := range []uuid.UUID{alice, bob, carol} {
		rev, err := draw.RevealTarget(ctx, store, eventID, member)
		if err != nil {
			t.Fatalf("RevealTarget() error = %v", err)
		}
		if rev.Target.ID == member {
			t.Errorf("%s drew themself", member)
		}
		if received[rev.Target.ID] {
			t.Errorf("%s received twice", rev.Target.ID)
		}
		received[rev.Target.ID] = true
		if rev.Target.Email == "" || rev.EventName != "Office Party" {
			t.Errorf("Incomplete reveal: %+v", rev)
		}
	}
}
