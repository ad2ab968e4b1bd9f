// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/secret-santa/models"
)

// Notification is one row to be written to the notification table.
type Notification struct {
	Type         string
	Content      string
	SenderID     uuid.UUID
	ReceiverID   uuid.UUID
	EventID      uuid.NullUUID
	FriendshipID uuid.NullUUID
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Insert writes n through ex and returns the new id. Use it inside a
// transaction when the notification must commit with other writes.
func Insert(ctx context.Context, ex Execer, n Notification) (uuid.UUID, error) {
	id := uuid.New()
	_, err := ex.ExecContext(ctx, `
		INSERT INTO notification (id, type, content, read, sender_id, receiver_id, event_id, friendship_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, n.Type, n.Content, false, n.SenderID, n.ReceiverID, n.EventID, n.FriendshipID, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// Notifier delivers notifications on a best-effort basis.
type Notifier struct {
	db       *sql.DB
	limit    int
	attempts int
	backoff  time.Duration
}

func New(db *sql.DB) *Notifier {
	return &Notifier{db: db, limit: 4, attempts: 3, backoff: 50 * time.Millisecond}
}

// Notify inserts every notification concurrently, retrying each a few
// times. Failures are logged and never returned, so the operation that
// triggered the notifications is unaffected. It reports how many were
// delivered.
func (n *Notifier) Notify(ctx context.Context, notes ...Notification) int {
	// Keep going when the request that triggered us is cancelled.
	ctx = context.WithoutCancel(ctx)

	delivered := make([]bool, len(notes))
	g := new(errgroup.Group)
	g.SetLimit(n.limit)
	for i := range notes {
		g.Go(func() error {
			retrier := retry.NewRetrier(n.attempts, n.backoff, 4*n.backoff)
			err := retrier.Run(func() error {
				_, err := Insert(ctx, n.db, notes[i])
				return err
			})
			if err != nil {
				slog.Warn("failed to deliver notification",
					"type", notes[i].Type,
					"receiver_id", notes[i].ReceiverID,
					"error", err,
				)
				return nil
			}
			delivered[i] = true
			return nil
		})
	}
	g.Wait()

	count := 0
	for _, ok := range delivered {
		if ok {
			count++
		}
	}
	return count
}

// DrawCompleted builds one DRAW_COMPLETED notification per participant.
func DrawCompleted(organizerID, eventID uuid.UUID, eventName string, participants []uuid.UUID) []Notification {
	notes := make([]Notification, 0, len(participants))
	for _, p := range participants {
		notes = append(notes, Notification{
			Type:       models.NotificationDrawCompleted,
			Content:    DrawCompletedContent(eventName),
			SenderID:   organizerID,
			ReceiverID: p,
			EventID:    uuid.NullUUID{UUID: eventID, Valid: true},
		})
	}
	return notes
}
