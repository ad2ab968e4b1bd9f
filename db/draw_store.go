// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/secret-santa/draw"
)

// DrawStore is the SQL implementation of draw.Store.
type DrawStore struct {
	db *sql.DB
}

func NewDrawStore(db *sql.DB) *DrawStore {
	return &DrawStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// LoadEvent reads the event and all of its participants in one statement, so
// the caller sees either the committed all-null or the committed all-set
// target state.
func (s *DrawStore) LoadEvent(ctx context.Context, eventID uuid.UUID) (*draw.Event, error) {
	return loadEvent(ctx, s.db, eventID)
}

func loadEvent(ctx context.Context, q querier, eventID uuid.UUID) (*draw.Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT e.id, e.name, e.date, e.budget, e.organizer_id, p.user_id, p.target_user_id
		FROM event e
		LEFT JOIN participant p ON p.event_id = e.id
		WHERE e.id = $1
		ORDER BY p.joined_at, p.id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query event: %w", err)
	}
	defer rows.Close()

	var ev *draw.Event
	for rows.Next() {
		var (
			e        draw.Event
			memberID uuid.NullUUID
			targetID uuid.NullUUID
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.Budget, &e.OrganizerID, &memberID, &targetID); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if ev == nil {
			ev = &e
		}
		if memberID.Valid {
			ev.Participants = append(ev.Participants, draw.Slot{MemberID: memberID.UUID, TargetID: targetID})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event: %w", err)
	}
	if ev == nil {
		return nil, draw.ErrNotFound
	}
	return ev, nil
}

// LoadIdentity returns the public identity of a user.
func (s *DrawStore) LoadIdentity(ctx context.Context, userID uuid.UUID) (*draw.Identity, error) {
	var id draw.Identity
	err := s.db.QueryRowContext(ctx, "SELECT id, name, email FROM users WHERE id = $1", userID).
		Scan(&id.ID, &id.Name, &id.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, draw.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &id, nil
}

// RunAtomic runs fn inside one database transaction.
func (s *DrawStore) RunAtomic(ctx context.Context, fn func(ctx context.Context, w draw.Writer) error) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(ctx, &drawWriter{tx: tx})
	})
}

type drawWriter struct {
	tx *sql.Tx
}

// MarkDrawn sets event.drawn_at only while it is null. On Postgres the
// update also row-locks the event, which serializes concurrent draws and
// joins against it.
func (w *drawWriter) MarkDrawn(ctx context.Context, eventID uuid.UUID, at time.Time) (bool, error) {
	res, err := w.tx.ExecContext(ctx,
		"UPDATE event SET drawn_at = $1 WHERE id = $2 AND drawn_at IS NULL", at.UTC(), eventID)
	if err != nil {
		return false, fmt.Errorf("mark drawn: %w", err)
	}
	return affectedOne(res)
}

func (w *drawWriter) MemberIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := w.tx.QueryContext(ctx,
		"SELECT user_id FROM participant WHERE event_id = $1 ORDER BY joined_at, id", eventID)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (w *drawWriter) AssignTarget(ctx context.Context, eventID, memberID, targetID uuid.UUID) (bool, error) {
	res, err := w.tx.ExecContext(ctx, `
		UPDATE participant SET target_user_id = $1
		WHERE event_id = $2 AND user_id = $3 AND target_user_id IS NULL
	`, targetID, eventID, memberID)
	if err != nil {
		return false, fmt.Errorf("assign target: %w", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
