// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and implements the draw
store.

# Drivers

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite). SQLite
connections enable foreign keys and a busy timeout; ":memory:" databases
are limited to a single connection so every query sees the same data.

	conn, err := db.Open(db.TypeSQLite, "santa.db")

Queries use $N placeholders, which both drivers accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: Accounts; email is unique
  - event: Gift exchanges; drawn_at is set once by the draw
  - participant: One row per (event, user), holding target and wish list
  - friendship: PENDING, ACCEPTED or REJECTED pairs
  - notification: Friend requests, invites and draw notices

# Relationships

	users 1──* event (organizer)
	event 1──* participant *──1 users
	participant *──0..1 users (target)
	users *──* users (via friendship)
	notification *──0..1 event, *──0..1 friendship

# Draw Store

DrawStore implements draw.Store. RunAtomic wraps the draw in one transaction;
MarkDrawn only succeeds while drawn_at is null and AssignTarget only touches
rows whose target is still null, so at most one of several racing draws
commits.
*/
package db
