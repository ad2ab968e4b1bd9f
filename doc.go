// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Secret Santa API server.

Users register, make friends, and organize gift exchanges. Once enough
friends have joined an event the organizer draws it: every participant is
assigned someone else to buy for, and each can only ever see their own
assignment.

# Starting the Server

The server reads environment variables (optionally from a .env file) or CLI
flags:

	DATABASE_URL=postgres://... JWT_SECRET=... JWT_REFRESH_SECRET=... go run .

Or against a local SQLite file:

	go run . -t sqlite -d santa.db -jwt-secret a -jwt-refresh-secret b

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string or SQLite path
  - JWT_SECRET (-jwt-secret): Access token signing secret
  - JWT_REFRESH_SECRET (-jwt-refresh-secret): Refresh token signing secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - JWT_EXPIRES_IN (-access-ttl), JWT_REFRESH_EXPIRES_IN (-refresh-ttl): Token lifetimes
  - REQUEST_TIMEOUT (-request-timeout): Per-request deadline

# Architecture

  - draw: Derangement generator, draw guard, orchestrator, reveal gate
  - handlers: HTTP request handlers (auth, friends, notifications, events, draw)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JWT auth, validation, JSON helpers
  - models: Request/response types
  - auth: Password hashing, JWT issue/verify, ids
  - notify: Best-effort notification delivery
  - db: Driver selection, schema, transactional draw store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
