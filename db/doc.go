// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the attribute database and creates its schema.

# Drivers

Open picks the driver from the configured database type:

	sqlite    modernc.org/sqlite (default, cgo free)
	postgres  github.com/lib/pq

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are capped at one so that ":memory:" databases behave
as a single database.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - user_attributes: one JSON attribute document per user id

# Placeholders

Queries are written with ? placeholders. Rebind converts them to $1, $2...
when running against postgres.
*/
package db
