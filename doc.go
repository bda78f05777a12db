// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Plant Care skill server.

Plant Care is an Alexa skill backend that tracks when a user last watered
their plant. Widgets on the user's devices show the date; it is kept in sync
through the Alexa DataStore API.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=plant-care.db ALEXA_CLIENT_ID=... ALEXA_CLIENT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

A .env file in the working directory is read when present. Flags override
the process environment, which overrides the .env file.

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - ALEXA_CLIENT_ID (-client-id): Skill Messaging client id
  - ALEXA_CLIENT_SECRET (-client-secret): Skill Messaging client secret

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_URL (-token-url), TOKEN_TIMEOUT: OAuth endpoint and fetch bound (default 3s)
  - DATASTORE_URL (-datastore-url), DATASTORE_TIMEOUT: DataStore API base and push bound (default none)
  - DATASTORE_NAMESPACE, DATASTORE_KEY: widget data location
  - OTEL_ENDPOINT (-otel-endpoint), SERVICE_NAME: OTLP/HTTP tracing
  - TIME_ZONE (-tz): IANA zone users' calendar dates are read in (default: UTC)

# Architecture

  - handlers: skill request handlers and their order
  - skill: dispatcher, request predicates, response builder
  - store: per-user attribute persistence
  - auth: client-credentials token fetch
  - datastore: DataStore push and last-watered sync
  - router: HTTP routes
  - middleware: logging, JSON helpers
  - telemetry: tracing setup
  - models: wire and persisted types
  - db: connection and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
