// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Plant Care skill.

# Route Registration

NewRouter creates a configured http.ServeMux:

	mux := router.NewRouter(db, dispatcher)

# Endpoints

	POST /        - Skill endpoint: request envelope in, response envelope out
	GET  /health  - Pings the database, 503 when unreachable
	GET  /        - Banner

The skill endpoint answers 400 for a body that is not a request envelope
and 413 past middleware.MaxBodyBytes. Everything else, including handler
failures, is a 200 with a skill response.
*/
package router
