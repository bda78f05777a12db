// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /{$}", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms). Each request carries an id, taken from X-Request-ID or
generated, echoed on the response and readable with RequestID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, resp)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies, capped at MaxBodyBytes. The bytes read are
returned so the caller can log exactly what was sent:

	var env models.RequestEnvelope
	raw, err := middleware.ParseJSONBody(w, r, &env)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request envelope")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP.
*/
package middleware
