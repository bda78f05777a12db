// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth obtains access tokens for the DataStore API.

# Client Credentials

TokenClient posts a client-credentials grant to the token endpoint:

	grant_type=client_credentials
	client_id=...
	client_secret=...
	scope=alexa::datastore

	client := auth.NewTokenClient(id, secret, tokenURL, 3*time.Second, httpClient)
	cred, err := client.FetchAccessToken(ctx)

Each fetch is bounded by the configured timeout. Failures are logged and
returned wrapped in ErrTokenUnavailable with a zero Credential; callers treat
that as "sync skipped" and carry on.

# Credentials

	cred.AuthorizationHeader() // "Bearer Atc|..."

# HTTP Client

NewHTTPClient returns a client that stamps outbound requests with the
service user agent. Both the token and DataStore clients use it.
*/
package auth
