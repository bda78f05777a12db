// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/plant-care/auth"
	"github.com/danielhkuo/plant-care/models"
)

const commandsPath = "/v1/datastore/commands"

// Cap on how much of a response body is kept for logging
const maxResponseBody = 64 << 10

var (
	ErrInvalidCredential = errors.New("credential is missing or empty")
	ErrPushRejected      = errors.New("datastore rejected commands")
)

// Result reports the outcome of a push. A failed push is data, not a panic
// or an error return, so callers can log it and move on.
type Result struct {
	Delivered  bool
	StatusCode int
	Body       json.RawMessage
	Err        error
}

func (r Result) OK() bool {
	return r.Delivered && r.Err == nil
}

func failed(err error) Result {
	return Result{Err: err}
}

// Client pushes commands to the DataStore API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL (e.g. https://api.amazonalexa.com)
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

// PushCommands sends commands for target. Errors are logged and returned in
// the Result; nothing is retried.
func (c *Client) PushCommands(ctx context.Context, cred auth.Credential, commands []models.DataStoreCommand, target models.DataStoreTarget) Result {
	if !cred.Valid() {
		slog.Error("datastore push skipped", "error", ErrInvalidCredential, "target", target.ID)
		return failed(ErrInvalidCredential)
	}

	body, err := json.Marshal(models.DataStoreRequest{Commands: commands, Target: target})
	if err != nil {
		slog.Error("failed to encode datastore commands", "error", err)
		return failed(fmt.Errorf("encode commands: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+commandsPath, bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to build datastore request", "error", err)
		return failed(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", cred.AuthorizationHeader())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("datastore push failed", "error", err, "target", target.ID)
		return failed(fmt.Errorf("push commands: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		slog.Warn("failed to read datastore response", "error", err)
	}

	result := Result{StatusCode: resp.StatusCode}
	if json.Valid(respBody) {
		result.Body = respBody
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Err = fmt.Errorf("%w: status %d", ErrPushRejected, resp.StatusCode)
		slog.Error("datastore push rejected",
			"status", resp.StatusCode,
			"response", string(respBody),
			"target", target.ID,
		)
		return result
	}

	result.Delivered = true
	slog.Info("datastore push delivered",
		"status", resp.StatusCode,
		"response", string(respBody),
		"commands", len(commands),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}
