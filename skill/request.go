// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package skill

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/danielhkuo/plant-care/models"
)

// RequestType returns request.type, or "" for a nil envelope
func RequestType(env *models.RequestEnvelope) string {
	if env == nil {
		return ""
	}
	return env.Request.Type
}

// IntentName returns the intent name of an IntentRequest, otherwise ""
func IntentName(env *models.RequestEnvelope) string {
	if RequestType(env) != models.RequestTypeIntent || env.Request.Intent == nil {
		return ""
	}
	return env.Request.Intent.Name
}

// UserID prefers context.System.user and falls back to session.user
func UserID(env *models.RequestEnvelope) string {
	if env == nil {
		return ""
	}
	if id := env.Context.System.User.UserID; id != "" {
		return id
	}
	if env.Session != nil {
		return env.Session.User.UserID
	}
	return ""
}

// SupportsAPL reports whether the requesting device can render APL
func SupportsAPL(env *models.RequestEnvelope) bool {
	if env == nil || env.Context.System.Device == nil {
		return false
	}
	_, ok := env.Context.System.Device.SupportedInterfaces[models.InterfaceAPL]
	return ok
}

// RequestTypeIs matches requests of type t
func RequestTypeIs(t string) Predicate {
	return func(env *models.RequestEnvelope) bool {
		return RequestType(env) == t
	}
}

// IntentIs matches IntentRequests for any of names
func IntentIs(names ...string) Predicate {
	return func(env *models.RequestEnvelope) bool {
		name := IntentName(env)
		return name != "" && slices.Contains(names, name)
	}
}

// EnvelopeJSON returns the envelope as received. Envelopes built in process
// have no raw body and are encoded instead.
func EnvelopeJSON(env *models.RequestEnvelope) (string, error) {
	if env == nil {
		return "null", nil
	}
	if len(env.Raw) > 0 {
		return string(env.Raw), nil
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// LogRequest logs the inbound envelope verbatim
func LogRequest(ctx context.Context, env *models.RequestEnvelope) {
	raw, err := EnvelopeJSON(env)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode incoming skill request", "error", err)
		return
	}
	slog.InfoContext(ctx, "incoming skill request",
		"request_type", RequestType(env),
		"envelope", raw,
	)
}
