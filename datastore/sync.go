// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package datastore

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/plant-care/auth"
	"github.com/danielhkuo/plant-care/models"
)

var tracer = otel.Tracer("github.com/danielhkuo/plant-care/datastore")

type TokenFetcher interface {
	FetchAccessToken(ctx context.Context) (auth.Credential, error)
}

type Pusher interface {
	PushCommands(ctx context.Context, cred auth.Credential, commands []models.DataStoreCommand, target models.DataStoreTarget) Result
}

// Syncer mirrors a user's last watered date to every device of that user
type Syncer struct {
	tokens    TokenFetcher
	pusher    Pusher
	namespace string
	key       string
}

func NewSyncer(tokens TokenFetcher, pusher Pusher, namespace, key string) *Syncer {
	return &Syncer{tokens: tokens, pusher: pusher, namespace: namespace, key: key}
}

// PlantDataCommand builds the PUT_OBJECT command widgets read
func PlantDataCommand(namespace, key, date string) models.DataStoreCommand {
	return models.DataStoreCommand{
		Type:      models.CommandPutObject,
		Namespace: namespace,
		Key:       key,
		Content:   models.PlantData{LastWateredDate: date},
	}
}

// UserTarget addresses every registered device of userID
func UserTarget(userID string) models.DataStoreTarget {
	return models.DataStoreTarget{Type: models.TargetUser, ID: userID}
}

// SyncLastWatered fetches a token and pushes date. The token fetch must
// finish before the push. A failed fetch skips the push.
func (s *Syncer) SyncLastWatered(ctx context.Context, userID, date string) Result {
	ctx, span := tracer.Start(ctx, "datastore.SyncLastWatered", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("datastore.namespace", s.namespace))

	cred, err := s.tokens.FetchAccessToken(ctx)
	if err != nil {
		slog.Warn("datastore sync skipped", "reason", "no access token", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "token unavailable")
		return failed(err)
	}

	commands := []models.DataStoreCommand{PlantDataCommand(s.namespace, s.key, date)}
	result := s.pusher.PushCommands(ctx, cred, commands, UserTarget(userID))

	span.SetAttributes(attribute.Int("http.response.status_code", result.StatusCode))
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, "push failed")
	}
	return result
}
