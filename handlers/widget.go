// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/plant-care/models"
	"github.com/danielhkuo/plant-care/skill"
)

var ErrNoUsages = errors.New("request carries no widget usages")

const installErrorSpeech = "Sorry, there was an error installing the widget. Please try again later"

// InstallWidget handles UsagesInstalled.
// Records the instance id if new, then pushes the current watered date so
// the new widget shows the same value as the user's other devices.
func InstallWidget(ctx context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	instanceID, err := firstInstanceID(in.Envelope)
	if err != nil {
		return nil, err
	}

	attrs, err := in.Attributes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}

	if attrs.AddInstance(instanceID) {
		in.Attributes.Set(attrs)
		if err := in.Attributes.Save(ctx); err != nil {
			return nil, fmt.Errorf("save attributes: %w", err)
		}
		slog.Info("widget installed", "instance_id", instanceID, "instances", len(attrs.InstalledInstanceIDs))
	} else {
		slog.Info("widget already on file", "instance_id", instanceID)
	}

	// resync even for a known instance; pushing the same value is harmless
	syncLastWatered(ctx, in, attrs.LastWateredDate)

	return in.Response.Build(), nil
}

// RemoveWidget handles UsagesRemoved. Nothing is pushed; the shared date
// does not change.
func RemoveWidget(ctx context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	instanceID, err := firstInstanceID(in.Envelope)
	if err != nil {
		return nil, err
	}

	attrs, err := in.Attributes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}

	if attrs.RemoveInstance(instanceID) {
		in.Attributes.Set(attrs)
		if err := in.Attributes.Save(ctx); err != nil {
			return nil, fmt.Errorf("save attributes: %w", err)
		}
		slog.Info("widget removed", "instance_id", instanceID, "instances", len(attrs.InstalledInstanceIDs))
	} else {
		slog.Info("widget removal for unknown instance", "instance_id", instanceID)
	}

	return in.Response.Build(), nil
}

// UpdateWidget handles UpdateRequest. Logged only.
func UpdateWidget(_ context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	req := in.Envelope.Request
	slog.Info("widget updated", "from_version", req.FromVersion, "to_version", req.ToVersion)
	return in.Response.Build(), nil
}

// WidgetInstallationError handles InstallationError
func WidgetInstallationError(_ context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	errorType := ""
	if in.Envelope.Request.Error != nil {
		errorType = in.Envelope.Request.Error.Type
	}
	slog.Warn("widget installation error", "error_type", errorType)

	return in.Response.Speak(installErrorSpeech).Build(), nil
}

func firstInstanceID(env *models.RequestEnvelope) (string, error) {
	payload := env.Request.Payload
	if payload == nil || len(payload.Usages) == 0 || payload.Usages[0].InstanceID == "" {
		return "", ErrNoUsages
	}
	return payload.Usages[0].InstanceID, nil
}

// syncLastWatered pushes date to every device of the user. Failures are
// logged and do not change the response.
func syncLastWatered(ctx context.Context, in *skill.Input, date string) {
	if in.Sync == nil {
		slog.Warn("datastore sync skipped", "reason", "no syncer configured")
		return
	}
	result := in.Sync.SyncLastWatered(ctx, in.UserID(), date)
	if !result.OK() {
		slog.Warn("datastore sync failed", "error", result.Err, "status", result.StatusCode)
	}
}
