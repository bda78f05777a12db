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

var (
	ErrUnknownAction   = errors.New("unknown user action")
	ErrMissingArgument = errors.New("missing user event argument")
)

const wateredSpeech = "The plant has now been watered."

// UserEvent handles APL SendEvent from the widget or the skill's own screen.
// arguments[0] names the action, arguments[1] carries the watered date.
func UserEvent(ctx context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	args := in.Envelope.Request.Arguments

	action, ok := stringArg(args, 0)
	if !ok {
		return nil, fmt.Errorf("%w: action", ErrMissingArgument)
	}

	var endSession bool
	switch action {
	case models.ActionOpenSkill:
		return Launch(ctx, in)
	case models.ActionWateredWidget:
		// tapped on the widget: no voice session to keep open
		endSession = true
	case models.ActionWateredSkill:
		in.Response.Speak(wateredSpeech)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	date, ok := stringArg(args, 1)
	if !ok {
		return nil, fmt.Errorf("%w: date", ErrMissingArgument)
	}

	attrs, err := in.Attributes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	attrs.LastWateredDate = date
	in.Attributes.Set(attrs)
	if err := in.Attributes.Save(ctx); err != nil {
		return nil, fmt.Errorf("save attributes: %w", err)
	}
	slog.Info("plant watered", "action", action, "date", date)

	syncLastWatered(ctx, in, date)

	return in.Response.WithShouldEndSession(endSession).Build(), nil
}

func stringArg(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}
