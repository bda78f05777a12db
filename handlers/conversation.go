// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/plant-care/models"
	"github.com/danielhkuo/plant-care/skill"
)

const (
	launchSpeech    = "Welcome to the Plant Care Skill. You can say water my plant to water it or say help to know more. What would you like to do?"
	plantCareSpeech = "Tap on the button to water your plant."
	helpSpeech      = "The Plant Care Skill lets you keep track of if and when you watered your plant. You can say water my plant to water it."
	goodbyeSpeech   = "Goodbye!"
	fallbackSpeech  = "Sorry, I don't know about that. Please try again."
	errorSpeech     = "Sorry, I had trouble doing what you asked. Please try again."
)

func Launch(_ context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	if skill.SupportsAPL(in.Envelope) {
		in.Response.AddDirective(launchDirective())
	}
	return in.Response.Speak(launchSpeech).Reprompt(launchSpeech).Build(), nil
}

// PlantCare shows the care screen with the stored watered date
func PlantCare(ctx context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	attrs, err := in.Attributes.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}

	if skill.SupportsAPL(in.Envelope) {
		in.Response.AddDirective(plantCareDirective(attrs.LastWateredDate))
	}

	speech := plantCareSpeech
	if phrase := lastWateredPhrase(attrs.LastWateredDate, in.Now()); phrase != "" {
		speech += " " + phrase
	}
	return in.Response.Speak(speech).Build(), nil
}

func Help(_ context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	return in.Response.Speak(helpSpeech).Reprompt(helpSpeech).Build(), nil
}

func CancelAndStop(_ context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	return in.Response.Speak(goodbyeSpeech).Build(), nil
}

// Fallback handles utterances that map to no intent
func Fallback(_ context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	return in.Response.Speak(fallbackSpeech).Reprompt(fallbackSpeech).Build(), nil
}

// SessionEnded answers with an empty response
func SessionEnded(ctx context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	req := in.Envelope.Request
	attrs := []any{"reason", req.Reason}
	if req.Error != nil {
		attrs = append(attrs, "error_type", req.Error.Type, "error_message", req.Error.Message)
	}
	if raw, err := skill.EnvelopeJSON(in.Envelope); err == nil {
		attrs = append(attrs, "envelope", raw)
	}
	slog.InfoContext(ctx, "session ended", attrs...)

	return in.Response.Build(), nil
}

// IntentReflector repeats the triggering intent name. Debug aid for
// intents without a handler of their own.
func IntentReflector(_ context.Context, in *skill.Input) (*models.ResponseEnvelope, error) {
	name := skill.IntentName(in.Envelope)
	return in.Response.Speak("You just triggered " + name).Build(), nil
}

// Error is the catch-all error handler
func Error(ctx context.Context, in *skill.Input, err error) *models.ResponseEnvelope {
	slog.ErrorContext(ctx, "error handled",
		"error", err,
		"request_type", skill.RequestType(in.Envelope),
	)
	return in.Response.Speak(errorSpeech).Reprompt(errorSpeech).Build()
}

// lastWateredPhrase renders "You last watered it 3 days ago." by comparing
// calendar dates in now's location. Unparseable or future dates yield "".
func lastWateredPhrase(date string, now time.Time) string {
	watered, ok := parseWateredDate(date, now.Location())
	if !ok {
		return ""
	}

	today := calendarDay(now)
	switch {
	case watered.After(today):
		return ""
	case watered.Equal(today):
		return "You watered it today."
	}
	return "You last watered it " + humanize.RelTime(watered, today, "ago", "from now") + "."
}

// parseWateredDate returns the calendar day of date as seen from loc.
// Timestamps are converted to loc before the time of day is dropped.
func parseWateredDate(date string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, date); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return calendarDay(t.In(loc)), true
	}
	return time.Time{}, false
}

// calendarDay is t's wall-clock date at UTC midnight, so day differences stay
// whole across DST changes
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
