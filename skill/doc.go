// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package skill routes voice-platform requests to handlers.

# Dispatch

A Dispatcher holds an ordered list of Descriptors, each a Predicate plus a
Handler. For every request it:

 1. runs the interceptors (LogRequest first, logging the envelope verbatim)
 2. evaluates predicates in list order; the first match handles the request
 3. returns that handler's response

Unmatched requests, handler errors and panics in handlers or interceptors go
to the ErrorHandler, which always produces a response. Overlapping predicates
are a configuration bug; position decides.

	d := skill.NewDispatcher(descriptors, onError, skill.Deps{
		Attributes: sqlStore,
		Sync:       syncer,
	}, skill.WithUserAgent("plant-care/1.0"))
	resp := d.Dispatch(ctx, env)

# Handler Inputs

Handlers receive an Input carrying the envelope, a per-request attribute
manager bound to the requesting user, the DataStore syncer, a response
builder and the clock. Handlers close over nothing else.

# Predicates

	skill.RequestTypeIs(models.RequestTypeLaunch)
	skill.IntentIs(models.IntentCancel, models.IntentStop)

# Responses

	in.Response.Speak("Goodbye!").Build()
	in.Response.Speak(text).Reprompt(text).AddDirective(d).Build()

Reprompt keeps the session open. Speech is wrapped in <speak> SSML.
*/
package skill
