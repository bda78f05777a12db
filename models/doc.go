// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the wire types exchanged with the voice platform
and the DataStore service, plus the persisted per-user record.

# Request Envelope

Every inbound event is decoded into a RequestEnvelope. The request body is a
union keyed by Request.Type:

  - LaunchRequest, IntentRequest (Intent), SessionEndedRequest (Reason, Error)
  - Alexa.DataStore.PackageManager.UsagesInstalled / UsagesRemoved (Payload.Usages)
  - Alexa.DataStore.PackageManager.UpdateRequest (FromVersion, ToVersion)
  - Alexa.DataStore.PackageManager.InstallationError (Error)
  - Alexa.Presentation.APL.UserEvent (Arguments)

# Response Envelope

ResponseEnvelope carries optional SSML speech, reprompt, APL directives and
the shouldEndSession flag. A nil ShouldEndSession leaves the decision to
the platform.

# Attributes

Attributes is the durable per-user record:

	date       last watered date as sent by the widget (string)
	instances  installed widget instance ids, no duplicates

AddInstance and RemoveInstance keep the instance list duplicate free and
report whether the record changed.

# DataStore

DataStoreRequest is the body of POST /v1/datastore/commands:

	{"commands":[{"type":"PUT_OBJECT","namespace":"plantCareReminder",
	  "key":"plantData","content":{"lastWateredDate":"2024-05-01"}}],
	 "target":{"type":"USER","id":"amzn1.ask.account..."}}
*/
package models
