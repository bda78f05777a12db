// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the skill request handlers for the Plant Care skill.

# Handler Chain

Chain returns the handlers in the order the dispatcher tries them. The
first handler whose predicate matches wins:

	InstallWidget            Alexa.DataStore.PackageManager.UsagesInstalled
	RemoveWidget             Alexa.DataStore.PackageManager.UsagesRemoved
	UpdateWidget             Alexa.DataStore.PackageManager.UpdateRequest
	WidgetInstallationError  Alexa.DataStore.PackageManager.InstallationError
	UserEvent                Alexa.Presentation.APL.UserEvent
	Launch                   LaunchRequest
	PlantCare                IntentRequest PlantCareIntent
	Help                     IntentRequest AMAZON.HelpIntent
	CancelAndStop            IntentRequest AMAZON.CancelIntent, AMAZON.StopIntent
	Fallback                 IntentRequest AMAZON.FallbackIntent
	SessionEnded             SessionEndedRequest
	IntentReflector          any other IntentRequest

Anything unmatched, and any handler error or panic, is answered by Error
with a spoken apology.

	dispatcher := handlers.NewDispatcher(skill.Deps{
		Attributes: store.NewSQLStore(conn, cfg.DatabaseType),
		Sync:       syncer,
	})

# Widget Lifecycle

The user's record keeps the last watered date and the ids of installed
widget instances. Installing a widget records its id and pushes the
current date to the DataStore. Removing one drops the id and pushes
nothing.

# Watering

The plant care screen and the widget both send an APL UserEvent with
arguments [action, date]. The date is stored verbatim and pushed to every
device of the user. Widget taps end the session; taps inside the skill
keep it open and confirm by voice.

DataStore failures are logged and never change the response.
*/
package handlers
