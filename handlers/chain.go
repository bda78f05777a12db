// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"github.com/danielhkuo/plant-care/models"
	"github.com/danielhkuo/plant-care/skill"
)

// Chain returns the request handlers in evaluation order. The reflector
// matches every IntentRequest and must stay last.
func Chain() []skill.Descriptor {
	return []skill.Descriptor{
		{Name: "InstallWidget", CanHandle: skill.RequestTypeIs(models.RequestTypeUsagesInstalled), Handle: InstallWidget},
		{Name: "RemoveWidget", CanHandle: skill.RequestTypeIs(models.RequestTypeUsagesRemoved), Handle: RemoveWidget},
		{Name: "UpdateWidget", CanHandle: skill.RequestTypeIs(models.RequestTypeUpdateRequest), Handle: UpdateWidget},
		{Name: "WidgetInstallationError", CanHandle: skill.RequestTypeIs(models.RequestTypeInstallationError), Handle: WidgetInstallationError},
		{Name: "UserEvent", CanHandle: skill.RequestTypeIs(models.RequestTypeAPLUserEvent), Handle: UserEvent},
		{Name: "Launch", CanHandle: skill.RequestTypeIs(models.RequestTypeLaunch), Handle: Launch},
		{Name: "PlantCare", CanHandle: skill.IntentIs(models.IntentPlantCare), Handle: PlantCare},
		{Name: "Help", CanHandle: skill.IntentIs(models.IntentHelp), Handle: Help},
		{Name: "CancelAndStop", CanHandle: skill.IntentIs(models.IntentCancel, models.IntentStop), Handle: CancelAndStop},
		{Name: "Fallback", CanHandle: skill.IntentIs(models.IntentFallback), Handle: Fallback},
		{Name: "SessionEnded", CanHandle: skill.RequestTypeIs(models.RequestTypeSessionEnded), Handle: SessionEnded},
		{Name: "IntentReflector", CanHandle: skill.RequestTypeIs(models.RequestTypeIntent), Handle: IntentReflector},
	}
}

// NewDispatcher wires Chain and Error into a dispatcher
func NewDispatcher(deps skill.Deps, opts ...skill.Option) *skill.Dispatcher {
	return skill.NewDispatcher(Chain(), Error, deps, opts...)
}
