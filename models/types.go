package models

import (
	"encoding/json"
	"slices"
)

// Request type constants
const (
	RequestTypeLaunch            = "LaunchRequest"
	RequestTypeIntent            = "IntentRequest"
	RequestTypeSessionEnded      = "SessionEndedRequest"
	RequestTypeUsagesInstalled   = "Alexa.DataStore.PackageManager.UsagesInstalled"
	RequestTypeUsagesRemoved     = "Alexa.DataStore.PackageManager.UsagesRemoved"
	RequestTypeUpdateRequest     = "Alexa.DataStore.PackageManager.UpdateRequest"
	RequestTypeInstallationError = "Alexa.DataStore.PackageManager.InstallationError"
	RequestTypeAPLUserEvent      = "Alexa.Presentation.APL.UserEvent"
)

// Intent name constants
const (
	IntentPlantCare = "PlantCareIntent"
	IntentHelp      = "AMAZON.HelpIntent"
	IntentCancel    = "AMAZON.CancelIntent"
	IntentStop      = "AMAZON.StopIntent"
	IntentFallback  = "AMAZON.FallbackIntent"
)

// User action discriminators sent as arguments[0] of an APL UserEvent
const (
	ActionOpenSkill     = "openSkill"
	ActionWateredWidget = "plantWateredWidget"
	ActionWateredSkill  = "plantWateredSkill"
)

const (
	InterfaceAPL              = "Alexa.Presentation.APL"
	DirectiveAPLRenderDocument = "Alexa.Presentation.APL.RenderDocument"
)

// DataStore constants
const (
	CommandPutObject = "PUT_OBJECT"
	TargetUser       = "USER"
)

// Request envelope

type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context Context  `json:"context"`
	Request Request  `json:"request"`

	// Raw is the body as received, set by the HTTP layer. Never encoded.
	Raw json.RawMessage `json:"-"`
}

type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	User        User           `json:"user"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

type Context struct {
	System System `json:"System"`
}

type System struct {
	Application Application `json:"application"`
	User        User        `json:"user"`
	Device      *Device     `json:"device,omitempty"`
	APIEndpoint string      `json:"apiEndpoint,omitempty"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

type Device struct {
	DeviceID            string                     `json:"deviceId"`
	SupportedInterfaces map[string]json.RawMessage `json:"supportedInterfaces,omitempty"`
}

// Request is the union of every request body this skill receives.
// Only the fields relevant to Type are populated.
type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp,omitempty"`
	Locale    string `json:"locale,omitempty"`

	// IntentRequest
	Intent *Intent `json:"intent,omitempty"`

	// SessionEndedRequest
	Reason string `json:"reason,omitempty"`

	// PackageManager events
	Payload     *UsagesPayload `json:"payload,omitempty"`
	FromVersion string         `json:"fromVersion,omitempty"`
	ToVersion   string         `json:"toVersion,omitempty"`

	// InstallationError and SessionEndedRequest
	Error *RequestError `json:"error,omitempty"`

	// APL UserEvent
	Token     string `json:"token,omitempty"`
	Arguments []any  `json:"arguments,omitempty"`
}

type Intent struct {
	Name               string          `json:"name"`
	ConfirmationStatus string          `json:"confirmationStatus,omitempty"`
	Slots              map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type UsagesPayload struct {
	PackageID      string  `json:"packageId,omitempty"`
	PackageVersion string  `json:"packageVersion,omitempty"`
	Usages         []Usage `json:"usages"`
}

// Usage identifies one installed widget placement
type Usage struct {
	InstanceID string `json:"instanceId"`
	Location   string `json:"location,omitempty"`
}

type RequestError struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// Response envelope

type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	UserAgent         string         `json:"userAgent,omitempty"`
	Response          Response       `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Directive is an APL RenderDocument directive. Document is sent as-is.
type Directive struct {
	Type        string          `json:"type"`
	Token       string          `json:"token,omitempty"`
	Document    json.RawMessage `json:"document,omitempty"`
	Datasources map[string]any  `json:"datasources,omitempty"`
}

// Persisted state

// Attributes is the per-user record. The JSON keys match the stored document.
type Attributes struct {
	LastWateredDate      string   `json:"date,omitempty"`
	InstalledInstanceIDs []string `json:"instances,omitempty"`
}

// HasInstance reports whether id is already on file
func (a *Attributes) HasInstance(id string) bool {
	return slices.Contains(a.InstalledInstanceIDs, id)
}

// AddInstance appends id unless present. Returns true if the record changed.
func (a *Attributes) AddInstance(id string) bool {
	if a.HasInstance(id) {
		return false
	}
	a.InstalledInstanceIDs = append(a.InstalledInstanceIDs, id)
	return true
}

// RemoveInstance drops every occurrence of id. Returns true if the record changed.
func (a *Attributes) RemoveInstance(id string) bool {
	if !a.HasInstance(id) {
		return false
	}
	a.InstalledInstanceIDs = slices.DeleteFunc(a.InstalledInstanceIDs, func(s string) bool {
		return s == id
	})
	return true
}

// DataStore wire types

type DataStoreCommand struct {
	Type      string `json:"type"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Content   any    `json:"content"`
}

// PlantData is the content of the plantData object shown by widgets
type PlantData struct {
	LastWateredDate string `json:"lastWateredDate"`
}

type DataStoreTarget struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type DataStoreRequest struct {
	Commands []DataStoreCommand `json:"commands"`
	Target   DataStoreTarget    `json:"target"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
