// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/plant-care/cliparse"
	"github.com/danielhkuo/plant-care/db"
	"github.com/danielhkuo/plant-care/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		TokenURL:     "http://127.0.0.1:0/auth/o2/token",
		TokenTimeout: 3 * time.Second,
		DataStoreURL: "http://127.0.0.1:0",
		Namespace:    "plantCareReminder",
		ObjectKey:    "plantData",
		ServiceName:  "plant-care-test",
	}
}

// NewUserID returns a unique user id for a test
func NewUserID() string {
	return "amzn1.ask.account." + uuid.NewString()
}

// TokenServer is a fake OAuth token endpoint
type TokenServer struct {
	*httptest.Server

	mu       sync.Mutex
	fail     bool
	requests []map[string]string
}

// NewTokenServer starts a token endpoint that issues "Bearer test-access-token"
func NewTokenServer(t *testing.T) *TokenServer {
	t.Helper()

	ts := &TokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}

		ts.mu.Lock()
		ts.requests = append(ts.requests, form)
		fail := ts.fail
		ts.mu.Unlock()

		if fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client","error_description":"Client authentication failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-access-token","token_type":"Bearer","expires_in":3600,"scope":"alexa::datastore"}`))
	}))
	t.Cleanup(ts.Close)

	return ts
}

// TokenURL is the full token endpoint URL
func (ts *TokenServer) TokenURL() string {
	return ts.URL + "/auth/o2/token"
}

// SetFail makes the endpoint reject every request
func (ts *TokenServer) SetFail(fail bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.fail = fail
}

// Requests returns the form bodies received so far
func (ts *TokenServer) Requests() []map[string]string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]map[string]string, len(ts.requests))
	copy(out, ts.requests)
	return out
}

// DataStoreCall is one request received by the fake DataStore
type DataStoreCall struct {
	Authorization string
	Body          models.DataStoreRequest
}

// DataStoreServer is a fake DataStore commands endpoint
type DataStoreServer struct {
	*httptest.Server

	mu     sync.Mutex
	status int
	calls  []DataStoreCall
}

// NewDataStoreServer starts a DataStore endpoint that accepts every command
func NewDataStoreServer(t *testing.T) *DataStoreServer {
	t.Helper()

	ds := &DataStoreServer{status: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/datastore/commands", func(w http.ResponseWriter, r *http.Request) {
		var body models.DataStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ds.mu.Lock()
		ds.calls = append(ds.calls, DataStoreCall{Authorization: r.Header.Get("Authorization"), Body: body})
		status := ds.status
		ds.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			w.Write([]byte(`{"type":"INVALID_REQUEST","message":"rejected by test"}`))
			return
		}
		w.Write([]byte(`{"results":[{"id":"` + body.Target.ID + `","type":"USER","status":"QUEUED"}]}`))
	})
	ds.Server = httptest.NewServer(mux)
	t.Cleanup(ds.Close)

	return ds
}

// SetStatus sets the HTTP status returned to subsequent pushes
func (ds *DataStoreServer) SetStatus(status int) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.status = status
}

// Calls returns the pushes received so far
func (ds *DataStoreServer) Calls() []DataStoreCall {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	out := make([]DataStoreCall, len(ds.calls))
	copy(out, ds.calls)
	return out
}

// NewEnvelope builds a request envelope of the given type for userID
func NewEnvelope(requestType, userID string) *models.RequestEnvelope {
	return &models.RequestEnvelope{
		Version: "1.0",
		Context: models.Context{
			System: models.System{
				Application: models.Application{ApplicationID: "amzn1.ask.skill.test"},
				User:        models.User{UserID: userID},
				Device:      &models.Device{DeviceID: "amzn1.ask.device.test"},
			},
		},
		Request: models.Request{
			Type:      requestType,
			RequestID: "amzn1.echo-api.request." + uuid.NewString(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Locale:    "en-US",
		},
	}
}

// WithAPL marks the envelope's device as APL capable
func WithAPL(env *models.RequestEnvelope) *models.RequestEnvelope {
	if env.Context.System.Device == nil {
		env.Context.System.Device = &models.Device{}
	}
	env.Context.System.Device.SupportedInterfaces = map[string]json.RawMessage{
		models.InterfaceAPL: json.RawMessage(`{"runtime":{"maxVersion":"2023.2"}}`),
	}
	return env
}

// IntentEnvelope builds an IntentRequest for intentName
func IntentEnvelope(userID, intentName string) *models.RequestEnvelope {
	env := NewEnvelope(models.RequestTypeIntent, userID)
	env.Request.Intent = &models.Intent{Name: intentName, ConfirmationStatus: "NONE"}
	return env
}

// UsageEnvelope builds an install or remove event for one widget instance
func UsageEnvelope(requestType, userID, instanceID string) *models.RequestEnvelope {
	env := NewEnvelope(requestType, userID)
	env.Request.Payload = &models.UsagesPayload{
		PackageID:      "plant-care-widget",
		PackageVersion: "1.0",
		Usages:         []models.Usage{{InstanceID: instanceID}},
	}
	return env
}

// UserEventEnvelope builds an APL UserEvent with the given arguments
func UserEventEnvelope(userID string, args ...any) *models.RequestEnvelope {
	env := NewEnvelope(models.RequestTypeAPLUserEvent, userID)
	env.Request.Arguments = args
	return env
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
