// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/plant-care/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("POST", "/", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, `{"version":"1.0"}`},
		{"BadRequest", http.StatusBadRequest, `{"error":"bad request"}`},
		{"NotFound", http.StatusNotFound, "not found"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			req := httptest.NewRequest("POST", "/", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestWithLogging_RequestID(t *testing.T) {
	t.Run("generated when absent", func(t *testing.T) {
		var seen string
		handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestID(r.Context())
		})

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("POST", "/", nil))

		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("Expected a UUID request id, got %q", seen)
		}
		if got := w.Header().Get(RequestIDHeader); got != seen {
			t.Errorf("Expected response header %q, got %q", seen, got)
		}
	})

	t.Run("incoming id is reused", func(t *testing.T) {
		var seen string
		handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestID(r.Context())
		})

		req := httptest.NewRequest("POST", "/", nil)
		req.Header.Set(RequestIDHeader, "trace-abc")
		w := httptest.NewRecorder()
		handler(w, req)

		if seen != "trace-abc" {
			t.Errorf("Expected request id 'trace-abc', got %q", seen)
		}
		if got := w.Header().Get(RequestIDHeader); got != "trace-abc" {
			t.Errorf("Expected response header 'trace-abc', got %q", got)
		}
	})

	t.Run("empty outside middleware", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", nil)
		if id := RequestID(req.Context()); id != "" {
			t.Errorf("Expected empty request id, got %q", id)
		}
	})
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "simple map",
			statusCode: http.StatusOK,
			data:       map[string]string{"status": "ok"},
			expected:   `{"status":"ok"}`,
		},
		{
			name:       "skill response",
			statusCode: http.StatusOK,
			data:       models.ResponseEnvelope{Version: "1.0"},
			expected:   `{"version":"1.0","response":{}}`,
		},
		{
			name:       "error response",
			statusCode: http.StatusBadRequest,
			data:       models.ErrorResponse{Error: "Bad Request", Message: "missing field"},
			expected:   `{"error":"Bad Request","message":"missing field"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		message       string
		expectedError string
	}{
		{"bad request", http.StatusBadRequest, "invalid request envelope", "Bad Request"},
		{"too large", http.StatusRequestEntityTooLarge, "body too large", "Request Entity Too Large"},
		{"internal error", http.StatusInternalServerError, "database error", "Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != tc.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectedError, resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		body := `{"version":"1.0","request":{"type":"LaunchRequest","requestId":"r1"},"unknownField":true}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.RequestEnvelope
		raw, err := ParseJSONBody(httptest.NewRecorder(), req, &parsed)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Request.Type != models.RequestTypeLaunch {
			t.Errorf("Expected LaunchRequest, got '%s'", parsed.Request.Type)
		}
		if string(raw) != body {
			t.Errorf("Expected the body back unchanged, got '%s'", raw)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.RequestEnvelope
		if _, err := ParseJSONBody(httptest.NewRecorder(), req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.RequestEnvelope
		if _, err := ParseJSONBody(httptest.NewRecorder(), req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"version":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.RequestEnvelope
		_, err := ParseJSONBody(httptest.NewRecorder(), req, &parsed)

		var maxErr *http.MaxBytesError
		if !errors.As(err, &maxErr) {
			t.Errorf("Expected MaxBytesError, got %v", err)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{
			name:       "X-Forwarded-For single IP",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.100"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "192.168.1.100",
		},
		{
			name:       "X-Forwarded-For chained IPs",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18, 150.172.238.178"},
			remoteAddr: "127.0.0.1:12345",
			expectedIP: "203.0.113.195",
		},
		{
			name:       "X-Real-IP takes precedence over RemoteAddr",
			headers:    map[string]string{"X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.100", "X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "192.168.1.100",
		},
		{
			name:       "RemoteAddr with port",
			remoteAddr: "192.168.1.50:54321",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.1.50",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "IPv6 RemoteAddr",
			remoteAddr: "[::1]:8080",
			expectedIP: "::1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if ip := GetClientIP(req); ip != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, ip)
			}
		})
	}
}
