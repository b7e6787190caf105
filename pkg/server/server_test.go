// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithName("usaged"), WithVersion("v1.2.3"), WithHandler(routes))
	if s == nil {
		t.Fatal("expected server instance, got nil")
		return
	}

	if s.config.Name != "usaged" || s.config.Version != "v1.2.3" {
		t.Errorf("unexpected identity: %s %s", s.config.Name, s.config.Version)
	}
	if len(s.config.Handlers) != 1 {
		t.Errorf("expected 1 handler, got %d", len(s.config.Handlers))
	}
	if s.httpServer == nil {
		t.Error("expected httpServer to be initialized")
	}
	if s.rateLimiter == nil {
		t.Error("expected rateLimiter to be initialized")
	}
}

func TestWithConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = 9191

	s := New(WithConfig(cfg))

	if s.Addr() != ":9191" {
		t.Errorf("Addr() = %q, want :9191", s.Addr())
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	tests := []struct {
		name       string
		method     string
		wantStatus int
	}{
		{"get", http.MethodGet, http.StatusOK},
		{"post rejected", http.MethodPost, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handleHealth(rec, httptest.NewRequest(tt.method, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestReadyEndpoint(t *testing.T) {
	s := New()

	tests := []struct {
		name           string
		ready          bool
		expectedStatus int
		expectedState  string
	}{
		{"ready state", true, http.StatusOK, "ready"},
		{"not ready state", false, http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetReady(tt.ready)

			rec := httptest.NewRecorder()
			s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedState {
				t.Errorf("status = %q, want %q", resp.Status, tt.expectedState)
			}
		})
	}
}

func TestRoutes(t *testing.T) {
	s := New(
		WithName("usaged"),
		WithHandler(map[string]http.HandlerFunc{
			"/v1/report": func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Seen-Request-Id", RequestID(r.Context()))
				w.WriteHeader(http.StatusOK)
			},
		}),
	)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"api handler", "/v1/report", http.StatusOK},
		{"health", "/health", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"root", "/", http.StatusOK},
		{"unknown", "/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestAPIHandlerRunsBehindMiddleware(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{
		"/v1/report": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Seen-Request-Id", RequestID(r.Context()))
			w.WriteHeader(http.StatusOK)
		},
	}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/report", nil))

	id := rec.Header().Get("X-Request-Id")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected request id header, got %q", id)
	}
	if rec.Header().Get("X-Seen-Request-Id") != id {
		t.Errorf("handler saw %q, response carried %q", rec.Header().Get("X-Seen-Request-Id"), id)
	}
	if rec.Header().Get("X-API-Version") != DefaultAPIVersion {
		t.Errorf("X-API-Version = %q", rec.Header().Get("X-API-Version"))
	}
}

func TestDefaultRouteListsRoutes(t *testing.T) {
	s := New(
		WithName("usaged"),
		WithVersion("v0.1.0"),
		WithHandler(map[string]http.HandlerFunc{
			"/v1/summary": func(http.ResponseWriter, *http.Request) {},
			"/v1/report":  func(http.ResponseWriter, *http.Request) {},
		}),
	)

	rec := httptest.NewRecorder()
	s.handleDefault(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp struct {
		Name    string   `json:"name"`
		Version string   `json:"version"`
		Routes  []string `json:"routes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := []string{"/v1/report", "/v1/summary", "/health", "/ready", "/metrics"}
	if len(resp.Routes) != len(want) {
		t.Fatalf("routes = %v, want %v", resp.Routes, want)
	}
	for i := range want {
		if resp.Routes[i] != want[i] {
			t.Errorf("routes[%d] = %q, want %q", i, resp.Routes[i], want[i])
		}
	}
	if resp.Name != "usaged" || resp.Version != "v0.1.0" {
		t.Errorf("unexpected identity %q %q", resp.Name, resp.Version)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second

	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	if s.isReady() {
		t.Error("expected server to be not ready after shutdown")
	}
}
