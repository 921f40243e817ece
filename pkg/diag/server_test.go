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

package diag

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const reportText = "<<<k8s_nodes:sep(0)>>>\n{\"nodes\": [\"node1\"]}\n"

// do runs one request through a handler and returns the recorder.
func do(handler http.HandlerFunc, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNewServer(t *testing.T) {
	s := NewServer(nil)
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
	if s.config == nil || s.httpServer == nil || s.rateLimiter == nil {
		t.Fatal("server wiring incomplete")
	}
}

func TestProbeEndpoints(t *testing.T) {
	s := NewServer(nil)

	// Probes answer GET only.
	for path, handler := range map[string]http.HandlerFunc{
		"/healthz": s.handleHealth,
		"/readyz":  s.handleReady,
	} {
		if rec := do(handler, http.MethodPost, path); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s status = %d, want %d", path, rec.Code, http.StatusMethodNotAllowed)
		}
	}

	rec := do(s.handleHealth, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("health Content-Type = %q, want application/json", ct)
	}

	// Readiness follows the published report state.
	if rec := do(s.handleReady, http.MethodGet, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status before publish = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	s.setReady(true)
	if rec := do(s.handleReady, http.MethodGet, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReportEndpoint(t *testing.T) {
	s := NewServer(nil)

	// Before the first cycle there is nothing to serve.
	if rec := do(s.handleReport, http.MethodGet, "/report"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status before publish = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	s.Publish(reportText)

	rec := do(s.handleReport, http.MethodGet, "/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != reportText {
		t.Errorf("body = %q, want %q", rec.Body.String(), reportText)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if rec.Header().Get("Last-Modified") == "" {
		t.Error("missing Last-Modified header")
	}
}

func TestReportEndpointMethodNotAllowed(t *testing.T) {
	s := NewServer(nil)
	s.Publish(reportText)

	rec := do(s.handleReport, http.MethodPost, "/report")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if rec.Header().Get("Allow") != http.MethodGet {
		t.Errorf("Allow = %q, want %q", rec.Header().Get("Allow"), http.MethodGet)
	}
	// The report endpoint answers with the structured error body, not
	// the probes' plain text.
	if !strings.Contains(rec.Body.String(), ErrCodeMethodNotAllowed) {
		t.Errorf("body %q does not carry code %s", rec.Body.String(), ErrCodeMethodNotAllowed)
	}
}

func TestPublishMarksReady(t *testing.T) {
	s := NewServer(nil)

	if rec := do(s.handleReady, http.MethodGet, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status before publish = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	s.Publish(reportText)
	if rec := do(s.handleReady, http.MethodGet, "/readyz"); rec.Code != http.StatusOK {
		t.Errorf("status after publish = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRootListsRoutes(t *testing.T) {
	s := NewServer(nil)

	rec := do(s.handleRoot, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	for _, route := range []string{"/healthz", "/readyz", "/metrics", "/report"} {
		if !strings.Contains(rec.Body.String(), route) {
			t.Errorf("root body does not mention %s", route)
		}
	}

	if rec := do(s.handleRoot, http.MethodPost, "/"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestGracefulShutdown(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "127.0.0.1:18099"
	cfg.ShutdownTimeout = 100 * time.Millisecond
	s := NewServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("shutdown returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Error("shutdown timed out")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.Address == "" {
		t.Error("address not set")
	}
	if cfg.RateLimit <= 0 || cfg.RateLimitBurst <= 0 {
		t.Errorf("rate limit %v burst %d, want positive", cfg.RateLimit, cfg.RateLimitBurst)
	}
	if cfg.ShutdownTimeout <= 0 {
		t.Errorf("shutdown timeout %v, want positive", cfg.ShutdownTimeout)
	}
}

func TestNewConfigShutdownOverride(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "45")

	cfg := NewConfig()
	if cfg.ShutdownTimeout != 45*time.Second {
		t.Errorf("shutdown timeout = %v, want 45s", cfg.ShutdownTimeout)
	}
}
