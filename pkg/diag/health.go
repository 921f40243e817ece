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
	"net/http"
	"time"

	"github.com/NVIDIA/kube-telemetry/pkg/serializer"
)

// HealthResponse is the JSON body of the probe endpoints.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}

func probeResponse(status, reason string) HealthResponse {
	return HealthResponse{Status: status, Timestamp: time.Now(), Reason: reason}
}

// handleHealth serves GET /healthz. Liveness is unconditional: as long
// as the listener answers, the process is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, probeResponse("healthy", ""))
}

// handleReady serves GET /readyz. The server is ready once the first
// collection cycle has published a report.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		serializer.RespondJSON(w, http.StatusServiceUnavailable,
			probeResponse("not_ready", "no completed collection cycle yet"))
		return
	}

	serializer.RespondJSON(w, http.StatusOK, probeResponse("ready", ""))
}

// handleReport serves GET /report, the last rendered report as plain
// text. Unlike the probe endpoints it rejects other methods with the
// structured error body.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	s.mu.RLock()
	report := s.lastReport
	rendered := s.lastRendered
	s.mu.RUnlock()

	if report == "" {
		serializer.RespondText(w, http.StatusServiceUnavailable, "no report collected yet\n")
		return
	}

	w.Header().Set("Last-Modified", rendered.Format(http.TimeFormat))
	serializer.RespondText(w, http.StatusOK, report)
}
