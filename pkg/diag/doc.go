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

// Package diag implements the agent's diagnostic HTTP listener.
//
// The listener is optional (enabled with --diag-addr) and strictly
// separate from the monitoring output path: the agent text always goes
// through pkg/serializer, never through this server. The endpoints
// exist for operators, probes, and Prometheus.
//
// # Endpoints
//
//   - GET /          - server identity and route listing
//   - GET /healthz   - liveness probe, always healthy while serving
//   - GET /readyz    - readiness probe, ready after the first published report
//   - GET /metrics   - Prometheus registry (collection cycle and HTTP metrics)
//   - GET /report    - last rendered report as text/plain (503 before the first cycle)
//
// # Middleware
//
// The report endpoint sits behind a chain applied outermost first:
// RED instrumentation, request ids (X-Request-Id, minted when the
// caller sends none), panic recovery, a token bucket limiter from
// golang.org/x/time/rate, and debug-level access logging. The probe
// and metrics endpoints bypass the chain, so kubelet probes and
// Prometheus scrapes are never rate limited.
//
// # Usage
//
// Run alongside interval collection:
//
//	cfg := diag.NewConfig()
//	cfg.Address = ":9090"
//	srv := diag.NewServer(cfg)
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        slog.Error("diagnostic server failed", "error", err)
//	    }
//	}()
//
//	// after each successful cycle:
//	srv.Publish(text)
//
// # Integration
//
// Used by pkg/cli when --diag-addr is set. Depends on pkg/serializer
// for response encoding and pkg/defaults for timeouts.
package diag
