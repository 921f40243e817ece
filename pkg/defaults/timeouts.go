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

package defaults

import "time"

// Per-request deadlines for the collectors. Each bounds one outbound
// request, not the whole cycle.
const (
	// CollectorListTimeout bounds one typed API listing.
	CollectorListTimeout = 30 * time.Second

	// CollectorStatsTimeout bounds one kubelet stats fetch through the
	// API server proxy.
	CollectorStatsTimeout = 30 * time.Second

	// CollectorMetricsTimeout bounds one custom metrics probe.
	CollectorMetricsTimeout = 10 * time.Second
)

// Diagnostic listener timeouts, mirrored into its net/http.Server.
const (
	// DiagReadTimeout caps reading an entire request.
	DiagReadTimeout = 10 * time.Second

	// DiagReadHeaderTimeout caps reading the header block alone,
	// which keeps slow-header clients from pinning connections.
	DiagReadHeaderTimeout = 5 * time.Second

	// DiagWriteTimeout caps writing a response.
	DiagWriteTimeout = 30 * time.Second

	// DiagIdleTimeout caps waiting for the next keep-alive request.
	DiagIdleTimeout = 120 * time.Second

	// DiagShutdownTimeout caps the connection drain on shutdown.
	DiagShutdownTimeout = 30 * time.Second
)

// Report endpoint rate limiting.
const (
	// DiagRateLimit is the sustained request rate allowed on /report.
	DiagRateLimit = 100

	// DiagRateLimitBurst is the burst allowance above DiagRateLimit.
	DiagRateLimitBurst = 200
)

// ConfigMap output.
const (
	// ConfigMapApplyTimeout bounds one apply of the report ConfigMap.
	ConfigMapApplyTimeout = 30 * time.Second
)

// Command line.
const (
	// CLICollectTimeout bounds one whole collection cycle.
	CLICollectTimeout = 5 * time.Minute
)

// Kubelet stats fan-out. These keep a large cluster from hammering
// the API server proxy.
const (
	// StatsRequestsPerSecond is the sustained stats fetch rate.
	StatsRequestsPerSecond = 10

	// StatsRequestBurst is the burst allowance above the sustained
	// rate.
	StatsRequestBurst = 20

	// StatsFetchConcurrency bounds in-flight stats fetches.
	StatsFetchConcurrency = 8
)

// REST client throttling. One cycle issues the object listings plus a
// stats fetch per node; the client-go defaults are too low for that on
// large clusters.
const (
	// ClientQPS caps sustained client-go requests per second.
	ClientQPS = 50

	// ClientBurst is the burst allowance above ClientQPS.
	ClientBurst = 100
)
