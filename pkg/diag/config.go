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
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
)

// Config holds the diagnostic listener settings.
type Config struct {
	// Name and Version identify the agent in the root endpoint body.
	Name, Version string

	// Address is the listen address, e.g. ":9090" or "127.0.0.1:9090".
	Address string

	// RateLimit and RateLimitBurst bound the report endpoint. The
	// probe and metrics endpoints are never limited.
	RateLimit      rate.Limit
	RateLimitBurst int

	// HTTP server timeouts.
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns the default listener settings. The environment
// variable SHUTDOWN_TIMEOUT_SECONDS overrides the shutdown grace so it
// can track the pod's termination grace period.
func NewConfig() *Config {
	cfg := &Config{
		Name:              "ktel",
		Version:           "undefined",
		Address:           ":9090",
		RateLimit:         defaults.DiagRateLimit,
		RateLimitBurst:    defaults.DiagRateLimitBurst,
		ReadTimeout:       defaults.DiagReadTimeout,
		ReadHeaderTimeout: defaults.DiagReadHeaderTimeout,
		WriteTimeout:      defaults.DiagWriteTimeout,
		IdleTimeout:       defaults.DiagIdleTimeout,
		ShutdownTimeout:   defaults.DiagShutdownTimeout,
	}

	if raw := os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
		}
	}

	return cfg
}
