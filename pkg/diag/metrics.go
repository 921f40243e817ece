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
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ktel_http_requests_total",
		Help: "Requests served by the diagnostic listener",
	}, []string{"method", "path", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ktel_http_request_duration_seconds",
		Help:    "Diagnostic request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	requestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ktel_http_requests_in_flight",
		Help: "Diagnostic requests currently being handled",
	})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ktel_rate_limit_rejects_total",
		Help: "Requests rejected by the report endpoint rate limiter",
	})

	panicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ktel_panic_recoveries_total",
		Help: "Handler panics recovered by the middleware",
	})
)

// measureRequests tracks the request count, latency, and in-flight
// gauge for everything passing through the middleware chain.
func (s *Server) measureRequests(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		rec := recordStatus(w)
		start := time.Now()
		next.ServeHTTP(rec, r)

		requestsServed.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.Status())).Inc()
		requestLatency.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	}
}
