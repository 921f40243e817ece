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

package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ktel_report_cycle_duration_seconds",
		Help:    "Time taken to collect and assemble a complete report",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

	// Labelled success, error, timeout, or unavailable.
	cycleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ktel_report_cycles_total",
		Help: "Report cycles attempted, by outcome",
	}, []string{"status"})

	// Labelled objects, stats, podmetrics, version, or images.
	collectorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ktel_report_collector_duration_seconds",
		Help:    "Per-collector share of the cycle",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
	}, []string{"collector"})

	reportNodeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ktel_report_nodes",
		Help: "Nodes in the last collected report",
	})
)
