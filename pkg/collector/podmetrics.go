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

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/kube-telemetry/pkg/config"
	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
	"github.com/NVIDIA/kube-telemetry/pkg/metric"
)

// ProbeFunc fetches the raw custom metrics API response for one
// namespace and metric name.
type ProbeFunc func(ctx context.Context, namespace, metricName string) ([]byte, error)

// PodMetrics holds one metric group's combined per-namespace series.
type PodMetrics struct {
	Group       string
	ByNamespace map[string]metric.Series
}

// PodMetricsCollector probes the custom metrics API for pod metrics.
//
// Probes degrade instead of failing the cycle: a namespace with no pods
// reporting a metric answers not-found and contributes nothing, and any
// other probe failure drops only that namespace's reading for that one
// metric. Combining probe results is still fatal when it reports an
// identity mismatch, because that means unrelated queries were zipped
// together.
type PodMetricsCollector struct {
	// Groups are the metric groups to probe, in report section order.
	Groups []config.MetricGroup

	// Probe performs one metrics request. Production collectors use the
	// custom metrics API; tests inject canned responses.
	Probe ProbeFunc
}

// Collect probes every configured metric for every namespace and
// combines the per-metric results into one series per namespace.
func (c *PodMetricsCollector) Collect(ctx context.Context, namespaces []string) ([]PodMetrics, error) {
	// Check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]PodMetrics, 0, len(c.Groups))
	for _, group := range c.Groups {
		queries := make([]map[string]metric.Series, 0, len(group.Metrics))
		for _, name := range group.Metrics {
			queries = append(queries, c.probeMetric(ctx, namespaces, name))
		}

		grouped := make(map[string][]metric.Series)
		for _, query := range queries {
			for namespace, series := range query {
				grouped[namespace] = append(grouped[namespace], series)
			}
		}

		byNamespace := make(map[string]metric.Series, len(grouped))
		for namespace, series := range grouped {
			combined, err := metric.Merge(series)
			if err != nil {
				return nil, fmt.Errorf("failed to combine %s metrics for namespace %q: %w",
					group.Name, namespace, err)
			}
			byNamespace[namespace] = combined
		}

		out = append(out, PodMetrics{Group: group.Name, ByNamespace: byNamespace})
	}
	return out, nil
}

// probeMetric queries one metric across all namespaces. Namespaces
// whose probe fails are left out of the result.
func (c *PodMetricsCollector) probeMetric(ctx context.Context, namespaces []string, metricName string) map[string]metric.Series {
	slog.Debug("querying custom metrics endpoint", slog.String("metric", metricName))

	byNamespace := make(map[string]metric.Series)
	for _, namespace := range namespaces {
		probeCtx, cancel := context.WithTimeout(ctx, defaults.CollectorMetricsTimeout)
		body, err := c.Probe(probeCtx, namespace, metricName)
		cancel()

		if apierrors.IsNotFound(err) {
			slog.Debug("data unavailable, no pods in namespace",
				slog.String("namespace", namespace),
				slog.String("metric", metricName))
			continue
		}
		if err != nil {
			slog.Warn("custom metrics probe failed",
				slog.String("namespace", namespace),
				slog.String("metric", metricName),
				slog.String("error", err.Error()))
			continue
		}

		series, err := decodeSeries(body)
		if err != nil {
			slog.Warn("discarding unreadable custom metrics response",
				slog.String("namespace", namespace),
				slog.String("metric", metricName),
				slog.String("error", err.Error()))
			continue
		}
		byNamespace[namespace] = series
	}
	return byNamespace
}

// metricValueList mirrors the custom metrics API's MetricValueList.
type metricValueList struct {
	Items []metricValue `json:"items"`
}

type metricValue struct {
	DescribedObject metric.DescribedObject `json:"describedObject"`
	MetricName      string                 `json:"metricName"`
	Value           *string                `json:"value"`
}

func decodeSeries(body []byte) (metric.Series, error) {
	var list metricValueList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	series := make(metric.Series, 0, len(list.Items))
	for _, item := range list.Items {
		series = append(series, metric.NewSample(item.DescribedObject, item.MetricName, item.Value))
	}
	return series, nil
}

// customMetricsProbe requests
// /apis/custom.metrics.k8s.io/v1beta1/namespaces/<ns>/pods/*/<metric>.
func customMetricsProbe(clientset kubernetes.Interface) ProbeFunc {
	return func(ctx context.Context, namespace, metricName string) ([]byte, error) {
		return clientset.Discovery().RESTClient().
			Get().
			AbsPath("/apis/custom.metrics.k8s.io/v1beta1",
				"namespaces", namespace, "pods/*", metricName).
			DoRaw(ctx)
	}
}
