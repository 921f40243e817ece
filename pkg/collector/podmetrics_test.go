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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/kube-telemetry/pkg/config"
	apperrors "github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// metricResponse renders a custom metrics API response listing one
// value per pod, in pod order.
func metricResponse(t *testing.T, namespace, metricName string, pods, values []string) []byte {
	t.Helper()
	items := make([]map[string]any, 0, len(pods))
	for i, pod := range pods {
		items = append(items, map[string]any{
			"describedObject": map[string]any{
				"kind":       "Pod",
				"namespace":  namespace,
				"name":       pod,
				"apiVersion": "/v1",
			},
			"metricName": metricName,
			"value":      values[i],
		})
	}
	body, err := json.Marshal(map[string]any{"items": items})
	require.NoError(t, err)
	return body
}

func notFound() error {
	return apierrors.NewNotFound(
		schema.GroupResource{Group: "custom.metrics.k8s.io", Resource: "pods"}, "*")
}

func TestPodMetricsCollector_Collect(t *testing.T) {
	c := &PodMetricsCollector{
		Groups: []config.MetricGroup{
			{Name: "memory", Metrics: []string{"memory_rss", "memory_usage_bytes"}},
		},
		Probe: func(_ context.Context, namespace, metricName string) ([]byte, error) {
			switch namespace {
			case "default":
				if metricName == "memory_rss" {
					return metricResponse(t, namespace, metricName,
						[]string{"web-0", "web-1"}, []string{"100", "200"}), nil
				}
				return metricResponse(t, namespace, metricName,
					[]string{"web-0", "web-1"}, []string{"1000", "2000"}), nil
			case "empty":
				return nil, notFound()
			default:
				return nil, errors.New("metrics backend unavailable")
			}
		},
	}

	result, err := c.Collect(context.TODO(), []string{"default", "empty", "broken"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "memory", result[0].Group)

	// Only the namespace with data shows up; not-found and failed
	// probes contribute nothing.
	require.Len(t, result[0].ByNamespace, 1)
	series := result[0].ByNamespace["default"]
	require.Len(t, series, 2)

	assert.Equal(t, "web-0", series[0].Object.Name)
	assert.Equal(t, map[string]*string{
		"memory_rss":         ptr.To("100"),
		"memory_usage_bytes": ptr.To("1000"),
	}, series[0].Metrics)

	assert.Equal(t, "web-1", series[1].Object.Name)
	assert.Equal(t, map[string]*string{
		"memory_rss":         ptr.To("200"),
		"memory_usage_bytes": ptr.To("2000"),
	}, series[1].Metrics)
}

func TestPodMetricsCollector_CollectGroupOrder(t *testing.T) {
	groups := config.Default().MetricGroups
	c := &PodMetricsCollector{
		Groups: groups,
		Probe: func(context.Context, string, string) ([]byte, error) {
			return nil, notFound()
		},
	}

	result, err := c.Collect(context.TODO(), []string{"default"})
	require.NoError(t, err)
	require.Len(t, result, len(groups))
	for i, group := range groups {
		assert.Equal(t, group.Name, result[i].Group)
		assert.Empty(t, result[i].ByNamespace)
	}
}

func TestPodMetricsCollector_CollectTruncatesVanishedPods(t *testing.T) {
	c := &PodMetricsCollector{
		Groups: []config.MetricGroup{
			{Name: "cpu", Metrics: []string{"cpu_user", "cpu_system"}},
		},
		Probe: func(_ context.Context, namespace, metricName string) ([]byte, error) {
			// The second query sees one pod fewer than the first.
			if metricName == "cpu_user" {
				return metricResponse(t, namespace, metricName,
					[]string{"web-0", "web-1"}, []string{"10", "20"}), nil
			}
			return metricResponse(t, namespace, metricName,
				[]string{"web-0"}, []string{"1"}), nil
		},
	}

	result, err := c.Collect(context.TODO(), []string{"default"})
	require.NoError(t, err)
	require.Len(t, result, 1)

	series := result[0].ByNamespace["default"]
	require.Len(t, series, 1)
	assert.Equal(t, "web-0", series[0].Object.Name)
	assert.Equal(t, map[string]*string{
		"cpu_user":   ptr.To("10"),
		"cpu_system": ptr.To("1"),
	}, series[0].Metrics)
}

func TestPodMetricsCollector_CollectIdentityMismatch(t *testing.T) {
	c := &PodMetricsCollector{
		Groups: []config.MetricGroup{
			{Name: "memory", Metrics: []string{"memory_rss", "memory_swap"}},
		},
		Probe: func(_ context.Context, namespace, metricName string) ([]byte, error) {
			// Queries disagree on which pod sits at position zero.
			if metricName == "memory_rss" {
				return metricResponse(t, namespace, metricName,
					[]string{"web-0", "web-1"}, []string{"100", "200"}), nil
			}
			return metricResponse(t, namespace, metricName,
				[]string{"web-1", "web-0"}, []string{"5", "6"}), nil
		},
	}

	result, err := c.Collect(context.TODO(), []string{"default"})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeIdentityMismatch))
	assert.Contains(t, err.Error(), "memory")
}

func TestPodMetricsCollector_CollectUnreadableResponse(t *testing.T) {
	c := &PodMetricsCollector{
		Groups: []config.MetricGroup{
			{Name: "memory", Metrics: []string{"memory_rss"}},
		},
		Probe: func(_ context.Context, namespace, _ string) ([]byte, error) {
			if namespace == "broken" {
				return []byte("not json"), nil
			}
			return metricResponse(t, namespace, "memory_rss",
				[]string{"web-0"}, []string{"100"}), nil
		},
	}

	result, err := c.Collect(context.TODO(), []string{"broken", "default"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Len(t, result[0].ByNamespace, 1)
	assert.Contains(t, result[0].ByNamespace, "default")
}

func TestPodMetricsCollector_CollectMissingValue(t *testing.T) {
	body, err := json.Marshal(map[string]any{
		"items": []map[string]any{{
			"describedObject": map[string]any{
				"kind": "Pod", "namespace": "default", "name": "web-0", "apiVersion": "/v1",
			},
			"metricName": "memory_rss",
		}},
	})
	require.NoError(t, err)

	c := &PodMetricsCollector{
		Groups: []config.MetricGroup{
			{Name: "memory", Metrics: []string{"memory_rss"}},
		},
		Probe: func(context.Context, string, string) ([]byte, error) {
			return body, nil
		},
	}

	result, err := c.Collect(context.TODO(), []string{"default"})
	require.NoError(t, err)
	series := result[0].ByNamespace["default"]
	require.Len(t, series, 1)

	// A reading the API reported without a value stays nil.
	value, ok := series[0].Metrics["memory_rss"]
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestPodMetricsCollector_CollectWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	cancel() // Cancel immediately

	c := &PodMetricsCollector{
		Groups: config.Default().MetricGroups,
		Probe: func(context.Context, string, string) ([]byte, error) {
			return nil, fmt.Errorf("should not be reached")
		},
	}

	result, err := c.Collect(ctx, []string{"default"})
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, context.Canceled, err)
}
