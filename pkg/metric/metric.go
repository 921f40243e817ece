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

// Package metric models samples returned by the custom metrics API and
// combines samples for the same object across metric queries.
package metric

import (
	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// DescribedObject identifies the Kubernetes object a sample was
// measured for. The JSON tags follow the custom metrics API's
// describedObject encoding.
type DescribedObject struct {
	Kind       string `json:"kind"`
	Namespace  string `json:"namespace"`
	Name       string `json:"name"`
	APIVersion string `json:"apiVersion"`
}

// Sample carries the metric values observed for one object. A nil
// value records that the API reported the metric without a reading.
type Sample struct {
	Object  DescribedObject
	Metrics map[string]*string
}

// NewSample builds a sample holding a single metric reading.
func NewSample(object DescribedObject, metricName string, value *string) Sample {
	return Sample{
		Object:  object,
		Metrics: map[string]*string{metricName: value},
	}
}

// Combine merges another sample's readings into a copy of s. Samples
// for different objects cannot be combined and report
// ErrCodeIdentityMismatch. On duplicate metric names the other
// sample's reading wins.
func (s Sample) Combine(other Sample) (Sample, error) {
	if s.Object != other.Object {
		return Sample{}, errors.NewWithContext(errors.ErrCodeIdentityMismatch,
			"cannot combine samples for different objects",
			map[string]any{
				"object":       s.Object.Name,
				"other_object": other.Object.Name,
			})
	}
	merged := make(map[string]*string, len(s.Metrics)+len(other.Metrics))
	for name, value := range s.Metrics {
		merged[name] = value
	}
	for name, value := range other.Metrics {
		merged[name] = value
	}
	return Sample{Object: s.Object, Metrics: merged}, nil
}

// Series is an ordered list of samples as returned by one metric
// query.
type Series []Sample

// Combine zips two series pairwise. Queries against the same set of
// pods return samples in the same order, so position identifies the
// object; the result is truncated to the shorter series when pods
// appeared or vanished between queries.
func (s Series) Combine(other Series) (Series, error) {
	n := len(s)
	if len(other) < n {
		n = len(other)
	}
	combined := make(Series, 0, n)
	for i := 0; i < n; i++ {
		sample, err := s[i].Combine(other[i])
		if err != nil {
			return nil, err
		}
		combined = append(combined, sample)
	}
	return combined, nil
}

// Merge folds several series for the same namespace into one.
func Merge(series []Series) (Series, error) {
	if len(series) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyAggregation,
			"cannot merge zero metric series")
	}
	acc := series[0]
	for _, next := range series[1:] {
		var err error
		acc, err = acc.Combine(next)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// ListPayload renders the series for a report section.
func (s Series) ListPayload() []map[string]any {
	items := make([]map[string]any, 0, len(s))
	for _, sample := range s {
		metrics := make(map[string]any, len(sample.Metrics))
		for name, value := range sample.Metrics {
			if value != nil {
				metrics[name] = *value
			} else {
				metrics[name] = nil
			}
		}
		items = append(items, map[string]any{
			"from_object": map[string]any{
				"kind":       sample.Object.Kind,
				"namespace":  sample.Object.Namespace,
				"name":       sample.Object.Name,
				"apiVersion": sample.Object.APIVersion,
			},
			"metrics": metrics,
		})
	}
	return items
}
