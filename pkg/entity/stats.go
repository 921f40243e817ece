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

package entity

import (
	"encoding/json"
	"time"

	"github.com/NVIDIA/kube-telemetry/pkg/aggregate"
	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

// StatsSnapshot is one node's latest kubelet machine stats, flattened
// to a fixed numeric schema. Every node produces the same keys, which
// keeps cross-node aggregation schema-preserving. The timestamp key
// holds the sample time in epoch whole seconds.
type StatsSnapshot map[string]float64

// statsBlob models the kubelet stats endpoint response: a rolling
// window of samples, roughly the last two minutes at 10s intervals.
type statsBlob struct {
	Stats []statsSample `json:"stats"`
}

type statsSample struct {
	Timestamp string `json:"timestamp"`
	CPU       struct {
		Usage struct {
			Total  float64 `json:"total"`
			User   float64 `json:"user"`
			System float64 `json:"system"`
		} `json:"usage"`
		LoadAverage float64 `json:"load_average"`
	} `json:"cpu"`
	Memory struct {
		Usage      float64 `json:"usage"`
		WorkingSet float64 `json:"working_set"`
		RSS        float64 `json:"rss"`
		Cache      float64 `json:"cache"`
		Swap       float64 `json:"swap"`
		Failcnt    float64 `json:"failcnt"`
	} `json:"memory"`
	Network struct {
		RxBytes  float64 `json:"rx_bytes"`
		TxBytes  float64 `json:"tx_bytes"`
		RxErrors float64 `json:"rx_errors"`
		TxErrors float64 `json:"tx_errors"`
	} `json:"network"`
	Filesystem []struct {
		Capacity float64 `json:"capacity"`
		Usage    float64 `json:"usage"`
	} `json:"filesystem"`
}

// ParseStatsSnapshot projects the latest sample of a kubelet stats
// blob onto the flat snapshot schema. Filesystem figures are summed
// across devices.
func ParseStatsSnapshot(blob []byte) (StatsSnapshot, error) {
	var parsed statsBlob
	if err := json.Unmarshal(blob, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal,
			"kubelet stats blob is not valid JSON", err)
	}
	if len(parsed.Stats) == 0 {
		return nil, errors.New(errors.ErrCodeInternal,
			"kubelet stats blob contains no samples")
	}

	latest := parsed.Stats[len(parsed.Stats)-1]
	ts, err := time.Parse(time.RFC3339Nano, latest.Timestamp)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"kubelet stats sample has a malformed timestamp", err,
			map[string]any{"timestamp": latest.Timestamp})
	}

	snapshot := StatsSnapshot{
		"timestamp":          float64(ts.Unix()),
		"cpu_usage_total":    latest.CPU.Usage.Total,
		"cpu_usage_user":     latest.CPU.Usage.User,
		"cpu_usage_system":   latest.CPU.Usage.System,
		"cpu_load_average":   latest.CPU.LoadAverage,
		"memory_usage":       latest.Memory.Usage,
		"memory_working_set": latest.Memory.WorkingSet,
		"memory_rss":         latest.Memory.RSS,
		"memory_cache":       latest.Memory.Cache,
		"memory_swap":        latest.Memory.Swap,
		"memory_failcnt":     latest.Memory.Failcnt,
		"network_rx_bytes":   latest.Network.RxBytes,
		"network_tx_bytes":   latest.Network.TxBytes,
		"network_rx_errors":  latest.Network.RxErrors,
		"network_tx_errors":  latest.Network.TxErrors,
	}

	var fsCapacity, fsUsage float64
	for _, fs := range latest.Filesystem {
		fsCapacity += fs.Capacity
		fsUsage += fs.Usage
	}
	snapshot["filesystem_capacity"] = fsCapacity
	snapshot["filesystem_usage"] = fsUsage

	return snapshot, nil
}

// Add combines two snapshots leafwise under the receiver's schema.
func (s StatsSnapshot) Add(other StatsSnapshot) StatsSnapshot {
	return aggregate.Fold(s, other, func(a, b float64) float64 { return a + b })
}

// Payload renders the snapshot for a report section.
func (s StatsSnapshot) Payload() map[string]any {
	out := make(map[string]any, len(s))
	for key, value := range s {
		out[key] = value
	}
	return out
}
