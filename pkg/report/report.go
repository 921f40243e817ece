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
	"strings"
	"time"

	"github.com/NVIDIA/kube-telemetry/pkg/piggyback"
)

// Report is one fully assembled collection cycle. It holds the three
// output blocks in render order: cluster sections, per-node piggyback
// sections, and custom metrics sections.
type Report struct {
	// RunID identifies the cycle in logs and diagnostics.
	RunID string

	// Started is when the cycle began collecting.
	Started time.Time

	cluster *piggyback.Element
	nodes   *piggyback.Group
	metrics *piggyback.Element
}

// Render produces the complete agent output. Each of the three blocks
// is joined with newlines and newline terminated, so consumers see one
// section header or payload per line.
func (r *Report) Render() (string, error) {
	clusterLines, err := r.cluster.Output()
	if err != nil {
		return "", err
	}
	nodeLines, err := r.nodes.Output()
	if err != nil {
		return "", err
	}
	metricLines, err := r.metrics.Output()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.Join(clusterLines, "\n"))
	b.WriteByte('\n')
	b.WriteString(strings.Join(nodeLines, "\n"))
	b.WriteByte('\n')
	b.WriteString(strings.Join(metricLines, "\n"))
	b.WriteByte('\n')
	return b.String(), nil
}
