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
	"math"

	v1 "k8s.io/api/core/v1"

	"github.com/NVIDIA/kube-telemetry/pkg/aggregate"
	"github.com/NVIDIA/kube-telemetry/pkg/errors"
	"github.com/NVIDIA/kube-telemetry/pkg/piggyback"
	"github.com/NVIDIA/kube-telemetry/pkg/quantity"
)

// Node pairs a node API object with the machine stats snapshot
// fetched from its kubelet.
type Node struct {
	Metadata
	status v1.NodeStatus
	stats  StatsSnapshot
}

// NewNode wraps a node and parses its kubelet stats blob.
func NewNode(node v1.Node, statsBlob []byte) (*Node, error) {
	snapshot, err := ParseStatsSnapshot(statsBlob)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"parsing kubelet stats", err,
			map[string]any{"node": node.Name})
	}
	return &Node{
		Metadata: NewMetadata(node.ObjectMeta),
		status:   node.Status,
		stats:    snapshot,
	}, nil
}

// Stats returns the node's kubelet stats snapshot.
func (n *Node) Stats() StatsSnapshot {
	return n.stats
}

// Conditions maps condition types to their reported status, nil when
// the node carries no conditions.
func (n *Node) Conditions() map[string]string {
	if len(n.status.Conditions) == 0 {
		return nil
	}
	conditions := make(map[string]string, len(n.status.Conditions))
	for _, c := range n.status.Conditions {
		conditions[string(c.Type)] = string(c.Status)
	}
	return conditions
}

// Resources parses the node's capacity and allocatable quantities
// into the node resource schema. Resources the API did not report
// stay at zero.
func (n *Node) Resources() (ResourceView, error) {
	view := ZeroNodeResources()
	if err := addResourceList(view["capacity"], n.status.Capacity); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedQuantity,
			"parsing node capacity", err, map[string]any{"node": n.Name})
	}
	if err := addResourceList(view["allocatable"], n.status.Allocatable); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedQuantity,
			"parsing node allocatable", err, map[string]any{"node": n.Name})
	}
	return view, nil
}

func addResourceList(figures map[string]float64, list v1.ResourceList) error {
	if q, ok := list[v1.ResourceCPU]; ok {
		cores, err := quantity.ParseFraction(q.String())
		if err != nil {
			return err
		}
		figures["cpu"] += cores
	}
	if q, ok := list[v1.ResourceMemory]; ok {
		bytes, err := quantity.ParseMemory(q.String())
		if err != nil {
			return err
		}
		figures["memory"] += bytes
	}
	if q, ok := list[v1.ResourcePods]; ok {
		pods, err := quantity.ParseCount(q.String())
		if err != nil {
			return err
		}
		figures["pods"] += float64(pods)
	}
	return nil
}

// NodeList is the cluster's nodes in API list order.
type NodeList []*Node

// ListPayload renders the k8s_nodes section payload.
func (l NodeList) ListPayload() map[string]any {
	names := make([]string, 0, len(l))
	for _, node := range l {
		if node.Name != "" {
			names = append(names, node.Name)
		}
	}
	return map[string]any{"nodes": names}
}

// ConditionPairs returns per-node condition payloads, skipping nodes
// without conditions.
func (l NodeList) ConditionPairs() []piggyback.TargetData {
	var pairs []piggyback.TargetData
	for _, node := range l {
		if node.Name == "" {
			continue
		}
		conditions := node.Conditions()
		if conditions == nil {
			continue
		}
		data := make(map[string]any, len(conditions))
		for condType, status := range conditions {
			data[condType] = status
		}
		pairs = append(pairs, piggyback.TargetData{Target: node.Name, Data: data})
	}
	return pairs
}

// ResourcePairs returns per-node resource payloads.
func (l NodeList) ResourcePairs() ([]piggyback.TargetData, error) {
	var pairs []piggyback.TargetData
	for _, node := range l {
		if node.Name == "" {
			continue
		}
		resources, err := node.Resources()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, piggyback.TargetData{Target: node.Name, Data: resources.Payload()})
	}
	return pairs, nil
}

// StatsPairs returns per-node kubelet stats payloads.
func (l NodeList) StatsPairs() []piggyback.TargetData {
	var pairs []piggyback.TargetData
	for _, node := range l {
		if node.Name == "" {
			continue
		}
		pairs = append(pairs, piggyback.TargetData{Target: node.Name, Data: node.stats.Payload()})
	}
	return pairs
}

// ClusterResources sums node resources across the cluster. An empty
// node list reports ErrCodeEmptyAggregation.
func (l NodeList) ClusterResources() (map[string]any, error) {
	var views []ResourceView
	for _, node := range l {
		if node.Name == "" {
			continue
		}
		resources, err := node.Resources()
		if err != nil {
			return nil, err
		}
		views = append(views, resources)
	}
	total, err := aggregate.Reduce(views, ResourceView.Add)
	if err != nil {
		return nil, err
	}
	return total.Payload(), nil
}

// ClusterStats sums node stats across the cluster and averages the
// sample timestamps to one decimal place.
func (l NodeList) ClusterStats() (map[string]any, error) {
	var snapshots []StatsSnapshot
	for _, node := range l {
		if node.Name == "" {
			continue
		}
		snapshots = append(snapshots, node.stats)
	}
	total, err := aggregate.Reduce(snapshots, StatsSnapshot.Add)
	if err != nil {
		return nil, err
	}
	payload := total.Payload()
	payload["timestamp"] = math.Round(total["timestamp"]/float64(len(snapshots))*10) / 10
	return payload, nil
}
