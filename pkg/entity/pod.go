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
	"sort"

	v1 "k8s.io/api/core/v1"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
	"github.com/NVIDIA/kube-telemetry/pkg/piggyback"
	"github.com/NVIDIA/kube-telemetry/pkg/quantity"
)

// Pod wraps a pod API object. Node is the name of the node the pod is
// scheduled on, empty for pending pods.
type Pod struct {
	Metadata
	Node       string
	containers []v1.Container
}

// NewPod wraps a pod.
func NewPod(pod v1.Pod) *Pod {
	return &Pod{
		Metadata:   NewMetadata(pod.ObjectMeta),
		Node:       pod.Spec.NodeName,
		containers: pod.Spec.Containers,
	}
}

// Resources sums limits and requests over the pod's containers. A
// container without limits may consume anything, so it contributes
// infinity; a missing request contributes zero.
func (p *Pod) Resources() (ResourceView, error) {
	view := ZeroPodResources()
	for _, container := range p.containers {
		if err := p.addContainer(view, container); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeMalformedQuantity,
				"parsing container resources", err,
				map[string]any{"pod": p.Name, "container": container.Name})
		}
	}
	return view, nil
}

func (p *Pod) addContainer(view ResourceView, container v1.Container) error {
	limits := container.Resources.Limits
	if len(limits) == 0 {
		view["limits"]["cpu"] += math.Inf(1)
		view["limits"]["memory"] += math.Inf(1)
	} else {
		cpu, err := limitedFraction(limits, v1.ResourceCPU)
		if err != nil {
			return err
		}
		memory, err := limitedMemory(limits, v1.ResourceMemory)
		if err != nil {
			return err
		}
		view["limits"]["cpu"] += cpu
		view["limits"]["memory"] += memory
	}

	requests := container.Resources.Requests
	if len(requests) > 0 {
		if q, ok := requests[v1.ResourceCPU]; ok {
			cpu, err := quantity.ParseFraction(q.String())
			if err != nil {
				return err
			}
			view["requests"]["cpu"] += cpu
		}
		if q, ok := requests[v1.ResourceMemory]; ok {
			memory, err := quantity.ParseMemory(q.String())
			if err != nil {
				return err
			}
			view["requests"]["memory"] += memory
		}
	}
	return nil
}

// limitedFraction reads a CPU limit, defaulting to infinity when the
// limit list names other resources but not this one.
func limitedFraction(list v1.ResourceList, name v1.ResourceName) (float64, error) {
	q, ok := list[name]
	if !ok {
		return math.Inf(1), nil
	}
	return quantity.ParseFraction(q.String())
}

func limitedMemory(list v1.ResourceList, name v1.ResourceName) (float64, error) {
	q, ok := list[name]
	if !ok {
		return math.Inf(1), nil
	}
	return quantity.ParseMemory(q.String())
}

// PodList is the cluster's pods in API list order.
type PodList []*Pod

// scheduledByNode groups pods by node name in sorted node order,
// leaving out pods that are not scheduled anywhere yet.
func (l PodList) scheduledByNode() ([]string, map[string]PodList) {
	byNode := make(map[string]PodList)
	for _, pod := range l {
		if pod.Node == "" {
			continue
		}
		byNode[pod.Node] = append(byNode[pod.Node], pod)
	}
	nodes := make([]string, 0, len(byNode))
	for node := range byNode {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes, byNode
}

// PodsPerNodePairs returns per-node pod counts.
func (l PodList) PodsPerNodePairs() []piggyback.TargetData {
	nodes, byNode := l.scheduledByNode()
	pairs := make([]piggyback.TargetData, 0, len(nodes))
	for _, node := range nodes {
		pairs = append(pairs, piggyback.TargetData{
			Target: node,
			Data: map[string]any{
				"requests": map[string]any{"pods": len(byNode[node])},
			},
		})
	}
	return pairs
}

// PodsInCluster renders the cluster-wide pod count payload.
func (l PodList) PodsInCluster() map[string]any {
	return map[string]any{
		"requests": map[string]any{"pods": len(l)},
	}
}

// ResourcesPerNodePairs sums pod resources per node. Each node folds
// from the zero schema, so a node whose pods all lack limits reports
// infinite limits rather than an error.
func (l PodList) ResourcesPerNodePairs() ([]piggyback.TargetData, error) {
	nodes, byNode := l.scheduledByNode()
	pairs := make([]piggyback.TargetData, 0, len(nodes))
	for _, node := range nodes {
		total := ZeroPodResources()
		for _, pod := range byNode[node] {
			resources, err := pod.Resources()
			if err != nil {
				return nil, err
			}
			total = total.Add(resources)
		}
		pairs = append(pairs, piggyback.TargetData{Target: node, Data: total.Payload()})
	}
	return pairs, nil
}

// ClusterResources sums resources over every pod, scheduled or not,
// seeded with the zero schema so an empty cluster reports zeros.
func (l PodList) ClusterResources() (map[string]any, error) {
	total := ZeroPodResources()
	for _, pod := range l {
		resources, err := pod.Resources()
		if err != nil {
			return nil, err
		}
		total = total.Add(resources)
	}
	return total.Payload(), nil
}
