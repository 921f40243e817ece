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

// Package collector gathers the raw cluster data one report cycle needs.
//
// A collection cycle pulls four kinds of data from a cluster: API object
// listings (nodes, pods, namespaces, volumes, roles, component statuses),
// per-node kubelet stats fetched through the API server proxy, custom pod
// metrics from the custom metrics API, and the server version. Each kind
// has its own collector with a typed result; the report layer runs them
// and assembles the output sections from what they return.
//
// # Collectors
//
// ObjectsCollector lists the API objects the report covers in a single
// pass and wraps them into entity lists. Node objects are returned raw
// because they are not complete until the stats collector has fetched
// each node's kubelet sample.
//
// StatsCollector fetches /api/v1/nodes/<name>/proxy/stats for every node,
// rate limited and fanned out with errgroup, and pairs each response with
// its node object. A node whose kubelet cannot be reached fails the whole
// cycle: the report sums stats across nodes, and a partial sum would be
// silently wrong.
//
// PodMetricsCollector probes the custom metrics API per namespace and
// metric name. Probe failures degrade instead of failing the cycle: a
// namespace with no pods reports not-found and contributes an empty
// series, and any other probe error drops only that namespace's reading
// for that one metric.
//
// VersionCollector and ImageCollector feed the cluster version and
// container image inventory sections.
//
// # Factories
//
// The Factory interface abstracts collector creation so tests can swap in
// collectors backed by fake clients:
//
//	factory := collector.NewDefaultFactory(clientset)
//	objects := factory.CreateObjectsCollector()
//
// The concrete collectors also expose their remote calls as function
// fields (kubelet stats fetch, metrics probe), because the fake clientset
// cannot serve raw REST requests.
//
// # Errors
//
// Collectors return structured errors from pkg/errors. Context
// cancellation and deadline expiry abort the in-flight API calls.
package collector
