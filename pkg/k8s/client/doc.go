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

// Package client builds the Kubernetes clients the agent talks
// through.
//
// Discovery is the usual path: the in-cluster service account when the
// agent runs as a pod, otherwise KUBECONFIG and then ~/.kube/config.
// The result is cached behind sync.Once so the collectors and the
// ConfigMap writer share one clientset instead of each opening their
// own connection:
//
//	clientset, config, err := client.GetKubeClient()
//	if err != nil {
//		return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//	nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
//
// GetKubeClientWithConfig runs the same discovery for one explicit
// kubeconfig path and bypasses the cache, which is what the
// --kubeconfig flag wants.
//
// The endpoint path skips discovery entirely. A monitoring site
// configures a remote target as host, port, and bearer token, and
// NewForEndpoint dials exactly that:
//
//	clientset, config, err := client.NewForEndpoint(client.Endpoint{
//		Host:  "cluster.example.com",
//		Port:  443,
//		Token: token,
//	})
//
// Every path applies the same user agent and client-side QPS and burst
// before the clientset is built, so a large cluster cannot push the
// agent into uncontrolled API server load.
//
// Tests throughout the agent run against fake clientsets from
// k8s.io/client-go/kubernetes/fake; nothing here needs a live API
// server until a request is actually issued.
package client
