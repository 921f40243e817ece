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

// Package k8s groups the agent's Kubernetes plumbing.
//
// The client sub-package is the single entry point. It builds
// clientsets from kubeconfig discovery, the in-cluster service
// account, or an explicitly addressed API server, and applies the
// agent's user agent and client-side throttling to each. See
// pkg/k8s/client for details and examples.
package k8s
