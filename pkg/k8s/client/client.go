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

package client

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
)

// userAgent identifies the agent in API server audit logs.
const userAgent = "ktel"

// Interface aliases kubernetes.Interface so production code and tests
// built on fake.NewClientset satisfy the same type.
type Interface = kubernetes.Interface

// clientCache holds the shared clientset behind GetKubeClient.
type clientCache struct {
	once      sync.Once
	clientset *kubernetes.Clientset
	config    *rest.Config
	err       error
}

var cache clientCache

// GetKubeClient returns the shared Kubernetes client, creating it on
// first call. Repeated collection cycles reuse one connection pool
// instead of redialing the API server.
//
// Configuration is discovered from KUBECONFIG, then ~/.kube/config,
// then the in-cluster service account. For explicit kubeconfig paths
// use GetKubeClientWithConfig; for clusters addressed by host and
// bearer token see Endpoint.
func GetKubeClient() (Interface, *rest.Config, error) {
	cache.once.Do(func() {
		cache.clientset, cache.config, cache.err = BuildKubeClient("")
	})
	return cache.clientset, cache.config, cache.err
}

// kubeconfigPath resolves the kubeconfig location: the explicit
// argument, then KUBECONFIG, then ~/.kube/config if it exists. Empty
// means no file was found and in-cluster config applies.
func kubeconfigPath(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

// restConfig loads the client configuration for a resolved kubeconfig
// path. An empty path means no file was found anywhere, which is the
// in-cluster case.
func restConfig(path string) (*rest.Config, error) {
	if path == "" {
		slog.Debug("using in-cluster configuration")
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, nil
	}

	slog.Debug("using kubeconfig", slog.String("path", path))
	config, err := clientcmd.BuildConfigFromFlags("", path)
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w", path, err)
	}
	return config, nil
}

// BuildKubeClient creates a fresh client for the given kubeconfig
// file, bypassing the shared cache. An empty path falls back to the
// same discovery chain GetKubeClient uses. The returned rest.Config
// carries the agent user agent and client-side throttling sized for
// one collection cycle.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	config, err := restConfig(kubeconfigPath(kubeconfig))
	if err != nil {
		return nil, nil, err
	}
	tuneConfig(config)

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return clientset, config, nil
}

// tuneConfig applies the agent identity and request throttling to a
// rest config. Both the kubeconfig and the explicit-endpoint paths go
// through here.
func tuneConfig(config *rest.Config) {
	config.UserAgent = userAgent
	config.QPS = defaults.ClientQPS
	config.Burst = defaults.ClientBurst
}

// GetKubeClientWithConfig is a convenience wrapper around
// BuildKubeClient that returns the Interface type. CLI commands with a
// --kubeconfig flag call this instead of the singleton so every
// invocation honors its own flag value.
func GetKubeClientWithConfig(kubeconfig string) (Interface, *rest.Config, error) {
	return BuildKubeClient(kubeconfig)
}
