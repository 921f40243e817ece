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
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
)

// writeKubeconfig writes a minimal single-context kubeconfig pointing
// at cluster.example.com and returns its path.
func writeKubeconfig(t *testing.T) string {
	t.Helper()
	content := `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://cluster.example.com:6443
  name: test
contexts:
- context:
    cluster: test
    user: test
  name: test
current-context: test
users:
- name: test
  user:
    token: secret
`
	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func resetSingleton() {
	cache = clientCache{}
}

func TestKubeconfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("KUBECONFIG", "")

	// nothing anywhere: in-cluster config applies
	assert.Empty(t, kubeconfigPath(""))

	// ~/.kube/config is picked up once it exists
	homeConfig := filepath.Join(home, ".kube", "config")
	require.NoError(t, os.MkdirAll(filepath.Dir(homeConfig), 0o755))
	require.NoError(t, os.WriteFile(homeConfig, []byte("{}"), 0o600))
	assert.Equal(t, homeConfig, kubeconfigPath(""))

	// KUBECONFIG wins over the home file
	t.Setenv("KUBECONFIG", "/from/env")
	assert.Equal(t, "/from/env", kubeconfigPath(""))

	// an explicit argument wins over everything
	assert.Equal(t, "/explicit", kubeconfigPath("/explicit"))
}

func TestBuildKubeClient(t *testing.T) {
	client, config, err := BuildKubeClient(writeKubeconfig(t))
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.Equal(t, "https://cluster.example.com:6443", config.Host)
	assert.Equal(t, "secret", config.BearerToken)
	assert.Equal(t, userAgent, config.UserAgent)
	assert.InDelta(t, defaults.ClientQPS, config.QPS, 0.01)
	assert.Equal(t, defaults.ClientBurst, config.Burst)
}

func TestBuildKubeClientMissingFile(t *testing.T) {
	t.Setenv("KUBECONFIG", "")

	_, _, err := BuildKubeClient("/nonexistent/path/to/kubeconfig")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build kube config")
}

func TestBuildKubeClientMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, os.WriteFile(path, []byte("not a kubeconfig"), 0o600))

	_, _, err := BuildKubeClient(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build kube config from "+path)
}

func TestBuildKubeClientNoConfigAnywhere(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KUBECONFIG", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")

	_, _, err := BuildKubeClient("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get in-cluster config")
}

func TestGetKubeClientSingleton(t *testing.T) {
	t.Setenv("KUBECONFIG", writeKubeconfig(t))
	resetSingleton()
	t.Cleanup(resetSingleton)

	client1, config1, err1 := GetKubeClient()
	require.NoError(t, err1)
	client2, config2, err2 := GetKubeClient()
	require.NoError(t, err2)

	assert.True(t, client1 == client2, "calls must share one clientset")
	assert.Same(t, config1, config2)
}

func TestGetKubeClientConcurrent(t *testing.T) {
	t.Setenv("KUBECONFIG", writeKubeconfig(t))
	resetSingleton()
	t.Cleanup(resetSingleton)

	const goroutines = 10
	clients := make(chan Interface, goroutines)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client, _, err := GetKubeClient()
			assert.NoError(t, err)
			clients <- client
		}()
	}
	wg.Wait()
	close(clients)

	first := <-clients
	for client := range clients {
		assert.True(t, first == client, "all goroutines must see one clientset")
	}
}
