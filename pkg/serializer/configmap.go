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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
	"k8s.io/client-go/rest"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
	"github.com/NVIDIA/kube-telemetry/pkg/k8s/client"
)

const (
	// ConfigMapURIScheme prefixes ConfigMap output targets, e.g.
	// cm://monitoring/ktel-report.
	ConfigMapURIScheme = "cm://"

	// reportDataKey is the ConfigMap data key holding the report text.
	reportDataKey = "report.txt"
)

// ConfigMapWriter publishes each rendered report into one Kubernetes
// ConfigMap, creating or updating it as needed. In-cluster deployments
// use it so the monitoring site can read the report without reaching
// the agent pod.
type ConfigMapWriter struct {
	namespace string
	name      string
}

// NewConfigMapWriter returns a writer targeting the named ConfigMap.
func NewConfigMapWriter(namespace, name string) *ConfigMapWriter {
	return &ConfigMapWriter{namespace: namespace, name: name}
}

// Serialize renders the report and applies it to the ConfigMap. The
// map carries the text under report.txt plus the timestamp of the
// write.
func (w *ConfigMapWriter) Serialize(ctx context.Context, report Renderer) error {
	text, err := report.Render()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	// The write gets its own budget: right after a heavy collection
	// the client-side rate limiter may hold this request back for a
	// while.
	applyCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapApplyTimeout)
	defer cancel()

	clientset, config, err := client.GetKubeClient()
	if err != nil {
		return fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	slog.Info("writing report configmap",
		"namespace", w.namespace,
		"name", w.name,
		"auth_method", authMethod(config),
		"bytes", len(text))

	labels := map[string]string{
		"app.kubernetes.io/name":      "ktel",
		"app.kubernetes.io/component": "report",
	}
	data := map[string]string{
		reportDataKey: text,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}
	configMap := accorev1.ConfigMap(w.name, w.namespace).WithLabels(labels).WithData(data)

	// Server-side apply makes the write an atomic create-or-update;
	// Force takes field ownership back if another manager touched the
	// map in between.
	_, err = clientset.CoreV1().ConfigMaps(w.namespace).Apply(applyCtx, configMap,
		metav1.ApplyOptions{FieldManager: "ktel", Force: true})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap: %w", err)
	}
	return nil
}

// Close satisfies Closer; the writer holds no resources.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// authMethod names the credential path the client resolved. An RBAC
// denial on the ConfigMap is much easier to chase when the write log
// says which identity was used.
func authMethod(config *rest.Config) string {
	if config.AuthProvider != nil {
		return config.AuthProvider.Name
	}
	if config.ExecProvider != nil {
		return "exec"
	}
	if config.BearerToken != "" {
		return "bearer-token"
	}
	if len(config.CertData) > 0 {
		return "cert"
	}
	return "default"
}

// parseConfigMapURI splits a cm://namespace/name target into its two
// parts. Whitespace around either part is ignored.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("configmap target %q must start with %s", uri, ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("configmap target %q must have the form %snamespace/name", uri, ConfigMapURIScheme)
	}

	namespace, name = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if namespace == "" || name == "" {
		return "", "", fmt.Errorf("configmap target %q has an empty namespace or name", uri)
	}
	return namespace, name, nil
}
