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

package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/distribution/reference"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
)

// ImageCollector inventories the container images referenced by pod
// specs across the cluster.
type ImageCollector struct {
	Clientset kubernetes.Interface
}

// Collect extracts unique container images from all pods, keyed by
// familiar repository name.
func (c *ImageCollector) Collect(ctx context.Context) (map[string]any, error) {
	// Check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorListTimeout)
	defer cancel()

	pods, err := c.Clientset.CoreV1().Pods("").List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	images := make(map[string]any)
	for _, pod := range pods.Items {
		for _, imageRef := range podImageRefs(pod.Spec) {
			if imageRef == "" {
				continue
			}
			repository, tag, err := normalizeImage(imageRef)
			if err != nil {
				slog.Warn("skipping unparseable image reference",
					slog.String("image", imageRef),
					slog.String("error", err.Error()))
				continue
			}
			images[repository] = tag
		}
	}

	slog.Debug("collected container images", slog.Int("unique", len(images)))
	return images, nil
}

// podImageRefs lists every image a pod spec references. The whole spec
// counts: regular, init and ephemeral containers.
func podImageRefs(spec corev1.PodSpec) []string {
	refs := make([]string, 0, len(spec.Containers)+len(spec.InitContainers)+len(spec.EphemeralContainers))
	for _, container := range spec.Containers {
		refs = append(refs, container.Image)
	}
	for _, container := range spec.InitContainers {
		refs = append(refs, container.Image)
	}
	for _, container := range spec.EphemeralContainers {
		refs = append(refs, container.Image)
	}
	return refs
}

// normalizeImage resolves an image reference to its familiar repository
// name and version. A tag wins over a digest when both are present;
// untagged references default to "latest".
func normalizeImage(imageRef string) (repository, tag string, err error) {
	named, err := reference.ParseNormalizedNamed(imageRef)
	if err != nil {
		return "", "", err
	}
	repository = reference.FamiliarName(named)
	if tagged, ok := named.(reference.Tagged); ok {
		return repository, tagged.Tag(), nil
	}
	if digested, ok := named.(reference.Digested); ok {
		return repository, digested.Digest().String(), nil
	}
	return repository, "latest", nil
}
