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

	v1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
	"github.com/NVIDIA/kube-telemetry/pkg/entity"
)

// Inventory holds one cycle's API object listings, wrapped into report
// entities. Nodes stay raw API objects until the stats collector pairs
// them with their kubelet samples.
type Inventory struct {
	Nodes                  []v1.Node
	Pods                   entity.PodList
	Namespaces             entity.NamespaceList
	PersistentVolumes      entity.PersistentVolumeList
	PersistentVolumeClaims entity.PersistentVolumeClaimList
	StorageClasses         entity.StorageClassList
	Roles                  entity.RoleList
	ClusterRoles           entity.RoleList
	ComponentStatuses      entity.ComponentStatusList
}

// ObjectsCollector lists the cluster API objects the report covers.
type ObjectsCollector struct {
	Clientset kubernetes.Interface
}

// objectListPageSize bounds one list response, not the total; listing
// pages through continue tokens until the cluster is exhausted.
const objectListPageSize int64 = 500

// listAll pages through a list call until the continue token runs out.
// The callback issues one request and returns that page's items plus
// the next continue token.
func listAll[T any](ctx context.Context, kind string,
	list func(context.Context, metav1.ListOptions) ([]T, string, error)) ([]T, error) {
	var all []T
	continueToken := ""

	for {
		items, next, err := list(ctx, metav1.ListOptions{
			Limit:    objectListPageSize,
			Continue: continueToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		all = append(all, items...)

		if next == "" {
			return all, nil
		}
		if len(items) == 0 {
			slog.Warn("received empty page with continue token, stopping pagination",
				slog.String("kind", kind))
			return all, nil
		}
		slog.Debug("fetched object page",
			slog.String("kind", kind),
			slog.Int("pageSize", len(items)),
			slog.Int("totalSoFar", len(all)))
		continueToken = next
	}
}

// Collect lists every object kind in one pass, preserving API list
// order inside each listing. Namespaced kinds are listed across all
// namespaces.
func (c *ObjectsCollector) Collect(ctx context.Context) (*Inventory, error) {
	// Check if context is canceled
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorListTimeout)
	defer cancel()

	storageClasses, err := listAll(ctx, "storage classes",
		func(ctx context.Context, opts metav1.ListOptions) ([]storagev1.StorageClass, string, error) {
			list, err := c.Clientset.StorageV1().StorageClasses().List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	namespaces, err := listAll(ctx, "namespaces",
		func(ctx context.Context, opts metav1.ListOptions) ([]v1.Namespace, string, error) {
			list, err := c.Clientset.CoreV1().Namespaces().List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	roles, err := listAll(ctx, "roles",
		func(ctx context.Context, opts metav1.ListOptions) ([]rbacv1.Role, string, error) {
			list, err := c.Clientset.RbacV1().Roles("").List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	clusterRoles, err := listAll(ctx, "cluster roles",
		func(ctx context.Context, opts metav1.ListOptions) ([]rbacv1.ClusterRole, string, error) {
			list, err := c.Clientset.RbacV1().ClusterRoles().List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	componentStatuses, err := listAll(ctx, "component statuses",
		func(ctx context.Context, opts metav1.ListOptions) ([]v1.ComponentStatus, string, error) {
			list, err := c.Clientset.CoreV1().ComponentStatuses().List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	nodes, err := listAll(ctx, "nodes",
		func(ctx context.Context, opts metav1.ListOptions) ([]v1.Node, string, error) {
			list, err := c.Clientset.CoreV1().Nodes().List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	volumes, err := listAll(ctx, "persistent volumes",
		func(ctx context.Context, opts metav1.ListOptions) ([]v1.PersistentVolume, string, error) {
			list, err := c.Clientset.CoreV1().PersistentVolumes().List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	claims, err := listAll(ctx, "persistent volume claims",
		func(ctx context.Context, opts metav1.ListOptions) ([]v1.PersistentVolumeClaim, string, error) {
			list, err := c.Clientset.CoreV1().PersistentVolumeClaims("").List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	pods, err := listAll(ctx, "pods",
		func(ctx context.Context, opts metav1.ListOptions) ([]v1.Pod, string, error) {
			list, err := c.Clientset.CoreV1().Pods("").List(ctx, opts)
			if err != nil {
				return nil, "", err
			}
			return list.Items, list.Continue, nil
		})
	if err != nil {
		return nil, err
	}

	inventory := &Inventory{
		Nodes:             nodes,
		StorageClasses:    make(entity.StorageClassList, 0, len(storageClasses)),
		Namespaces:        make(entity.NamespaceList, 0, len(namespaces)),
		Roles:             entity.NewRoleList(roles),
		ClusterRoles:      entity.NewClusterRoleList(clusterRoles),
		ComponentStatuses: make(entity.ComponentStatusList, 0, len(componentStatuses)),
		PersistentVolumes: make(entity.PersistentVolumeList, 0, len(volumes)),
		PersistentVolumeClaims: make(entity.PersistentVolumeClaimList, 0,
			len(claims)),
		Pods: make(entity.PodList, 0, len(pods)),
	}
	for _, sc := range storageClasses {
		inventory.StorageClasses = append(inventory.StorageClasses, entity.NewStorageClass(sc))
	}
	for _, ns := range namespaces {
		inventory.Namespaces = append(inventory.Namespaces, entity.NewNamespace(ns))
	}
	for _, status := range componentStatuses {
		inventory.ComponentStatuses = append(inventory.ComponentStatuses, entity.NewComponentStatus(status))
	}
	for _, pv := range volumes {
		inventory.PersistentVolumes = append(inventory.PersistentVolumes, entity.NewPersistentVolume(pv))
	}
	for _, pvc := range claims {
		inventory.PersistentVolumeClaims = append(inventory.PersistentVolumeClaims, entity.NewPersistentVolumeClaim(pvc))
	}
	for _, pod := range pods {
		inventory.Pods = append(inventory.Pods, entity.NewPod(pod))
	}

	slog.Debug("collected cluster objects",
		slog.Int("nodes", len(inventory.Nodes)),
		slog.Int("pods", len(inventory.Pods)),
		slog.Int("namespaces", len(inventory.Namespaces)))

	return inventory, nil
}
