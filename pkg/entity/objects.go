package entity

import (
	v1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
	"github.com/NVIDIA/kube-telemetry/pkg/quantity"
)

// Namespace wraps a namespace API object.
type Namespace struct {
	Metadata
	phase string
}

func NewNamespace(namespace v1.Namespace) *Namespace {
	return &Namespace{
		Metadata: NewMetadata(namespace.ObjectMeta),
		phase:    string(namespace.Status.Phase),
	}
}

// NamespaceList is the cluster's namespaces in API list order.
type NamespaceList []*Namespace

// ListPayload renders the k8s_namespaces section payload.
func (l NamespaceList) ListPayload() map[string]any {
	out := make(map[string]any, len(l))
	for _, namespace := range l {
		if namespace.Name == "" {
			continue
		}
		out[namespace.Name] = map[string]any{
			"status": map[string]any{
				"phase": nullable(namespace.phase),
			},
		}
	}
	return out
}

// Names lists the namespace names, in API list order.
func (l NamespaceList) Names() []string {
	names := make([]string, 0, len(l))
	for _, namespace := range l {
		if namespace.Name != "" {
			names = append(names, namespace.Name)
		}
	}
	return names
}

// PersistentVolume wraps a persistent volume API object.
type PersistentVolume struct {
	Metadata
	accessModes []v1.PersistentVolumeAccessMode
	capacity    v1.ResourceList
	phase       string
}

func NewPersistentVolume(pv v1.PersistentVolume) *PersistentVolume {
	return &PersistentVolume{
		Metadata:    NewMetadata(pv.ObjectMeta),
		accessModes: pv.Spec.AccessModes,
		capacity:    pv.Spec.Capacity,
		phase:       string(pv.Status.Phase),
	}
}

// Capacity returns the volume's storage capacity in bytes, nil when
// the volume does not report one.
func (p *PersistentVolume) Capacity() (any, error) {
	q, ok := p.capacity[v1.ResourceStorage]
	if !ok {
		return nil, nil
	}
	bytes, err := quantity.ParseMemory(q.String())
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedQuantity,
			"parsing persistent volume capacity", err,
			map[string]any{"volume": p.Name})
	}
	return bytes, nil
}

// AccessModes returns the volume's access modes, nil when unset.
func (p *PersistentVolume) AccessModes() any {
	if p.accessModes == nil {
		return nil
	}
	modes := make([]string, len(p.accessModes))
	for i, mode := range p.accessModes {
		modes[i] = string(mode)
	}
	return modes
}

// PersistentVolumeList is the cluster's persistent volumes in API
// list order.
type PersistentVolumeList []*PersistentVolume

// ListPayload renders the k8s_persistent_volumes section payload.
func (l PersistentVolumeList) ListPayload() (map[string]any, error) {
	out := make(map[string]any, len(l))
	for _, pv := range l {
		if pv.Name == "" {
			continue
		}
		capacity, err := pv.Capacity()
		if err != nil {
			return nil, err
		}
		out[pv.Name] = map[string]any{
			"access":   pv.AccessModes(),
			"capacity": capacity,
			"status": map[string]any{
				"phase": nullable(pv.phase),
			},
		}
	}
	return out, nil
}

// PersistentVolumeClaim wraps a persistent volume claim API object.
type PersistentVolumeClaim struct {
	Metadata
	conditions []v1.PersistentVolumeClaimCondition
	phase      string
	volume     string
}

func NewPersistentVolumeClaim(pvc v1.PersistentVolumeClaim) *PersistentVolumeClaim {
	return &PersistentVolumeClaim{
		Metadata:   NewMetadata(pvc.ObjectMeta),
		conditions: pvc.Status.Conditions,
		phase:      string(pvc.Status.Phase),
		volume:     pvc.Spec.VolumeName,
	}
}

// Conditions renders the claim's conditions, nil when it has none.
func (p *PersistentVolumeClaim) Conditions() any {
	if len(p.conditions) == 0 {
		return nil
	}
	conditions := make([]map[string]any, len(p.conditions))
	for i, c := range p.conditions {
		conditions[i] = map[string]any{
			"type":   string(c.Type),
			"status": string(c.Status),
		}
	}
	return conditions
}

// PersistentVolumeClaimList is the cluster's claims in API list order.
type PersistentVolumeClaimList []*PersistentVolumeClaim

// ListPayload renders the k8s_persistent_volume_claims section
// payload.
func (l PersistentVolumeClaimList) ListPayload() map[string]any {
	out := make(map[string]any, len(l))
	for _, pvc := range l {
		if pvc.Name == "" {
			continue
		}
		out[pvc.Name] = map[string]any{
			"namespace": nullable(pvc.Namespace),
			"condition": pvc.Conditions(),
			"phase":     nullable(pvc.phase),
			"volume":    nullable(pvc.volume),
		}
	}
	return out
}

// StorageClass wraps a storage class API object.
type StorageClass struct {
	Metadata
	provisioner   string
	reclaimPolicy *v1.PersistentVolumeReclaimPolicy
}

func NewStorageClass(sc storagev1.StorageClass) *StorageClass {
	return &StorageClass{
		Metadata:      NewMetadata(sc.ObjectMeta),
		provisioner:   sc.Provisioner,
		reclaimPolicy: sc.ReclaimPolicy,
	}
}

// StorageClassList is the cluster's storage classes in API list
// order.
type StorageClassList []*StorageClass

// ListPayload renders the k8s_storage_classes section payload.
func (l StorageClassList) ListPayload() map[string]any {
	out := make(map[string]any, len(l))
	for _, sc := range l {
		if sc.Name == "" {
			continue
		}
		var reclaimPolicy any
		if sc.reclaimPolicy != nil {
			reclaimPolicy = string(*sc.reclaimPolicy)
		}
		out[sc.Name] = map[string]any{
			"provisioner":    sc.provisioner,
			"reclaim_policy": reclaimPolicy,
		}
	}
	return out
}

// Role wraps a role or cluster role API object, which contribute only
// their metadata to the report.
type Role struct {
	Metadata
}

func NewRole(meta metav1.ObjectMeta) *Role {
	return &Role{Metadata: NewMetadata(meta)}
}

// RoleList holds roles or cluster roles in API list order.
type RoleList []*Role

// NewRoleList wraps a roles API listing.
func NewRoleList(roles []rbacv1.Role) RoleList {
	list := make(RoleList, 0, len(roles))
	for _, role := range roles {
		list = append(list, NewRole(role.ObjectMeta))
	}
	return list
}

// NewClusterRoleList wraps a cluster roles API listing.
func NewClusterRoleList(roles []rbacv1.ClusterRole) RoleList {
	list := make(RoleList, 0, len(roles))
	for _, role := range roles {
		list = append(list, NewRole(role.ObjectMeta))
	}
	return list
}

// ListPayload renders one entry per named role.
func (l RoleList) ListPayload() []map[string]any {
	out := make([]map[string]any, 0, len(l))
	for _, role := range l {
		if role.Name == "" {
			continue
		}
		out = append(out, map[string]any{
			"name":               role.Name,
			"namespace":          nullable(role.Namespace),
			"creation_timestamp": nullableTimestamp(role.Created),
		})
	}
	return out
}

// ComponentStatus wraps a component status API object.
type ComponentStatus struct {
	Metadata
	conditions []v1.ComponentCondition
}

func NewComponentStatus(status v1.ComponentStatus) *ComponentStatus {
	return &ComponentStatus{
		Metadata:   NewMetadata(status.ObjectMeta),
		conditions: status.Conditions,
	}
}

// Conditions renders the component's conditions, an empty list when
// it has none.
func (c *ComponentStatus) Conditions() []map[string]any {
	conditions := make([]map[string]any, 0, len(c.conditions))
	for _, cond := range c.conditions {
		conditions = append(conditions, map[string]any{
			"type":   string(cond.Type),
			"status": string(cond.Status),
		})
	}
	return conditions
}

// ComponentStatusList is the cluster's component statuses in API list
// order.
type ComponentStatusList []*ComponentStatus

// ListPayload renders the k8s_component_statuses section payload.
func (l ComponentStatusList) ListPayload() map[string]any {
	out := make(map[string]any, len(l))
	for _, status := range l {
		if status.Name == "" {
			continue
		}
		out[status.Name] = status.Conditions()
	}
	return out
}
