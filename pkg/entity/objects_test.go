package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/kube-telemetry/pkg/errors"
)

func TestNamespaceListPayload(t *testing.T) {
	namespaces := NamespaceList{
		NewNamespace(v1.Namespace{
			ObjectMeta: metav1.ObjectMeta{Name: "default"},
			Status:     v1.NamespaceStatus{Phase: v1.NamespaceActive},
		}),
		NewNamespace(v1.Namespace{
			ObjectMeta: metav1.ObjectMeta{Name: "closing"},
			Status:     v1.NamespaceStatus{Phase: v1.NamespaceTerminating},
		}),
	}

	payload := namespaces.ListPayload()

	assert.Equal(t, map[string]any{
		"default": map[string]any{"status": map[string]any{"phase": "Active"}},
		"closing": map[string]any{"status": map[string]any{"phase": "Terminating"}},
	}, payload)
	assert.Equal(t, []string{"default", "closing"}, namespaces.Names())
}

func TestPersistentVolumeListPayload(t *testing.T) {
	volumes := PersistentVolumeList{
		NewPersistentVolume(v1.PersistentVolume{
			ObjectMeta: metav1.ObjectMeta{Name: "pv-data"},
			Spec: v1.PersistentVolumeSpec{
				AccessModes: []v1.PersistentVolumeAccessMode{v1.ReadWriteOnce},
				Capacity: v1.ResourceList{
					v1.ResourceStorage: resource.MustParse("10Gi"),
				},
			},
			Status: v1.PersistentVolumeStatus{Phase: v1.VolumeBound},
		}),
		NewPersistentVolume(v1.PersistentVolume{
			ObjectMeta: metav1.ObjectMeta{Name: "pv-bare"},
		}),
	}

	payload, err := volumes.ListPayload()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"access":   []string{"ReadWriteOnce"},
		"capacity": float64(10 * 1024 * 1024 * 1024),
		"status":   map[string]any{"phase": "Bound"},
	}, payload["pv-data"])
	assert.Equal(t, map[string]any{
		"access":   nil,
		"capacity": nil,
		"status":   map[string]any{"phase": nil},
	}, payload["pv-bare"])
}

func TestPersistentVolumeBadCapacity(t *testing.T) {
	// milli-quantities are legal storage capacities in the API but
	// have no meaning as a byte count
	pv := NewPersistentVolume(v1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{Name: "pv-odd"},
		Spec: v1.PersistentVolumeSpec{
			Capacity: v1.ResourceList{
				v1.ResourceStorage: resource.MustParse("500m"),
			},
		},
	})

	_, err := PersistentVolumeList{pv}.ListPayload()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedQuantity))
}

func TestPersistentVolumeClaimListPayload(t *testing.T) {
	claims := PersistentVolumeClaimList{
		NewPersistentVolumeClaim(v1.PersistentVolumeClaim{
			ObjectMeta: metav1.ObjectMeta{Name: "data-web-0", Namespace: "default"},
			Spec:       v1.PersistentVolumeClaimSpec{VolumeName: "pv-data"},
			Status: v1.PersistentVolumeClaimStatus{
				Phase: v1.ClaimBound,
				Conditions: []v1.PersistentVolumeClaimCondition{
					{Type: v1.PersistentVolumeClaimResizing, Status: v1.ConditionTrue},
				},
			},
		}),
		NewPersistentVolumeClaim(v1.PersistentVolumeClaim{
			ObjectMeta: metav1.ObjectMeta{Name: "unbound", Namespace: "default"},
		}),
	}

	payload := claims.ListPayload()

	assert.Equal(t, map[string]any{
		"namespace": "default",
		"condition": []map[string]any{{"type": "Resizing", "status": "True"}},
		"phase":     "Bound",
		"volume":    "pv-data",
	}, payload["data-web-0"])
	assert.Equal(t, map[string]any{
		"namespace": "default",
		"condition": nil,
		"phase":     nil,
		"volume":    nil,
	}, payload["unbound"])
}

func TestStorageClassListPayload(t *testing.T) {
	classes := StorageClassList{
		NewStorageClass(storagev1.StorageClass{
			ObjectMeta:    metav1.ObjectMeta{Name: "fast"},
			Provisioner:   "kubernetes.io/aws-ebs",
			ReclaimPolicy: ptr.To(v1.PersistentVolumeReclaimDelete),
		}),
		NewStorageClass(storagev1.StorageClass{
			ObjectMeta:  metav1.ObjectMeta{Name: "bare"},
			Provisioner: "kubernetes.io/no-provisioner",
		}),
	}

	payload := classes.ListPayload()

	assert.Equal(t, map[string]any{
		"provisioner":    "kubernetes.io/aws-ebs",
		"reclaim_policy": "Delete",
	}, payload["fast"])
	assert.Equal(t, map[string]any{
		"provisioner":    "kubernetes.io/no-provisioner",
		"reclaim_policy": nil,
	}, payload["bare"])
}

func TestRoleListPayload(t *testing.T) {
	created := metav1.NewTime(time.Date(2019, 3, 28, 9, 33, 50, 0, time.UTC))

	roles := NewRoleList([]rbacv1.Role{
		{ObjectMeta: metav1.ObjectMeta{Name: "admin", Namespace: "kube-system", CreationTimestamp: created}},
	})
	clusterRoles := NewClusterRoleList([]rbacv1.ClusterRole{
		{ObjectMeta: metav1.ObjectMeta{Name: "view"}},
	})

	assert.Equal(t, []map[string]any{{
		"name":               "admin",
		"namespace":          "kube-system",
		"creation_timestamp": created.Unix(),
	}}, roles.ListPayload())

	assert.Equal(t, []map[string]any{{
		"name":               "view",
		"namespace":          nil,
		"creation_timestamp": nil,
	}}, clusterRoles.ListPayload())
}

func TestComponentStatusListPayload(t *testing.T) {
	statuses := ComponentStatusList{
		NewComponentStatus(v1.ComponentStatus{
			ObjectMeta: metav1.ObjectMeta{Name: "scheduler"},
			Conditions: []v1.ComponentCondition{
				{Type: v1.ComponentHealthy, Status: v1.ConditionTrue},
			},
		}),
		NewComponentStatus(v1.ComponentStatus{
			ObjectMeta: metav1.ObjectMeta{Name: "etcd-0"},
		}),
	}

	payload := statuses.ListPayload()

	assert.Equal(t, map[string]any{
		"scheduler": []map[string]any{{"type": "Healthy", "status": "True"}},
		"etcd-0":    []map[string]any{},
	}, payload)
}
