package entity

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

// Metadata carries the identifying fields shared by all report
// entities. Created is the creation timestamp in epoch whole seconds,
// nil when the API did not report one.
type Metadata struct {
	Name      string
	Namespace string
	Created   *int64
}

// NewMetadata extracts report metadata from an API object.
func NewMetadata(meta metav1.ObjectMeta) Metadata {
	m := Metadata{
		Name:      meta.Name,
		Namespace: meta.Namespace,
	}
	if !meta.CreationTimestamp.IsZero() {
		m.Created = ptr.To(meta.CreationTimestamp.Unix())
	}
	return m
}

// nullable renders an optional string field: cluster-scoped objects
// have no namespace and unset phases stay unset rather than
// collapsing to the empty string.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullableTimestamp renders an optional creation timestamp.
func nullableTimestamp(ts *int64) any {
	if ts == nil {
		return nil
	}
	return *ts
}
