package entity

import (
	"github.com/NVIDIA/kube-telemetry/pkg/aggregate"
)

// ResourceView is a two-level resource schema, outer keys naming the
// kind of figure (capacity, allocatable, limits, requests) and inner
// keys naming the resource. All leaves are float64 so that bounded
// and unbounded (infinite) quantities aggregate uniformly.
type ResourceView map[string]map[string]float64

// ZeroNodeResources returns the schema a node view aggregates into.
func ZeroNodeResources() ResourceView {
	return ResourceView{
		"capacity": {
			"cpu":    0.0,
			"memory": 0.0,
			"pods":   0.0,
		},
		"allocatable": {
			"cpu":    0.0,
			"memory": 0.0,
			"pods":   0.0,
		},
	}
}

// ZeroPodResources returns the schema a pod view aggregates into.
func ZeroPodResources() ResourceView {
	return ResourceView{
		"limits": {
			"cpu":    0.0,
			"memory": 0.0,
		},
		"requests": {
			"cpu":    0.0,
			"memory": 0.0,
		},
	}
}

// Add combines two views leafwise under the receiver's schema.
func (v ResourceView) Add(other ResourceView) ResourceView {
	return aggregate.FoldGrid(v, other, func(a, b float64) float64 { return a + b })
}

// Payload renders the view for a report section.
func (v ResourceView) Payload() map[string]any {
	out := make(map[string]any, len(v))
	for name, inner := range v {
		figures := make(map[string]any, len(inner))
		for resource, value := range inner {
			figures[resource] = value
		}
		out[name] = figures
	}
	return out
}
