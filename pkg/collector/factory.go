package collector

import (
	"golang.org/x/time/rate"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/kube-telemetry/pkg/config"
)

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateObjectsCollector() *ObjectsCollector
	CreateStatsCollector() *StatsCollector
	CreatePodMetricsCollector(groups []config.MetricGroup) *PodMetricsCollector
	CreateVersionCollector() *VersionCollector
	CreateImageCollector() *ImageCollector
}

// DefaultFactory creates collectors that share one clientset.
type DefaultFactory struct {
	Clientset kubernetes.Interface

	// Stats is the kubelet stats query budget from the loaded config.
	// The zero value keeps the package defaults.
	Stats config.Stats
}

// NewDefaultFactory creates a factory around the given clientset with
// the default stats budget.
func NewDefaultFactory(clientset kubernetes.Interface) *DefaultFactory {
	return &DefaultFactory{Clientset: clientset}
}

// CreateObjectsCollector creates an API object collector.
func (f *DefaultFactory) CreateObjectsCollector() *ObjectsCollector {
	return &ObjectsCollector{Clientset: f.Clientset}
}

// CreateStatsCollector creates a kubelet stats collector with the
// proxy fetch and the configured query budget.
func (f *DefaultFactory) CreateStatsCollector() *StatsCollector {
	return &StatsCollector{
		Fetch:   proxyStatsFetch(f.Clientset),
		Limiter: rate.NewLimiter(rate.Limit(f.Stats.Rate()), f.Stats.BurstSize()),
		Timeout: f.Stats.Timeout(),
	}
}

// CreatePodMetricsCollector creates a custom metrics collector probing
// the given metric groups.
func (f *DefaultFactory) CreatePodMetricsCollector(groups []config.MetricGroup) *PodMetricsCollector {
	return &PodMetricsCollector{
		Groups: groups,
		Probe:  customMetricsProbe(f.Clientset),
	}
}

// CreateVersionCollector creates a server version collector.
func (f *DefaultFactory) CreateVersionCollector() *VersionCollector {
	return &VersionCollector{Clientset: f.Clientset}
}

// CreateImageCollector creates a container image collector.
func (f *DefaultFactory) CreateImageCollector() *ImageCollector {
	return &ImageCollector{Clientset: f.Clientset}
}
