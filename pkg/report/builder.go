package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/kube-telemetry/pkg/collector"
	"github.com/NVIDIA/kube-telemetry/pkg/config"
	"github.com/NVIDIA/kube-telemetry/pkg/entity"
	"github.com/NVIDIA/kube-telemetry/pkg/errors"
	"github.com/NVIDIA/kube-telemetry/pkg/k8s/client"
	"github.com/NVIDIA/kube-telemetry/pkg/piggyback"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Builder runs one collection cycle against a cluster and assembles the
// report. It coordinates the collectors, running the API object listing
// first and the remaining collectors in parallel, then folds the results
// into piggyback sections. If any collector fails, the entire cycle
// returns an error.
type Builder struct {
	// Factory creates the collectors. If nil, a default factory over the
	// discovered cluster client is used.
	Factory collector.Factory

	// Groups are the custom metric groups to probe. If empty, the
	// built-in defaults are probed.
	Groups []config.MetricGroup
}

// Build collects cluster data and assembles a report. Collection is
// all-or-nothing: a partial report is never returned.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	if b.Factory == nil {
		clientset, _, err := client.GetKubeClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		b.Factory = collector.NewDefaultFactory(clientset)
	}
	groups := b.Groups
	if len(groups) == 0 {
		groups = config.Default().MetricGroups
	}

	runID := uuid.New().String()
	logger := slog.With(slog.String("run_id", runID))
	logger.Debug("starting report cycle")

	start := time.Now()
	defer func() {
		cycleDuration.Observe(time.Since(start).Seconds())
	}()

	rpt, err := b.build(ctx, runID, start, groups, logger)
	if err != nil {
		cycleTotal.WithLabelValues(failureStatus(err)).Inc()
		return nil, err
	}
	cycleTotal.WithLabelValues("success").Inc()
	return rpt, nil
}

// failureStatus picks the status label a failed cycle is counted
// under. Timeout and unavailability classifications from the
// collectors keep their own label; anything else counts as a plain
// error.
func failureStatus(err error) string {
	switch {
	case errors.IsCode(err, errors.ErrCodeTimeout):
		return "timeout"
	case errors.IsCode(err, errors.ErrCodeUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func (b *Builder) build(ctx context.Context, runID string, started time.Time, groups []config.MetricGroup, logger *slog.Logger) (*Report, error) {
	// The object listing gates the rest of the cycle: stats need the
	// node objects and metric probes need the namespace names.
	objectsStart := time.Now()
	inventory, err := b.Factory.CreateObjectsCollector().Collect(ctx)
	collectorDuration.WithLabelValues("objects").Observe(time.Since(objectsStart).Seconds())
	if err != nil {
		logger.Error("failed to collect cluster objects", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to collect cluster objects: %w", err)
	}

	// Each goroutine writes its own variable, so g.Wait is the only
	// synchronization the fan-out needs.
	var (
		nodes          entity.NodeList
		podMetrics     []collector.PodMetrics
		versionPayload map[string]any
		imagesPayload  map[string]any
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			collectorDuration.WithLabelValues("stats").Observe(time.Since(collectorStart).Seconds())
		}()
		logger.Debug("collecting kubelet stats")
		var err error
		nodes, err = b.Factory.CreateStatsCollector().Collect(gctx, inventory.Nodes)
		if err != nil {
			logger.Error("failed to collect kubelet stats", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect kubelet stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			collectorDuration.WithLabelValues("podmetrics").Observe(time.Since(collectorStart).Seconds())
		}()
		logger.Debug("collecting custom pod metrics")
		var err error
		podMetrics, err = b.Factory.CreatePodMetricsCollector(groups).Collect(gctx, inventory.Namespaces.Names())
		if err != nil {
			logger.Error("failed to collect custom pod metrics", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect custom pod metrics: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			collectorDuration.WithLabelValues("version").Observe(time.Since(collectorStart).Seconds())
		}()
		logger.Debug("collecting cluster version")
		var err error
		versionPayload, err = b.Factory.CreateVersionCollector().Collect(gctx)
		if err != nil {
			logger.Error("failed to collect cluster version", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect cluster version: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		collectorStart := time.Now()
		defer func() {
			collectorDuration.WithLabelValues("images").Observe(time.Since(collectorStart).Seconds())
		}()
		logger.Debug("collecting container images")
		var err error
		imagesPayload, err = b.Factory.CreateImageCollector().Collect(gctx)
		if err != nil {
			logger.Error("failed to collect container images", slog.String("error", err.Error()))
			return fmt.Errorf("failed to collect container images: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	reportNodeCount.Set(float64(len(nodes)))

	cluster, err := clusterElement(inventory, nodes, versionPayload, imagesPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble cluster sections: %w", err)
	}
	group, err := nodeGroup(inventory.Pods, nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble node sections: %w", err)
	}
	metrics, err := metricsElement(podMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble metrics sections: %w", err)
	}

	logger.Debug("report cycle complete",
		slog.Int("nodes", len(nodes)),
		slog.Int("pods", len(inventory.Pods)),
		slog.Duration("elapsed", time.Since(started)))

	return &Report{
		RunID:   runID,
		Started: started,
		cluster: cluster,
		nodes:   group,
		metrics: metrics,
	}, nil
}

// clusterElement assembles the cluster-wide sections in their published
// order. The order is part of the output contract.
func clusterElement(inventory *collector.Inventory, nodes entity.NodeList, version, images map[string]any) (*piggyback.Element, error) {
	e := piggyback.NewElement()

	if err := e.Get("k8s_nodes").Insert(nodes.ListPayload()); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_namespaces").Insert(inventory.Namespaces.ListPayload()); err != nil {
		return nil, err
	}
	volumes, err := inventory.PersistentVolumes.ListPayload()
	if err != nil {
		return nil, err
	}
	if err := e.Get("k8s_persistent_volumes").Insert(volumes); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_component_statuses").Insert(inventory.ComponentStatuses.ListPayload()); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_persistent_volume_claims").Insert(inventory.PersistentVolumeClaims.ListPayload()); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_storage_classes").Insert(inventory.StorageClasses.ListPayload()); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_roles").Insert(map[string]any{"roles": inventory.Roles.ListPayload()}); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_roles").Insert(map[string]any{"cluster_roles": inventory.ClusterRoles.ListPayload()}); err != nil {
		return nil, err
	}

	// k8s_resources layers three aggregates into one section: node
	// capacity, summed pod requests and limits, and the cluster pod
	// count folded into the requests object.
	nodeResources, err := nodes.ClusterResources()
	if err != nil {
		return nil, err
	}
	if err := e.Get("k8s_resources").Insert(nodeResources); err != nil {
		return nil, err
	}
	podResources, err := inventory.Pods.ClusterResources()
	if err != nil {
		return nil, err
	}
	if err := e.Get("k8s_resources").Insert(podResources); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_resources").Insert(inventory.Pods.PodsInCluster()); err != nil {
		return nil, err
	}

	stats, err := nodes.ClusterStats()
	if err != nil {
		return nil, err
	}
	if err := e.Get("k8s_stats").Insert(stats); err != nil {
		return nil, err
	}

	if err := e.Get("k8s_cluster_version").Insert(version); err != nil {
		return nil, err
	}
	if err := e.Get("k8s_images").Insert(images); err != nil {
		return nil, err
	}
	return e, nil
}

// nodeGroup assembles the per-node piggyback sections. The first join
// fixes the element order to the node listing order.
func nodeGroup(pods entity.PodList, nodes entity.NodeList) (*piggyback.Group, error) {
	g := piggyback.NewGroup()

	nodeResources, err := nodes.ResourcePairs()
	if err != nil {
		return nil, err
	}
	if err := g.Join("k8s_resources", nodeResources); err != nil {
		return nil, err
	}
	podResources, err := pods.ResourcesPerNodePairs()
	if err != nil {
		return nil, err
	}
	if err := g.Join("k8s_resources", podResources); err != nil {
		return nil, err
	}
	if err := g.Join("k8s_resources", pods.PodsPerNodePairs()); err != nil {
		return nil, err
	}
	if err := g.Join("k8s_stats", nodes.StatsPairs()); err != nil {
		return nil, err
	}
	if err := g.Join("k8s_conditions", nodes.ConditionPairs()); err != nil {
		return nil, err
	}
	return g, nil
}

// metricsElement renders one k8s_pods_<group> section per metric group,
// keyed by namespace. A group with no samples anywhere still renders as
// an empty object so consumers see every configured group.
func metricsElement(groups []collector.PodMetrics) (*piggyback.Element, error) {
	e := piggyback.NewElement()
	for _, pm := range groups {
		data := make(map[string]any, len(pm.ByNamespace))
		for namespace, series := range pm.ByNamespace {
			data[namespace] = series.ListPayload()
		}
		if err := e.Get("k8s_pods_"+pm.Group).Insert(data); err != nil {
			return nil, err
		}
	}
	return e, nil
}
