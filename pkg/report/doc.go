// Package report assembles complete monitoring reports from cluster data.
//
// # Overview
//
// The report package orchestrates one collection cycle: it runs the
// collectors, folds their results into agent sections, and renders the
// line-oriented output that monitoring servers consume. A report is
// all-or-nothing. If any collector or aggregation fails, the cycle
// returns an error and nothing is emitted, so consumers never see a
// partially populated report.
//
// # Core Types
//
// Builder: Runs a cycle against a cluster
//
//	type Builder struct {
//	    Factory collector.Factory    // Collector factory (optional)
//	    Groups  []config.MetricGroup // Custom metric groups (optional)
//	}
//
// Report: One assembled cycle
//
//	type Report struct {
//	    RunID   string    // Cycle identifier for logs and diagnostics
//	    Started time.Time // When collection began
//	}
//
// # Usage
//
// Build and render a report with defaults:
//
//	builder := &report.Builder{}
//	rpt, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatalf("cycle failed: %v", err)
//	}
//
//	text, err := rpt.Render()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(text)
//
// Custom factory and metric groups:
//
//	builder := &report.Builder{
//	    Factory: collector.NewDefaultFactory(clientset),
//	    Groups:  cfg.MetricGroups,
//	}
//
// # Output Structure
//
// Rendered output is three blocks, each newline terminated:
//
//  1. Cluster sections: k8s_nodes, k8s_namespaces,
//     k8s_persistent_volumes, k8s_component_statuses,
//     k8s_persistent_volume_claims, k8s_storage_classes, k8s_roles,
//     k8s_resources, k8s_stats, k8s_cluster_version, k8s_images.
//  2. Per-node piggyback blocks, one per node in listing order, each
//     carrying k8s_resources, k8s_stats, and k8s_conditions sections
//     wrapped in <<<<node>>>> markers.
//  3. Custom metrics sections, one k8s_pods_<group> section per
//     configured group, keyed by namespace.
//
// Section order within each block is fixed and is part of the contract
// with the consuming monitoring server.
//
// # Collection Order
//
// The API object listing runs first because its results gate the rest:
// kubelet stats fan out over the listed nodes and metric probes walk
// the listed namespaces. Stats, custom metrics, cluster version, and
// image collection then run concurrently via errgroup. If any of them
// fails, all are canceled and the cycle returns an error.
//
// # Observability
//
// The package exports Prometheus metrics:
//   - ktel_report_cycle_duration_seconds: Total cycle time
//   - ktel_report_cycles_total{status}: Cycle outcomes
//   - ktel_report_collector_duration_seconds{collector}: Per-collector timing
//   - ktel_report_nodes: Node count in the last successful cycle
//
// # Integration
//
// The builder is invoked by:
//   - pkg/cli - collect command, both one-shot and interval mode
//
// It depends on:
//   - pkg/collector - Data collection implementations
//   - pkg/entity - Aggregation over collected objects
//   - pkg/piggyback - Section and piggyback rendering
package report
