// Package cli wires the ktel command line together.
//
// ktel collects point-in-time telemetry from a Kubernetes cluster and
// renders it as a piggyback text report for a monitoring backend. The
// binary works as a one-shot agent invoked per check cycle or as a
// long-lived daemon re-collecting on an interval.
//
// # Commands
//
// collect runs a collection cycle:
//
//	ktel collect [--host HOST --token TOKEN] [--output DEST] [--interval D]
//
// It gathers API objects, kubelet stats, custom pod metrics, the
// cluster version, and container images, then emits the report to
// stdout, a file, or a ConfigMap addressed as cm://namespace/name.
// With --interval the command keeps collecting until the process is
// signalled, serving probes and metrics on the diagnostic listener.
//
// version prints the stamped build information:
//
//	ktel version
//
// Global flags are --log-level (debug, info, warn, error) plus the
// framework's --help and --version. Each collect flag also reads an
// environment variable, so a container spec can configure the agent
// without arguments:
//
//	LOG_LEVEL                 Logging verbosity
//	KTEL_HOST                 API server host for explicit addressing
//	KTEL_TOKEN                Bearer token for explicit addressing
//	KTEL_CA_FILE              CA bundle for API server verification
//	KTEL_CONFIG               Metric groups config file path
//	KTEL_OUTPUT               Report output destination
//	KTEL_INTERVAL             Collection interval (daemon mode)
//	KTEL_DIAG_ADDR            Diagnostic server listen address
//	KUBECONFIG                Kubeconfig path for discovery mode
//	SHUTDOWN_TIMEOUT_SECONDS  Diagnostic server shutdown grace period
//	NOTIFY_SOCKET             Enables sd_notify to systemd (set by systemd)
//
// The process exits 0 on success and 1 on any error, whether bad
// arguments, a failed collection, or a failed emission.
//
// The command layer stays thin. Orchestration lives in pkg/report,
// the individual collectors in pkg/collector, output in
// pkg/serializer, the daemon-mode HTTP listener in pkg/diag, and the
// slog setup in pkg/logging. Version, commit, and build date are
// stamped into this package with -ldflags at build time.
package cli
