/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kube-telemetry/pkg/collector"
	"github.com/NVIDIA/kube-telemetry/pkg/config"
	"github.com/NVIDIA/kube-telemetry/pkg/defaults"
	"github.com/NVIDIA/kube-telemetry/pkg/k8s/client"
	"github.com/NVIDIA/kube-telemetry/pkg/report"
	"github.com/NVIDIA/kube-telemetry/pkg/serializer"
)

// collectCmdOptions holds parsed options for the collect command.
type collectCmdOptions struct {
	host        string
	port        int
	token       string
	urlPrefix   string
	pathPrefix  string
	noCertCheck bool
	caFile      string
	kubeconfig  string
	output      string
	configPath  string
	timeout     time.Duration
	interval    time.Duration
	diagAddr    string
}

// endpointMode reports whether the API server is addressed explicitly
// rather than discovered through kubeconfig.
func (o *collectCmdOptions) endpointMode() bool {
	return o.host != "" || o.urlPrefix != ""
}

// parseCollectCmdOptions parses and validates command options.
func parseCollectCmdOptions(cmd *cli.Command) (*collectCmdOptions, error) {
	opts := &collectCmdOptions{
		host:        cmd.String("host"),
		port:        int(cmd.Int("port")),
		token:       cmd.String("token"),
		urlPrefix:   cmd.String("url-prefix"),
		pathPrefix:  client.NormalizePathPrefix(cmd.String("path-prefix")),
		noCertCheck: cmd.Bool("no-cert-check"),
		caFile:      cmd.String("ca-file"),
		kubeconfig:  cmd.String("kubeconfig"),
		output:      cmd.String("output"),
		configPath:  cmd.String("config"),
		timeout:     cmd.Duration("timeout"),
		interval:    cmd.Duration("interval"),
		diagAddr:    cmd.String("diag-addr"),
	}

	// Validate endpoint flags
	if opts.endpointMode() {
		if opts.token == "" {
			return nil, fmt.Errorf("--token is required when connecting with --host or --url-prefix")
		}
		if opts.port < 1 || opts.port > 65535 {
			return nil, fmt.Errorf("invalid --port value: %d", opts.port)
		}
	} else if opts.token != "" {
		return nil, fmt.Errorf("--token requires --host or --url-prefix")
	}

	if opts.timeout <= 0 {
		return nil, fmt.Errorf("--timeout must be positive, got %s", opts.timeout)
	}
	if opts.interval < 0 {
		return nil, fmt.Errorf("--interval cannot be negative, got %s", opts.interval)
	}

	// Validate --diag-addr requires --interval
	if opts.diagAddr != "" && opts.interval == 0 {
		return nil, fmt.Errorf("--diag-addr requires --interval")
	}

	return opts, nil
}

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Collect cluster telemetry and emit the piggyback report",
		Description: `Runs one collection cycle against a Kubernetes cluster and emits the
piggyback text report:

  - Cluster sections: nodes, namespaces, persistent volumes and claims,
    component statuses, storage classes, roles, aggregated resources and
    stats, cluster version, container images
  - Per-node piggyback sections: resources, stats, conditions
  - Custom pod metrics sections, one per configured metric group

Collection is all-or-nothing: on any collector failure nothing is
emitted and the command exits non-zero.

# Connection

The cluster is addressed either explicitly (--host plus --token, the
way a monitoring site configures a target) or through kubeconfig
discovery (--kubeconfig, KUBECONFIG, ~/.kube/config, or the in-cluster
service account).

# Examples

Collect from the current kubeconfig context to stdout:
  ktel collect

Collect from an explicitly addressed API server:
  ktel collect --host k8s.example.com --port 6443 --token "$TOKEN"

Collect through a reverse proxy without certificate checks:
  ktel collect --url-prefix http://127.0.0.1 --port 8080 \
    --path-prefix /0123-4567/k8s --token "$TOKEN" --no-cert-check

Write the report to a ConfigMap instead of stdout:
  ktel collect --output cm://monitoring/ktel-report

Probe a custom set of pod metrics:
  ktel collect --config metric-groups.yaml

Run as a daemon, re-collecting every minute with diagnostics:
  ktel collect --interval 1m --diag-addr :9090 --output cm://monitoring/ktel-report`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Sources: cli.EnvVars("KTEL_HOST"),
				Usage:   "Kubernetes API server host to connect to",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: 443,
				Usage: "Port to connect to",
			},
			&cli.StringFlag{
				Name:    "token",
				Sources: cli.EnvVars("KTEL_TOKEN"),
				Usage:   "Bearer token presented on every API request",
			},
			&cli.StringFlag{
				Name:  "url-prefix",
				Usage: "Custom URL prefix for Kubernetes API calls (replaces https://HOST)",
			},
			&cli.StringFlag{
				Name:  "path-prefix",
				Usage: "Optional URL path prefix to prepend to Kubernetes API calls",
			},
			&cli.BoolFlag{
				Name:  "no-cert-check",
				Usage: "Disable certificate verification",
			},
			&cli.StringFlag{
				Name:    "ca-file",
				Sources: cli.EnvVars("KTEL_CA_FILE"),
				Usage:   "CA bundle used to verify the API server certificate",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Sources: cli.EnvVars("KTEL_CONFIG"),
				Usage:   "Path to a YAML file tuning the probed metric groups and the kubelet stats budget",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.CLICollectTimeout,
				Usage: "Timeout for one collection cycle",
			},
			&cli.DurationFlag{
				Name:    "interval",
				Sources: cli.EnvVars("KTEL_INTERVAL"),
				Usage:   "Re-run collection on this interval instead of exiting after one cycle",
			},
			&cli.StringFlag{
				Name:    "diag-addr",
				Sources: cli.EnvVars("KTEL_DIAG_ADDR"),
				Usage:   "Listen address for the diagnostic HTTP server, e.g. :9090 (requires --interval)",
			},
			outputFlag,
			kubeconfigFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseCollectCmdOptions(cmd)
			if err != nil {
				return err
			}

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			clientset, err := buildClientset(opts)
			if err != nil {
				return err
			}

			builder := &report.Builder{
				Factory: &collector.DefaultFactory{Clientset: clientset, Stats: cfg.Stats},
				Groups:  cfg.MetricGroups,
			}

			if opts.interval > 0 {
				runner := &intervalRunner{
					builder:  builder,
					output:   opts.output,
					diagAddr: opts.diagAddr,
					interval: opts.interval,
					timeout:  opts.timeout,
				}
				return runner.run(ctx)
			}

			return collectOnce(ctx, builder, opts.output, opts.timeout)
		},
	}
}

// buildClientset creates the cluster client, either for an explicitly
// addressed API server or through kubeconfig discovery.
func buildClientset(opts *collectCmdOptions) (client.Interface, error) {
	if opts.endpointMode() {
		slog.Debug("connecting to explicit endpoint",
			"host", opts.host,
			"port", opts.port,
			"urlPrefix", opts.urlPrefix,
			"pathPrefix", opts.pathPrefix)
		clientset, _, err := client.NewForEndpoint(client.Endpoint{
			Host:        opts.host,
			Port:        opts.port,
			URLPrefix:   opts.urlPrefix,
			PathPrefix:  opts.pathPrefix,
			Token:       opts.token,
			NoCertCheck: opts.noCertCheck,
			CAFile:      opts.caFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create client for endpoint: %w", err)
		}
		return clientset, nil
	}

	clientset, _, err := client.GetKubeClientWithConfig(opts.kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubernetes client: %w", err)
	}
	return clientset, nil
}

// collectOnce runs a single collection cycle and emits the report.
func collectOnce(ctx context.Context, builder *report.Builder, output string, timeout time.Duration) error {
	cycleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rpt, err := builder.Build(cycleCtx)
	if err != nil {
		return fmt.Errorf("collection cycle failed: %w", err)
	}
	return emitReport(cycleCtx, rpt, output)
}

// emitReport serializes one rendered report to the output destination.
// The serializer is created per emission so file targets hold only the
// latest report rather than an append log.
func emitReport(ctx context.Context, rpt serializer.Renderer, output string) error {
	ser := serializer.NewFileWriterOrStdout(output)
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	if err := ser.Serialize(ctx, rpt); err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	return nil
}
