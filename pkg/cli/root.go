/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kube-telemetry/pkg/logging"
)

const name = "ktel"

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Kubernetes telemetry agent for monitoring backends",
		Description: fmt.Sprintf(`ktel collects point-in-time telemetry from a Kubernetes
cluster and renders it as a piggyback text report, one section per
node, for a monitoring backend to ingest.

The collect command runs one cycle over the API objects, kubelet
stats, custom pod metrics, cluster version, and container images,
then writes the report to stdout, a file, or a ConfigMap. With
--interval it keeps collecting until signalled.

Build %s (commit %s, %s).`, version, commit, date),
		Flags: []cli.Flag{
			logLevelFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			initLogger(cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			collectCmd(),
			versionCmd(),
		},
	}
}

// Execute parses the command line and runs the selected command until
// it finishes or the process receives SIGINT or SIGTERM. The signal
// cancels the command context; interval mode uses that to finish the
// cycle in flight before returning.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd().Run(ctx, os.Args)
}

// initLogger configures slog after flag parsing so overrides like
// --log-level take effect before any command executes. Logs go to
// stderr; stdout stays reserved for report text.
func initLogger(logLevel string) {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
	slog.Debug("starting", "name", name, "version", version, "commit", commit, "date", date, "logLevel", logLevel)
}
