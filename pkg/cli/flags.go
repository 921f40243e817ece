/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import "github.com/urfave/cli/v3"

// Flags shared across commands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Sources: cli.EnvVars("KTEL_OUTPUT"),
		Usage: `Output destination for the report (default: stdout).
	Supports: file paths or ConfigMap URIs (cm://namespace/name).`,
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:  "kubeconfig",
		Usage: "Path to kubeconfig file (default: KUBECONFIG, ~/.kube/config, or in-cluster config)",
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Sources: cli.EnvVars("LOG_LEVEL"),
		Value:   "info",
		Usage:   "Log level (debug, info, warn, error)",
	}
)
