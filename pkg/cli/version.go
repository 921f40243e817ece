/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("%s %s (commit %s, built %s, %s %s/%s)\n",
				name, version, commit, date,
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
