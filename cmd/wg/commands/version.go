// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/version"
)

type versionParams struct {
	cli.JSONOutput
	Short bool `flag:"short" desc:"print only the version number"`
}

func versionCommand(e *env) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Usage:   "wg version [--short] [--json]",
		Params:  func() any { return &params },
		Run: func(context.Context, []string, *slog.Logger) error {
			if done, err := params.EmitJSON(e.stdout, version.Current()); done {
				return err
			}
			if params.Short {
				fmt.Fprintln(e.stdout, version.Short())
				return nil
			}
			fmt.Fprintf(e.stdout, "wg %s\n", version.Full())
			return nil
		},
	}
}
