// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/config"
	"github.com/bureau-foundation/workgraph/lib/graphfile"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

type initParams struct {
	workgraphParams
}

func initCommand(e *env) *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Create a new workgraph",
		Description: `Create the workgraph directory with an empty graph and a default
config.yaml. Fails if the directory already holds a graph.`,
		Usage:  "wg init [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "wg init [flags]"); err != nil {
				return err
			}
			directory := params.directory(e)

			if _, err := os.Stat(graphfile.Path(directory)); err == nil {
				return fmt.Errorf("workgraph already initialized at %s", directory)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}

			if err := os.MkdirAll(directory, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", directory, err)
			}
			if err := graphfile.SaveDir(directory, workgraph.New()); err != nil {
				return err
			}
			created, err := config.Init(directory)
			if err != nil {
				return err
			}
			logger.Debug("workgraph initialized", "dir", directory, "config_created", created)

			fmt.Fprintf(e.stdout, "Initialized workgraph at %s\n", directory)
			return nil
		},
	}
}
