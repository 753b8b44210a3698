// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/beads"
	"github.com/bureau-foundation/workgraph/lib/graphfile"
	"github.com/bureau-foundation/workgraph/lib/snapshot"
)

func importCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "import",
		Summary: "Import tasks from other trackers",
		Subcommands: []*cli.Command{
			importBeadsCommand(e),
		},
	}
}

type importBeadsParams struct {
	workgraphParams
	cli.JSONOutput
	RenameFrom   string `flag:"rename-from" desc:"id prefix to replace (e.g. bd)"`
	RenameTo     string `flag:"rename-to" desc:"replacement id prefix"`
	SkipExisting bool   `flag:"skip-existing" desc:"skip issues whose id is already in the graph"`
	Snapshot     bool   `flag:"snapshot" desc:"snapshot the graph before importing"`
	DryRun       bool   `flag:"dry-run" desc:"report what would be imported without writing"`
}

func importBeadsCommand(e *env) *cli.Command {
	var params importBeadsParams

	return &cli.Command{
		Name:    "beads",
		Summary: "Import a beads issues.jsonl export",
		Description: `Convert each beads issue into a task. Statuses map as open, deferred
-> open; in_progress -> in-progress; blocked -> blocked; closed -> done;
tombstone -> abandoned. Labels become tags and the issue type becomes a
"type:<name>" tag. Only "blocks" dependencies become blocked_by edges.

Importing an id that already exists fails the whole import unless
--skip-existing is given.`,
		Usage: "wg import beads <issues.jsonl> [flags]",
		Examples: []cli.Example{
			{
				Description: "Import and renumber bd-N ids as wg-N",
				Command:     "wg import beads .beads/issues.jsonl --rename-from bd --rename-to wg --snapshot",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg import beads <issues.jsonl> [flags]"); err != nil {
				return err
			}
			if (params.RenameFrom == "") != (params.RenameTo == "") {
				return fmt.Errorf("--rename-from and --rename-to must be given together")
			}
			tasks, err := beads.LoadFile(args[0])
			if err != nil {
				return err
			}
			beads.RenameIDs(tasks, params.RenameFrom, params.RenameTo)

			graph, directory, err := params.load(e)
			if err != nil {
				return err
			}
			if params.Snapshot && !params.DryRun {
				info, err := snapshot.Create(snapshot.Dir(directory), graph, snapshot.Options{
					Label:       "before beads import of " + args[0],
					Compression: snapshot.CompressionZstd,
					Now:         e.clock.Now(),
				})
				if err != nil {
					return fmt.Errorf("snapshotting graph: %w", err)
				}
				logger.Info("snapshot created", "id", info.ID)
			}

			result, err := beads.Import(graph, tasks, params.SkipExisting)
			if err != nil {
				return err
			}
			if !params.DryRun {
				if err := graphfile.SaveDir(directory, graph); err != nil {
					return err
				}
				logger.Info("beads import complete", "added", len(result.Added), "skipped", len(result.Skipped))
			}

			if done, err := params.EmitJSON(e.stdout, result); done {
				return err
			}
			verb := "Imported"
			if params.DryRun {
				verb = "Would import"
			}
			fmt.Fprintf(e.stdout, "%s %d task(s) from %s\n", verb, len(result.Added), args[0])
			if len(result.Skipped) > 0 {
				fmt.Fprintf(e.stdout, "Skipped %d existing task(s)\n", len(result.Skipped))
			}
			return nil
		},
	}
}
