// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/codec"
	"github.com/bureau-foundation/workgraph/lib/query"
	"github.com/bureau-foundation/workgraph/lib/snapshot"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// shortID is how many hex digits of a snapshot id human output shows.
const shortID = 12

func snapshotCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Summary: "Save and restore compressed copies of the graph",
		Description: `Snapshots are immutable, compressed copies of the whole graph stored in
the snapshots/ directory, named by the BLAKE3 digest of their content.
Snapshotting an unchanged graph twice stores one file. Ids may be
abbreviated to any unique prefix.`,
		Subcommands: []*cli.Command{
			snapshotCreateCommand(e),
			snapshotListCommand(e),
			snapshotShowCommand(e),
			snapshotRestoreCommand(e),
		},
	}
}

type snapshotCreateParams struct {
	workgraphParams
	cli.JSONOutput
	Label       string `flag:"label,l" desc:"free-form label"`
	Compression string `flag:"compression" desc:"zstd, lz4, or none" default:"zstd"`
}

func snapshotCreateCommand(e *env) *cli.Command {
	var params snapshotCreateParams

	return &cli.Command{
		Name:    "create",
		Summary: "Snapshot the current graph",
		Usage:   "wg snapshot create [--label <text>] [flags]",
		Examples: []cli.Example{
			{
				Description: "Snapshot before a large import",
				Command:     "wg snapshot create --label 'before beads import'",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "wg snapshot create [flags]"); err != nil {
				return err
			}
			compression, err := snapshot.ParseCompression(params.Compression)
			if err != nil {
				return err
			}
			graph, directory, err := params.load(e)
			if err != nil {
				return err
			}
			info, err := snapshot.Create(snapshot.Dir(directory), graph, snapshot.Options{
				Label:       params.Label,
				Compression: compression,
				Now:         e.clock.Now(),
			})
			if err != nil {
				return err
			}
			logger.Info("snapshot created", "id", info.ID, "compression", info.Compression.String(), "size", info.Size)
			if done, err := params.EmitJSON(e.stdout, info); done {
				return err
			}
			fmt.Fprintf(e.stdout, "Snapshot %s: %d nodes, %d bytes (%s)\n",
				info.ID[:shortID], info.Nodes, info.Size, info.Compression)
			return nil
		},
	}
}

type snapshotListParams struct {
	workgraphParams
	cli.JSONOutput
}

func snapshotListCommand(e *env) *cli.Command {
	var params snapshotListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List snapshots, oldest first",
		Usage:   "wg snapshot list [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg snapshot list [flags]"); err != nil {
				return err
			}
			infos, err := snapshot.List(snapshot.Dir(params.directory(e)))
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(e.stdout, infos); done {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(e.stdout, "No snapshots found")
				return nil
			}
			writer := tabwriter.NewWriter(e.stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "ID\tCREATED\tNODES\tSIZE\tLABEL\n")
			for _, info := range infos {
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\n", info.ID[:shortID], info.CreatedAt, info.Nodes, info.Size, info.Label)
			}
			return writer.Flush()
		},
	}
}

type snapshotShowParams struct {
	workgraphParams
	cli.JSONOutput
	Raw bool `flag:"raw" desc:"print the decoded payload in CBOR diagnostic notation"`
}

type snapshotDetail struct {
	snapshot.Info
	Compression string                   `json:"compression"`
	Tasks       int                      `json:"tasks"`
	Actors      int                      `json:"actors"`
	Resources   int                      `json:"resources"`
	Statuses    map[workgraph.Status]int `json:"statuses"`
}

func snapshotShowCommand(e *env) *cli.Command {
	var params snapshotShowParams

	return &cli.Command{
		Name:    "show",
		Summary: "Describe one snapshot",
		Usage:   "wg snapshot show <id-prefix> [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "wg snapshot show <id-prefix> [flags]"); err != nil {
				return err
			}
			path, err := snapshot.FindByPrefix(snapshot.Dir(params.directory(e)), args[0])
			if err != nil {
				return err
			}
			graph, info, err := snapshot.Read(path)
			if err != nil {
				return err
			}
			if params.Raw {
				return printSnapshotPayload(e, path)
			}
			detail := snapshotDetail{
				Info:        info,
				Compression: info.Compression.String(),
				Tasks:       len(graph.Tasks()),
				Actors:      len(graph.Actors()),
				Resources:   len(graph.Resources()),
				Statuses:    query.StatusCounts(graph),
			}
			if done, err := params.EmitJSON(e.stdout, detail); done {
				return err
			}

			w := e.stdout
			fmt.Fprintf(w, "Snapshot: %s\n", info.ID)
			printField(w, "Label", info.Label)
			fmt.Fprintf(w, "Created: %s\n", info.CreatedAt)
			fmt.Fprintf(w, "Size: %d bytes (%s, %d uncompressed)\n", info.Size, detail.Compression, info.PayloadSize)
			fmt.Fprintf(w, "Nodes: %d tasks, %d actors, %d resources\n", detail.Tasks, detail.Actors, detail.Resources)
			for _, status := range workgraph.Statuses {
				if count := detail.Statuses[status]; count > 0 {
					fmt.Fprintf(w, "  %-12s %d\n", status, count)
				}
			}
			return nil
		},
	}
}

func printSnapshotPayload(e *env, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	payload, _, err := snapshot.Payload(data)
	if err != nil {
		return err
	}
	notation, err := codec.Diagnose(payload)
	if err != nil {
		return fmt.Errorf("rendering snapshot payload: %w", err)
	}
	fmt.Fprintln(e.stdout, notation)
	return nil
}

type snapshotRestoreParams struct {
	workgraphParams
}

func snapshotRestoreCommand(e *env) *cli.Command {
	var params snapshotRestoreParams

	return &cli.Command{
		Name:    "restore",
		Summary: "Replace the graph with a snapshot",
		Description: `Replace graph.jsonl with the content of a snapshot. The current graph is
snapshotted first, so a restore can itself be undone.`,
		Usage:  "wg snapshot restore <id-prefix> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg snapshot restore <id-prefix> [flags]"); err != nil {
				return err
			}
			graph, directory, err := params.load(e)
			if err != nil {
				return err
			}
			snapshotDir := snapshot.Dir(directory)
			// Resolve first so a bad prefix leaves no backup behind.
			if _, err := snapshot.FindByPrefix(snapshotDir, args[0]); err != nil {
				return err
			}
			backup, err := snapshot.Create(snapshotDir, graph, snapshot.Options{
				Label:       "before restore of " + args[0],
				Compression: snapshot.CompressionZstd,
				Now:         e.clock.Now(),
			})
			if err != nil {
				return fmt.Errorf("snapshotting current graph: %w", err)
			}
			info, err := snapshot.Restore(directory, args[0])
			if err != nil {
				return err
			}
			logger.Info("snapshot restored", "id", info.ID, "backup", backup.ID)
			fmt.Fprintf(e.stdout, "Restored snapshot %s (%d nodes)\n", info.ID[:shortID], info.Nodes)
			fmt.Fprintf(e.stdout, "Previous graph saved as %s\n", backup.ID[:shortID])
			return nil
		},
	}
}
