// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

func logCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "log",
		Summary: "Append to or read a task's log",
		Description: `Each task carries an append-only log of timestamped entries. Lifecycle
commands write entries automatically; 'wg log add' records progress
notes by hand.`,
		Subcommands: []*cli.Command{
			logAddCommand(e),
			logListCommand(e),
		},
	}
}

type logAddParams struct {
	workgraphParams
	Actor string `flag:"actor,a" desc:"actor recorded on the entry"`
}

func logAddCommand(e *env) *cli.Command {
	var params logAddParams

	return &cli.Command{
		Name:    "add",
		Summary: "Append a log entry to a task",
		Usage:   "wg log add <id> <message...> [--actor <id>]",
		Examples: []cli.Example{
			{
				Description: "Record progress",
				Command:     "wg log add parser 'tokenizer done, starting on the AST' --actor agent-1",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 2 {
				return fmt.Errorf("expected a task id and a message\n\nusage: wg log add <id> <message...> [flags]")
			}
			id := args[0]
			message := strings.Join(args[1:], " ")
			err := params.update(e, func(graph *workgraph.Graph) error {
				_, err := graph.AddLog(id, params.Actor, message, e.clock.Now())
				return err
			})
			if err != nil {
				return err
			}
			logger.Debug("log entry added", "task", id)
			if params.Actor != "" {
				fmt.Fprintf(e.stdout, "Added log entry to '%s' (%s)\n", id, params.Actor)
			} else {
				fmt.Fprintf(e.stdout, "Added log entry to '%s'\n", id)
			}
			return nil
		},
	}
}

type logListParams struct {
	workgraphParams
	cli.JSONOutput
}

func logListCommand(e *env) *cli.Command {
	var params logListParams

	return &cli.Command{
		Name:    "list",
		Summary: "Show a task's log",
		Usage:   "wg log list <id> [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "wg log list <id> [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			task, err := taskOrError(graph, args[0])
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(e.stdout, task.Log); done {
				return err
			}

			if len(task.Log) == 0 {
				fmt.Fprintf(e.stdout, "No log entries for task '%s'\n", task.ID)
				return nil
			}
			fmt.Fprintf(e.stdout, "Log entries for '%s' (%s):\n\n", task.ID, task.Title)
			for _, entry := range task.Log {
				printLogEntry(e.stdout, entry)
				fmt.Fprintln(e.stdout)
			}
			return nil
		},
	}
}

func printLogEntry(w io.Writer, entry workgraph.LogEntry) {
	if entry.Actor != "" {
		fmt.Fprintf(w, "  %s [%s]\n", entry.Timestamp, entry.Actor)
	} else {
		fmt.Fprintf(w, "  %s\n", entry.Timestamp)
	}
	fmt.Fprintf(w, "    %s\n", entry.Message)
}
