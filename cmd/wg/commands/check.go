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
	"github.com/bureau-foundation/workgraph/lib/check"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

type checkParams struct {
	workgraphParams
	cli.JSONOutput
	Strict bool `flag:"strict" desc:"treat cycles as errors"`
}

func checkCommand(e *env) *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Find cycles and dangling references",
		Description: `Check the graph for blocked_by cycles and for references that do not
resolve: blocked_by, blocks, and loops_to must name tasks, requires must
name resources, and assigned must name an actor.

Dangling references are errors and make the command exit 1. Cycles are
reported as warnings; tasks on a cycle can never become ready, but the
graph is still usable. With --strict, cycles are errors too.`,
		Usage:  "wg check [--strict] [--json]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "wg check [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			report := check.Run(graph)
			failed := report.HasErrors() || (params.Strict && len(report.Cycles) > 0)

			if done, err := params.EmitJSON(e.stdout, report); done {
				if err != nil {
					return err
				}
				if failed {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}

			if report.OK {
				fmt.Fprintf(e.stdout, "Graph OK: %d nodes, no issues found\n", graph.Len())
				return nil
			}
			if len(report.Cycles) > 0 {
				logger.Warn("blocked_by cycles found", "count", len(report.Cycles))
				fmt.Fprintln(e.stdout, "Cycles detected:")
				for _, cycle := range report.Cycles {
					fmt.Fprintf(e.stdout, "  %s\n", strings.Join(cycle, " -> "))
				}
			}
			if len(report.OrphanRefs) > 0 {
				fmt.Fprintln(e.stdout, "Orphan references:")
				for _, orphan := range report.OrphanRefs {
					fmt.Fprintf(e.stdout, "  %s --[%s]--> %s (not found)\n", orphan.From, orphan.Relation, orphan.To)
				}
			}
			fmt.Fprintf(e.stdout, "Found %d issue(s)\n", report.IssueCount())
			if failed {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

type graphParams struct {
	workgraphParams
}

func graphCommand(e *env) *cli.Command {
	var params graphParams

	return &cli.Command{
		Name:    "graph",
		Summary: "Render the graph as Graphviz DOT",
		Description: `Write the whole graph in Graphviz DOT format. Tasks are boxes filled by
status, actors are ellipses, and resources are diamonds. Edges point
from a blocker to the task it blocks, from a task to its assignee
(dashed), and from a task to the resources it requires (dotted).`,
		Usage: "wg graph [flags]",
		Examples: []cli.Example{
			{
				Description: "Render to SVG",
				Command:     "wg graph | dot -Tsvg > graph.svg",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg graph [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			writeDOT(e.stdout, graph)
			return nil
		},
	}
}

var dotFillColors = map[workgraph.Status]string{
	workgraph.StatusOpen:       "white",
	workgraph.StatusInProgress: "lightyellow",
	workgraph.StatusBlocked:    "lightcoral",
	workgraph.StatusDone:       "lightgreen",
	workgraph.StatusFailed:     "salmon",
	workgraph.StatusAbandoned:  "lightgray",
}

func writeDOT(w io.Writer, graph *workgraph.Graph) {
	fmt.Fprintln(w, "digraph workgraph {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box];")
	fmt.Fprintln(w)

	for _, task := range graph.Tasks() {
		fill := dotFillColors[task.Status.Effective()]
		fmt.Fprintf(w, "  %s [label=%s, style=filled, fillcolor=%s];\n",
			dotQuote(task.ID), dotQuote(task.ID+"\n"+task.Title), fill)
	}
	for _, actor := range graph.Actors() {
		fmt.Fprintf(w, "  %s [label=%s, shape=ellipse, style=filled, fillcolor=lightblue];\n",
			dotQuote(actor.ID), dotQuote(actor.DisplayName()))
	}
	for _, resource := range graph.Resources() {
		fmt.Fprintf(w, "  %s [label=%s, shape=diamond, style=filled, fillcolor=lightyellow];\n",
			dotQuote(resource.ID), dotQuote(resource.DisplayName()))
	}
	fmt.Fprintln(w)

	for _, task := range graph.Tasks() {
		for _, blocker := range task.BlockedBy {
			fmt.Fprintf(w, "  %s -> %s [label=\"blocks\"];\n", dotQuote(blocker), dotQuote(task.ID))
		}
		if task.Assigned != "" {
			fmt.Fprintf(w, "  %s -> %s [style=dashed, label=\"assigned\"];\n", dotQuote(task.ID), dotQuote(task.Assigned))
		}
		for _, resource := range task.Requires {
			fmt.Fprintf(w, "  %s -> %s [style=dotted, label=\"requires\"];\n", dotQuote(task.ID), dotQuote(resource))
		}
	}
	fmt.Fprintln(w, "}")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotQuote renders s as a DOT double-quoted string.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
