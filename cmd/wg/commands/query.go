// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/query"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// taskSummary is the JSON shape of one task in list-style output.
type taskSummary struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Status    workgraph.Status    `json:"status"`
	Assigned  string              `json:"assigned,omitempty"`
	BlockedBy []string            `json:"blocked_by"`
	Estimate  *workgraph.Estimate `json:"estimate,omitempty"`
}

func summarize(tasks []*workgraph.Task) []taskSummary {
	summaries := make([]taskSummary, 0, len(tasks))
	for _, task := range tasks {
		blockedBy := task.BlockedBy
		if blockedBy == nil {
			blockedBy = []string{}
		}
		summaries = append(summaries, taskSummary{
			ID:        task.ID,
			Title:     task.Title,
			Status:    task.Status,
			Assigned:  task.Assigned,
			BlockedBy: blockedBy,
			Estimate:  task.Estimate,
		})
	}
	return summaries
}

type listParams struct {
	workgraphParams
	cli.JSONOutput
	Status   []string `flag:"status,s" desc:"only tasks with these statuses (repeatable, comma separated)"`
	Tag      string   `flag:"tag,t" desc:"only tasks carrying this tag"`
	Assigned string   `flag:"assigned" desc:"only tasks assigned to this actor"`
}

func listCommand(e *env) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List tasks",
		Description: `List tasks in graph order with a status marker:

  [ ] open   [~] in-progress   [!] blocked   [x] done
  [F] failed [A] abandoned     [R] pending-review (legacy)`,
		Usage: "wg list [flags]",
		Examples: []cli.Example{
			{
				Description: "Show unfinished work",
				Command:     "wg list --status open,in-progress",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg list [flags]"); err != nil {
				return err
			}
			filter := query.Filter{Tag: params.Tag, Assigned: params.Assigned}
			for _, raw := range params.Status {
				status, err := workgraph.ParseStatus(raw)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, status)
			}

			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			tasks := query.List(graph, filter)
			if done, err := params.EmitJSON(e.stdout, summarize(tasks)); done {
				return err
			}

			if len(tasks) == 0 {
				fmt.Fprintln(e.stdout, "No tasks found")
				return nil
			}
			for _, task := range tasks {
				fmt.Fprintf(e.stdout, "%s %s - %s\n",
					e.paintStatus(task.Status, statusMarker(task.Status)), task.ID, task.Title)
			}
			return nil
		},
	}
}

type readyParams struct {
	workgraphParams
	cli.JSONOutput
}

func readyCommand(e *env) *cli.Command {
	var params readyParams

	return &cli.Command{
		Name:    "ready",
		Summary: "List tasks that can be started now",
		Description: `List open tasks whose blockers are all done. A blocker id that does
not name a task is ignored; run 'wg check' to find such references.
Tasks whose not_before lies in the future are included; scheduling is
the executor's concern.`,
		Usage:  "wg ready [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg ready [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			ready := query.Ready(graph)
			if done, err := params.EmitJSON(e.stdout, summarize(ready)); done {
				return err
			}

			if len(ready) == 0 {
				fmt.Fprintln(e.stdout, "No tasks ready")
				return nil
			}
			fmt.Fprintln(e.stdout, "Ready tasks:")
			for _, task := range ready {
				assigned := ""
				if task.Assigned != "" {
					assigned = e.paintFaint(fmt.Sprintf(" (%s)", task.Assigned))
				}
				fmt.Fprintf(e.stdout, "  %s - %s%s\n", task.ID, task.Title, assigned)
			}
			return nil
		},
	}
}

type blockedParams struct {
	workgraphParams
	cli.JSONOutput
}

func blockedCommand(e *env) *cli.Command {
	var params blockedParams

	return &cli.Command{
		Name:    "blocked",
		Summary: "Show what a task is waiting on",
		Description: `List the unfinished tasks named in a task's blocked_by, in
blocked_by order. Blocker ids that do not resolve are left out; run
'wg check' to find them.`,
		Usage:  "wg blocked <id> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "wg blocked <id> [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			id := args[0]
			if _, err := taskOrError(graph, id); err != nil {
				return err
			}
			blockers := query.BlockedBy(graph, id)
			if done, err := params.EmitJSON(e.stdout, summarize(blockers)); done {
				return err
			}

			if len(blockers) == 0 {
				fmt.Fprintf(e.stdout, "Task '%s' has no blockers\n", id)
				return nil
			}
			fmt.Fprintf(e.stdout, "Task '%s' is blocked by:\n", id)
			for _, blocker := range blockers {
				fmt.Fprintf(e.stdout, "  %s - %s [%s]\n",
					blocker.ID, blocker.Title, e.paintStatus(blocker.Status, blocker.Status.String()))
			}
			return nil
		},
	}
}

type costParams struct {
	workgraphParams
	cli.JSONOutput
}

type costResult struct {
	ID    string  `json:"id"`
	Cost  float64 `json:"cost"`
	Hours float64 `json:"hours"`
	Tasks int     `json:"tasks"`
}

func costCommand(e *env) *cli.Command {
	var params costParams

	return &cli.Command{
		Name:    "cost",
		Summary: "Total estimated cost of a task and its dependencies",
		Description: `Sum estimate.cost over the task and every task it transitively waits
on. A task reachable along several paths is counted once, and cycles
terminate.`,
		Usage:  "wg cost <id> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "wg cost <id> [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			id := args[0]
			if _, err := taskOrError(graph, id); err != nil {
				return err
			}
			result := costResult{
				ID:    id,
				Cost:  query.CostOf(graph, id),
				Hours: query.HoursOf(graph, id),
				Tasks: len(query.Upstream(graph, id)),
			}
			if done, err := params.EmitJSON(e.stdout, result); done {
				return err
			}
			fmt.Fprintf(e.stdout, "Total cost for '%s' (including dependencies): $%.2f\n", id, result.Cost)
			if result.Hours > 0 {
				fmt.Fprintf(e.stdout, "Total hours: %g across %d task(s)\n", result.Hours, result.Tasks)
			}
			return nil
		},
	}
}
