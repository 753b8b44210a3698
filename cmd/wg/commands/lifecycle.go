// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

type doneParams struct {
	workgraphParams
}

func doneCommand(e *env) *cli.Command {
	return markDoneCommand(e, "done", "Mark a task as done", "")
}

func approveCommand(e *env) *cli.Command {
	return markDoneCommand(e, "approve", "Mark a task as done (deprecated)", "Use 'wg done' instead.")
}

func submitCommand(e *env) *cli.Command {
	return markDoneCommand(e, "submit", "Mark a task as done (deprecated)", "Use 'wg done' instead.")
}

// markDoneCommand builds done and its deprecated review-era aliases,
// which behave identically.
func markDoneCommand(e *env, name, summary, deprecated string) *cli.Command {
	var params doneParams
	usage := "wg " + name + " <id> [flags]"

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Description: `Move a task to done from any status and record completed_at. Marking
a task that is already done changes nothing.`,
		Usage:      usage,
		Deprecated: deprecated,
		Params:     func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, usage); err != nil {
				return err
			}
			id := args[0]
			var changed bool
			err := params.update(e, func(graph *workgraph.Graph) error {
				var err error
				changed, err = graph.MarkDone(id, e.clock.Now())
				return err
			})
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(e.stdout, "Task '%s' is already done\n", id)
				return nil
			}
			logger.Info("task completed", "task", id)
			fmt.Fprintf(e.stdout, "Marked '%s' as done\n", id)
			return nil
		},
	}
}

// transitionParams carries the attribution and reason flags shared by
// the lifecycle transitions.
type transitionParams struct {
	workgraphParams
	Actor  string `flag:"actor,a" desc:"actor recorded on the log entry"`
	Reason string `flag:"reason,r" desc:"reason recorded on the log entry"`
}

func rejectCommand(e *env) *cli.Command {
	var params transitionParams

	return &cli.Command{
		Name:    "reject",
		Summary: "Send done or in-progress work back to open",
		Description: `Return a done or in-progress task to open for rework. The assignee is
cleared, retry_count goes up by one, and the reason is logged. Any other
status is refused.`,
		Usage: "wg reject <id> [--reason <text>] [--actor <id>]",
		Examples: []cli.Example{
			{
				Description: "Reject with a reason",
				Command:     "wg reject parser --reason 'Missing edge case tests' --actor reviewer",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg reject <id> [flags]"); err != nil {
				return err
			}
			id := args[0]
			err := params.update(e, func(graph *workgraph.Graph) error {
				return graph.Reject(id, params.Reason, params.Actor, e.clock.Now())
			})
			if err != nil {
				return err
			}
			logger.Info("task rejected", "task", id, "actor", params.Actor)
			fmt.Fprintf(e.stdout, "Rejected task '%s' - returned to open for rework\n", id)
			if params.Reason != "" {
				fmt.Fprintf(e.stdout, "  Reason: %s\n", params.Reason)
			}
			return nil
		},
	}
}

func claimCommand(e *env) *cli.Command {
	var params transitionParams

	return &cli.Command{
		Name:    "claim",
		Summary: "Start work on an open task",
		Description: `Move an open task to in-progress and record started_at. With --actor
the task is assigned to that actor.`,
		Usage:  "wg claim <id> [--actor <id>]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg claim <id> [flags]"); err != nil {
				return err
			}
			id := args[0]
			err := params.update(e, func(graph *workgraph.Graph) error {
				return graph.Claim(id, params.Actor, e.clock.Now())
			})
			if err != nil {
				return err
			}
			logger.Info("task claimed", "task", id, "actor", params.Actor)
			if params.Actor != "" {
				fmt.Fprintf(e.stdout, "Claimed '%s' for '%s'\n", id, params.Actor)
			} else {
				fmt.Fprintf(e.stdout, "Claimed '%s'\n", id)
			}
			return nil
		},
	}
}

func failCommand(e *env) *cli.Command {
	var params transitionParams

	return &cli.Command{
		Name:    "fail",
		Summary: "Record that an in-progress attempt failed",
		Usage:   "wg fail <id> [--reason <text>] [--actor <id>]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg fail <id> [flags]"); err != nil {
				return err
			}
			id := args[0]
			err := params.update(e, func(graph *workgraph.Graph) error {
				return graph.Fail(id, params.Reason, params.Actor, e.clock.Now())
			})
			if err != nil {
				return err
			}
			logger.Info("task failed", "task", id, "reason", params.Reason)
			fmt.Fprintf(e.stdout, "Marked '%s' as failed\n", id)
			return nil
		},
	}
}

func abandonCommand(e *env) *cli.Command {
	var params transitionParams

	return &cli.Command{
		Name:    "abandon",
		Summary: "Give up on a task that is not done",
		Usage:   "wg abandon <id> [--reason <text>] [--actor <id>]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg abandon <id> [flags]"); err != nil {
				return err
			}
			id := args[0]
			err := params.update(e, func(graph *workgraph.Graph) error {
				return graph.Abandon(id, params.Reason, params.Actor, e.clock.Now())
			})
			if err != nil {
				return err
			}
			logger.Info("task abandoned", "task", id)
			fmt.Fprintf(e.stdout, "Abandoned '%s'\n", id)
			return nil
		},
	}
}

func retryCommand(e *env) *cli.Command {
	var params transitionParams

	return &cli.Command{
		Name:    "retry",
		Summary: "Reopen a failed task",
		Description: `Return a failed task to open and increment retry_count. Refused once
retry_count has reached max_retries.`,
		Usage:  "wg retry <id> [--actor <id>]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg retry <id> [flags]"); err != nil {
				return err
			}
			id := args[0]
			var attempt int
			err := params.update(e, func(graph *workgraph.Graph) error {
				if err := graph.Retry(id, params.Actor, e.clock.Now()); err != nil {
					return err
				}
				task, _ := graph.Task(id)
				attempt = task.RetryCount
				return nil
			})
			if err != nil {
				return err
			}
			logger.Info("task retried", "task", id, "retry_count", attempt)
			fmt.Fprintf(e.stdout, "Reopened '%s' (retry %d)\n", id, attempt)
			return nil
		},
	}
}
