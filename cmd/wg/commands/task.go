// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/clock"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

type addParams struct {
	workgraphParams
	ID          string   `flag:"id" desc:"task id (default: derived from the title)"`
	Description string   `flag:"description" desc:"longer description"`
	BlockedBy   []string `flag:"blocked-by,b" desc:"task ids this task waits on (repeatable, comma separated)"`
	Hours       float64  `flag:"hours" desc:"estimated hours"`
	Cost        float64  `flag:"cost" desc:"estimated cost"`
	Tags        []string `flag:"tag,t" desc:"tags (repeatable, comma separated)"`
	Skills      []string `flag:"skill" desc:"required skills (repeatable, comma separated)"`
	Requires    []string `flag:"requires" desc:"resource ids the task consumes"`
	Assign      string   `flag:"assign" desc:"actor id to assign"`
	Model       string   `flag:"model" desc:"model override for agent execution"`
	Verify      string   `flag:"verify" desc:"verification criteria"`
	Exec        string   `flag:"exec" desc:"shell command the executor runs"`
	MaxRetries  int      `flag:"max-retries" desc:"retry budget for failed attempts"`
}

func addCommand(e *env) *cli.Command {
	var params addParams

	command := &cli.Command{
		Name:    "add",
		Summary: "Add a task",
		Description: `Add an open task to the graph. The id defaults to a slug of the title
("Write tests" becomes write-tests). Every --blocked-by id must name an
existing task; the blocker's blocks list is updated to match.`,
		Usage: "wg add <title> [flags]",
		Examples: []cli.Example{
			{
				Description: "Add a task with an estimate",
				Command:     "wg add 'Implement parser' --hours 4 --cost 400",
			},
			{
				Description: "Add a task that waits on two others",
				Command:     "wg add 'Release' --blocked-by build,docs --tag release",
			},
		},
		Params: func() any { return &params },
	}

	command.Run = func(_ context.Context, args []string, logger *slog.Logger) error {
		if err := requireArgs(args, 1, "wg add <title> [flags]"); err != nil {
			return err
		}
		title := strings.TrimSpace(args[0])
		if title == "" {
			return fmt.Errorf("title must not be empty")
		}
		id := params.ID
		if id == "" {
			id = slugify(title)
		}
		if id == "" {
			return fmt.Errorf("cannot derive an id from title %q; pass --id", title)
		}

		task := workgraph.NewTask(id, title, clock.Format(e.clock.Now()))
		task.Description = params.Description
		task.BlockedBy = dedupe(params.BlockedBy)
		task.Tags = dedupe(params.Tags)
		task.Skills = dedupe(params.Skills)
		task.Requires = dedupe(params.Requires)
		task.Assigned = params.Assign
		task.Model = params.Model
		task.Verify = params.Verify
		task.Exec = params.Exec
		if params.Hours != 0 || params.Cost != 0 {
			task.Estimate = &workgraph.Estimate{Hours: params.Hours, Cost: params.Cost}
		}
		if command.FlagSet().Changed("max-retries") {
			if params.MaxRetries < 0 {
				return fmt.Errorf("--max-retries must not be negative")
			}
			maxRetries := params.MaxRetries
			task.MaxRetries = &maxRetries
		}

		err := params.update(e, func(graph *workgraph.Graph) error {
			for _, blockerID := range task.BlockedBy {
				if blockerID == id {
					return fmt.Errorf("task %q cannot wait on itself", id)
				}
				if _, ok := graph.Task(blockerID); !ok {
					return fmt.Errorf("blocker %q: %w", blockerID, workgraph.ErrNotFound)
				}
			}
			if err := graph.Add(task); err != nil {
				return err
			}
			for _, blockerID := range task.BlockedBy {
				blocker, _ := graph.Task(blockerID)
				if !slices.Contains(blocker.Blocks, id) {
					blocker.Blocks = append(blocker.Blocks, id)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		logger.Info("task added", "task", id)
		fmt.Fprintf(e.stdout, "Added task '%s': %s\n", id, title)
		return nil
	}
	return command
}

// slugify lowercases title and joins its alphanumeric runs with
// hyphens.
func slugify(title string) string {
	var builder strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return builder.String()
}

func dedupe(values []string) []string {
	var result []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" && !slices.Contains(result, value) {
			result = append(result, value)
		}
	}
	return result
}

type showParams struct {
	workgraphParams
	cli.JSONOutput
}

func showCommand(e *env) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show a task, actor, or resource",
		Usage:   "wg show <id> [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "wg show <id> [flags]"); err != nil {
				return err
			}
			graph, _, err := params.load(e)
			if err != nil {
				return err
			}
			node, ok := graph.Node(args[0])
			if !ok {
				return fmt.Errorf("node %q: %w", args[0], workgraph.ErrNotFound)
			}
			if done, err := params.EmitJSON(e.stdout, node); done {
				return err
			}

			switch typed := node.(type) {
			case *workgraph.Task:
				e.printTask(typed)
			case *workgraph.Actor:
				printActor(e.stdout, typed)
			case *workgraph.Resource:
				printResource(e.stdout, typed)
			}
			return nil
		},
	}
}

func (e *env) printTask(task *workgraph.Task) {
	w := e.stdout
	fmt.Fprintf(w, "Task: %s\n", task.ID)
	fmt.Fprintf(w, "Title: %s\n", task.Title)
	fmt.Fprintf(w, "Status: %s\n", e.paintStatus(task.Status, task.Status.String()))
	if task.Description != "" {
		fmt.Fprintf(w, "Description:\n")
		for _, line := range strings.Split(strings.TrimRight(task.Description, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	printField(w, "Assigned", task.Assigned)
	if task.Estimate != nil {
		fmt.Fprintf(w, "Estimate: %gh, $%.2f\n", task.Estimate.Hours, task.Estimate.Cost)
	}
	printList(w, "Blocked by", task.BlockedBy)
	printList(w, "Blocks", task.Blocks)
	printList(w, "Requires", task.Requires)
	printList(w, "Tags", task.Tags)
	printList(w, "Skills", task.Skills)
	printList(w, "Deliverables", task.Deliverables)
	printField(w, "Model", task.Model)
	printField(w, "Verify", task.Verify)
	printField(w, "Exec", task.Exec)
	printField(w, "Created", task.CreatedAt)
	printField(w, "Started", task.StartedAt)
	printField(w, "Completed", task.CompletedAt)
	if task.RetryCount > 0 || task.MaxRetries != nil {
		if task.MaxRetries != nil {
			fmt.Fprintf(w, "Retries: %d/%d\n", task.RetryCount, *task.MaxRetries)
		} else {
			fmt.Fprintf(w, "Retries: %d\n", task.RetryCount)
		}
	}
	printField(w, "Failure", task.FailureReason)
	for _, edge := range task.LoopsTo {
		fmt.Fprintf(w, "Loops to: %s (max %d)\n", edge.Target, edge.MaxIterations)
	}
	if len(task.Log) > 0 {
		fmt.Fprintf(w, "Log (%d):\n", len(task.Log))
		for _, entry := range task.Log {
			printLogEntry(w, entry)
		}
	}
}

func printActor(w io.Writer, actor *workgraph.Actor) {
	fmt.Fprintf(w, "Actor: %s\n", actor.ID)
	printField(w, "Name", actor.Name)
	printField(w, "Role", actor.Role)
	printList(w, "Capabilities", actor.Capabilities)
	if actor.Rate != nil {
		fmt.Fprintf(w, "Rate: %g\n", *actor.Rate)
	}
	if actor.Capacity != nil {
		fmt.Fprintf(w, "Capacity: %g\n", *actor.Capacity)
	}
	trust := actor.TrustLevel
	if trust == "" {
		trust = workgraph.TrustProvisional
	}
	fmt.Fprintf(w, "Trust: %s\n", trust)
	printField(w, "Last seen", actor.LastSeen)
}

func printResource(w io.Writer, resource *workgraph.Resource) {
	fmt.Fprintf(w, "Resource: %s\n", resource.ID)
	printField(w, "Name", resource.Name)
	printField(w, "Type", resource.Type)
	if resource.Available != nil {
		fmt.Fprintf(w, "Available: %g %s\n", *resource.Available, resource.Unit)
	}
	keys := make([]string, 0, len(resource.Metadata))
	for key := range resource.Metadata {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "  %s = %s\n", key, resource.Metadata[key])
	}
}

func printField(w io.Writer, label, value string) {
	if value != "" {
		fmt.Fprintf(w, "%s: %s\n", label, value)
	}
}

func printList(w io.Writer, label string, values []string) {
	if len(values) > 0 {
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(values, ", "))
	}
}
