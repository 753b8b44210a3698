// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/tracefn"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

func traceCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "trace",
		Summary: "Manage trace functions (reusable task templates)",
		Description: `A trace function is a parameterized workflow: a set of task templates
wired together by blocked_by, with declared inputs substituted into
titles and descriptions as {{input.<name>}}. Functions live as YAML (or
JSONC) documents in the functions/ directory of the workgraph.

Function ids may be abbreviated to any unique prefix.`,
		Subcommands: []*cli.Command{
			traceListCommand(e),
			traceShowCommand(e),
			traceValidateCommand(e),
			traceInstantiateCommand(e),
			traceExtractCommand(e),
		},
	}
}

type traceListParams struct {
	workgraphParams
	cli.JSONOutput
	Long bool `flag:"long,l" desc:"show inputs and task templates"`
}

func traceListCommand(e *env) *cli.Command {
	var params traceListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List trace functions",
		Usage:   "wg trace list [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg trace list [flags]"); err != nil {
				return err
			}
			functions, err := tracefn.LoadAll(tracefn.Dir(params.directory(e)))
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(e.stdout, functions); done {
				return err
			}

			if len(functions) == 0 {
				fmt.Fprintln(e.stdout, "No trace functions found.")
				fmt.Fprintln(e.stdout, "  Extract one with: wg trace extract <task-id>")
				return nil
			}

			idWidth, nameWidth := 4, 4
			for _, function := range functions {
				idWidth = max(idWidth, len(function.ID))
				nameWidth = max(nameWidth, len(function.Name)+2)
			}
			fmt.Fprintln(e.stdout, "Functions:")
			for _, function := range functions {
				fmt.Fprintf(e.stdout, "  %-*s  %-*s  %d tasks, %d inputs\n",
					idWidth, function.ID, nameWidth, `"`+function.Name+`"`,
					len(function.Tasks), len(function.Inputs))
				if !params.Long {
					continue
				}
				if len(function.Inputs) > 0 {
					fmt.Fprintln(e.stdout, "    Inputs:")
					for _, input := range function.Inputs {
						fmt.Fprintf(e.stdout, "      %s\n", inputSignature(input))
					}
				}
				fmt.Fprintln(e.stdout, "    Tasks:")
				for _, template := range function.Tasks {
					fmt.Fprintf(e.stdout, "      %s\n", templateSummary(template))
				}
				fmt.Fprintln(e.stdout)
			}
			return nil
		},
	}
}

type traceShowParams struct {
	workgraphParams
	cli.JSONOutput
}

func traceShowCommand(e *env) *cli.Command {
	var params traceShowParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show a trace function",
		Usage:   "wg trace show <id-or-prefix> [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "wg trace show <id-or-prefix> [flags]"); err != nil {
				return err
			}
			function, err := tracefn.FindByPrefix(tracefn.Dir(params.directory(e)), args[0])
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(e.stdout, function); done {
				return err
			}
			printFunction(e.stdout, function)
			return nil
		},
	}
}

func printFunction(w io.Writer, function *tracefn.TraceFunction) {
	fmt.Fprintf(w, "Function: %s\n", function.ID)
	fmt.Fprintf(w, "Name: %s\n", function.Name)
	printField(w, "Description", function.Description)
	fmt.Fprintf(w, "Version: %d\n", function.Version)
	printList(w, "Tags", function.Tags)

	if len(function.ExtractedFrom) > 0 {
		fmt.Fprintln(w, "\nExtracted from:")
		for _, source := range function.ExtractedFrom {
			fmt.Fprintf(w, "  %s at %s\n", source.TaskID, source.Timestamp)
		}
	}
	printField(w, "Extracted by", function.ExtractedBy)
	printField(w, "Extracted at", function.ExtractedAt)

	if len(function.Inputs) > 0 {
		fmt.Fprintf(w, "\nInputs (%d):\n", len(function.Inputs))
		for _, input := range function.Inputs {
			fmt.Fprintf(w, "  %s\n", inputSignature(input))
			if input.Description != "" {
				fmt.Fprintf(w, "    %s\n", input.Description)
			}
			if input.Default != nil {
				fmt.Fprintf(w, "    Default: %s\n", tracefn.Stringify(input.Default))
			}
			if input.Example != nil {
				fmt.Fprintf(w, "    Example: %s\n", tracefn.Stringify(input.Example))
			}
			if len(input.Values) > 0 {
				fmt.Fprintf(w, "    Values: %s\n", strings.Join(input.Values, ", "))
			}
			if input.Min != nil || input.Max != nil {
				fmt.Fprintf(w, "    Range: %s\n", inputRange(input))
			}
		}
	}

	fmt.Fprintf(w, "\nTasks (%d):\n", len(function.Tasks))
	for _, template := range function.Tasks {
		fmt.Fprintf(w, "  - %s : %s\n", template.TemplateID, template.Title)
		if description := strings.TrimSpace(template.Description); description != "" {
			for _, line := range strings.Split(description, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
		printIndentedList(w, "Blocked by", template.BlockedBy)
		for _, edge := range template.LoopsTo {
			fmt.Fprintf(w, "    Loops to: %s (max %d)\n", edge.Target, edge.MaxIterations)
		}
		printIndentedList(w, "Skills", template.Skills)
		if template.RoleHint != "" {
			fmt.Fprintf(w, "    Role hint: %s\n", template.RoleHint)
		}
		printIndentedList(w, "Deliverables", template.Deliverables)
		if template.Verify != "" {
			fmt.Fprintf(w, "    Verify: %s\n", template.Verify)
		}
		printIndentedList(w, "Tags", template.Tags)
	}

	if len(function.Outputs) > 0 {
		fmt.Fprintf(w, "\nOutputs (%d):\n", len(function.Outputs))
		for _, output := range function.Outputs {
			fmt.Fprintf(w, "  %s <- %s.%s\n", output.Name, output.FromTask, output.Field)
		}
	}
}

func printIndentedList(w io.Writer, label string, values []string) {
	if len(values) > 0 {
		fmt.Fprintf(w, "    %s: %s\n", label, strings.Join(values, ", "))
	}
}

func inputSignature(input tracefn.FunctionInput) string {
	required := "optional"
	if input.Required {
		required = "required"
	}
	return fmt.Sprintf("%s (%s, %s)", input.Name, input.Type, required)
}

func inputRange(input tracefn.FunctionInput) string {
	low, high := "(-inf", "inf)"
	if input.Min != nil {
		low = fmt.Sprintf("[%g", *input.Min)
	}
	if input.Max != nil {
		high = fmt.Sprintf("%g]", *input.Max)
	}
	return low + ", " + high
}

func templateSummary(template tracefn.TaskTemplate) string {
	summary := template.TemplateID + ": " + template.Title
	if len(template.BlockedBy) > 0 {
		summary += " (blocked by: " + strings.Join(template.BlockedBy, ", ") + ")"
	}
	if len(template.LoopsTo) > 0 {
		targets := make([]string, len(template.LoopsTo))
		for i, edge := range template.LoopsTo {
			targets[i] = edge.Target
		}
		summary += " (loops to: " + strings.Join(targets, ", ") + ")"
	}
	return summary
}

type traceValidateParams struct {
	workgraphParams
}

func traceValidateCommand(e *env) *cli.Command {
	var params traceValidateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check trace function documents",
		Description: `Validate function documents. With file arguments, each file is parsed
and checked. Without arguments, every function in the workgraph's
functions/ directory is checked. Placeholders naming undeclared inputs
are reported as warnings and do not fail validation.`,
		Usage:  "wg trace validate [file...] [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			var functions []*tracefn.TraceFunction
			var names []string
			if len(args) == 0 {
				loaded, err := tracefn.LoadAll(tracefn.Dir(params.directory(e)))
				if err != nil {
					return err
				}
				for _, function := range loaded {
					functions = append(functions, function)
					names = append(names, function.ID)
				}
			} else {
				for _, path := range args {
					function, err := tracefn.Load(path)
					if err != nil {
						return err
					}
					functions = append(functions, function)
					names = append(names, path)
				}
			}

			var errs []error
			for i, function := range functions {
				if err := tracefn.Validate(function); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", names[i], err))
					continue
				}
				fmt.Fprintf(e.stdout, "%s: OK (%d tasks, %d inputs)\n", names[i], len(function.Tasks), len(function.Inputs))
				for _, undeclared := range tracefn.UndeclaredPlaceholders(function) {
					fmt.Fprintf(e.stdout, "%s: warning: template %q %s references undeclared input %q\n",
						names[i], undeclared.Template, undeclared.Field, undeclared.Name)
				}
			}
			if len(functions) == 0 {
				fmt.Fprintln(e.stdout, "No trace functions found.")
			}
			return errors.Join(errs...)
		},
	}
}

type traceInstantiateParams struct {
	workgraphParams
	cli.JSONOutput
	Inputs []string `flag:"input,i" desc:"input value as name=value (repeatable)" repeat:"true"`
	Prefix string   `flag:"prefix" desc:"task id prefix (default: function id plus a hash of the inputs)"`
	Actor  string   `flag:"actor,a" desc:"actor recorded on the creation log entries"`
	DryRun bool     `flag:"dry-run" desc:"print the tasks without adding them"`
}

func traceInstantiateCommand(e *env) *cli.Command {
	var params traceInstantiateParams

	return &cli.Command{
		Name:    "instantiate",
		Summary: "Create tasks from a trace function",
		Description: `Expand a function into tasks, one per template, named
<prefix>-<template_id>. Inputs are checked against their declarations
first; nothing is added when any check fails or when a generated id is
already taken.`,
		Usage: "wg trace instantiate <id-or-prefix> [--input name=value]... [flags]",
		Examples: []cli.Example{
			{
				Description: "Instantiate with inputs",
				Command:     "wg trace instantiate impl-feature -i feature=auth -i files=src/auth.go,src/auth_test.go",
			},
			{
				Description: "Preview the tasks",
				Command:     "wg trace instantiate impl-feature -i feature=auth --dry-run",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg trace instantiate <id-or-prefix> [flags]"); err != nil {
				return err
			}
			directory := params.directory(e)
			function, err := tracefn.FindByPrefix(tracefn.Dir(directory), args[0])
			if err != nil {
				return err
			}
			values, err := parseInputFlags(function, params.Inputs)
			if err != nil {
				return err
			}
			tasks, err := tracefn.Instantiate(function, values, tracefn.Options{
				Prefix: params.Prefix,
				Actor:  params.Actor,
				Now:    e.clock.Now(),
			})
			if err != nil {
				return err
			}

			if !params.DryRun {
				err := params.update(e, func(graph *workgraph.Graph) error {
					for _, task := range tasks {
						if graph.Has(task.ID) {
							return fmt.Errorf("task %q: %w (choose another --prefix)", task.ID, workgraph.ErrAlreadyExists)
						}
					}
					for _, task := range tasks {
						if err := graph.Add(task); err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					return err
				}
				logger.Info("trace function instantiated", "function", function.ID, "tasks", len(tasks))
			}

			if done, err := params.EmitJSON(e.stdout, summarize(tasks)); done {
				return err
			}
			verb := "Created"
			if params.DryRun {
				verb = "Would create"
			}
			fmt.Fprintf(e.stdout, "%s %d task(s) from '%s':\n", verb, len(tasks), function.ID)
			for _, task := range tasks {
				blockers := ""
				if len(task.BlockedBy) > 0 {
					blockers = e.paintFaint(" (blocked by: " + strings.Join(task.BlockedBy, ", ") + ")")
				}
				fmt.Fprintf(e.stdout, "  %s - %s%s\n", task.ID, task.Title, blockers)
			}
			return nil
		},
	}
}

// parseInputFlags converts name=value pairs into typed input values.
func parseInputFlags(function *tracefn.TraceFunction, pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--input %q: expected name=value", pair)
		}
		input, declared := function.Input(name)
		if !declared {
			return nil, fmt.Errorf("function %q has no input %q", function.ID, name)
		}
		value, err := tracefn.ParseInputValue(input, raw)
		if err != nil {
			return nil, err
		}
		values[name] = value
	}
	return values, nil
}

type traceExtractParams struct {
	workgraphParams
	ID    string `flag:"id" desc:"function id (default: the task id)"`
	Name  string `flag:"name" desc:"function name (default: the task title)"`
	Actor string `flag:"actor,a" desc:"recorded as extracted_by"`
	Force bool   `flag:"force" desc:"overwrite an existing function with the same id"`
}

func traceExtractCommand(e *env) *cli.Command {
	var params traceExtractParams

	return &cli.Command{
		Name:    "extract",
		Summary: "Capture a task and its dependencies as a trace function",
		Description: `Turn a task and everything it transitively waits on into a function
with one template per task. The result has no inputs; edit the saved
YAML to replace specifics with {{input.<name>}} placeholders.`,
		Usage:  "wg trace extract <task-id> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "wg trace extract <task-id> [flags]"); err != nil {
				return err
			}
			graph, directory, err := params.load(e)
			if err != nil {
				return err
			}
			function, err := tracefn.Extract(graph, args[0], tracefn.ExtractOptions{
				ID:    params.ID,
				Name:  params.Name,
				Actor: params.Actor,
				Now:   e.clock.Now(),
			})
			if err != nil {
				return err
			}

			functionsDir := tracefn.Dir(directory)
			if !params.Force {
				existing, err := tracefn.LoadAll(functionsDir)
				if err != nil {
					return err
				}
				for _, other := range existing {
					if other.ID == function.ID {
						return fmt.Errorf("trace function %q: %w (use --force to overwrite)", function.ID, workgraph.ErrAlreadyExists)
					}
				}
			}
			path, err := tracefn.Save(functionsDir, function)
			if err != nil {
				return err
			}
			logger.Info("trace function extracted", "function", function.ID, "templates", len(function.Tasks))
			fmt.Fprintf(e.stdout, "Extracted '%s' (%d tasks) to %s\n", function.ID, len(function.Tasks), displayPath(path))
			return nil
		},
	}
}

// displayPath shortens path relative to the working directory when
// that is possible.
func displayPath(path string) string {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return path
	}
	relative, err := filepath.Rel(workingDirectory, path)
	if err != nil || strings.HasPrefix(relative, "..") {
		return path
	}
	return relative
}
