// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/config"
)

func configCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Show or change the project configuration",
		Description: `The configuration lives in config.yaml inside the workgraph directory.
String values may reference environment variables as ${VAR} or
${VAR:-default}; references are expanded when the file is read and
kept verbatim when 'wg config set' rewrites it.`,
		Subcommands: []*cli.Command{
			configShowCommand(e),
			configInitCommand(e),
			configSetCommand(e),
			configCommandLineCommand(e),
		},
	}
}

type configShowParams struct {
	workgraphParams
	cli.JSONOutput
}

func configShowCommand(e *env) *cli.Command {
	var params configShowParams

	return &cli.Command{
		Name:    "show",
		Summary: "Print the effective configuration",
		Usage:   "wg config show [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg config show [flags]"); err != nil {
				return err
			}
			cfg, err := config.LoadDir(params.directory(e))
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(e.stdout, cfg); done {
				return err
			}

			w := e.stdout
			fmt.Fprintln(w, "[agent]")
			fmt.Fprintf(w, "  executor = %q\n", cfg.Agent.Executor)
			fmt.Fprintf(w, "  model = %q\n", cfg.Agent.Model)
			fmt.Fprintf(w, "  interval = %d\n", cfg.Agent.Interval)
			fmt.Fprintf(w, "  heartbeat_timeout = %d\n", cfg.Agent.HeartbeatTimeout)
			if cfg.Agent.MaxTasks > 0 {
				fmt.Fprintf(w, "  max_tasks = %d\n", cfg.Agent.MaxTasks)
			}
			fmt.Fprintf(w, "  command_template = %q\n", cfg.Agent.CommandTemplate)
			if cfg.Project.Name != "" || cfg.Project.Description != "" || len(cfg.Project.DefaultSkills) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "[project]")
				if cfg.Project.Name != "" {
					fmt.Fprintf(w, "  name = %q\n", cfg.Project.Name)
				}
				if cfg.Project.Description != "" {
					fmt.Fprintf(w, "  description = %q\n", cfg.Project.Description)
				}
				if len(cfg.Project.DefaultSkills) > 0 {
					fmt.Fprintf(w, "  default_skills = %s\n", strings.Join(cfg.Project.DefaultSkills, ", "))
				}
			}
			return nil
		},
	}
}

type configInitParams struct {
	workgraphParams
}

func configInitCommand(e *env) *cli.Command {
	var params configInitParams

	return &cli.Command{
		Name:    "init",
		Summary: "Write the default configuration if none exists",
		Usage:   "wg config init [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "wg config init [flags]"); err != nil {
				return err
			}
			directory := params.directory(e)
			created, err := config.Init(directory)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(e.stdout, "Created default configuration at %s\n", config.Path(directory))
			} else {
				fmt.Fprintf(e.stdout, "Configuration already exists at %s\n", config.Path(directory))
			}
			return nil
		},
	}
}

type configSetParams struct {
	workgraphParams
}

func configSetCommand(e *env) *cli.Command {
	var params configSetParams

	return &cli.Command{
		Name:        "set",
		Summary:     "Set one configuration value",
		Description: "Set a value by dotted key. Valid keys:\n\n  " + strings.Join(config.Keys, "\n  "),
		Usage:       "wg config set <key> <value> [flags]",
		Examples: []cli.Example{
			{
				Description: "Switch the default model",
				Command:     "wg config set agent.model opus",
			},
			{
				Description: "Set default skills",
				Command:     "wg config set project.default_skills rust,testing",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 2, "wg config set <key> <value> [flags]"); err != nil {
				return err
			}
			key, value := args[0], args[1]
			path := config.Path(params.directory(e))
			if _, err := config.Update(path, func(cfg *config.Config) error {
				return cfg.Set(key, value)
			}); err != nil {
				return err
			}
			logger.Info("config updated", "key", key)
			fmt.Fprintf(e.stdout, "Set %s = %q\n", key, value)
			return nil
		},
	}
}

type configCommandLineParams struct {
	workgraphParams
	Workdir string `flag:"workdir" desc:"working directory substituted for {workdir}" default:"."`
}

// configCommandLineCommand previews the executor command line for a
// task, so a command_template can be checked without running it.
func configCommandLineCommand(e *env) *cli.Command {
	var params configCommandLineParams

	return &cli.Command{
		Name:    "command",
		Summary: "Print the executor command line for a task",
		Description: `Expand command_template for a task. The prompt is the task title,
followed by its description when it has one.`,
		Usage:  "wg config command <task-id> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "wg config command <task-id> [flags]"); err != nil {
				return err
			}
			graph, directory, err := params.load(e)
			if err != nil {
				return err
			}
			task, err := taskOrError(graph, args[0])
			if err != nil {
				return err
			}
			cfg, err := config.LoadDir(directory)
			if err != nil {
				return err
			}
			if task.Model != "" {
				cfg.Agent.Model = task.Model
			}
			prompt := task.Title
			if task.Description != "" {
				prompt += "\n\n" + task.Description
			}
			fmt.Fprintln(e.stdout, cfg.BuildCommand(prompt, task.ID, params.Workdir))
			return nil
		},
	}
}
