// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func noopRun(context.Context, []string, *slog.Logger) error { return nil }

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "wg",
		Subcommands: []*Command{
			{
				Name: "ready",
				Run: func(context.Context, []string, *slog.Logger) error {
					called = "ready"
					return nil
				},
			},
			{
				Name: "list",
				Run: func(context.Context, []string, *slog.Logger) error {
					called = "list"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"list"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "list" {
		t.Errorf("dispatched to %q, want %q", called, "list")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "wg",
		Subcommands: []*Command{
			{
				Name: "trace",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "trace show"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"trace", "show", "impl-feature"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "trace show" {
		t.Errorf("dispatched to %q, want %q", called, "trace show")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "impl-feature" {
		t.Errorf("args = %v, want [impl-feature]", receivedArgs)
	}
}

type showTestParams struct {
	Dir      string `flag:"dir,d" default:".workgraph" desc:"workgraph directory"`
	Detailed bool   `flag:"detailed" desc:"show everything"`
	verbose  bool
}

func (p *showTestParams) Verbose() bool { return p.verbose }

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var params showTestParams
	var target string

	command := &Command{
		Name:   "show",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--dir", "/tmp/wg", "task-1"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if params.Dir != "/tmp/wg" {
		t.Errorf("Dir = %q, want %q", params.Dir, "/tmp/wg")
	}
	if target != "task-1" {
		t.Errorf("target = %q, want %q", target, "task-1")
	}
}

func TestCommand_Execute_FlagsAfterPositionals(t *testing.T) {
	var params showTestParams
	command := &Command{
		Name:   "show",
		Params: func() any { return &params },
		Run:    noopRun,
	}
	if err := command.Execute(context.Background(), []string{"task-1", "--detailed"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !params.Detailed {
		t.Error("--detailed after a positional argument was not parsed")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	var params showTestParams
	command := &Command{
		Name:   "show",
		Params: func() any { return &params },
		Run:    noopRun,
	}

	err := command.Execute(context.Background(), []string{"--detialed"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --detailed") {
		t.Errorf("error = %q, want suggestion for '--detailed'", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	var params showTestParams
	command := &Command{
		Name:   "show",
		Params: func() any { return &params },
		Run:    noopRun,
	}

	err := command.Execute(context.Background(), []string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "wg",
		Subcommands: []*Command{
			{Name: "ready", Run: noopRun},
			{Name: "check", Run: noopRun},
			{Name: "version", Run: noopRun},
		},
	}

	err := root.Execute(context.Background(), []string{"chekc"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "check"`) {
		t.Errorf("error = %q, want suggestion for 'check'", err.Error())
	}
}

func TestCommand_Execute_DeprecatedNotSuggested(t *testing.T) {
	root := &Command{
		Name: "wg",
		Subcommands: []*Command{
			{Name: "submit", Run: noopRun, Deprecated: "Use 'wg done' instead."},
			{Name: "version", Run: noopRun},
		},
	}

	err := root.Execute(context.Background(), []string{"submt"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest a deprecated command", err.Error())
	}
}

func TestCommand_Execute_DeprecatedStillRuns(t *testing.T) {
	ran := false
	root := &Command{
		Name: "wg",
		Subcommands: []*Command{
			{
				Name:       "approve",
				Deprecated: "Use 'wg done' instead.",
				Run: func(context.Context, []string, *slog.Logger) error {
					ran = true
					return nil
				},
			},
		},
	}
	if err := root.Execute(context.Background(), []string{"approve", "t1"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !ran {
		t.Error("deprecated command did not run")
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			ran := false
			root := &Command{
				Name:    "wg",
				Summary: "Task graph",
				Subcommands: []*Command{
					{Name: "ready", Summary: "List ready tasks", Run: func(context.Context, []string, *slog.Logger) error {
						ran = true
						return nil
					}},
				},
			}

			if err := root.Execute(context.Background(), []string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
			if err := root.Execute(context.Background(), []string{"ready", helpArg}); err != nil {
				t.Errorf("Execute(ready %q) error: %v", helpArg, err)
			}
			if ran {
				t.Error("help should not run the command")
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "wg",
		Subcommands: []*Command{
			{Name: "ready", Summary: "List ready tasks"},
		},
	}

	err := root.Execute(context.Background(), []string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	var params showTestParams
	root := &Command{Name: "wg"}
	command := &Command{
		Name:        "show",
		Summary:     "Show a task",
		Description: "Show every field of one task.",
		Usage:       "wg show <id> [flags]",
		Params:      func() any { return &params },
		Examples: []Example{
			{Description: "Show a task", Command: "wg show build"},
		},
		parent: root,
	}
	root.Subcommands = []*Command{
		command,
		{Name: "submit", Summary: "Old alias", Deprecated: "Use 'wg done' instead."},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"Show every field of one task.",
		"Usage:\n  wg show <id> [flags]",
		"--dir",
		"--detailed",
		"# Show a task",
		"wg show build",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}

	buffer.Reset()
	root.PrintHelp(&buffer)
	if strings.Contains(buffer.String(), "submit") {
		t.Errorf("deprecated command listed in help:\n%s", buffer.String())
	}
	if !strings.Contains(buffer.String(), "Run 'wg <command> --help'") {
		t.Errorf("root help missing footer:\n%s", buffer.String())
	}
}

func TestCommand_CommandPath(t *testing.T) {
	root := &Command{Name: "wg"}
	trace := &Command{Name: "trace", parent: root}
	show := &Command{Name: "show", parent: trace}

	if got := show.commandPath(); got != "trace/show" {
		t.Errorf("commandPath() = %q, want trace/show", got)
	}
	if got := show.fullName(); got != "wg trace show" {
		t.Errorf("fullName() = %q, want %q", got, "wg trace show")
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 2}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok {
		t.Fatal("ExitError does not implement ExitCode")
	}
	if coder.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", coder.ExitCode())
	}
	if err.Error() != "exit code 2" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer
	output := JSONOutput{}
	done, err := output.EmitJSON(&buffer, []string{"a"})
	if done || err != nil || buffer.Len() != 0 {
		t.Fatalf("EmitJSON without --json = (%v, %v), wrote %q", done, err, buffer.String())
	}

	output.OutputJSON = true
	var empty []string
	done, err = output.EmitJSON(&buffer, empty)
	if !done || err != nil {
		t.Fatalf("EmitJSON with --json = (%v, %v)", done, err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("nil slice encoded as %q, want []", buffer.String())
	}
}
