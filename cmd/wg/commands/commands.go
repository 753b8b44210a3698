// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/workgraph/cmd/wg/cli"
	"github.com/bureau-foundation/workgraph/lib/clock"
	"github.com/bureau-foundation/workgraph/lib/graphfile"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// DefaultDir is the workgraph directory used when neither --dir nor
// WG_DIR is set.
const DefaultDir = ".workgraph"

// DirEnvVar overrides DefaultDir.
const DirEnvVar = "WG_DIR"

// env carries the process-level collaborators commands use. Tests
// substitute a buffer, a fake clock, and a fixed environment.
type env struct {
	stdout io.Writer
	clock  clock.Clock
	getenv func(string) string

	// color enables lipgloss styling of human output.
	color bool
}

func processEnv() *env {
	return &env{
		stdout: os.Stdout,
		clock:  clock.Real(),
		getenv: os.Getenv,
		color:  term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Root builds and returns the complete wg command tree.
func Root() *cli.Command {
	return newRoot(processEnv())
}

func newRoot(e *env) *cli.Command {
	return &cli.Command{
		Name:    "wg",
		Summary: "Task graph for humans and agents",
		Description: `wg: a task graph for humans and agents.

Tasks, actors, and resources live in .workgraph/graph.jsonl. Tasks wait
on other tasks through blocked_by edges; a task is ready when it is open
and everything it waits on is done.`,
		Subcommands: []*cli.Command{
			initCommand(e),
			addCommand(e),
			showCommand(e),
			listCommand(e),
			readyCommand(e),
			blockedCommand(e),
			costCommand(e),
			doneCommand(e),
			approveCommand(e),
			submitCommand(e),
			rejectCommand(e),
			claimCommand(e),
			failCommand(e),
			abandonCommand(e),
			retryCommand(e),
			logCommand(e),
			actorCommand(e),
			resourceCommand(e),
			heartbeatCommand(e),
			checkCommand(e),
			graphCommand(e),
			configCommand(e),
			traceCommand(e),
			snapshotCommand(e),
			importCommand(e),
			versionCommand(e),
		},
		Examples: []cli.Example{
			{
				Description: "Start a workgraph in the current directory",
				Command:     "wg init",
			},
			{
				Description: "Add a task that waits on another",
				Command:     "wg add 'Write tests' --blocked-by implement-parser",
			},
			{
				Description: "See what can be worked on now",
				Command:     "wg ready",
			},
			{
				Description: "Check for cycles and dangling references",
				Command:     "wg check",
			},
		},
	}
}

// workgraphParams is embedded by every command that reads or writes
// a workgraph directory.
type workgraphParams struct {
	Dir         string `flag:"dir,d" desc:"workgraph directory (default $WG_DIR or .workgraph)"`
	VerboseFlag bool   `flag:"verbose,v" desc:"enable debug logging"`
}

// Verbose implements [cli.Verbosity].
func (p *workgraphParams) Verbose() bool { return p.VerboseFlag }

// directory resolves the workgraph directory for this invocation.
func (p *workgraphParams) directory(e *env) string {
	if p.Dir != "" {
		return p.Dir
	}
	if fromEnv := e.getenv(DirEnvVar); fromEnv != "" {
		return fromEnv
	}
	return DefaultDir
}

func (p *workgraphParams) load(e *env) (*workgraph.Graph, string, error) {
	directory := p.directory(e)
	graph, err := graphfile.LoadDir(directory)
	if err != nil {
		return nil, directory, err
	}
	return graph, directory, nil
}

// update loads the graph, applies mutate, and saves the result. The
// graph is not written when mutate fails.
func (p *workgraphParams) update(e *env, mutate func(*workgraph.Graph) error) error {
	graph, directory, err := p.load(e)
	if err != nil {
		return err
	}
	if err := mutate(graph); err != nil {
		return err
	}
	return graphfile.SaveDir(directory, graph)
}

// requireArgs validates the positional argument count.
func requireArgs(args []string, count int, usage string) error {
	if len(args) != count {
		return fmt.Errorf("expected %d argument(s), got %d\n\nusage: %s", count, len(args), usage)
	}
	return nil
}

// taskOrError resolves a task id with the message users see.
func taskOrError(graph *workgraph.Graph, id string) (*workgraph.Task, error) {
	task, ok := graph.Task(id)
	if !ok {
		return nil, fmt.Errorf("task %q: %w", id, workgraph.ErrNotFound)
	}
	return task, nil
}
