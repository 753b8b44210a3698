// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bureau-foundation/workgraph/lib/clock"
	"github.com/bureau-foundation/workgraph/lib/config"
	"github.com/bureau-foundation/workgraph/lib/graphfile"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// --- init ---

func TestInit(t *testing.T) {
	t.Parallel()

	directory := filepath.Join(t.TempDir(), "project", ".workgraph")
	var stdout bytes.Buffer
	e := &env{stdout: &stdout, clock: clock.Fake(clock.Epoch), getenv: func(string) string { return "" }}

	if err := newRoot(e).Execute(context.Background(), []string{"init", "--dir", directory}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := stdout.String(); got != "Initialized workgraph at "+directory+"\n" {
		t.Errorf("output = %q", got)
	}
	graph, err := graphfile.LoadDir(directory)
	if err != nil {
		t.Fatalf("LoadDir after init: %v", err)
	}
	if graph.Len() != 0 {
		t.Errorf("new graph has %d nodes", graph.Len())
	}
	if _, err := os.Stat(config.Path(directory)); err != nil {
		t.Errorf("config not written: %v", err)
	}

	err = newRoot(e).Execute(context.Background(), []string{"init", "--dir", directory})
	if err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("second init error = %v, want already initialized", err)
	}
}

func TestUninitializedDirectory(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.dir = filepath.Join(t.TempDir(), "missing")
	_, err := h.run("ready")
	if !errors.Is(err, graphfile.ErrNotInitialized) {
		t.Errorf("ready on missing dir: %v, want ErrNotInitialized", err)
	}
}

func TestDirFlagOverridesEnvironment(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	other := newHarness(t, makeTask("elsewhere", workgraph.StatusOpen))
	output := h.mustRun("list", "--dir", other.dir)
	if !strings.Contains(output, "elsewhere") {
		t.Errorf("--dir was not honoured:\n%s", output)
	}
}

// --- add ---

func TestAdd(t *testing.T) {
	t.Parallel()

	h := newHarness(t, makeTask("design", workgraph.StatusOpen))
	output := h.mustRun("add", "Implement the Parser!", "--blocked-by", "design",
		"--hours", "4", "--cost", "400", "-t", "backend,parser", "--max-retries", "2")
	if output != "Added task 'implement-the-parser': Implement the Parser!\n" {
		t.Errorf("output = %q", output)
	}

	task := h.task("implement-the-parser")
	if task.Status != workgraph.StatusOpen {
		t.Errorf("status = %s, want open", task.Status)
	}
	if task.CreatedAt != "2026-01-01T00:00:00Z" {
		t.Errorf("created_at = %q", task.CreatedAt)
	}
	if task.Estimate == nil || task.Estimate.Hours != 4 || task.Estimate.Cost != 400 {
		t.Errorf("estimate = %+v", task.Estimate)
	}
	if !slices.Equal(task.Tags, []string{"backend", "parser"}) {
		t.Errorf("tags = %v", task.Tags)
	}
	if task.MaxRetries == nil || *task.MaxRetries != 2 {
		t.Errorf("max_retries = %v", task.MaxRetries)
	}
	if !slices.Equal(h.task("design").Blocks, []string{"implement-the-parser"}) {
		t.Errorf("blocker's blocks = %v", h.task("design").Blocks)
	}
}

func TestAddWithoutOptionalFields(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mustRun("add", "Plain", "--id", "p1")
	task := h.task("p1")
	if task.Estimate != nil || task.MaxRetries != nil {
		t.Errorf("unset flags produced estimate=%v max_retries=%v", task.Estimate, task.MaxRetries)
	}
}

func TestAddErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"duplicate id", []string{"add", "Existing", "--id", "existing"}, workgraph.ErrAlreadyExists},
		{"unknown blocker", []string{"add", "New", "--blocked-by", "ghost"}, workgraph.ErrNotFound},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, makeTask("existing", workgraph.StatusOpen))
			_, err := h.run(test.args...)
			if !errors.Is(err, test.want) {
				t.Errorf("error = %v, want %v", err, test.want)
			}
			if h.graph().Len() != 1 {
				t.Errorf("failed add changed the graph")
			}
		})
	}

	h := newHarness(t)
	if _, err := h.run("add", "!!!"); err == nil {
		t.Error("title with no usable characters should need --id")
	}
	if _, err := h.run("add", "Self", "--id", "self", "--blocked-by", "self"); err == nil {
		t.Error("self-blocking task should be refused")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Write tests", "write-tests"},
		{"  Fix   bug #42 ", "fix-bug-42"},
		{"API v2: auth/refresh", "api-v2-auth-refresh"},
		{"---", ""},
		{"Ünïcode Títle", "ünïcode-títle"},
	}
	for _, test := range tests {
		if got := slugify(test.title); got != test.want {
			t.Errorf("slugify(%q) = %q, want %q", test.title, got, test.want)
		}
	}
}

// --- show ---

func TestShowTask(t *testing.T) {
	t.Parallel()

	task := makeTask("build", workgraph.StatusInProgress, "design")
	task.Assigned = "agent-1"
	task.Log = []workgraph.LogEntry{{Timestamp: "2026-01-01T00:00:00Z", Actor: "agent-1", Message: "started"}}
	h := newHarness(t, makeTask("design", workgraph.StatusDone), task)

	output := h.mustRun("show", "build")
	for _, want := range []string{
		"Task: build\n",
		"Status: in-progress\n",
		"Assigned: agent-1\n",
		"Blocked by: design\n",
		"Log (1):\n",
		"    started\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("show output missing %q:\n%s", want, output)
		}
	}
}

func TestShowActorAndJSON(t *testing.T) {
	t.Parallel()

	actor := workgraph.NewActor("agent-1")
	actor.Name = "Agent One"
	h := newHarness(t, actor)

	output := h.mustRun("show", "agent-1")
	if !strings.Contains(output, "Actor: agent-1\n") || !strings.Contains(output, "Trust: provisional\n") {
		t.Errorf("actor output:\n%s", output)
	}

	output = h.mustRun("show", "agent-1", "--json")
	if !strings.Contains(output, `"name": "Agent One"`) {
		t.Errorf("JSON output:\n%s", output)
	}

	if _, err := h.run("show", "nobody"); !errors.Is(err, workgraph.ErrNotFound) {
		t.Errorf("show unknown: %v", err)
	}
}
