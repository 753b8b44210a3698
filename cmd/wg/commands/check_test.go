// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bureau-foundation/workgraph/lib/check"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// --- check ---

func TestCheckClean(t *testing.T) {
	t.Parallel()

	h := newHarness(t, append(pipelineGraph(), workgraph.NewActor("agent-1"))...)
	if output := h.mustRun("check"); output != "Graph OK: 5 nodes, no issues found\n" {
		t.Errorf("check output = %q", output)
	}
}

func TestCheckOrphans(t *testing.T) {
	t.Parallel()

	task := makeTask("t1", workgraph.StatusOpen, "ghost")
	task.Assigned = "nobody"
	h := newHarness(t, task)

	output, err := h.run("check")
	if exitCode(err) != 1 {
		t.Errorf("check with orphans returned %v, want exit code 1", err)
	}
	for _, want := range []string{
		"Orphan references:\n",
		"  t1 --[blocked_by]--> ghost (not found)\n",
		"  t1 --[assigned]--> nobody (not found)\n",
		"Found 2 issue(s)\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("check output missing %q:\n%s", want, output)
		}
	}
}

func TestCheckCycles(t *testing.T) {
	t.Parallel()

	nodes := func() []workgraph.Node {
		a := makeTask("a", workgraph.StatusOpen, "b")
		a.Blocks = []string{"b"}
		b := makeTask("b", workgraph.StatusOpen, "a")
		b.Blocks = []string{"a"}
		return []workgraph.Node{a, b}
	}

	h := newHarness(t, nodes()...)
	output, err := h.run("check")
	if err != nil {
		t.Errorf("cycles alone should not fail without --strict: %v", err)
	}
	if !strings.Contains(output, "Cycles detected:\n") || !strings.Contains(output, "Found 1 issue(s)\n") {
		t.Errorf("check output:\n%s", output)
	}

	if _, err := h.run("check", "--strict"); exitCode(err) != 1 {
		t.Errorf("check --strict on a cycle returned %v, want exit code 1", err)
	}

	output, err = h.run("check", "--json")
	if err != nil {
		t.Errorf("check --json on a cycle: %v", err)
	}
	var report check.Report
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if report.OK || len(report.Cycles) != 1 || len(report.OrphanRefs) != 0 {
		t.Errorf("report = %+v", report)
	}
}

// --- graph ---

func TestGraphDOT(t *testing.T) {
	t.Parallel()

	task := makeTask("build", workgraph.StatusDone, "design")
	task.Title = `Build "all"`
	task.Assigned = "agent-1"
	task.Requires = []string{"gpu"}
	agent := workgraph.NewActor("agent-1")
	agent.Name = "Agent One"
	gpu := &workgraph.Resource{ID: "gpu"}
	h := newHarness(t, makeTask("design", workgraph.StatusOpen), task, agent, gpu)

	output := h.mustRun("graph")
	for _, want := range []string{
		"digraph workgraph {\n",
		`  "design" [label="design\nTask design", style=filled, fillcolor=white];` + "\n",
		`  "build" [label="build\nBuild \"all\"", style=filled, fillcolor=lightgreen];` + "\n",
		`  "agent-1" [label="Agent One", shape=ellipse, style=filled, fillcolor=lightblue];` + "\n",
		`  "gpu" [label="gpu", shape=diamond, style=filled, fillcolor=lightyellow];` + "\n",
		`  "design" -> "build" [label="blocks"];` + "\n",
		`  "build" -> "agent-1" [style=dashed, label="assigned"];` + "\n",
		`  "build" -> "gpu" [style=dotted, label="requires"];` + "\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("DOT output missing %q:\n%s", want, output)
		}
	}
	if !strings.HasSuffix(output, "}\n") {
		t.Errorf("DOT output not closed:\n%s", output)
	}
}
