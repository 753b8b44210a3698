// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"testing"
	"time"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

func makeTask(id string, status workgraph.Status, blockedBy ...string) *workgraph.Task {
	return &workgraph.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    status,
		BlockedBy: blockedBy,
	}
}

func withCost(task *workgraph.Task, cost float64) *workgraph.Task {
	task.Estimate = &workgraph.Estimate{Cost: cost, Hours: cost / 10}
	return task
}

func buildGraph(t *testing.T, nodes ...workgraph.Node) *workgraph.Graph {
	t.Helper()
	graph := workgraph.New()
	for _, node := range nodes {
		if err := graph.Add(node); err != nil {
			t.Fatalf("Add(%s): %v", node.NodeID(), err)
		}
	}
	return graph
}

func ids(tasks []*workgraph.Task) []string {
	result := make([]string, len(tasks))
	for i, task := range tasks {
		result[i] = task.ID
	}
	return result
}

func assertIDs(t *testing.T, label string, tasks []*workgraph.Task, want ...string) {
	t.Helper()
	got := ids(tasks)
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", label, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", label, got, want)
			return
		}
	}
}

// --- Ready ---

func TestReadyBlockerScenario(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		makeTask("blocker", workgraph.StatusOpen),
		makeTask("blocked", workgraph.StatusOpen, "blocker"),
	)
	assertIDs(t, "Ready before", Ready(graph), "blocker")

	if _, err := graph.MarkDone("blocker", time.Now()); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	assertIDs(t, "Ready after", Ready(graph), "blocked")
}

func TestReadyRules(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		makeTask("done", workgraph.StatusDone),
		makeTask("wip", workgraph.StatusInProgress),
		makeTask("review", workgraph.StatusPendingReview),
		makeTask("free", workgraph.StatusOpen),
		makeTask("after-done", workgraph.StatusOpen, "done"),
		makeTask("after-wip", workgraph.StatusOpen, "done", "wip"),
		makeTask("after-review", workgraph.StatusOpen, "review"),
		makeTask("dangling", workgraph.StatusOpen, "no-such-task"),
		makeTask("blocked-status", workgraph.StatusBlocked),
		workgraph.NewActor("actor-id"),
		makeTask("after-actor", workgraph.StatusOpen, "actor-id"),
	)

	// A blocker id that names an actor does not resolve to a task,
	// so it counts as satisfied like any other dangling blocker.
	assertIDs(t, "Ready", Ready(graph), "free", "after-done", "dangling", "after-actor")

	if !IsReady(graph, "dangling") {
		t.Error("IsReady(dangling) = false")
	}
	if IsReady(graph, "after-wip") || IsReady(graph, "missing") {
		t.Error("IsReady true for blocked or missing task")
	}
}

func TestReadyFollowsGraphOrder(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		makeTask("zeta", workgraph.StatusOpen),
		makeTask("alpha", workgraph.StatusOpen),
		makeTask("mid", workgraph.StatusOpen),
	)
	assertIDs(t, "Ready", Ready(graph), "zeta", "alpha", "mid")
}

// --- BlockedBy / Dependents ---

func TestBlockedBy(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		makeTask("a", workgraph.StatusOpen),
		makeTask("b", workgraph.StatusDone),
		makeTask("c", workgraph.StatusFailed),
		makeTask("target", workgraph.StatusOpen, "c", "missing", "b", "a"),
	)
	assertIDs(t, "BlockedBy(target)", BlockedBy(graph, "target"), "c", "a")

	if blockers := BlockedBy(graph, "nope"); len(blockers) != 0 {
		t.Errorf("BlockedBy(unknown) = %v, want empty", ids(blockers))
	}
	if blockers := BlockedBy(graph, "a"); len(blockers) != 0 {
		t.Errorf("BlockedBy(a) = %v, want empty", ids(blockers))
	}
}

func TestDependents(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		makeTask("base", workgraph.StatusOpen),
		makeTask("x", workgraph.StatusOpen, "base"),
		makeTask("y", workgraph.StatusOpen),
		makeTask("z", workgraph.StatusDone, "y", "base"),
	)
	assertIDs(t, "Dependents(base)", Dependents(graph, "base"), "x", "z")
}

// --- CostOf ---

func TestCostOfDiamondCountsSharedBlockerOnce(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		withCost(makeTask("root", workgraph.StatusOpen), 10),
		withCost(makeTask("left", workgraph.StatusOpen, "root"), 20),
		withCost(makeTask("right", workgraph.StatusOpen, "root"), 30),
		withCost(makeTask("top", workgraph.StatusOpen, "left", "right"), 40),
	)
	if got := CostOf(graph, "top"); got != 100 {
		t.Errorf("CostOf(top) = %v, want 100", got)
	}
	if got := CostOf(graph, "left"); got != 30 {
		t.Errorf("CostOf(left) = %v, want 30", got)
	}
	if got := HoursOf(graph, "top"); got != 10 {
		t.Errorf("HoursOf(top) = %v, want 10", got)
	}
}

func TestCostOfTwoTaskCycle(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		withCost(makeTask("A", workgraph.StatusOpen, "B"), 100),
		withCost(makeTask("B", workgraph.StatusOpen, "A"), 200),
	)
	if got := CostOf(graph, "A"); got != 300 {
		t.Errorf("CostOf(A) = %v, want 300", got)
	}
	if got := CostOf(graph, "B"); got != 300 {
		t.Errorf("CostOf(B) = %v, want 300", got)
	}
}

func TestCostOfSelfLoopAndLongCycle(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		withCost(makeTask("self", workgraph.StatusOpen, "self"), 5),
		withCost(makeTask("p", workgraph.StatusOpen, "q"), 1),
		withCost(makeTask("q", workgraph.StatusOpen, "r"), 2),
		withCost(makeTask("r", workgraph.StatusOpen, "p", "self"), 4),
	)
	if got := CostOf(graph, "self"); got != 5 {
		t.Errorf("CostOf(self) = %v, want 5", got)
	}
	if got := CostOf(graph, "p"); got != 12 {
		t.Errorf("CostOf(p) = %v, want 12", got)
	}
}

func TestCostOfEdgeCases(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		makeTask("no-estimate", workgraph.StatusOpen, "ghost"),
		withCost(makeTask("has-cost", workgraph.StatusDone, "no-estimate"), 7),
	)
	if got := CostOf(graph, "unknown"); got != 0 {
		t.Errorf("CostOf(unknown) = %v, want 0", got)
	}
	if got := CostOf(graph, "no-estimate"); got != 0 {
		t.Errorf("CostOf(no-estimate) = %v, want 0", got)
	}
	// Done blockers still count toward cost.
	if got := CostOf(graph, "has-cost"); got != 7 {
		t.Errorf("CostOf(has-cost) = %v, want 7", got)
	}
}

func TestUpstreamOrder(t *testing.T) {
	t.Parallel()

	graph := buildGraph(t,
		makeTask("a", workgraph.StatusOpen),
		makeTask("b", workgraph.StatusOpen, "a"),
		makeTask("c", workgraph.StatusOpen),
		makeTask("d", workgraph.StatusOpen, "b", "c", "a"),
	)
	assertIDs(t, "Upstream(d)", Upstream(graph, "d"), "d", "b", "a", "c")
	if got := Upstream(graph, "missing"); len(got) != 0 {
		t.Errorf("Upstream(missing) = %v, want empty", ids(got))
	}
}
