// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"slices"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// Ready returns every open task whose blockers are all done or
// missing.
func Ready(graph *workgraph.Graph) []*workgraph.Task {
	var ready []*workgraph.Task
	for _, task := range graph.Tasks() {
		if task.Status == workgraph.StatusOpen && blockersSatisfied(graph, task) {
			ready = append(ready, task)
		}
	}
	return ready
}

// IsReady reports whether a single task would appear in Ready.
func IsReady(graph *workgraph.Graph, taskID string) bool {
	task, ok := graph.Task(taskID)
	if !ok {
		return false
	}
	return task.Status == workgraph.StatusOpen && blockersSatisfied(graph, task)
}

func blockersSatisfied(graph *workgraph.Graph, task *workgraph.Task) bool {
	for _, blockerID := range task.BlockedBy {
		blocker, exists := graph.Task(blockerID)
		if exists && blocker.Status != workgraph.StatusDone {
			return false
		}
	}
	return true
}

// BlockedBy returns the tasks named in taskID's blocked_by list that
// exist and are not done, in list order. An unknown taskID yields an
// empty result.
func BlockedBy(graph *workgraph.Graph, taskID string) []*workgraph.Task {
	task, ok := graph.Task(taskID)
	if !ok {
		return nil
	}
	var blockers []*workgraph.Task
	for _, blockerID := range task.BlockedBy {
		blocker, exists := graph.Task(blockerID)
		if exists && blocker.Status != workgraph.StatusDone {
			blockers = append(blockers, blocker)
		}
	}
	return blockers
}

// Dependents returns every task whose blocked_by list names taskID,
// in graph order. This is the authoritative form of the informational
// blocks field.
func Dependents(graph *workgraph.Graph, taskID string) []*workgraph.Task {
	var dependents []*workgraph.Task
	for _, task := range graph.Tasks() {
		if slices.Contains(task.BlockedBy, taskID) {
			dependents = append(dependents, task)
		}
	}
	return dependents
}

// Upstream returns taskID itself followed by every task transitively
// reachable through blocked_by, each exactly once, in depth-first
// discovery order. Dangling ids are skipped. An unknown taskID yields
// an empty result.
func Upstream(graph *workgraph.Graph, taskID string) []*workgraph.Task {
	root, ok := graph.Task(taskID)
	if !ok {
		return nil
	}

	visited := map[string]bool{root.ID: true}
	result := []*workgraph.Task{root}
	stack := reversed(root.BlockedBy)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		task, exists := graph.Task(current)
		if !exists {
			continue
		}
		visited[current] = true
		result = append(result, task)
		stack = append(stack, reversed(task.BlockedBy)...)
	}
	return result
}

// reversed returns ids in reverse so that popping from a stack visits
// them in list order.
func reversed(ids []string) []string {
	result := slices.Clone(ids)
	slices.Reverse(result)
	return result
}

// CostOf returns the task's own estimated cost plus the cost of every
// distinct task reachable through blocked_by. Cycles are walked once.
// An unknown taskID costs 0.
func CostOf(graph *workgraph.Graph, taskID string) float64 {
	var total float64
	for _, task := range Upstream(graph, taskID) {
		total += task.Cost()
	}
	return total
}

// HoursOf is CostOf for estimated hours.
func HoursOf(graph *workgraph.Graph, taskID string) float64 {
	var total float64
	for _, task := range Upstream(graph, taskID) {
		total += task.Hours()
	}
	return total
}
