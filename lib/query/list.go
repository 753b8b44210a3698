// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"slices"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// Filter selects tasks for List. Zero-valued fields match everything.
type Filter struct {
	// Statuses matches any of the given statuses. Legacy
	// pending-review tasks match a filter for in-progress.
	Statuses []workgraph.Status

	// Tag matches tasks carrying this tag.
	Tag string

	// Assigned matches tasks assigned to this actor id.
	Assigned string
}

// Matches reports whether task satisfies every set field.
func (f Filter) Matches(task *workgraph.Task) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, task.Status.Effective()) &&
		!slices.Contains(f.Statuses, task.Status) {
		return false
	}
	if f.Tag != "" && !slices.Contains(task.Tags, f.Tag) {
		return false
	}
	if f.Assigned != "" && task.Assigned != f.Assigned {
		return false
	}
	return true
}

// List returns the tasks matching filter, in graph order.
func List(graph *workgraph.Graph, filter Filter) []*workgraph.Task {
	var result []*workgraph.Task
	for _, task := range graph.Tasks() {
		if filter.Matches(task) {
			result = append(result, task)
		}
	}
	return result
}

// StatusCounts tallies tasks by status. Legacy statuses are counted
// under their effective status.
func StatusCounts(graph *workgraph.Graph) map[workgraph.Status]int {
	counts := make(map[workgraph.Status]int)
	for _, task := range graph.Tasks() {
		counts[task.Status.Effective()]++
	}
	return counts
}
