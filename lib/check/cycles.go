// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package check

import (
	"slices"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// Cycles returns one representative cycle for every strongly-connected
// component of the blocked_by graph that contains a cycle. Cycles are
// ordered by the graph position of their first id.
func Cycles(graph *workgraph.Graph) [][]string {
	tasks := graph.Tasks()
	position := make(map[string]int, len(tasks))
	for i, task := range tasks {
		position[task.ID] = i
	}

	// edges[i] lists the positions of the existing tasks that task i
	// is blocked by, in list order, without duplicates.
	edges := make([][]int, len(tasks))
	for i, task := range tasks {
		for _, id := range task.BlockedBy {
			if j, ok := position[id]; ok && !slices.Contains(edges[i], j) {
				edges[i] = append(edges[i], j)
			}
		}
	}

	var cycles [][]string
	for _, component := range stronglyConnected(edges) {
		start := slices.Min(component)
		if len(component) == 1 && !slices.Contains(edges[start], start) {
			continue
		}
		path := shortestCycle(edges, component, start)
		cycle := make([]string, len(path))
		for i, index := range path {
			cycle[i] = tasks[index].ID
		}
		cycles = append(cycles, cycle)
	}

	slices.SortFunc(cycles, func(a, b []string) int {
		return position[a[0]] - position[b[0]]
	})
	return cycles
}

// stronglyConnected runs Tarjan's algorithm over an adjacency list and
// returns the components.
func stronglyConnected(edges [][]int) [][]int {
	const unvisited = -1

	count := len(edges)
	index := make([]int, count)
	lowLink := make([]int, count)
	onStack := make([]bool, count)
	for i := range index {
		index[i] = unvisited
	}

	var (
		stack      []int
		components [][]int
		next       int
	)

	var connect func(vertex int)
	connect = func(vertex int) {
		index[vertex] = next
		lowLink[vertex] = next
		next++
		stack = append(stack, vertex)
		onStack[vertex] = true

		for _, successor := range edges[vertex] {
			if index[successor] == unvisited {
				connect(successor)
				lowLink[vertex] = min(lowLink[vertex], lowLink[successor])
			} else if onStack[successor] {
				lowLink[vertex] = min(lowLink[vertex], index[successor])
			}
		}

		if lowLink[vertex] == index[vertex] {
			var component []int
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				component = append(component, top)
				if top == vertex {
					break
				}
			}
			components = append(components, component)
		}
	}

	for vertex := range edges {
		if index[vertex] == unvisited {
			connect(vertex)
		}
	}
	return components
}

// shortestCycle finds the shortest path from start back to start that
// stays inside component, breadth-first so ties resolve in blocked_by
// list order. The returned path repeats start at the end.
func shortestCycle(edges [][]int, component []int, start int) []int {
	inComponent := make(map[int]bool, len(component))
	for _, vertex := range component {
		inComponent[vertex] = true
	}

	parent := map[int]int{start: start}
	queue := []int{start}
	for len(queue) > 0 {
		vertex := queue[0]
		queue = queue[1:]
		for _, successor := range edges[vertex] {
			if successor == start {
				return unwind(parent, vertex, start)
			}
			if !inComponent[successor] {
				continue
			}
			if _, seen := parent[successor]; seen {
				continue
			}
			parent[successor] = vertex
			queue = append(queue, successor)
		}
	}
	// Unreachable for a genuine component; every member reaches start.
	return []int{start, start}
}

func unwind(parent map[int]int, last, start int) []int {
	path := []int{start}
	for vertex := last; vertex != start; vertex = parent[vertex] {
		path = append(path, vertex)
	}
	path = append(path, start)
	// path is start, last, ..., first-successor, start; flip the
	// interior so the cycle reads in edge direction.
	slices.Reverse(path[1 : len(path)-1])
	return path
}
