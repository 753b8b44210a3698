// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/workgraph/lib/graphfile"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// WorkgraphDir returns a fresh ".workgraph" directory containing an
// empty graph file. The directory is removed when the test completes.
func WorkgraphDir(t *testing.T) string {
	t.Helper()
	directory := filepath.Join(t.TempDir(), ".workgraph")
	if err := os.Mkdir(directory, 0o755); err != nil {
		t.Fatalf("creating workgraph directory: %v", err)
	}
	WriteGraph(t, directory)
	return directory
}

// WriteGraph replaces the graph file in directory with nodes, in order.
func WriteGraph(t *testing.T, directory string, nodes ...workgraph.Node) {
	t.Helper()
	graph := workgraph.New()
	for _, node := range nodes {
		if err := graph.Add(node); err != nil {
			t.Fatalf("seeding graph: %v", err)
		}
	}
	if err := graphfile.SaveDir(directory, graph); err != nil {
		t.Fatalf("writing graph: %v", err)
	}
}

// ReadGraph loads the graph file in directory.
func ReadGraph(t *testing.T, directory string) *workgraph.Graph {
	t.Helper()
	graph, err := graphfile.LoadDir(directory)
	if err != nil {
		t.Fatalf("reading graph: %v", err)
	}
	return graph
}

// RequireTask returns the task with id or fails the test.
func RequireTask(t *testing.T, graph *workgraph.Graph, id string) *workgraph.Task {
	t.Helper()
	task, ok := graph.Task(id)
	if !ok {
		t.Fatalf("task %q not in graph", id)
	}
	return task
}
