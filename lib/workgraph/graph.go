// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workgraph

import "fmt"

// Graph is an insertion-ordered set of nodes keyed by id. The zero
// value is not usable; call New.
//
// Graph is not safe for concurrent use: a process loads it, mutates
// it, and saves it from a single goroutine.
type Graph struct {
	nodes []Node
	index map[string]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Add appends a node. It fails with ErrAlreadyExists when a node of
// any kind already has the same id, and rejects empty ids.
func (g *Graph) Add(node Node) error {
	id := node.NodeID()
	if id == "" {
		return fmt.Errorf("%s has empty id", node.Kind())
	}
	if _, exists := g.index[id]; exists {
		return fmt.Errorf("node %q: %w", id, ErrAlreadyExists)
	}
	g.index[id] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	return nil
}

// Len returns the number of nodes of all kinds.
func (g *Graph) Len() int { return len(g.nodes) }

// Has reports whether any node has the given id.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	position, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[position], true
}

// Task returns the task with the given id. A node of another kind
// with that id is reported as absent.
func (g *Graph) Task(id string) (*Task, bool) {
	node, ok := g.Node(id)
	if !ok {
		return nil, false
	}
	task, ok := node.(*Task)
	return task, ok
}

// Actor returns the actor with the given id.
func (g *Graph) Actor(id string) (*Actor, bool) {
	node, ok := g.Node(id)
	if !ok {
		return nil, false
	}
	actor, ok := node.(*Actor)
	return actor, ok
}

// Resource returns the resource with the given id.
func (g *Graph) Resource(id string) (*Resource, bool) {
	node, ok := g.Node(id)
	if !ok {
		return nil, false
	}
	resource, ok := node.(*Resource)
	return resource, ok
}

// Nodes returns every node in insertion order. The slice is a copy;
// the nodes are not.
func (g *Graph) Nodes() []Node {
	result := make([]Node, len(g.nodes))
	copy(result, g.nodes)
	return result
}

// Tasks returns every task in insertion order.
func (g *Graph) Tasks() []*Task {
	var result []*Task
	for _, node := range g.nodes {
		if task, ok := node.(*Task); ok {
			result = append(result, task)
		}
	}
	return result
}

// Actors returns every actor in insertion order.
func (g *Graph) Actors() []*Actor {
	var result []*Actor
	for _, node := range g.nodes {
		if actor, ok := node.(*Actor); ok {
			result = append(result, actor)
		}
	}
	return result
}

// Resources returns every resource in insertion order.
func (g *Graph) Resources() []*Resource {
	var result []*Resource
	for _, node := range g.nodes {
		if resource, ok := node.(*Resource); ok {
			result = append(result, resource)
		}
	}
	return result
}

// NewTask returns an open task with the given id and title, stamped
// with a creation time.
func NewTask(id, title, createdAt string) *Task {
	return &Task{
		ID:        id,
		Title:     title,
		Status:    StatusOpen,
		CreatedAt: createdAt,
	}
}

// NewActor returns an actor at the default trust level.
func NewActor(id string) *Actor {
	return &Actor{ID: id, TrustLevel: TrustProvisional}
}
