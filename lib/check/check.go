// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package check

import (
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// Relation names as they appear in OrphanRef.Relation. They match
// the persisted field names.
const (
	RelationBlockedBy = "blocked_by"
	RelationBlocks    = "blocks"
	RelationRequires  = "requires"
	RelationAssigned  = "assigned"
	RelationLoopsTo   = "loops_to"
)

// OrphanRef is a reference from a task to an id that does not resolve
// to a node of the expected kind.
type OrphanRef struct {
	From     string `json:"from"`
	Relation string `json:"relation"`
	To       string `json:"to"`
}

// Report is the result of checking a graph.
type Report struct {
	// OK is true when there are no cycles and no orphans.
	OK bool `json:"ok"`

	// Cycles lists one cycle per strongly-connected component, each
	// as an id sequence that ends where it starts.
	Cycles [][]string `json:"cycles"`

	OrphanRefs []OrphanRef `json:"orphan_refs"`
}

// HasErrors reports whether the graph has findings that should fail
// a check: orphan references. Cycles alone are not errors.
func (r Report) HasErrors() bool {
	return len(r.OrphanRefs) > 0
}

// IssueCount is the total number of findings.
func (r Report) IssueCount() int {
	return len(r.Cycles) + len(r.OrphanRefs)
}

// Run checks graph for cycles and orphan references.
func Run(graph *workgraph.Graph) Report {
	report := Report{
		Cycles:     Cycles(graph),
		OrphanRefs: Orphans(graph),
	}
	if report.Cycles == nil {
		report.Cycles = [][]string{}
	}
	if report.OrphanRefs == nil {
		report.OrphanRefs = []OrphanRef{}
	}
	report.OK = len(report.Cycles) == 0 && len(report.OrphanRefs) == 0
	return report
}

// Orphans returns every unresolved reference, in task order and then
// field order (blocked_by, blocks, requires, assigned, loops_to).
func Orphans(graph *workgraph.Graph) []OrphanRef {
	var orphans []OrphanRef
	for _, task := range graph.Tasks() {
		for _, id := range task.BlockedBy {
			if _, ok := graph.Task(id); !ok {
				orphans = append(orphans, OrphanRef{From: task.ID, Relation: RelationBlockedBy, To: id})
			}
		}
		for _, id := range task.Blocks {
			if _, ok := graph.Task(id); !ok {
				orphans = append(orphans, OrphanRef{From: task.ID, Relation: RelationBlocks, To: id})
			}
		}
		for _, id := range task.Requires {
			if _, ok := graph.Resource(id); !ok {
				orphans = append(orphans, OrphanRef{From: task.ID, Relation: RelationRequires, To: id})
			}
		}
		if task.Assigned != "" {
			if _, ok := graph.Actor(task.Assigned); !ok {
				orphans = append(orphans, OrphanRef{From: task.ID, Relation: RelationAssigned, To: task.Assigned})
			}
		}
		for _, edge := range task.LoopsTo {
			if _, ok := graph.Task(edge.Target); !ok {
				orphans = append(orphans, OrphanRef{From: task.ID, Relation: RelationLoopsTo, To: edge.Target})
			}
		}
	}
	return orphans
}
