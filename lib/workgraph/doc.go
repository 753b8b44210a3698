// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package workgraph defines the work graph: tasks, the actors who
// perform them, and the resources they consume.
//
// A [Graph] is an insertion-ordered collection of [Node] values keyed
// by unique string id. Node is a closed sum type with three variants:
// [*Task], [*Actor], and [*Resource]. Iteration order is insertion
// order, which is also the order nodes are persisted in, so two saves
// of the same graph produce identical bytes.
//
// References between nodes are plain ids, never pointers. A task's
// BlockedBy, Blocks, Requires, Assigned, and LoopsTo fields name other
// nodes by id, and nothing here guarantees that the ids resolve. The
// query package decides what a dangling reference means for
// readiness; the check package reports dangling references as
// findings.
//
// Status transitions ([Graph.MarkDone], [Graph.Reject], [Graph.Claim],
// [Graph.Fail], [Graph.Abandon], [Graph.Retry]) and field writes
// ([Graph.AddLog], [Graph.Heartbeat]) mutate nodes in place. Each
// takes the current time explicitly so callers control timestamps.
// Nodes are never deleted: abandonment is a status, not removal.
//
// Errors are reported with the sentinels [ErrNotFound],
// [ErrAlreadyExists], and [ErrInvalidTransition], wrapped with the
// offending id. A failed precondition is reported as a
// [*TransitionError], which unwraps to ErrInvalidTransition.
package workgraph
