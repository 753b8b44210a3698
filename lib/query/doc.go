// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package query derives scheduling facts from a work graph: which
// tasks are ready, what blocks a task, and how much a task costs once
// everything it waits on is included.
//
// Every function is a pure read over a [workgraph.Graph]. Results
// follow graph insertion order unless documented otherwise.
//
// A blocked_by id that does not resolve to a task is treated as
// satisfied: a dangling blocker is not a blocker. The check package
// reports such ids separately.
//
// Traversals over blocked_by track visited ids, so they terminate on
// cyclic graphs and count each task once no matter how many paths
// reach it.
package query
