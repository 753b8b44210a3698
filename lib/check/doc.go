// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package check finds structural problems in a work graph: cycles in
// the blocked_by relation and references to nodes that do not exist.
//
// Findings are data, not errors. [Run] always succeeds and returns a
// [Report]; callers decide severity. The wg CLI treats orphan
// references as errors and cycles as warnings, because a loop of
// recurring tasks is a legitimate thing to describe while a reference
// to a missing node never is.
//
// Cycle detection runs Tarjan's strongly-connected-components
// algorithm over blocked_by edges between existing tasks and reports
// one representative cycle per component: the shortest cycle through
// the component's earliest member in graph order. A task that lists
// itself is reported as the two-element cycle [id, id].
package check
