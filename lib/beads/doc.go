// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package beads imports issues exported by the beads issue tracker
// (one JSON object per line, as written by "bd export") into workgraph
// tasks.
//
// Field mapping:
//   - id, title, description map directly
//   - status: open, in_progress, blocked, closed map to open,
//     in-progress, blocked, done; deferred maps to open and tombstone
//     to abandoned
//   - labels become tags; issue_type becomes an extra "type:<name>" tag
//   - dependencies of type "blocks" become blocked_by; parent-child
//     links have no workgraph equivalent and are dropped
//   - created_at, closed_at map to created_at, completed_at;
//     close_reason becomes a log entry
//
// Beads ids carry a project prefix ("bd-10g2"). [RenameIDs] rewrites
// the prefix in ids, dependency lists, and free-text references.
package beads
