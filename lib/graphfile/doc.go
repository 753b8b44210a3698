// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package graphfile reads and writes work graphs as JSON Lines.
//
// Each non-blank line is one self-describing record: a JSON object
// whose "kind" field names the node variant ("task", "actor",
// "resource") and whose remaining fields are the variant's own.
// Optional fields are omitted when absent. Records appear in graph
// insertion order.
//
//	{"kind":"task","id":"build","title":"Build it","status":"open","blocked_by":["design"]}
//	{"kind":"actor","id":"alice","name":"Alice","trust_level":"verified"}
//
// Loading is all-or-nothing: a malformed record fails the load with a
// [*ParseError] carrying the 1-based line number. Blank lines are
// skipped, and so are well-formed records whose kind this version does
// not know, so newer writers can add node kinds without breaking older
// readers.
//
// Saving always rewrites the whole file through
// [github.com/bureau-foundation/workgraph/lib/atomicfile], so a failed
// save leaves the previous graph intact.
package graphfile
