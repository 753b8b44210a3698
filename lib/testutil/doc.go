// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for workgraph packages.
//
// [WorkgraphDir] creates an initialized workgraph directory (an empty
// graph file) under t.TempDir(). [WriteGraph] and [ReadGraph] seed and
// inspect the graph file so command tests can assert on what a command
// persisted rather than on its output alone.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
