// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the wg command tree.
//
// Every command operates on a workgraph directory: --dir when given,
// otherwise $WG_DIR, otherwise ".workgraph" in the current directory.
// Commands that change the graph load it, apply one mutation from
// lib/workgraph, and write it back atomically through lib/graphfile.
// Nothing is written when the mutation fails.
//
// Human output goes to stdout. Commands that support --json write a
// single JSON document instead. Diagnostics and structured logs go to
// stderr through the command logger.
package commands
