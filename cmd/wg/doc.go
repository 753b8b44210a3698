// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// wg manages a workgraph: a dependency graph of tasks, the actors who
// perform them, and the resources they consume, stored as JSON lines
// in a .workgraph directory.
//
// Run "wg --help" for the command list and "wg <command> --help" for
// details on any command.
package main
