// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the wg CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct whose tagged
// fields become flags (see [BindFlags]), and a Run function. Commands are
// assembled into a tree in cmd/wg/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing,
// deprecation warnings, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Commands that finish normally but must report failure (a check that
// found orphan references, a heartbeat check that found stale actors)
// return an [ExitError] after writing their own output.
package cli
