// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads and saves the per-project workgraph
// configuration, a YAML file at <workgraph dir>/config.yaml.
//
// The file has two sections. agent configures how the executor runs
// ready tasks: which executor and model, how often to poll, the shell
// command template, and how long an actor may go without a heartbeat
// before it is reported stale. project carries descriptive metadata
// and the skills new tasks get by default.
//
// A missing file is not an error: [LoadDir] returns [Default]. Values
// may reference the environment with ${VAR} or ${VAR:-default}; the
// references are expanded by [LoadFile] and preserved by [Update], so
// editing one key never bakes the current environment into the file.
//
// [Config.Validate] uses go-playground/validator struct tags and
// reports every violation at once.
//
// This package depends on no other workgraph packages except
// atomicfile.
package config
