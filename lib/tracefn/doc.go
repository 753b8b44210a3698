// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tracefn implements trace functions: reusable, parameterized
// definitions that expand into a concrete set of tasks.
//
// A [TraceFunction] declares typed inputs ([FunctionInput]), a list of
// task blueprints ([TaskTemplate]) that reference each other by local
// template id, and named outputs. Instantiation turns a function plus
// a set of input values into workgraph tasks ready to be added to a
// graph:
//
//  1. [Validate] checks the definition itself: unique template ids,
//     blocked_by and loop targets that name templates in the same
//     function, and max_iterations of at least one.
//  2. [ValidateInputs] checks the supplied values against the declared
//     inputs: required inputs present, no unknown names, values of the
//     declared type within min/max/values.
//  3. [Instantiate] substitutes {{input.<name>}} placeholders in titles
//     and descriptions, assigns each template a final task id, and
//     remaps blocked_by and loop targets to those ids.
//
// Loop edges are carried on the instantiated tasks as metadata. Nothing
// here enforces the iteration cap or evaluates guards; the executor
// does that when a looping task completes.
//
// Functions are stored one document per file in a functions directory
// inside the workgraph directory, as YAML (.yaml, .yml) or JSONC
// (.json, .jsonc). [FindByPrefix] resolves a function by exact id or
// unambiguous id prefix.
package tracefn
