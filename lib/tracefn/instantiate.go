// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"regexp"
	"slices"
	"sort"
	"time"

	"github.com/bureau-foundation/workgraph/lib/digest"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// placeholder matches {{input.<name>}}, tolerating whitespace inside
// the braces.
var placeholder = regexp.MustCompile(`\{\{\s*input\.([A-Za-z0-9_.-]+)\s*\}\}`)

// Options controls instantiation.
type Options struct {
	// Prefix is prepended to each template id to form the final task
	// id ("<prefix>-<template_id>"). When empty, DefaultPrefix is
	// used.
	Prefix string

	// Actor is recorded on each task's creation log entry.
	Actor string

	// Now stamps created_at and the creation log entries.
	Now time.Time
}

// Instantiate expands function into tasks, one per template, in
// template order. The definition is validated first, then the input
// values; no tasks are produced if either check fails.
func Instantiate(function *TraceFunction, values map[string]any, options Options) ([]*workgraph.Task, error) {
	if err := Validate(function); err != nil {
		return nil, err
	}
	if err := ValidateInputs(function, values); err != nil {
		return nil, err
	}

	resolved := resolveInputs(function, values)
	prefix := options.Prefix
	if prefix == "" {
		prefix = DefaultPrefix(function, values)
	}

	finalIDs := make(map[string]string, len(function.Tasks))
	for _, template := range function.Tasks {
		finalIDs[template.TemplateID] = prefix + "-" + template.TemplateID
	}

	created := options.Now.UTC().Format(time.RFC3339)
	logMessage := "Instantiated from trace function " + function.ID
	tasks := make([]*workgraph.Task, 0, len(function.Tasks))
	byID := make(map[string]*workgraph.Task, len(function.Tasks))
	for _, template := range function.Tasks {
		task := &workgraph.Task{
			ID:           finalIDs[template.TemplateID],
			Title:        substitute(template.Title, resolved),
			Description:  substitute(template.Description, resolved),
			Status:       workgraph.StatusOpen,
			Skills:       cloneStrings(template.Skills),
			Tags:         cloneStrings(template.Tags),
			Deliverables: cloneStrings(template.Deliverables),
			Verify:       template.Verify,
			RoleHint:     template.RoleHint,
			CreatedAt:    created,
			Log: []workgraph.LogEntry{{
				Timestamp: created,
				Actor:     options.Actor,
				Message:   logMessage,
			}},
		}
		for _, reference := range template.BlockedBy {
			task.BlockedBy = append(task.BlockedBy, finalIDs[reference])
		}
		for _, edge := range template.LoopsTo {
			edge.Target = finalIDs[edge.Target]
			task.LoopsTo = append(task.LoopsTo, edge)
		}
		tasks = append(tasks, task)
		byID[task.ID] = task
	}

	// Fill the informational inverse so the instantiated subgraph is
	// self-consistent.
	for _, task := range tasks {
		for _, blocker := range task.BlockedBy {
			upstream := byID[blocker]
			if !slices.Contains(upstream.Blocks, task.ID) {
				upstream.Blocks = append(upstream.Blocks, task.ID)
			}
		}
	}
	return tasks, nil
}

// cloneStrings copies values, mapping an empty list to nil so tasks
// compare equal after a JSONL round trip drops the omitempty field.
func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return slices.Clone(values)
}

// resolveInputs returns the substitution text for every declared
// input: the supplied value, else the default, else "".
func resolveInputs(function *TraceFunction, values map[string]any) map[string]string {
	resolved := make(map[string]string, len(function.Inputs))
	for _, input := range function.Inputs {
		value, present := values[input.Name]
		if !present || value == nil {
			value = input.Default
		}
		resolved[input.Name] = Stringify(value)
	}
	return resolved
}

// substitute replaces placeholders for declared inputs. Placeholders
// naming undeclared inputs are left as written.
func substitute(text string, resolved map[string]string) string {
	if text == "" {
		return ""
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if value, ok := resolved[name]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct input names referenced by
// placeholders in text, in order of first appearance.
func Placeholders(text string) []string {
	var names []string
	for _, match := range placeholder.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(names, match[1]) {
			names = append(names, match[1])
		}
	}
	return names
}

// DefaultPrefix derives a stable id prefix from the function id and
// the supplied input values: "<function id>-<8 hex digits>". The same
// function instantiated with the same inputs always gets the same
// prefix, so a repeated instantiation collides with the first one
// instead of silently duplicating work.
func DefaultPrefix(function *TraceFunction, values map[string]any) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := []string{function.ID}
	for _, name := range names {
		parts = append(parts, name, Stringify(values[name]))
	}
	return function.ID + "-" + digest.Instance(parts...).Short(8)
}

// UndeclaredPlaceholder is a placeholder in a template's title or
// description naming no declared input. Instantiate leaves it as
// written.
type UndeclaredPlaceholder struct {
	Template string
	Field    string
	Name     string
}

// UndeclaredPlaceholders returns every undeclared placeholder in
// function, in template order.
func UndeclaredPlaceholders(function *TraceFunction) []UndeclaredPlaceholder {
	var found []UndeclaredPlaceholder
	for _, template := range function.Tasks {
		fields := []struct{ name, text string }{
			{"title", template.Title},
			{"description", template.Description},
		}
		for _, field := range fields {
			for _, name := range Placeholders(field.text) {
				if _, declared := function.Input(name); !declared {
					found = append(found, UndeclaredPlaceholder{Template: template.TemplateID, Field: field.name, Name: name})
				}
			}
		}
	}
	return found
}
