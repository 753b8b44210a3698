// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"fmt"
	"slices"
	"time"

	"github.com/bureau-foundation/workgraph/lib/query"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// ExtractOptions controls Extract.
type ExtractOptions struct {
	// ID is the new function's id. Defaults to the root task id.
	ID string

	// Name defaults to the root task's title.
	Name string

	// Actor is recorded as extracted_by.
	Actor string

	Now time.Time
}

// Extract captures a finished piece of work as a reusable function.
// The root task and every task it transitively waits on become
// templates, in graph order, with template ids equal to the task ids.
// Edges to tasks outside that set are dropped. The function has no
// inputs; generalizing titles into placeholders is left to the author.
func Extract(graph *workgraph.Graph, rootID string, options ExtractOptions) (*TraceFunction, error) {
	root, ok := graph.Task(rootID)
	if !ok {
		return nil, fmt.Errorf("task %q: %w", rootID, workgraph.ErrNotFound)
	}

	members := make(map[string]bool)
	for _, task := range query.Upstream(graph, rootID) {
		members[task.ID] = true
	}

	stamp := options.Now.UTC().Format(time.RFC3339)
	function := &TraceFunction{
		Kind:        Kind,
		Version:     CurrentVersion,
		ID:          options.ID,
		Name:        options.Name,
		Description: root.Description,
		ExtractedFrom: []ExtractionSource{{
			TaskID:    root.ID,
			Timestamp: stamp,
		}},
		ExtractedBy: options.Actor,
		ExtractedAt: stamp,
	}
	if function.ID == "" {
		function.ID = root.ID
	}
	if function.Name == "" {
		function.Name = root.Title
	}
	if root.CompletedAt != "" {
		function.ExtractedFrom[0].Timestamp = root.CompletedAt
	}

	for _, task := range graph.Tasks() {
		if !members[task.ID] {
			continue
		}
		template := TaskTemplate{
			TemplateID:   task.ID,
			Title:        task.Title,
			Description:  task.Description,
			Skills:       cloneStrings(task.Skills),
			RoleHint:     task.RoleHint,
			Deliverables: cloneStrings(task.Deliverables),
			Verify:       task.Verify,
			Tags:         cloneStrings(task.Tags),
		}
		for _, blocker := range task.BlockedBy {
			if members[blocker] && !slices.Contains(template.BlockedBy, blocker) {
				template.BlockedBy = append(template.BlockedBy, blocker)
			}
		}
		for _, edge := range task.LoopsTo {
			if members[edge.Target] {
				template.LoopsTo = append(template.LoopsTo, edge)
			}
		}
		function.Tasks = append(function.Tasks, template)
	}

	if err := Validate(function); err != nil {
		return nil, fmt.Errorf("extracting from %q: %w", rootID, err)
	}
	return function, nil
}
