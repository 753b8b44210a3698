// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"time"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

var testNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func floatPointer(v float64) *float64 { return &v }

// featureFunction is the plan → implement → review shape used
// throughout these tests.
func featureFunction() *TraceFunction {
	return &TraceFunction{
		Kind:    Kind,
		Version: CurrentVersion,
		ID:      "impl-feature",
		Name:    "Implement a feature",
		Inputs: []FunctionInput{
			{Name: "feature_name", Type: InputString, Required: true},
			{Name: "priority", Type: InputEnum, Values: []string{"low", "high"}, Default: "low"},
			{Name: "budget", Type: InputNumber, Min: floatPointer(1), Max: floatPointer(100)},
			{Name: "notes", Type: InputText},
		},
		Tasks: []TaskTemplate{
			{
				TemplateID:  "plan",
				Title:       "Plan {{input.feature_name}}",
				Description: "Priority {{input.priority}}, notes: {{ input.notes }}.",
				Skills:      []string{"design"},
				RoleHint:    "architect",
			},
			{
				TemplateID:   "implement",
				Title:        "Implement {{input.feature_name}}",
				BlockedBy:    []string{"plan"},
				Deliverables: []string{"code"},
				Verify:       "go test ./...",
				Tags:         []string{"feature"},
			},
			{
				TemplateID: "review",
				Title:      "Review {{input.feature_name}} ({{input.undeclared}})",
				BlockedBy:  []string{"implement", "plan"},
				LoopsTo: []workgraph.LoopEdge{
					{Target: "implement", MaxIterations: 3, Guard: "review requested changes", Delay: "10m"},
				},
			},
		},
		Outputs: []FunctionOutput{
			{Name: "result", FromTask: "review", Field: "artifacts"},
		},
	}
}
