// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import "errors"

// Validate checks a function definition's structure. It returns the
// first problem found: an *UnknownTemplateReferenceError for a
// blocked_by, loops_to, or output reference that names no template in
// the function, or an error wrapping ErrInvalidFunction for anything
// else.
func Validate(function *TraceFunction) error {
	if function.Kind != "" && function.Kind != Kind {
		return invalid("kind is %q, want %q", function.Kind, Kind)
	}
	if function.ID == "" {
		return invalid("id is required")
	}
	if len(function.Tasks) == 0 {
		return invalid("function %q has no task templates", function.ID)
	}

	inputNames := make(map[string]bool, len(function.Inputs))
	for index, input := range function.Inputs {
		if input.Name == "" {
			return invalid("inputs[%d]: name is required", index)
		}
		if inputNames[input.Name] {
			return invalid("duplicate input %q", input.Name)
		}
		inputNames[input.Name] = true
		if !input.Type.IsValid() {
			return invalid("input %q: unknown type %q", input.Name, input.Type)
		}
		if input.Type == InputEnum && len(input.Values) == 0 {
			return invalid("input %q: enum inputs must list values", input.Name)
		}
		if input.Min != nil && input.Max != nil && *input.Min > *input.Max {
			return invalid("input %q: min %v exceeds max %v", input.Name, *input.Min, *input.Max)
		}
		if input.Default != nil {
			if err := checkValue(input, input.Default); err != nil {
				var violation *ValidationError
				if errors.As(err, &violation) {
					return invalid("input %q: default %s", input.Name, violation.Constraint)
				}
				return invalid("input %q: default: %v", input.Name, err)
			}
		}
	}

	templateIDs := make(map[string]bool, len(function.Tasks))
	for index, template := range function.Tasks {
		if template.TemplateID == "" {
			return invalid("tasks[%d]: template_id is required", index)
		}
		if templateIDs[template.TemplateID] {
			return invalid("duplicate template_id %q", template.TemplateID)
		}
		templateIDs[template.TemplateID] = true
		if template.Title == "" {
			return invalid("template %q: title is required", template.TemplateID)
		}
	}

	for _, template := range function.Tasks {
		for _, reference := range template.BlockedBy {
			if !templateIDs[reference] {
				return &UnknownTemplateReferenceError{Template: template.TemplateID, Field: "blocked_by", Reference: reference}
			}
		}
		for _, edge := range template.LoopsTo {
			if edge.MaxIterations < 1 {
				return invalid("template %q: loop to %q has max_iterations %d, must be at least 1",
					template.TemplateID, edge.Target, edge.MaxIterations)
			}
			if !templateIDs[edge.Target] {
				return &UnknownTemplateReferenceError{Template: template.TemplateID, Field: "loops_to", Reference: edge.Target}
			}
		}
	}

	for _, output := range function.Outputs {
		if !templateIDs[output.FromTask] {
			return &UnknownTemplateReferenceError{Template: output.Name, Field: "from_task", Reference: output.FromTask}
		}
	}
	return nil
}
