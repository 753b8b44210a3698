// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"fmt"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// Kind is the value of every function document's kind field.
const Kind = "trace-function"

// CurrentVersion is the format version written by this package.
const CurrentVersion = 1

// InputType is the declared type of a FunctionInput.
type InputType string

const (
	InputString      InputType = "string"
	InputText        InputType = "text"
	InputFileList    InputType = "file_list"
	InputFileContent InputType = "file_content"
	InputNumber      InputType = "number"
	InputURL         InputType = "url"
	InputEnum        InputType = "enum"
	InputJSON        InputType = "json"
)

// IsValid reports whether t is a known input type.
func (t InputType) IsValid() bool {
	switch t {
	case InputString, InputText, InputFileList, InputFileContent,
		InputNumber, InputURL, InputEnum, InputJSON:
		return true
	}
	return false
}

// UnmarshalText rejects unknown input types when a document is read.
func (t *InputType) UnmarshalText(text []byte) error {
	value := InputType(text)
	if !value.IsValid() {
		return fmt.Errorf("unknown input type %q", string(text))
	}
	*t = value
	return nil
}

// FunctionInput declares one parameter of a function.
type FunctionInput struct {
	Name        string    `json:"name" yaml:"name"`
	Type        InputType `json:"type" yaml:"type"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`

	// Default is substituted when an optional input is not supplied.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// Example is documentation only.
	Example any `json:"example,omitempty" yaml:"example,omitempty"`

	// Min and Max bound number inputs.
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`

	// Values enumerates the allowed strings for enum inputs.
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// TaskTemplate is the blueprint for one task. TemplateID is local to
// the function; BlockedBy and LoopsTo name other templates by their
// TemplateID.
type TaskTemplate struct {
	TemplateID   string               `json:"template_id" yaml:"template_id"`
	Title        string               `json:"title" yaml:"title"`
	Description  string               `json:"description,omitempty" yaml:"description,omitempty"`
	Skills       []string             `json:"skills,omitempty" yaml:"skills,omitempty"`
	BlockedBy    []string             `json:"blocked_by,omitempty" yaml:"blocked_by,omitempty"`
	LoopsTo      []workgraph.LoopEdge `json:"loops_to,omitempty" yaml:"loops_to,omitempty"`
	RoleHint     string               `json:"role_hint,omitempty" yaml:"role_hint,omitempty"`
	Deliverables []string             `json:"deliverables,omitempty" yaml:"deliverables,omitempty"`
	Verify       string               `json:"verify,omitempty" yaml:"verify,omitempty"`
	Tags         []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// FunctionOutput names a field of an instantiated template as an
// output of the whole function.
type FunctionOutput struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	FromTask    string `json:"from_task" yaml:"from_task"`
	Field       string `json:"field" yaml:"field"`
}

// ExtractionSource records a task run a function was derived from.
type ExtractionSource struct {
	TaskID    string `json:"task_id" yaml:"task_id"`
	RunID     string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// TraceFunction is a complete function definition.
type TraceFunction struct {
	Kind        string   `json:"kind" yaml:"kind"`
	Version     int      `json:"version" yaml:"version"`
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	ExtractedFrom []ExtractionSource `json:"extracted_from,omitempty" yaml:"extracted_from,omitempty"`
	ExtractedBy   string             `json:"extracted_by,omitempty" yaml:"extracted_by,omitempty"`
	ExtractedAt   string             `json:"extracted_at,omitempty" yaml:"extracted_at,omitempty"`

	Inputs  []FunctionInput  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Tasks   []TaskTemplate   `json:"tasks" yaml:"tasks"`
	Outputs []FunctionOutput `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// Input returns the declaration with the given name.
func (f *TraceFunction) Input(name string) (FunctionInput, bool) {
	for _, input := range f.Inputs {
		if input.Name == name {
			return input, true
		}
	}
	return FunctionInput{}, false
}

// Template returns the template with the given local id.
func (f *TraceFunction) Template(templateID string) (TaskTemplate, bool) {
	for _, template := range f.Tasks {
		if template.TemplateID == templateID {
			return template, true
		}
	}
	return TaskTemplate{}, false
}
