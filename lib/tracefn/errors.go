// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFunction wraps structural problems in a definition
	// other than dangling template references.
	ErrInvalidFunction = errors.New("invalid trace function")

	// ErrAmbiguous is the sentinel for *AmbiguousError.
	ErrAmbiguous = errors.New("ambiguous function id")
)

// ValidationError reports an input value that violates its
// declaration.
type ValidationError struct {
	Input      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("input %q: %s", e.Input, e.Constraint)
}

// UnknownTemplateReferenceError reports a template field naming a
// template id that does not exist in the same function.
type UnknownTemplateReferenceError struct {
	// Template is the id of the referring template, or the output
	// name when Field is "from_task".
	Template  string
	Field     string
	Reference string
}

func (e *UnknownTemplateReferenceError) Error() string {
	return fmt.Sprintf("template %q: %s references unknown template %q", e.Template, e.Field, e.Reference)
}

// AmbiguousError reports a prefix that matches more than one function.
type AmbiguousError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("function id prefix %q is ambiguous: matches %s", e.Prefix, strings.Join(e.Matches, ", "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFunction, fmt.Sprintf(format, args...))
}
