// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not resolve to a node
	// of the requested kind.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when adding a node whose id is
	// already present in the graph.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidTransition is returned when a status transition's
	// precondition is violated.
	ErrInvalidTransition = errors.New("invalid transition")
)

// TransitionError reports a lifecycle operation attempted from a
// status that does not permit it.
type TransitionError struct {
	TaskID    string
	Operation string
	From      Status

	// Reason is an optional qualifier for refusals that are not
	// purely about the current status (for example, an exhausted
	// retry budget).
	Reason string
}

func (e *TransitionError) Error() string {
	message := fmt.Sprintf("cannot %s task %q from status %s", e.Operation, e.TaskID, e.From)
	if e.Reason != "" {
		message += ": " + e.Reason
	}
	return message
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func notFound(kind Kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
