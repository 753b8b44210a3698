// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workgraph

import (
	"fmt"
	"strings"
)

// Status is a task's lifecycle state. The wire form is kebab-case.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
	StatusAbandoned  Status = "abandoned"

	// StatusPendingReview is accepted when reading graphs written by
	// older versions. No transition produces it. It behaves like
	// StatusInProgress everywhere status is interpreted.
	StatusPendingReview Status = "pending-review"
)

// Statuses lists every status a transition can produce, in lifecycle
// order.
var Statuses = []Status{
	StatusOpen,
	StatusInProgress,
	StatusBlocked,
	StatusDone,
	StatusFailed,
	StatusAbandoned,
}

// IsValid reports whether s is a known status, including the legacy
// pending-review value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusDone,
		StatusFailed, StatusAbandoned, StatusPendingReview:
		return true
	}
	return false
}

// Effective maps legacy statuses to their current equivalent.
func (s Status) Effective() Status {
	if s == StatusPendingReview {
		return StatusInProgress
	}
	return s
}

func (s Status) String() string { return string(s) }

// MarshalText rejects unknown statuses so an invalid value can never
// reach disk.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid task status %q", string(s))
	}
	return []byte(s), nil
}

// UnmarshalText accepts exactly the wire values.
func (s *Status) UnmarshalText(text []byte) error {
	value := Status(text)
	if !value.IsValid() {
		return fmt.Errorf("invalid task status %q", string(text))
	}
	*s = value
	return nil
}

// ParseStatus parses user input into a Status. Matching is
// case-insensitive and accepts underscores or spaces in place of
// hyphens ("in_progress", "In Progress").
func ParseStatus(input string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	status := Status(normalized)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown status %q (valid: %s)", input, joinStatuses())
	}
	return status, nil
}

func joinStatuses() string {
	names := make([]string, len(Statuses))
	for i, status := range Statuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}

// TrustLevel is how far an actor's output is trusted without review.
type TrustLevel string

const (
	TrustVerified    TrustLevel = "verified"
	TrustProvisional TrustLevel = "provisional"
	TrustUnknown     TrustLevel = "unknown"
)

// IsValid reports whether t is a known trust level.
func (t TrustLevel) IsValid() bool {
	switch t {
	case TrustVerified, TrustProvisional, TrustUnknown:
		return true
	}
	return false
}

func (t TrustLevel) String() string { return string(t) }

// MarshalText writes the zero value as provisional, the default.
func (t TrustLevel) MarshalText() ([]byte, error) {
	if t == "" {
		return []byte(TrustProvisional), nil
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid trust level %q", string(t))
	}
	return []byte(t), nil
}

// UnmarshalText accepts exactly the wire values.
func (t *TrustLevel) UnmarshalText(text []byte) error {
	value := TrustLevel(text)
	if !value.IsValid() {
		return fmt.Errorf("invalid trust level %q", string(text))
	}
	*t = value
	return nil
}

// ParseTrustLevel parses user input into a TrustLevel,
// case-insensitively.
func ParseTrustLevel(input string) (TrustLevel, error) {
	level := TrustLevel(strings.ToLower(strings.TrimSpace(input)))
	if !level.IsValid() {
		return "", fmt.Errorf("unknown trust level %q (valid: verified, provisional, unknown)", input)
	}
	return level, nil
}
