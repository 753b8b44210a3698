// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// statusColors is a 256-color palette for dark terminals.
var statusColors = map[workgraph.Status]lipgloss.Color{
	workgraph.StatusOpen:       lipgloss.Color("114"), // green
	workgraph.StatusInProgress: lipgloss.Color("220"), // amber
	workgraph.StatusBlocked:    lipgloss.Color("196"), // red
	workgraph.StatusDone:       lipgloss.Color("245"), // gray
	workgraph.StatusFailed:     lipgloss.Color("203"), // salmon
	workgraph.StatusAbandoned:  lipgloss.Color("240"), // dim gray
}

// statusMarkers are the checkbox prefixes used by list.
var statusMarkers = map[workgraph.Status]string{
	workgraph.StatusOpen:          "[ ]",
	workgraph.StatusInProgress:    "[~]",
	workgraph.StatusBlocked:       "[!]",
	workgraph.StatusDone:          "[x]",
	workgraph.StatusFailed:        "[F]",
	workgraph.StatusAbandoned:     "[A]",
	workgraph.StatusPendingReview: "[R]",
}

func statusMarker(status workgraph.Status) string {
	if marker, ok := statusMarkers[status]; ok {
		return marker
	}
	return "[?]"
}

// paintStatus renders text in the colour of status when e has colour
// enabled.
func (e *env) paintStatus(status workgraph.Status, text string) string {
	if !e.color {
		return text
	}
	color, ok := statusColors[status.Effective()]
	if !ok {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// paintFaint renders secondary text (assignees, counts).
func (e *env) paintFaint(text string) string {
	if !e.color {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(text)
}
