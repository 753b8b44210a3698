// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"time"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// ActorLiveness is one actor's heartbeat status.
type ActorLiveness struct {
	ActorID  string `json:"actor_id"`
	LastSeen string `json:"last_seen,omitempty"`

	// Elapsed is the time since LastSeen. Zero when the actor was
	// never seen or the timestamp does not parse.
	Elapsed time.Duration `json:"elapsed_ns,omitempty"`

	Stale bool `json:"stale"`
}

// Liveness classifies every actor as stale or active. An actor is
// stale when its last heartbeat is older than threshold, when it has
// never sent one, or when the recorded timestamp is unreadable.
func Liveness(graph *workgraph.Graph, now time.Time, threshold time.Duration) []ActorLiveness {
	var result []ActorLiveness
	for _, actor := range graph.Actors() {
		entry := ActorLiveness{ActorID: actor.ID, LastSeen: actor.LastSeen, Stale: true}
		if actor.LastSeen != "" {
			if seen, err := time.Parse(time.RFC3339Nano, actor.LastSeen); err == nil {
				entry.Elapsed = now.Sub(seen)
				entry.Stale = entry.Elapsed > threshold
			}
		}
		result = append(result, entry)
	}
	return result
}
