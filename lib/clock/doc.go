// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the time source used by workgraph mutations.
//
// Every lifecycle transition stamps the graph with an RFC 3339
// timestamp (created_at, started_at, completed_at, log entries,
// actor last_seen). Commands take a [Clock] rather than calling
// time.Now directly so tests can pin those timestamps:
//
//	c := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
//	graph.MarkDone("build", c.Now())
//	c.Advance(10 * time.Minute)
//
// Production code uses [Real].
package clock
