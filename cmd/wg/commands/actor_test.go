// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/workgraph/lib/clock"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// --- actor ---

func TestActorAdd(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	output := h.mustRun("actor", "add", "agent-1", "--name", "Agent One", "--role", "implementer",
		"-c", "go,rust", "--rate", "75", "--trust", "verified")
	want := "Added actor: Agent One (agent-1)\n  Capabilities: go, rust\n"
	if output != want {
		t.Errorf("actor add output = %q, want %q", output, want)
	}

	actor, ok := h.graph().Actor("agent-1")
	if !ok {
		t.Fatal("actor not saved")
	}
	if actor.Rate == nil || *actor.Rate != 75 {
		t.Errorf("rate = %v", actor.Rate)
	}
	if actor.Capacity != nil || actor.ContextLimit != nil {
		t.Errorf("unset flags were stored: capacity=%v context_limit=%v", actor.Capacity, actor.ContextLimit)
	}
	if actor.TrustLevel != workgraph.TrustVerified {
		t.Errorf("trust = %s", actor.TrustLevel)
	}
	if !slices.Equal(actor.Capabilities, []string{"go", "rust"}) {
		t.Errorf("capabilities = %v", actor.Capabilities)
	}

	if _, err := h.run("actor", "add", "agent-1"); !errors.Is(err, workgraph.ErrAlreadyExists) {
		t.Errorf("duplicate actor: %v", err)
	}
	if _, err := h.run("actor", "add", "agent-2", "--trust", "total"); err == nil {
		t.Error("unknown trust level should be rejected")
	}
}

func TestActorList(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if output := h.mustRun("actor", "list"); output != "No actors found\n" {
		t.Errorf("empty actor list = %q", output)
	}

	reviewer := workgraph.NewActor("reviewer")
	reviewer.Role = "reviewer"
	reviewer.Capabilities = []string{"review"}
	h = newHarness(t, reviewer, workgraph.NewActor("bare"))
	output := h.mustRun("actor", "list")
	want := "reviewer - reviewer (reviewer) [review]\nbare - bare\n"
	if output != want {
		t.Errorf("actor list = %q, want %q", output, want)
	}
}

// --- resource ---

func TestResource(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if output := h.mustRun("resource", "list"); output != "No resources found\n" {
		t.Errorf("empty resource list = %q", output)
	}

	output := h.mustRun("resource", "add", "budget", "--name", "Budget", "--type", "money",
		"--available", "1000", "--unit", "usd", "--meta", "owner=finance", "--meta", "note=a,b")
	if output != "Added resource: Budget (budget)\n" {
		t.Errorf("resource add output = %q", output)
	}
	resource, ok := h.graph().Resource("budget")
	if !ok {
		t.Fatal("resource not saved")
	}
	if resource.Available == nil || *resource.Available != 1000 {
		t.Errorf("available = %v", resource.Available)
	}
	if resource.Metadata["owner"] != "finance" || resource.Metadata["note"] != "a,b" {
		t.Errorf("metadata = %v", resource.Metadata)
	}

	if output := h.mustRun("resource", "list"); output != "budget - Budget [1000 usd]\n" {
		t.Errorf("resource list = %q", output)
	}
	if _, err := h.run("resource", "add", "bad", "--meta", "novalue"); err == nil {
		t.Error("metadata without '=' should be rejected")
	}
}

// --- heartbeat ---

func TestHeartbeatRecord(t *testing.T) {
	t.Parallel()

	h := newHarness(t, workgraph.NewActor("agent-1"))
	h.clock.Advance(90 * time.Second)
	output := h.mustRun("heartbeat", "agent-1")
	if output != "Heartbeat recorded for 'agent-1' at 2026-01-01T00:01:30Z\n" {
		t.Errorf("heartbeat output = %q", output)
	}
	actor, _ := h.graph().Actor("agent-1")
	if actor.LastSeen != "2026-01-01T00:01:30Z" {
		t.Errorf("last_seen = %q", actor.LastSeen)
	}

	if _, err := h.run("heartbeat", "ghost"); !errors.Is(err, workgraph.ErrNotFound) {
		t.Errorf("heartbeat for unknown actor: %v", err)
	}
}

func livenessGraph() []workgraph.Node {
	fresh := workgraph.NewActor("fresh")
	fresh.LastSeen = clock.Format(clock.Epoch.Add(-2 * time.Minute))
	old := workgraph.NewActor("old")
	old.LastSeen = clock.Format(clock.Epoch.Add(-30 * time.Minute))
	silent := workgraph.NewActor("silent")
	return []workgraph.Node{fresh, old, silent}
}

func TestHeartbeatCheck(t *testing.T) {
	t.Parallel()

	h := newHarness(t, livenessGraph()...)
	output, err := h.run("heartbeat", "--check")
	if exitCode(err) != 1 {
		t.Errorf("check with stale actors returned %v, want exit code 1", err)
	}
	want := "Heartbeat status (threshold: 5 minutes):\n" +
		"\nActive actors:\n" +
		"  fresh (seen 2 min ago)\n" +
		"\nStale actors (may be dead):\n" +
		"  old (last seen 30 min ago: 2025-12-31T23:30:00Z)\n" +
		"  silent (never seen)\n"
	if output != want {
		t.Errorf("heartbeat --check output:\n%s\nwant:\n%s", output, want)
	}
}

func TestHeartbeatCheckThresholdAndJSON(t *testing.T) {
	t.Parallel()

	fresh := workgraph.NewActor("fresh")
	fresh.LastSeen = clock.Format(clock.Epoch.Add(-30 * time.Minute))
	h := newHarness(t, fresh)

	output, err := h.run("heartbeat", "--check", "--threshold", "60", "--json")
	if err != nil {
		t.Fatalf("all actors active but got %v", err)
	}
	var report heartbeatReport
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("decoding %q: %v", output, err)
	}
	if report.ThresholdMinutes != 60 || len(report.Stale) != 0 || len(report.Active) != 1 {
		t.Errorf("report = %+v", report)
	}
	if report.Active[0].MinutesAgo != 30 {
		t.Errorf("minutes_ago = %d", report.Active[0].MinutesAgo)
	}

	if _, err := h.run("heartbeat", "--check", "--threshold", "-1"); err == nil {
		t.Error("negative threshold should be rejected")
	}
}

func TestHeartbeatCheckNoActors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	output := h.mustRun("heartbeat", "--check")
	if !strings.HasSuffix(output, "\nNo actors registered.\n") {
		t.Errorf("output = %q", output)
	}
}
