// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/workgraph/lib/clock"
	"github.com/bureau-foundation/workgraph/lib/testutil"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// harness runs wg commands against a temporary workgraph directory
// with a fake clock. The directory reaches commands through WG_DIR.
type harness struct {
	t     *testing.T
	dir   string
	clock *clock.FakeClock
}

func newHarness(t *testing.T, nodes ...workgraph.Node) *harness {
	t.Helper()
	dir := testutil.WorkgraphDir(t)
	if len(nodes) > 0 {
		testutil.WriteGraph(t, dir, nodes...)
	}
	return &harness{t: t, dir: dir, clock: clock.Fake(clock.Epoch)}
}

// run executes one command line and returns what it wrote to stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var stdout bytes.Buffer
	e := &env{
		stdout: &stdout,
		clock:  h.clock,
		getenv: func(key string) string {
			if key == DirEnvVar {
				return h.dir
			}
			return ""
		},
	}
	err := newRoot(e).Execute(context.Background(), args)
	return stdout.String(), err
}

// mustRun is run for commands that are expected to succeed.
func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	output, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("wg %v: %v\noutput:\n%s", args, err, output)
	}
	return output
}

func (h *harness) graph() *workgraph.Graph {
	h.t.Helper()
	return testutil.ReadGraph(h.t, h.dir)
}

func (h *harness) task(id string) *workgraph.Task {
	h.t.Helper()
	return testutil.RequireTask(h.t, h.graph(), id)
}

func makeTask(id string, status workgraph.Status, blockedBy ...string) *workgraph.Task {
	task := workgraph.NewTask(id, "Task "+id, clock.Format(clock.Epoch))
	task.Status = status
	task.BlockedBy = blockedBy
	return task
}

// exitCode returns the code carried by err, or -1 when err carries
// none.
func exitCode(err error) int {
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}
