// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bureau-foundation/workgraph/lib/snapshot"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

const beadsExport = `{"id":"bd-1","title":"Schema","status":"closed","closed_at":"2026-01-02T00:00:00Z"}
{"id":"bd-2","title":"Importer for bd-1 output","status":"open","dependencies":[{"issue_id":"bd-2","depends_on_id":"bd-1","type":"blocks"}]}
`

func writeBeadsExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issues.jsonl")
	if err := os.WriteFile(path, []byte(beadsExport), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportBeads(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	path := writeBeadsExport(t)
	output := h.mustRun("import", "beads", path, "--rename-from", "bd", "--rename-to", "wg", "--snapshot")
	if output != "Imported 2 task(s) from "+path+"\n" {
		t.Errorf("import output = %q", output)
	}

	schema := h.task("wg-1")
	if schema.Status != workgraph.StatusDone || !slices.Equal(schema.Blocks, []string{"wg-2"}) {
		t.Errorf("wg-1 = status %s, blocks %v", schema.Status, schema.Blocks)
	}
	importer := h.task("wg-2")
	if importer.Title != "Importer for wg-1 output" || !slices.Equal(importer.BlockedBy, []string{"wg-1"}) {
		t.Errorf("wg-2 = %q blocked by %v", importer.Title, importer.BlockedBy)
	}

	infos, err := snapshot.List(snapshot.Dir(h.dir))
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Nodes != 0 {
		t.Errorf("pre-import snapshot = %+v", infos)
	}
}

func TestImportBeadsExisting(t *testing.T) {
	t.Parallel()

	path := writeBeadsExport(t)

	h := newHarness(t, makeTask("bd-1", workgraph.StatusOpen))
	if _, err := h.run("import", "beads", path); !errors.Is(err, workgraph.ErrAlreadyExists) {
		t.Errorf("import over existing id: %v", err)
	}
	if h.graph().Len() != 1 {
		t.Error("failed import changed the graph")
	}

	output := h.mustRun("import", "beads", path, "--skip-existing")
	want := "Imported 1 task(s) from " + path + "\nSkipped 1 existing task(s)\n"
	if output != want {
		t.Errorf("import output = %q, want %q", output, want)
	}
	if h.task("bd-1").Status != workgraph.StatusOpen {
		t.Error("skipped task was overwritten")
	}
}

func TestImportBeadsDryRun(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	path := writeBeadsExport(t)
	output := h.mustRun("import", "beads", path, "--dry-run", "--snapshot")
	if output != "Would import 2 task(s) from "+path+"\n" {
		t.Errorf("dry run output = %q", output)
	}
	if h.graph().Len() != 0 {
		t.Error("dry run wrote tasks")
	}
	if _, err := os.Stat(snapshot.Dir(h.dir)); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run took a snapshot")
	}
}

func TestImportBeadsRenameFlagsTogether(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if _, err := h.run("import", "beads", writeBeadsExport(t), "--rename-from", "bd"); err == nil {
		t.Error("--rename-from without --rename-to should be rejected")
	}
}
