// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

func writeFile(t *testing.T, directory, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(directory, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func minimalFunctionYAML(id string) string {
	return "kind: trace-function\nversion: 1\nid: " + id + "\nname: " + id + "\ntasks:\n  - template_id: only\n    title: Only\n"
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	directory := filepath.Join(t.TempDir(), DirName)
	original := featureFunction()
	path, err := Save(directory, original)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "impl-feature.yaml" {
		t.Errorf("Save wrote %s, want impl-feature.yaml", path)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != original.ID || len(loaded.Tasks) != 3 || len(loaded.Inputs) != 4 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.Inputs[1].Default != "low" {
		t.Errorf("enum default = %#v, want \"low\"", loaded.Inputs[1].Default)
	}
	if *loaded.Inputs[2].Max != 100 {
		t.Errorf("number max = %v, want 100", *loaded.Inputs[2].Max)
	}
	if !reflect.DeepEqual(loaded.Tasks[2].LoopsTo, original.Tasks[2].LoopsTo) {
		t.Errorf("loops = %+v, want %+v", loaded.Tasks[2].LoopsTo, original.Tasks[2].LoopsTo)
	}
	if err := Validate(loaded); err != nil {
		t.Errorf("reloaded function no longer validates: %v", err)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	t.Parallel()

	function := featureFunction()
	function.Tasks[1].BlockedBy = []string{"ghost"}
	if _, err := Save(t.TempDir(), function); err == nil {
		t.Error("Save of invalid function succeeded")
	}

	function = featureFunction()
	function.ID = "../escape"
	if _, err := Save(t.TempDir(), function); !errors.Is(err, ErrInvalidFunction) {
		t.Errorf("Save with path id error = %v, want ErrInvalidFunction", err)
	}
}

func TestParseYAMLAndJSONC(t *testing.T) {
	t.Parallel()

	yamlDocument := `
kind: trace-function
version: 1
id: review-loop
name: Review loop
inputs:
  - name: repo
    type: url
    required: true
  - name: rounds
    type: number
    default: 2
    min: 1
tasks:
  - template_id: write
    title: Write for {{input.repo}}
  - template_id: review
    title: Review
    blocked_by: [write]
    loops_to:
      - target: write
        max_iterations: 3
        guard: changes requested
`
	jsoncDocument := `{
  // Same function, JSONC flavour.
  "kind": "trace-function",
  "version": 1,
  "id": "review-loop",
  "name": "Review loop",
  "inputs": [
    {"name": "repo", "type": "url", "required": true},
    {"name": "rounds", "type": "number", "default": 2, "min": 1},
  ],
  "tasks": [
    {"template_id": "write", "title": "Write for {{input.repo}}"},
    {"template_id": "review", "title": "Review", "blocked_by": ["write"],
     "loops_to": [{"target": "write", "max_iterations": 3, "guard": "changes requested"}]},
  ],
}`

	fromYAML, err := Parse([]byte(yamlDocument), "review-loop.yaml")
	if err != nil {
		t.Fatalf("Parse YAML: %v", err)
	}
	fromJSONC, err := Parse([]byte(jsoncDocument), "review-loop.jsonc")
	if err != nil {
		t.Fatalf("Parse JSONC: %v", err)
	}

	for label, function := range map[string]*TraceFunction{"yaml": fromYAML, "jsonc": fromJSONC} {
		if err := Validate(function); err != nil {
			t.Errorf("%s: Validate: %v", label, err)
		}
		if function.Inputs[0].Type != InputURL {
			t.Errorf("%s: input type = %q, want url", label, function.Inputs[0].Type)
		}
		if function.Tasks[1].LoopsTo[0].MaxIterations != 3 || function.Tasks[1].LoopsTo[0].Guard != "changes requested" {
			t.Errorf("%s: loop = %+v", label, function.Tasks[1].LoopsTo[0])
		}
		tasks, err := Instantiate(function, map[string]any{"repo": "https://example.com/r"}, Options{Prefix: label, Now: testNow})
		if err != nil {
			t.Errorf("%s: Instantiate: %v", label, err)
			continue
		}
		if tasks[0].Title != "Write for https://example.com/r" {
			t.Errorf("%s: title = %q", label, tasks[0].Title)
		}
	}
}

func TestParseRejectsWrongKindAndType(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("kind: pipeline\nid: x\n"), "x.yaml"); err == nil {
		t.Error("Parse accepted kind: pipeline")
	}
	bad := "kind: trace-function\nid: x\ninputs:\n  - name: a\n    type: blob\ntasks:\n  - template_id: t\n    title: T\n"
	if _, err := Parse([]byte(bad), "x.yaml"); err == nil || !strings.Contains(err.Error(), "blob") {
		t.Errorf("Parse with unknown input type error = %v", err)
	}
}

func TestInstantiateRejectsParsedInvalidDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantText string
	}{
		{"enum default outside values", "  - name: mode\n    type: enum\n    values: [a, b]\n    default: c\n", `"c" is not one of a, b`},
		{"number default above max", "  - name: count\n    type: number\n    max: 5\n    default: 9\n", "above maximum"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			document := "kind: trace-function\nid: x\ninputs:\n" + test.input +
				"tasks:\n  - template_id: t\n    title: T\n"
			function, err := Parse([]byte(document), "x.yaml")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tasks, err := Instantiate(function, nil, Options{Prefix: "run", Now: testNow})
			if !errors.Is(err, ErrInvalidFunction) {
				t.Fatalf("Instantiate error = %v, want ErrInvalidFunction", err)
			}
			if tasks != nil {
				t.Errorf("Instantiate returned %d tasks alongside the error", len(tasks))
			}
			if !strings.Contains(err.Error(), test.wantText) {
				t.Errorf("error %q does not mention %q", err, test.wantText)
			}
		})
	}
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	if functions, err := LoadAll(filepath.Join(directory, "absent")); err != nil || len(functions) != 0 {
		t.Fatalf("LoadAll(missing dir) = %d functions, %v", len(functions), err)
	}

	writeFile(t, directory, "zeta.yaml", minimalFunctionYAML("zeta"))
	writeFile(t, directory, "alpha.yml", minimalFunctionYAML("alpha"))
	writeFile(t, directory, "mid.jsonc", `{"kind":"trace-function","id":"mid","name":"m","tasks":[{"template_id":"t","title":"T"}]}`)
	writeFile(t, directory, "README.md", "not a function")
	writeFile(t, directory, ".hidden.yaml", "garbage: [")
	if err := os.Mkdir(filepath.Join(directory, "nested.yaml"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	functions, err := LoadAll(directory)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	var ids []string
	for _, function := range functions {
		ids = append(ids, function.ID)
	}
	if !reflect.DeepEqual(ids, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("LoadAll ids = %v, want [alpha mid zeta]", ids)
	}
}

func TestLoadAllDuplicateIDs(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	writeFile(t, directory, "one.yaml", minimalFunctionYAML("same"))
	writeFile(t, directory, "two.yaml", minimalFunctionYAML("same"))
	if _, err := LoadAll(directory); !errors.Is(err, workgraph.ErrAlreadyExists) {
		t.Errorf("LoadAll error = %v, want ErrAlreadyExists", err)
	}
}

func TestLoadAllReportsBadFile(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	writeFile(t, directory, "broken.yaml", "kind: trace-function\ntasks: [")
	_, err := LoadAll(directory)
	if err == nil || !strings.Contains(err.Error(), "broken.yaml") {
		t.Errorf("LoadAll error = %v, want mention of broken.yaml", err)
	}
}

func TestFindByPrefix(t *testing.T) {
	t.Parallel()

	directory := t.TempDir()
	for _, id := range []string{"impl", "impl-feature", "impl-fix", "review"} {
		writeFile(t, directory, id+".yaml", minimalFunctionYAML(id))
	}

	tests := []struct {
		prefix      string
		want        string
		wantMatches []string
		notFound    bool
	}{
		{prefix: "review", want: "review"},
		{prefix: "rev", want: "review"},
		{prefix: "impl", want: "impl"},
		{prefix: "impl-fe", want: "impl-feature"},
		{prefix: "impl-f", wantMatches: []string{"impl-feature", "impl-fix"}},
		{prefix: "i", wantMatches: []string{"impl", "impl-feature", "impl-fix"}},
		{prefix: "deploy", notFound: true},
	}

	for _, test := range tests {
		function, err := FindByPrefix(directory, test.prefix)
		switch {
		case test.notFound:
			if !errors.Is(err, workgraph.ErrNotFound) {
				t.Errorf("FindByPrefix(%q) error = %v, want ErrNotFound", test.prefix, err)
			}
		case test.wantMatches != nil:
			var ambiguous *AmbiguousError
			if !errors.As(err, &ambiguous) {
				t.Errorf("FindByPrefix(%q) error = %v, want *AmbiguousError", test.prefix, err)
				continue
			}
			if !errors.Is(err, ErrAmbiguous) {
				t.Errorf("AmbiguousError does not unwrap to ErrAmbiguous")
			}
			if !reflect.DeepEqual(ambiguous.Matches, test.wantMatches) {
				t.Errorf("FindByPrefix(%q) matches = %v, want %v", test.prefix, ambiguous.Matches, test.wantMatches)
			}
		default:
			if err != nil {
				t.Errorf("FindByPrefix(%q): %v", test.prefix, err)
				continue
			}
			if function.ID != test.want {
				t.Errorf("FindByPrefix(%q) = %q, want %q", test.prefix, function.ID, test.want)
			}
		}
	}
}
