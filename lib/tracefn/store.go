// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tracefn

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/workgraph/lib/atomicfile"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// DirName is the functions directory's name inside a workgraph
// directory.
const DirName = "functions"

// Dir returns the functions directory for a workgraph directory.
func Dir(workgraphDirectory string) string {
	return filepath.Join(workgraphDirectory, DirName)
}

// Parse decodes a function document. The format is chosen by the
// file extension: .json and .jsonc are JSONC, anything else is YAML.
func Parse(data []byte, path string) (*TraceFunction, error) {
	var function TraceFunction
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &function); err != nil {
			return nil, fmt.Errorf("parsing trace function: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &function); err != nil {
			return nil, fmt.Errorf("parsing trace function: %w", err)
		}
	}
	if function.Kind != Kind {
		return nil, fmt.Errorf("document kind is %q, want %q", function.Kind, Kind)
	}
	return &function, nil
}

// Load reads one function document from disk.
func Load(path string) (*TraceFunction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	function, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return function, nil
}

// Marshal encodes a function as YAML, filling in kind and version
// when they are unset.
func Marshal(function *TraceFunction) ([]byte, error) {
	encoded := *function
	if encoded.Kind == "" {
		encoded.Kind = Kind
	}
	if encoded.Version == 0 {
		encoded.Version = CurrentVersion
	}
	return yaml.Marshal(&encoded)
}

// Save writes a function to <directory>/<id>.yaml, creating the
// directory if needed, and returns the path written. The definition
// must pass Validate.
func Save(directory string, function *TraceFunction) (string, error) {
	if err := Validate(function); err != nil {
		return "", err
	}
	if strings.ContainsAny(function.ID, `/\`) || strings.HasPrefix(function.ID, ".") {
		return "", invalid("id %q cannot be used as a file name", function.ID)
	}
	data, err := Marshal(function)
	if err != nil {
		return "", fmt.Errorf("encoding trace function %q: %w", function.ID, err)
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", fmt.Errorf("creating functions directory: %w", err)
	}
	path := filepath.Join(directory, function.ID+".yaml")
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func isFunctionFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json", ".jsonc":
		return true
	}
	return false
}

// LoadAll reads every function document in directory, sorted by id. A
// missing directory holds no functions. Two documents declaring the
// same id are an error.
func LoadAll(directory string) ([]*TraceFunction, error) {
	entries, err := os.ReadDir(directory)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading functions directory: %w", err)
	}

	var functions []*TraceFunction
	sources := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !isFunctionFile(entry.Name()) {
			continue
		}
		path := filepath.Join(directory, entry.Name())
		function, err := Load(path)
		if err != nil {
			return nil, err
		}
		if previous, exists := sources[function.ID]; exists {
			return nil, fmt.Errorf("function %q defined in both %s and %s: %w",
				function.ID, previous, path, workgraph.ErrAlreadyExists)
		}
		sources[function.ID] = path
		functions = append(functions, function)
	}

	sort.Slice(functions, func(i, j int) bool { return functions[i].ID < functions[j].ID })
	return functions, nil
}

// FindByPrefix resolves a function by exact id, or failing that by a
// prefix matching exactly one id. No match is reported as
// workgraph.ErrNotFound; several matches as *AmbiguousError.
func FindByPrefix(directory, prefix string) (*TraceFunction, error) {
	functions, err := LoadAll(directory)
	if err != nil {
		return nil, err
	}
	return matchPrefix(functions, prefix)
}

func matchPrefix(functions []*TraceFunction, prefix string) (*TraceFunction, error) {
	var matches []*TraceFunction
	for _, function := range functions {
		if function.ID == prefix {
			return function, nil
		}
		if strings.HasPrefix(function.ID, prefix) {
			matches = append(matches, function)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("trace function %q: %w", prefix, workgraph.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, match := range matches {
		ids[i] = match.ID
	}
	return nil, &AmbiguousError{Prefix: prefix, Matches: ids}
}
