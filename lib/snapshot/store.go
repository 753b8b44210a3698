// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bureau-foundation/workgraph/lib/atomicfile"
	"github.com/bureau-foundation/workgraph/lib/graphfile"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

const (
	// DirName is the snapshot directory inside a workgraph directory.
	DirName = "snapshots"

	// Extension is the snapshot file extension.
	Extension = ".wgsnap"
)

// ErrAmbiguous is returned when an id prefix matches more than one
// snapshot.
var ErrAmbiguous = errors.New("ambiguous snapshot id")

// Dir returns the snapshot directory for a workgraph directory.
func Dir(workgraphDirectory string) string {
	return filepath.Join(workgraphDirectory, DirName)
}

// Options configures Create.
type Options struct {
	Label       string
	Compression Compression
	Now         time.Time
}

// Create writes a snapshot of graph into directory, creating the
// directory when needed. Writing content that already exists is a
// no-op.
func Create(directory string, graph *workgraph.Graph, options Options) (Info, error) {
	createdAt := options.Now.UTC().Format(time.RFC3339)
	data, info, err := Encode(graph, options.Label, createdAt, options.Compression)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return Info{}, fmt.Errorf("creating snapshot directory: %w", err)
	}

	path := filepath.Join(directory, info.ID+Extension)
	if _, err := os.Stat(path); err == nil {
		return info, nil
	}
	if err := atomicfile.Write(path, data, 0o444); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Read loads the snapshot at path and verifies that its content
// matches the digest in its file name.
func Read(path string) (*workgraph.Graph, Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("reading snapshot: %w", err)
	}
	graph, info, err := Decode(data)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if name := strings.TrimSuffix(filepath.Base(path), Extension); name != info.ID {
		return nil, Info{}, fmt.Errorf("%s: %w (content hashes to %s)", filepath.Base(path), ErrDigestMismatch, info.ID)
	}
	return graph, info, nil
}

// List describes every snapshot in directory, oldest first. A missing
// directory holds no snapshots.
func List(directory string) ([]Info, error) {
	entries, err := os.ReadDir(directory)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		_, info, err := Read(filepath.Join(directory, entry.Name()))
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt != infos[j].CreatedAt {
			return infos[i].CreatedAt < infos[j].CreatedAt
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

// FindByPrefix returns the path of the snapshot whose id starts with
// prefix.
func FindByPrefix(directory, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("snapshot id is empty: %w", workgraph.ErrNotFound)
	}
	entries, err := os.ReadDir(directory)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("reading snapshot directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		id, ok := strings.CutSuffix(entry.Name(), Extension)
		if !ok || entry.IsDir() {
			continue
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("snapshot %q: %w", prefix, workgraph.ErrNotFound)
	case 1:
		return filepath.Join(directory, matches[0]+Extension), nil
	}
	sort.Strings(matches)
	return "", fmt.Errorf("%w: %q matches %s", ErrAmbiguous, prefix, strings.Join(matches, ", "))
}

// Restore replaces the graph in workgraphDirectory with the snapshot
// whose id starts with prefix.
func Restore(workgraphDirectory, prefix string) (Info, error) {
	path, err := FindByPrefix(Dir(workgraphDirectory), prefix)
	if err != nil {
		return Info{}, err
	}
	graph, info, err := Read(path)
	if err != nil {
		return Info{}, err
	}
	if err := graphfile.SaveDir(workgraphDirectory, graph); err != nil {
		return Info{}, err
	}
	return info, nil
}
