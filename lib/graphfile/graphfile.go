// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graphfile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/workgraph/lib/atomicfile"
	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// FileName is the graph file's name inside a workgraph directory.
const FileName = "graph.jsonl"

// ErrNotInitialized is returned by LoadDir when the directory has no
// graph file.
var ErrNotInitialized = errors.New("workgraph not initialized (run 'wg init' first)")

// ParseError reports a record that could not be decoded.
type ParseError struct {
	// Line is 1-based.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Path returns the graph file path inside a workgraph directory.
func Path(directory string) string {
	return filepath.Join(directory, FileName)
}

// envelope peeks at a record's discriminant before decoding the body.
type envelope struct {
	Kind workgraph.Kind `json:"kind"`
}

type taskRecord struct {
	Kind workgraph.Kind `json:"kind"`
	*workgraph.Task
}

type actorRecord struct {
	Kind workgraph.Kind `json:"kind"`
	*workgraph.Actor
}

type resourceRecord struct {
	Kind workgraph.Kind `json:"kind"`
	*workgraph.Resource
}

// Decode reads a graph from r.
func Decode(r io.Reader) (*workgraph.Graph, error) {
	graph := workgraph.New()
	reader := bufio.NewReader(r)
	lineNumber := 0
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			lineNumber++
			if err := decodeLine(graph, line); err != nil {
				return nil, &ParseError{Line: lineNumber, Err: err}
			}
		}
		if readErr == io.EOF {
			return graph, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading graph: %w", readErr)
		}
	}
}

func decodeLine(graph *workgraph.Graph, line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	var header envelope
	if err := json.Unmarshal(line, &header); err != nil {
		return err
	}

	var node workgraph.Node
	switch header.Kind {
	case workgraph.KindTask:
		record := taskRecord{Task: &workgraph.Task{}}
		if err := json.Unmarshal(line, &record); err != nil {
			return err
		}
		if record.Task.Status == "" {
			record.Task.Status = workgraph.StatusOpen
		}
		node = record.Task
	case workgraph.KindActor:
		record := actorRecord{Actor: &workgraph.Actor{}}
		if err := json.Unmarshal(line, &record); err != nil {
			return err
		}
		if record.Actor.TrustLevel == "" {
			record.Actor.TrustLevel = workgraph.TrustProvisional
		}
		node = record.Actor
	case workgraph.KindResource:
		record := resourceRecord{Resource: &workgraph.Resource{}}
		if err := json.Unmarshal(line, &record); err != nil {
			return err
		}
		node = record.Resource
	case "":
		return errors.New(`record has no "kind" field`)
	default:
		return nil
	}

	if node.NodeID() == "" {
		return fmt.Errorf("%s record has no id", header.Kind)
	}
	return graph.Add(node)
}

// Encode writes every node in graph order, one record per line.
func Encode(w io.Writer, graph *workgraph.Graph) error {
	buffered := bufio.NewWriter(w)
	for _, node := range graph.Nodes() {
		line, err := encodeNode(node)
		if err != nil {
			return fmt.Errorf("encoding %s %q: %w", node.Kind(), node.NodeID(), err)
		}
		buffered.Write(line)
		buffered.WriteByte('\n')
	}
	return buffered.Flush()
}

func encodeNode(node workgraph.Node) ([]byte, error) {
	switch value := node.(type) {
	case *workgraph.Task:
		return json.Marshal(taskRecord{Kind: workgraph.KindTask, Task: value})
	case *workgraph.Actor:
		return json.Marshal(actorRecord{Kind: workgraph.KindActor, Actor: value})
	case *workgraph.Resource:
		return json.Marshal(resourceRecord{Kind: workgraph.KindResource, Resource: value})
	}
	return nil, fmt.Errorf("unsupported node type %T", node)
}

// Marshal returns the serialized form of graph.
func Marshal(graph *workgraph.Graph) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Encode(&buffer, graph); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Load reads the graph file at path.
func Load(path string) (*workgraph.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	graph, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return graph, nil
}

// LoadDir reads the graph inside a workgraph directory. A missing
// graph file is reported as ErrNotInitialized.
func LoadDir(directory string) (*workgraph.Graph, error) {
	graph, err := Load(Path(directory))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotInitialized
	}
	return graph, err
}

// Save atomically replaces the file at path with graph. The whole
// graph is serialized before anything touches disk, so an encoding
// failure never produces a file at all.
func Save(path string, graph *workgraph.Graph) error {
	data, err := Marshal(graph)
	if err != nil {
		return err
	}
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("saving graph: %w", err)
	}
	return nil
}

// SaveDir writes graph into a workgraph directory.
func SaveDir(directory string, graph *workgraph.Graph) error {
	return Save(Path(directory), graph)
}
