// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package beads

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/bureau-foundation/workgraph/lib/workgraph"
)

// Entry is one line of a beads JSONL export.
type Entry struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       string       `json:"status"`
	Priority     int          `json:"priority"`
	IssueType    string       `json:"issue_type"`
	Labels       []string     `json:"labels"`
	CreatedAt    string       `json:"created_at"`
	CreatedBy    string       `json:"created_by"`
	UpdatedAt    string       `json:"updated_at"`
	ClosedAt     string       `json:"closed_at"`
	CloseReason  string       `json:"close_reason"`
	Dependencies []Dependency `json:"dependencies"`
}

// Dependency is a beads dependency edge. IssueID owns the edge;
// DependsOnID is the target.
type Dependency struct {
	IssueID     string `json:"issue_id"`
	DependsOnID string `json:"depends_on_id"`
	Type        string `json:"type"`
}

// ParseStatus maps a beads status to a workgraph status.
func ParseStatus(status string) (workgraph.Status, error) {
	switch status {
	case "open", "deferred", "":
		return workgraph.StatusOpen, nil
	case "in_progress":
		return workgraph.StatusInProgress, nil
	case "blocked":
		return workgraph.StatusBlocked, nil
	case "closed":
		return workgraph.StatusDone, nil
	case "tombstone":
		return workgraph.StatusAbandoned, nil
	default:
		return "", fmt.Errorf("unknown beads status %q", status)
	}
}

// ToTask converts one entry.
func ToTask(entry Entry) (*workgraph.Task, error) {
	status, err := ParseStatus(entry.Status)
	if err != nil {
		return nil, fmt.Errorf("issue %s: %w", entry.ID, err)
	}

	task := &workgraph.Task{
		ID:          entry.ID,
		Title:       entry.Title,
		Description: entry.Description,
		Status:      status,
		CreatedAt:   entry.CreatedAt,
	}
	task.Tags = append(task.Tags, entry.Labels...)
	if entry.IssueType != "" {
		task.Tags = append(task.Tags, "type:"+entry.IssueType)
	}
	if status == workgraph.StatusDone {
		task.CompletedAt = entry.ClosedAt
	}
	if entry.CloseReason != "" {
		timestamp := entry.ClosedAt
		if timestamp == "" {
			timestamp = entry.UpdatedAt
		}
		task.Log = append(task.Log, workgraph.LogEntry{
			Timestamp: timestamp,
			Actor:     entry.CreatedBy,
			Message:   "Closed in beads: " + entry.CloseReason,
		})
	}

	for _, dependency := range entry.Dependencies {
		// The export repeats edges under both endpoints on some
		// versions; only the owner's edges describe this issue.
		if dependency.IssueID != entry.ID || dependency.Type != "blocks" {
			continue
		}
		task.BlockedBy = append(task.BlockedBy, dependency.DependsOnID)
	}
	return task, nil
}

// maxLineSize bounds one export line. Long descriptions exceed
// bufio.Scanner's 64 KiB default.
const maxLineSize = 1024 * 1024

// Decode reads a beads export.
func Decode(r io.Reader) ([]*workgraph.Task, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var tasks []*workgraph.Task
	seen := make(map[string]bool)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if entry.ID == "" {
			return nil, fmt.Errorf("line %d: missing id field", lineNumber)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("line %d: issue %s: %w", lineNumber, entry.ID, workgraph.ErrAlreadyExists)
		}
		seen[entry.ID] = true

		task, err := ToTask(entry)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		tasks = append(tasks, task)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading beads export: %w", err)
	}
	return tasks, nil
}

// LoadFile reads a beads export from path.
func LoadFile(path string) ([]*workgraph.Task, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening beads export: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// RenameIDs rewrites the id prefix of every task from sourcePrefix to
// targetPrefix, in ids, blocked_by lists, titles, and descriptions.
// Ids without the source prefix are unchanged.
func RenameIDs(tasks []*workgraph.Task, sourcePrefix, targetPrefix string) {
	if sourcePrefix == "" || sourcePrefix == targetPrefix {
		return
	}
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(sourcePrefix) + `-([0-9a-z.]+)\b`)
	replacement := targetPrefix + "-$1"
	rename := func(id string) string {
		if rest, ok := strings.CutPrefix(id, sourcePrefix+"-"); ok {
			return targetPrefix + "-" + rest
		}
		return id
	}

	for _, task := range tasks {
		task.ID = rename(task.ID)
		for i, blocker := range task.BlockedBy {
			task.BlockedBy[i] = rename(blocker)
		}
		for i, blocked := range task.Blocks {
			task.Blocks[i] = rename(blocked)
		}
		task.Title = pattern.ReplaceAllString(task.Title, replacement)
		task.Description = pattern.ReplaceAllString(task.Description, replacement)
	}
}

// Result reports what Import did.
type Result struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

// Import adds tasks to graph in order and fills each blocker's blocks
// list from the imported blocked_by edges. A task whose id is already
// in the graph is skipped when skipExisting is set and fails the import
// otherwise; a failed import leaves graph unchanged.
func Import(graph *workgraph.Graph, tasks []*workgraph.Task, skipExisting bool) (Result, error) {
	result := Result{Added: []string{}, Skipped: []string{}}
	var accepted []*workgraph.Task
	for _, task := range tasks {
		if graph.Has(task.ID) {
			if !skipExisting {
				return Result{}, fmt.Errorf("task %s: %w", task.ID, workgraph.ErrAlreadyExists)
			}
			result.Skipped = append(result.Skipped, task.ID)
			continue
		}
		accepted = append(accepted, task)
	}

	byID := make(map[string]*workgraph.Task, len(accepted))
	for _, task := range accepted {
		if _, duplicate := byID[task.ID]; duplicate {
			return Result{}, fmt.Errorf("task %s: %w", task.ID, workgraph.ErrAlreadyExists)
		}
		byID[task.ID] = task
	}
	for _, task := range accepted {
		for _, blocker := range task.BlockedBy {
			if target, ok := byID[blocker]; ok && !slices.Contains(target.Blocks, task.ID) {
				target.Blocks = append(target.Blocks, task.ID)
			}
		}
	}

	for _, task := range accepted {
		if err := graph.Add(task); err != nil {
			return Result{}, err
		}
		result.Added = append(result.Added, task.ID)
	}
	return result, nil
}
