// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workgraph

import (
	"fmt"
	"time"
)

// Log messages written by Reject.
const (
	RejectedPrefix   = "Work rejected: "
	RejectedNoReason = "Work rejected (no reason given)"
)

func stamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

func (g *Graph) requireTask(id string) (*Task, error) {
	task, ok := g.Task(id)
	if !ok {
		return nil, notFound(KindTask, id)
	}
	return task, nil
}

// MarkDone moves a task to done from any status and sets
// completed_at. Marking an already-done task is a successful no-op:
// changed is false and completed_at keeps its original value.
func (g *Graph) MarkDone(id string, now time.Time) (changed bool, err error) {
	task, err := g.requireTask(id)
	if err != nil {
		return false, err
	}
	if task.Status == StatusDone {
		return false, nil
	}
	task.Status = StatusDone
	task.CompletedAt = stamp(now)
	return true, nil
}

// Reject sends completed or in-progress work back to open. The task
// loses its assignee, its retry count goes up by one, and a log entry
// records the reason and who rejected it. Rejecting from any other
// status fails with a *TransitionError.
func (g *Graph) Reject(id, reason, actor string, now time.Time) error {
	task, err := g.requireTask(id)
	if err != nil {
		return err
	}
	switch task.Status.Effective() {
	case StatusDone, StatusInProgress:
	default:
		return &TransitionError{TaskID: id, Operation: "reject", From: task.Status}
	}

	message := RejectedNoReason
	if reason != "" {
		message = RejectedPrefix + reason
	}
	task.Status = StatusOpen
	task.Assigned = ""
	task.RetryCount++
	task.Log = append(task.Log, LogEntry{Timestamp: stamp(now), Actor: actor, Message: message})
	return nil
}

// AddLog appends a message to a task's log without touching its
// status.
func (g *Graph) AddLog(id, actor, message string, now time.Time) (LogEntry, error) {
	task, err := g.requireTask(id)
	if err != nil {
		return LogEntry{}, err
	}
	if message == "" {
		return LogEntry{}, fmt.Errorf("log message for task %q is empty", id)
	}
	entry := LogEntry{Timestamp: stamp(now), Actor: actor, Message: message}
	task.Log = append(task.Log, entry)
	return entry, nil
}

// Heartbeat records that an actor is alive by setting last_seen.
func (g *Graph) Heartbeat(actorID string, now time.Time) (string, error) {
	actor, ok := g.Actor(actorID)
	if !ok {
		return "", notFound(KindActor, actorID)
	}
	actor.LastSeen = stamp(now)
	return actor.LastSeen, nil
}

// Claim starts work on an open task. When actor is non-empty the task
// is assigned to it.
func (g *Graph) Claim(id, actor string, now time.Time) error {
	task, err := g.requireTask(id)
	if err != nil {
		return err
	}
	if task.Status != StatusOpen {
		return &TransitionError{TaskID: id, Operation: "claim", From: task.Status}
	}
	task.Status = StatusInProgress
	task.StartedAt = stamp(now)
	message := "Claimed"
	if actor != "" {
		task.Assigned = actor
		message = "Claimed by " + actor
	}
	task.Log = append(task.Log, LogEntry{Timestamp: stamp(now), Actor: actor, Message: message})
	return nil
}

// Fail marks in-progress work as failed and records why.
func (g *Graph) Fail(id, reason, actor string, now time.Time) error {
	task, err := g.requireTask(id)
	if err != nil {
		return err
	}
	if task.Status.Effective() != StatusInProgress {
		return &TransitionError{TaskID: id, Operation: "fail", From: task.Status}
	}
	task.Status = StatusFailed
	task.FailureReason = reason
	message := "Task failed"
	if reason != "" {
		message = "Task failed: " + reason
	}
	task.Log = append(task.Log, LogEntry{Timestamp: stamp(now), Actor: actor, Message: message})
	return nil
}

// Abandon gives up on a task that is not done. The node stays in the
// graph.
func (g *Graph) Abandon(id, reason, actor string, now time.Time) error {
	task, err := g.requireTask(id)
	if err != nil {
		return err
	}
	switch task.Status {
	case StatusDone, StatusAbandoned:
		return &TransitionError{TaskID: id, Operation: "abandon", From: task.Status}
	}
	task.Status = StatusAbandoned
	message := "Task abandoned"
	if reason != "" {
		message = "Task abandoned: " + reason
	}
	task.Log = append(task.Log, LogEntry{Timestamp: stamp(now), Actor: actor, Message: message})
	return nil
}

// Retry re-opens a failed task. When max_retries is set and the task
// has already been retried that many times, Retry refuses.
func (g *Graph) Retry(id, actor string, now time.Time) error {
	task, err := g.requireTask(id)
	if err != nil {
		return err
	}
	if task.Status != StatusFailed {
		return &TransitionError{TaskID: id, Operation: "retry", From: task.Status}
	}
	if task.MaxRetries != nil && task.RetryCount >= *task.MaxRetries {
		return &TransitionError{
			TaskID:    id,
			Operation: "retry",
			From:      task.Status,
			Reason:    fmt.Sprintf("retry limit %d reached", *task.MaxRetries),
		}
	}
	task.Status = StatusOpen
	task.Assigned = ""
	task.FailureReason = ""
	task.RetryCount++
	task.Log = append(task.Log, LogEntry{
		Timestamp: stamp(now),
		Actor:     actor,
		Message:   fmt.Sprintf("Retry %d", task.RetryCount),
	})
	return nil
}
