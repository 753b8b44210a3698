// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package workgraph

// Kind discriminates the Node variants. It is written as the "kind"
// field of every persisted record.
type Kind string

const (
	KindTask     Kind = "task"
	KindActor    Kind = "actor"
	KindResource Kind = "resource"
)

func (k Kind) String() string { return string(k) }

// Node is a Task, Actor, or Resource. The set of implementations is
// closed: only types in this package satisfy Node.
type Node interface {
	// NodeID returns the node's unique id.
	NodeID() string

	// Kind returns the variant discriminant.
	Kind() Kind

	node()
}

// Task is a unit of work.
type Task struct {
	// ID is chosen by the caller and never changes.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`

	// Assigned is the id of the Actor working this task. It is a
	// soft reference: the actor may not exist yet.
	Assigned string `json:"assigned,omitempty"`

	Estimate *Estimate `json:"estimate,omitempty"`

	// BlockedBy lists the task ids this task waits on. These edges
	// drive readiness.
	BlockedBy []string `json:"blocked_by,omitempty"`

	// Blocks is the informational inverse of BlockedBy. Nothing
	// derives readiness from it.
	Blocks []string `json:"blocks,omitempty"`

	// Requires lists Resource ids consumed by the task.
	Requires []string `json:"requires,omitempty"`

	Tags   []string `json:"tags,omitempty"`
	Skills []string `json:"skills,omitempty"`

	Inputs       []string `json:"inputs,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
	Artifacts    []string `json:"artifacts,omitempty"`

	// Exec is a shell command the executor runs for the task.
	Exec string `json:"exec,omitempty"`

	// NotBefore is an RFC 3339 timestamp before which the executor
	// should not start the task.
	NotBefore string `json:"not_before,omitempty"`

	CreatedAt   string `json:"created_at,omitempty"`
	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`

	Log []LogEntry `json:"log,omitempty"`

	// RetryCount only increases. Reject and Retry each add one.
	RetryCount int  `json:"retry_count,omitempty"`
	MaxRetries *int `json:"max_retries,omitempty"`

	FailureReason string `json:"failure_reason,omitempty"`

	Model  string `json:"model,omitempty"`
	Verify string `json:"verify,omitempty"`
	Agent  string `json:"agent,omitempty"`

	// RoleHint suggests the kind of actor suited to the task.
	RoleHint string `json:"role_hint,omitempty"`

	// LoopsTo holds outgoing loop edges. The executor spawns a new
	// iteration of each edge's target when this task completes.
	LoopsTo []LoopEdge `json:"loops_to,omitempty"`

	// LoopIteration counts how many times this task instance has
	// been re-opened by a loop edge.
	LoopIteration int `json:"loop_iteration,omitempty"`

	// ReadyAfter is an RFC 3339 timestamp set by loop delays.
	ReadyAfter string `json:"ready_after,omitempty"`
}

func (t *Task) NodeID() string { return t.ID }
func (t *Task) Kind() Kind { return KindTask }
func (t *Task) node() {}

// Cost returns estimate.cost, or 0 when there is no estimate.
func (t *Task) Cost() float64 {
	if t.Estimate == nil {
		return 0
	}
	return t.Estimate.Cost
}

// Hours returns estimate.hours, or 0 when there is no estimate.
func (t *Task) Hours() float64 {
	if t.Estimate == nil {
		return 0
	}
	return t.Estimate.Hours
}

// Estimate is the expected effort for a task.
type Estimate struct {
	Hours float64 `json:"hours,omitempty"`
	Cost  float64 `json:"cost,omitempty"`
}

// LogEntry is one line of a task's append-only log.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor,omitempty"`
	Message   string `json:"message"`
}

// LoopEdge allows a completed task to spawn another iteration of
// Target, at most MaxIterations times. On a task, Target is a task
// id; inside a trace function template, it is a template id.
type LoopEdge struct {
	Target        string `json:"target" yaml:"target"`
	MaxIterations int    `json:"max_iterations" yaml:"max_iterations"`

	// Guard is a condition evaluated by the executor. It is carried
	// verbatim and never interpreted here.
	Guard string `json:"guard,omitempty" yaml:"guard,omitempty"`

	// Delay is how long the executor waits before the next
	// iteration becomes ready, as a Go duration string ("30s").
	Delay string `json:"delay,omitempty" yaml:"delay,omitempty"`
}

// Actor is a human or automated agent that performs tasks.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`

	// Rate is cost per hour. Capacity is hours available. Neither
	// has enforced bounds.
	Rate     *float64 `json:"rate,omitempty"`
	Capacity *float64 `json:"capacity,omitempty"`

	Capabilities []string   `json:"capabilities,omitempty"`
	ContextLimit *int       `json:"context_limit,omitempty"`
	TrustLevel   TrustLevel `json:"trust_level"`

	// LastSeen is the RFC 3339 time of the latest heartbeat.
	LastSeen string `json:"last_seen,omitempty"`
}

func (a *Actor) NodeID() string { return a.ID }
func (a *Actor) Kind() Kind { return KindActor }
func (a *Actor) node() {}

// DisplayName returns Name, falling back to the id.
func (a *Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// Resource is something tasks consume. Apart from the id, its fields
// are descriptive only.
type Resource struct {
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	Type      string            `json:"type,omitempty"`
	Available *float64          `json:"available,omitempty"`
	Unit      string            `json:"unit,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (r *Resource) NodeID() string { return r.ID }
func (r *Resource) Kind() Kind { return KindResource }
func (r *Resource) node() {}

// DisplayName returns Name, falling back to the id.
func (r *Resource) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
