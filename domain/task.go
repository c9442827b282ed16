package domain

import "time"

// Priority is the task urgency band.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the task lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// Task is a server-owned work item. The client only ever holds copies; the
// authoritative record lives behind the task boundary. CreatedBy is set once
// at creation and never changes. AssignedTo may be nil (unassigned).
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  *Identity  `json:"assigned_to,omitempty"`
	CreatedBy   Identity   `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOverdue reports whether the task has a due date in the past while still
// being actionable. Completed and closed tasks are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.DueDate == nil {
		return false
	}
	if t.Status == StatusCompleted || t.Status == StatusClosed {
		return false
	}
	return t.DueDate.Before(now)
}

// TaskDraft carries the caller-supplied fields of a new task. The server
// assigns ID, CreatedBy and CreatedAt.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  *Identity  `json:"assigned_to,omitempty"`
}
