// Package view derives presentation-ready aggregates from a task snapshot.
// Everything here is pure: same snapshot and clock reading, same result.
package view

import (
	"time"

	"github.com/taskdesk/client/domain"
)

// Counts summarizes a task snapshot for the dashboard cards.
type Counts struct {
	Total      int
	Completed  int
	InProgress int
	Overdue    int
}

// Count tallies the snapshot against the given clock reading.
func Count(tasks []domain.Task, now time.Time) Counts {
	var c Counts
	c.Total = len(tasks)
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case domain.StatusCompleted:
			c.Completed++
		case domain.StatusInProgress:
			c.InProgress++
		}
		if t.IsOverdue(now) {
			c.Overdue++
		}
	}
	return c
}

// Filter returns the tasks matching every non-empty filter. Empty filters
// impose no constraint; filters compose with AND.
func Filter(tasks []domain.Task, status domain.Status, priority domain.Priority) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if status != "" && t.Status != status {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Overdue returns the subset of the snapshot that is overdue at now.
func Overdue(tasks []domain.Task, now time.Time) []domain.Task {
	out := make([]domain.Task, 0)
	for i := range tasks {
		if tasks[i].IsOverdue(now) {
			out = append(out, tasks[i])
		}
	}
	return out
}
