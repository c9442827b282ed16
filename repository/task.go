package repository

import (
	"context"

	"github.com/taskdesk/client/domain"
)

// ScopeHint narrows a list request server-side per role. The server applies
// its own enforcement independently; the hint only avoids overfetching.
type ScopeHint string

const (
	ScopeAssigned ScopeHint = "assigned"
	ScopeManager  ScopeHint = "manager"
	ScopeAll      ScopeHint = "all"
)

// TaskGateway is the remote task boundary.
type TaskGateway interface {
	List(ctx context.Context, scope ScopeHint) ([]domain.Task, error)
	Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
