// Package tasks maintains the role-scoped local task cache and issues scoped
// reads and writes against the remote task boundary.
package tasks

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/repository"
	"github.com/taskdesk/client/usecase"
	"github.com/taskdesk/client/usecase/access"
)

// IdentityProvider supplies the identity the cache is scoped to.
type IdentityProvider interface {
	Identity() *domain.Identity
}

// Repository is the single owner of the task cache. Every successful List is
// a full replacement of the scoped set, never a partial patch; the push
// boundary does not carry enough information to patch incrementally.
type Repository struct {
	gateway repository.TaskGateway
	who     IdentityProvider
	hub     *usecase.Broadcaster
	logger  *zap.Logger

	mu         sync.RWMutex
	cache      map[string]domain.Task
	generation uint64
}

func New(gateway repository.TaskGateway, who IdentityProvider, hub *usecase.Broadcaster, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		gateway: gateway,
		who:     who,
		hub:     hub,
		logger:  logger,
		cache:   make(map[string]domain.Task),
	}
}

// List fetches the tasks visible to the current identity and atomically
// replaces the cache with the result. A response that arrives after the
// cache generation moved on (sign-out, teardown) is discarded rather than
// applied. Returns the resulting cache snapshot.
func (r *Repository) List(ctx context.Context) ([]domain.Task, error) {
	identity := r.who.Identity()
	if identity == nil {
		return nil, domain.ErrNotAuthenticated
	}
	scope := access.ViewScope(identity.Role, identity.ID)

	r.mu.RLock()
	generation := r.generation
	r.mu.RUnlock()

	fetched, err := r.gateway.List(ctx, scope.Hint)
	if err != nil {
		return nil, err
	}

	// The scope hint narrows server-side; the predicate re-filters locally
	// so a lax server response cannot widen the visible set.
	scoped := make(map[string]domain.Task, len(fetched))
	for _, t := range fetched {
		if scope.Match(t) {
			scoped[t.ID] = t
		}
	}

	r.mu.Lock()
	if r.generation != generation {
		r.mu.Unlock()
		r.logger.Debug("list response discarded, cache generation moved on")
		return r.Snapshot(), nil
	}
	r.cache = scoped
	r.mu.Unlock()

	snapshot := r.Snapshot()
	if r.hub != nil {
		r.hub.Publish(snapshot)
	}
	return snapshot, nil
}

// Create validates and submits a task draft. The cache is not touched; the
// caller follows a successful create with List so UI feedback and cache
// consistency stay decoupled.
func (r *Repository) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	identity := r.who.Identity()
	if identity == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if draft.Status == "" {
		draft.Status = domain.StatusOpen
	}
	if draft.Priority == "" {
		draft.Priority = domain.PriorityMedium
	}
	if err := validateDraft(identity.Role, draft); err != nil {
		return nil, err
	}
	return r.gateway.Create(ctx, draft)
}

// UpdateStatus submits a partial update for one task. NOT_FOUND means the id
// is no longer visible or existent; the cache is left unchanged either way
// and the caller is expected to refresh.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	if r.who.Identity() == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if id == "" || !status.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	return r.gateway.UpdateStatus(ctx, id, status)
}

// Delete removes a task after checking the role rules against the cached
// copy. Unknown ids fail fast with NOT_FOUND.
func (r *Repository) Delete(ctx context.Context, id string) error {
	identity := r.who.Identity()
	if identity == nil {
		return domain.ErrNotAuthenticated
	}

	r.mu.RLock()
	task, ok := r.cache[id]
	r.mu.RUnlock()
	if !ok {
		return domain.ErrTaskNotFound
	}
	if !access.CanDelete(identity.Role, task, identity.ID) {
		return domain.ErrForbidden
	}
	return r.gateway.Delete(ctx, id)
}

// Snapshot returns a copy of the cache in stable order.
func (r *Repository) Snapshot() []domain.Task {
	r.mu.RLock()
	out := make([]domain.Task, 0, len(r.cache))
	for _, t := range r.cache {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Get returns the cached task with the given id, if visible.
func (r *Repository) Get(id string) (domain.Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.cache[id]
	return t, ok
}

// Len returns the number of cached tasks.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Clear empties the cache and bumps the generation so in-flight List
// responses are discarded instead of resurrecting stale state. Called on
// sign-out and teardown.
func (r *Repository) Clear() {
	r.mu.Lock()
	r.cache = make(map[string]domain.Task)
	r.generation++
	r.mu.Unlock()

	if r.hub != nil {
		r.hub.Publish(nil)
	}
}

func validateDraft(role domain.Role, draft domain.TaskDraft) error {
	if draft.Title == "" {
		return domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if !draft.Priority.Valid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown priority")
	}
	if !draft.Status.Valid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown status")
	}
	if draft.AssignedTo != nil {
		if !access.CanAssign(role) {
			return domain.ErrForbidden
		}
		if !access.CanBeAssignee(draft.AssignedTo.Role) {
			return domain.NewError(domain.ErrCodeInvalid, "assignee role not assignable")
		}
	}
	return nil
}
