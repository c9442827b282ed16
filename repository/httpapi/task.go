package httpapi

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskdesk/client/api/transport"
	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/repository"
)

// TaskGateway implements repository.TaskGateway over the HTTP API.
type TaskGateway struct {
	client *Client
}

func NewTaskGateway(client *Client) *TaskGateway {
	return &TaskGateway{client: client}
}

func (g *TaskGateway) List(ctx context.Context, scope repository.ScopeHint) ([]domain.Task, error) {
	uri := "/api/v1/tasks"
	if scope != "" {
		uri += "?scope=" + string(scope)
	}
	var out []domain.Task
	if err := g.client.do(ctx, fasthttp.MethodGet, uri, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *TaskGateway) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	req := transport.TaskCreateRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    string(draft.Priority),
		Status:      string(draft.Status),
	}
	if draft.DueDate != nil {
		req.DueDate = draft.DueDate.Format(time.RFC3339)
	}
	if draft.AssignedTo != nil {
		req.AssignedToID = draft.AssignedTo.ID
	}

	var out domain.Task
	if err := g.client.do(ctx, fasthttp.MethodPost, "/api/v1/tasks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *TaskGateway) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	var out domain.Task
	err := g.client.do(ctx, fasthttp.MethodPatch, "/api/v1/tasks/"+id, transport.TaskPatchRequest{
		Status: string(status),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *TaskGateway) Delete(ctx context.Context, id string) error {
	return g.client.do(ctx, fasthttp.MethodDelete, "/api/v1/tasks/"+id, nil, nil)
}

var _ repository.TaskGateway = (*TaskGateway)(nil)
