package httpapi

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/taskdesk/client/api/transport"
	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/repository"
)

// DirectoryGateway implements repository.DirectoryGateway over the HTTP API.
type DirectoryGateway struct {
	client *Client
}

func NewDirectoryGateway(client *Client) *DirectoryGateway {
	return &DirectoryGateway{client: client}
}

func (g *DirectoryGateway) Users(ctx context.Context) ([]domain.Identity, error) {
	var out []domain.Identity
	if err := g.client.do(ctx, fasthttp.MethodGet, "/api/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *DirectoryGateway) CreateUser(ctx context.Context, profile domain.Profile) (*domain.Identity, error) {
	var out domain.Identity
	err := g.client.do(ctx, fasthttp.MethodPost, "/api/v1/users", transport.RegisterRequest{
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		Password:    profile.Password,
		Role:        string(profile.Role),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var _ repository.DirectoryGateway = (*DirectoryGateway)(nil)
