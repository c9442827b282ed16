package httpapi

import (
	"context"

	"github.com/valyala/fasthttp"

	"github.com/taskdesk/client/api/transport"
	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/repository"
)

// AuthGateway implements repository.AuthGateway over the HTTP API.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidPayload
	}
	var out transport.LoginResponse
	err := g.client.do(ctx, fasthttp.MethodPost, "/api/v1/auth/login", transport.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", domain.NewError(domain.ErrCodeRemote, "login response missing token")
	}
	return out.Token, nil
}

func (g *AuthGateway) Verify(ctx context.Context) (*domain.Identity, error) {
	var out domain.Identity
	if err := g.client.do(ctx, fasthttp.MethodGet, "/api/v1/auth/verify", nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || !out.Role.Valid() {
		return nil, domain.NewError(domain.ErrCodeRemote, "verify response malformed")
	}
	return &out, nil
}

func (g *AuthGateway) Register(ctx context.Context, profile domain.Profile) (*domain.Identity, error) {
	var out domain.Identity
	err := g.client.do(ctx, fasthttp.MethodPost, "/api/v1/auth/register", transport.RegisterRequest{
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

var _ repository.AuthGateway = (*AuthGateway)(nil)
