package repository

import (
	"context"

	"github.com/taskdesk/client/domain"
)

// AuthGateway is the remote authentication boundary. Verify resolves the
// identity behind the currently attached credential.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context) (*domain.Identity, error)
	Register(ctx context.Context, profile domain.Profile) (*domain.Identity, error)
}
