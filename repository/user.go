package repository

import (
	"context"

	"github.com/taskdesk/client/domain"
)

// DirectoryGateway is the user-directory boundary, reachable for Manager and
// Admin sessions only.
type DirectoryGateway interface {
	Users(ctx context.Context) ([]domain.Identity, error)
	CreateUser(ctx context.Context, profile domain.Profile) (*domain.Identity, error)
}
