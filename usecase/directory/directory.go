// Package directory exposes the user-directory operations available to
// Manager and Admin sessions.
package directory

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/repository"
	"github.com/taskdesk/client/usecase/access"
)

// IdentityProvider supplies the acting identity for permission checks.
type IdentityProvider interface {
	Identity() *domain.Identity
}

type UseCase struct {
	gateway repository.DirectoryGateway
	who     IdentityProvider
	logger  *zap.Logger
}

func New(gateway repository.DirectoryGateway, who IdentityProvider, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		gateway: gateway,
		who:     who,
		logger:  logger,
	}
}

// Users lists the identities visible to the acting role.
func (uc *UseCase) Users(ctx context.Context) ([]domain.Identity, error) {
	identity := uc.who.Identity()
	if identity == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !access.CanManageUsers(identity.Role) {
		return nil, domain.ErrForbidden
	}
	return uc.gateway.Users(ctx)
}

// CreateUser registers a new identity. The requested role must be within the
// acting role's assignable set.
func (uc *UseCase) CreateUser(ctx context.Context, profile domain.Profile) (*domain.Identity, error) {
	identity := uc.who.Identity()
	if identity == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !access.CanManageUsers(identity.Role) {
		return nil, domain.ErrForbidden
	}
	if profile.Email == "" || profile.DisplayName == "" {
		return nil, domain.ErrInvalidPayload
	}
	if !access.CanAssignRole(identity.Role, profile.Role) {
		return nil, domain.NewError(domain.ErrCodeForbidden, "role not grantable")
	}
	return uc.gateway.CreateUser(ctx, profile)
}

// AssignableUsers lists directory identities eligible as task assignees.
func (uc *UseCase) AssignableUsers(ctx context.Context) ([]domain.Identity, error) {
	users, err := uc.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		if access.CanBeAssignee(u.Role) {
			out = append(out, u)
		}
	}
	return out, nil
}
