package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service resolves JWT claims into a verified principal.
type Service interface {
	Resolve(ctx context.Context, userID int64) (Principal, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type service struct {
	users userFinder
}

// ServiceParams bundles the dependencies required to build the authz service.
type ServiceParams struct {
	UserRepo userFinder
}

// NewService constructs the principal resolver.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{users: params.UserRepo}, nil
}

// Resolve loads the user behind the token and verifies the account is usable.
// A token for a deleted user is treated as unauthorized, a deactivated one as forbidden.
func (s *service) Resolve(ctx context.Context, userID int64) (Principal, error) {
	if userID <= 0 {
		return Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token subject")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return Principal{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		return Principal{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	return Principal{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}
