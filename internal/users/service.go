package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parkpals/parkpals-backend/internal/authz"
	"github.com/parkpals/parkpals-backend/pkg/config"
	"github.com/parkpals/parkpals-backend/pkg/db"
	"github.com/parkpals/parkpals-backend/pkg/db/models"
	pkgerrors "github.com/parkpals/parkpals-backend/pkg/errors"
	"github.com/parkpals/parkpals-backend/pkg/security"
	"gorm.io/gorm"
)

// Service exposes profile and admin user management operations.
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*UserDTO, error)
	UpdateProfile(ctx context.Context, principal authz.Principal, dto UpdateUserDTO) (*UserDTO, error)
	ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error

	CreateUser(ctx context.Context, dto AdminCreateUserRequest) (*UserDTO, error)
	ListUsers(ctx context.Context) ([]UserDTO, error)
	GetUser(ctx context.Context, id int64) (*UserDTO, error)
	UpdateUser(ctx context.Context, id int64, dto UpdateUserDTO) (*UserDTO, error)
	DeactivateUser(ctx context.Context, id int64) error
}

// AdminCreateUserRequest is the admin-facing user creation payload.
type AdminCreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	IsAdmin  bool    `json:"is_admin"`
}

type userRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Deactivate(ctx context.Context, id int64) error
}

type service struct {
	users       userRepository
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	UserRepo       userRepository
	PasswordConfig config.PasswordConfig
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		users:       params.UserRepo,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// GetProfile returns the caller's own account.
func (s *service) GetProfile(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// UpdateProfile applies profile edits for the caller. Only admins may touch
// the is_active/is_admin flags; for everyone else those fields are rejected.
func (s *service) UpdateProfile(ctx context.Context, principal authz.Principal, dto UpdateUserDTO) (*UserDTO, error) {
	if !principal.IsAdmin && (dto.IsActive != nil || dto.IsAdmin != nil) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot change account flags")
	}
	return s.applyUpdate(ctx, principal.UserID, dto)
}

// ChangePassword verifies the current credential before storing a new hash.
func (s *service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store password")
	}
	return nil
}

// CreateUser provisions an account on behalf of an admin.
func (s *service) CreateUser(ctx context.Context, req AdminCreateUserRequest) (*UserDTO, error) {
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		FullName:     req.FullName,
		IsAdmin:      req.IsAdmin,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email or username already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

// ListUsers returns all accounts, active or not, ordered by id.
func (s *service) ListUsers(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// GetUser loads any account by id for admin inspection.
func (s *service) GetUser(ctx context.Context, id int64) (*UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// UpdateUser applies admin edits, including account flags.
func (s *service) UpdateUser(ctx context.Context, id int64, dto UpdateUserDTO) (*UserDTO, error) {
	if _, err := s.loadUser(ctx, id); err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, id, dto)
}

// DeactivateUser disables the account while preserving its visit history.
func (s *service) DeactivateUser(ctx context.Context, id int64) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate user")
	}
	return nil
}

func (s *service) applyUpdate(ctx context.Context, id int64, dto UpdateUserDTO) (*UserDTO, error) {
	user, err := s.users.Update(ctx, id, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email or username already registered")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) loadUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
