// Package users implements user management: profile reads and updates,
// role changes, and activation toggles.
package users

import (
	"context"
	stderrors "errors"

	"github.com/medbridge/insurance-api/internal/authz"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/services/auth"
	"github.com/medbridge/insurance-api/internal/storage"
	"github.com/medbridge/insurance-api/pkg/logger"
)

// UpdateInput carries the optional profile fields of an update. Nil fields
// are left unchanged.
type UpdateInput struct {
	FullName    *string
	Phone       *string
	Address     *string
	DateOfBirth *string
	Password    *string
	Role        *user.Role
}

// Service implements user management.
type Service struct {
	users      storage.UserStore
	bcryptCost int
	log        *logger.Logger
}

// New creates the users service.
func New(users storage.UserStore, bcryptCost int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{users: users, bcryptCost: bcryptCost, log: log}
}

// Get returns the user with the given id, subject to the caller's view
// rights: patients see only themselves.
func (s *Service) Get(ctx context.Context, caller user.User, id string) (user.User, error) {
	if !authz.Decide(caller.Role, caller.ID, id, authz.OpViewResource) {
		return user.User{}, errors.Forbidden("you can only view your own profile")
	}

	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return user.User{}, errors.NotFound("user not found")
		}
		return user.User{}, errors.Internal("failed to load user", err)
	}
	return u, nil
}

// List returns every user. Routing restricts this to providers and
// administrators.
func (s *Service) List(ctx context.Context) ([]user.User, error) {
	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, errors.Internal("failed to list users", err)
	}
	return list, nil
}

// Update mutates profile fields. Callers edit their own profile;
// administrators edit anyone's. Role changes are administrator-only.
func (s *Service) Update(ctx context.Context, caller user.User, id string, in UpdateInput) (user.User, error) {
	if !authz.Decide(caller.Role, caller.ID, id, authz.OpUpdateProfile) {
		return user.User{}, errors.Forbidden("you can only update your own profile")
	}
	if in.Role != nil && !authz.Decide(caller.Role, caller.ID, id, authz.OpChangeUserRole) {
		return user.User{}, errors.Forbidden("only administrators can change user roles")
	}

	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return user.User{}, errors.NotFound("user not found")
		}
		return user.User{}, errors.Internal("failed to load user", err)
	}

	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.DateOfBirth != nil {
		u.DateOfBirth = *in.DateOfBirth
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return user.User{}, errors.Validation("invalid role, must be one of: patient, provider, administrator")
		}
		u.Role = *in.Role
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return user.User{}, errors.Validation("password must be at least 8 characters long")
		}
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return user.User{}, errors.Internal("failed to hash password", err)
		}
		u.PasswordHash = hash
	}

	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		if stderrors.Is(err, storage.ErrDuplicate) {
			return user.User{}, errors.Conflict("email already exists")
		}
		return user.User{}, errors.Internal("failed to update user", err)
	}
	return updated, nil
}

// SetActive activates or deactivates a user. Routing restricts this to
// administrators.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (user.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return user.User{}, errors.NotFound("user not found")
		}
		return user.User{}, errors.Internal("failed to load user", err)
	}

	u.IsActive = active
	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, errors.Internal("failed to update user", err)
	}

	s.log.WithFields(map[string]any{"user_id": id, "is_active": active}).Info("user activation changed")
	return updated, nil
}
