// Package auth handles credentials and identity tokens: registration,
// login, password hashing, and JWT issue/verify.
package auth

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/storage"
	"github.com/medbridge/insurance-api/pkg/logger"
)

const minPasswordLength = 8

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	Role        user.Role
	Phone       string
	Address     string
	DateOfBirth string
}

// Service implements registration and login on top of the user store.
type Service struct {
	users      storage.UserStore
	tokens     *TokenIssuer
	bcryptCost int
	log        *logger.Logger
}

// New creates the auth service.
func New(users storage.UserStore, tokens *TokenIssuer, bcryptCost int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// Register creates a new user with a hashed password. The role defaults to
// patient when absent.
func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		return user.User{}, errors.Validation("email is required")
	}
	if in.FullName == "" {
		return user.User{}, errors.Validation("full_name is required")
	}
	if in.Password == "" {
		return user.User{}, errors.Validation("password is required")
	}
	if len(in.Password) < minPasswordLength {
		return user.User{}, errors.Validationf("password must be at least %d characters long", minPasswordLength)
	}

	role := in.Role
	if role == "" {
		role = user.RolePatient
	}
	if !role.Valid() {
		return user.User{}, errors.Validation("invalid role, must be one of: patient, provider, administrator")
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return user.User{}, errors.Internal("failed to hash password", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         role,
		Phone:        in.Phone,
		Address:      in.Address,
		DateOfBirth:  in.DateOfBirth,
		IsActive:     true,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrDuplicate) {
			return user.User{}, errors.Conflict("email already exists")
		}
		return user.User{}, errors.Internal("failed to create user", err)
	}

	s.log.WithFields(map[string]any{"user_id": created.ID, "role": created.Role}).Info("user registered")
	return created, nil
}

// Login verifies credentials and returns the user plus a signed token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (user.User, string, error) {
	if email == "" || password == "" {
		return user.User{}, "", errors.Validation("email and password are required")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return user.User{}, "", errors.Unauthorized("invalid email or password")
		}
		return user.User{}, "", errors.Internal("failed to load user", err)
	}

	if !u.IsActive {
		return user.User{}, "", errors.Forbidden("user account is deactivated")
	}

	if !VerifyPassword(password, u.PasswordHash) {
		return user.User{}, "", errors.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return user.User{}, "", err
	}

	s.log.WithFields(map[string]any{"user_id": u.ID}).Info("user logged in")
	return u, token, nil
}

// Authenticate resolves a bearer token to an active user. Deactivated users
// are rejected here, before any authorization decision.
func (s *Service) Authenticate(ctx context.Context, token string) (user.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return user.User{}, err
	}

	u, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return user.User{}, errors.Unauthorized("user not found")
		}
		return user.User{}, errors.Internal("failed to load user", err)
	}

	if !u.IsActive {
		return user.User{}, errors.Forbidden("user account is deactivated")
	}
	return u, nil
}
