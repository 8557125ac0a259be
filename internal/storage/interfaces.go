// Package storage declares the persistence interfaces for the service.
package storage

import (
	"context"
	"errors"

	"github.com/medbridge/insurance-api/internal/domain/claim"
	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
)

// ErrNotFound is returned when a row id does not resolve.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// UserStore persists user rows. Email uniqueness is enforced by the store.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// PolicyStore persists policy rows. Policy numbers are unique.
type PolicyStore interface {
	CreatePolicy(ctx context.Context, p policy.Policy) (policy.Policy, error)
	UpdatePolicy(ctx context.Context, p policy.Policy) (policy.Policy, error)
	GetPolicy(ctx context.Context, id string) (policy.Policy, error)
	ListPolicies(ctx context.Context) ([]policy.Policy, error)
	ListPoliciesByUser(ctx context.Context, userID string) ([]policy.Policy, error)
	ListPoliciesByProgram(ctx context.Context, program policy.Program) ([]policy.Policy, error)
	PolicyNumberExists(ctx context.Context, number string) (bool, error)
}

// ClaimStore persists claim rows. Claim numbers are unique.
type ClaimStore interface {
	CreateClaim(ctx context.Context, c claim.Claim) (claim.Claim, error)
	UpdateClaim(ctx context.Context, c claim.Claim) (claim.Claim, error)
	GetClaim(ctx context.Context, id string) (claim.Claim, error)
	ListClaims(ctx context.Context) ([]claim.Claim, error)
	ListClaimsByUser(ctx context.Context, userID string) ([]claim.Claim, error)
	ClaimNumberExists(ctx context.Context, number string) (bool, error)
}
