// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medbridge/insurance-api/internal/domain/claim"
	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/storage"
)

// Store is the in-memory store.
type Store struct {
	mu           sync.RWMutex
	users        map[string]user.User
	usersByEmail map[string]string
	policies     map[string]policy.Policy
	policyNums   map[string]string
	claims       map[string]claim.Claim
	claimNums    map[string]string
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.PolicyStore = (*Store)(nil)
var _ storage.ClaimStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:        make(map[string]user.User),
		usersByEmail: make(map[string]string),
		policies:     make(map[string]policy.Policy),
		policyNums:   make(map[string]string),
		claims:       make(map[string]claim.Claim),
		claimNums:    make(map[string]string),
	}
}

// UserStore implementation ---------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := s.usersByEmail[email]; exists {
		return user.User{}, storage.ErrDuplicate
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u
	s.usersByEmail[email] = u.ID
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}

	email := strings.ToLower(u.Email)
	if prevID, exists := s.usersByEmail[email]; exists && prevID != u.ID {
		return user.User{}, storage.ErrDuplicate
	}
	if !strings.EqualFold(original.Email, u.Email) {
		delete(s.usersByEmail, strings.ToLower(original.Email))
		s.usersByEmail[email] = u.ID
	}

	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// PolicyStore implementation -------------------------------------------------

func (s *Store) CreatePolicy(_ context.Context, p policy.Policy) (policy.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.policyNums[p.PolicyNumber]; exists {
		return policy.Policy{}, storage.ErrDuplicate
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.policies[p.ID] = p
	s.policyNums[p.PolicyNumber] = p.ID
	return p, nil
}

func (s *Store) UpdatePolicy(_ context.Context, p policy.Policy) (policy.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.policies[p.ID]
	if !ok {
		return policy.Policy{}, storage.ErrNotFound
	}

	// policy number and provenance are immutable
	p.PolicyNumber = original.PolicyNumber
	p.CreatedBy = original.CreatedBy
	p.CreatedAt = original.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	s.policies[p.ID] = p
	return p, nil
}

func (s *Store) GetPolicy(_ context.Context, id string) (policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[id]
	if !ok {
		return policy.Policy{}, storage.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListPolicies(_ context.Context) ([]policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]policy.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListPoliciesByUser(_ context.Context, userID string) ([]policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []policy.Policy
	for _, p := range s.policies {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListPoliciesByProgram(_ context.Context, program policy.Program) ([]policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []policy.Policy
	for _, p := range s.policies {
		if p.PayerProgram == program {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) PolicyNumberExists(_ context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.policyNums[number]
	return exists, nil
}

// ClaimStore implementation --------------------------------------------------

func (s *Store) CreateClaim(_ context.Context, c claim.Claim) (claim.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.claimNums[c.ClaimNumber]; exists {
		return claim.Claim{}, storage.ErrDuplicate
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	s.claims[c.ID] = c
	s.claimNums[c.ClaimNumber] = c.ID
	return c, nil
}

func (s *Store) UpdateClaim(_ context.Context, c claim.Claim) (claim.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.claims[c.ID]
	if !ok {
		return claim.Claim{}, storage.ErrNotFound
	}

	c.ClaimNumber = original.ClaimNumber
	c.CreatedAt = original.CreatedAt
	c.UpdatedAt = time.Now().UTC()

	s.claims[c.ID] = c
	return c, nil
}

func (s *Store) GetClaim(_ context.Context, id string) (claim.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.claims[id]
	if !ok {
		return claim.Claim{}, storage.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListClaims(_ context.Context) ([]claim.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]claim.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListClaimsByUser(_ context.Context, userID string) ([]claim.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []claim.Claim
	for _, c := range s.claims {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ClaimNumberExists(_ context.Context, number string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.claimNums[number]
	return exists, nil
}
