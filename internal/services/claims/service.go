// Package claims implements the claims lifecycle: submission against an
// active policy, review with approved-amount constraints, and the
// administrator status override.
package claims

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/medbridge/insurance-api/internal/authz"
	"github.com/medbridge/insurance-api/internal/domain/claim"
	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/refnum"
	"github.com/medbridge/insurance-api/internal/storage"
	"github.com/medbridge/insurance-api/pkg/logger"
)

// SubmitInput carries the fields accepted when submitting a claim.
type SubmitInput struct {
	PolicyID         string
	ClaimAmount      float64
	Diagnosis        string
	TreatmentDetails string
	ProviderName     string
	ServiceDate      time.Time
}

// ReviewInput carries a review decision. ApprovedAmount is required when the
// status is approved and ignored otherwise.
type ReviewInput struct {
	Status         claim.Status
	ApprovedAmount *float64
	ReviewNotes    string
}

// Service implements the claims lifecycle.
type Service struct {
	claims   storage.ClaimStore
	policies storage.PolicyStore
	log      *logger.Logger
	now      func() time.Time
}

// New creates the claims service.
func New(claims storage.ClaimStore, policies storage.PolicyStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("claims")
	}
	return &Service{claims: claims, policies: policies, log: log, now: time.Now}
}

// Submit files a new claim by claimant against one of their policies. The
// policy must be active at submission time; later status changes do not
// retroactively invalidate the claim.
func (s *Service) Submit(ctx context.Context, claimant user.User, in SubmitInput) (claim.Claim, error) {
	if in.PolicyID == "" {
		return claim.Claim{}, errors.Validation("policy_id is required")
	}
	if in.ClaimAmount <= 0 {
		return claim.Claim{}, errors.Validation("claim amount must be positive")
	}
	if in.Diagnosis == "" || in.TreatmentDetails == "" || in.ProviderName == "" {
		return claim.Claim{}, errors.Validation("diagnosis, treatment_details and provider_name are required")
	}
	if in.ServiceDate.IsZero() {
		return claim.Claim{}, errors.Validation("service_date is required")
	}
	if in.ServiceDate.After(endOfDay(s.now())) {
		return claim.Claim{}, errors.Validation("service date cannot be in the future")
	}

	p, err := s.policies.GetPolicy(ctx, in.PolicyID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return claim.Claim{}, errors.NotFound("policy not found")
		}
		return claim.Claim{}, errors.Internal("failed to load policy", err)
	}

	if !authz.Decide(claimant.Role, claimant.ID, p.UserID, authz.OpSubmitClaim) {
		return claim.Claim{}, errors.Forbidden("you can only submit claims for your own policies")
	}

	if p.Status != policy.StatusActive {
		return claim.Claim{}, errors.Validation("cannot submit claim for inactive policy")
	}

	number, err := refnum.Unique(ctx, refnum.ClaimPrefix, s.claims.ClaimNumberExists)
	if err != nil {
		return claim.Claim{}, errors.Internal("failed to generate claim number", err)
	}

	created, err := s.claims.CreateClaim(ctx, claim.Claim{
		ClaimNumber:      number,
		PolicyID:         p.ID,
		UserID:           claimant.ID,
		ClaimAmount:      in.ClaimAmount,
		ApprovedAmount:   0,
		Status:           claim.StatusSubmitted,
		Diagnosis:        in.Diagnosis,
		TreatmentDetails: in.TreatmentDetails,
		ProviderName:     in.ProviderName,
		ServiceDate:      in.ServiceDate,
	})
	if err != nil {
		return claim.Claim{}, errors.Internal("failed to create claim", err)
	}

	s.log.WithFields(map[string]any{"claim_id": created.ID, "claim_number": created.ClaimNumber}).Info("claim submitted")
	return created, nil
}

// Review records a review decision by reviewer. Approval requires an
// approved amount within [0, claim_amount]; denial and under_review force it
// to zero. Nothing is persisted when validation fails.
func (s *Service) Review(ctx context.Context, reviewer user.User, claimID string, in ReviewInput) (claim.Claim, error) {
	if !reviewer.Role.Reviewer() {
		return claim.Claim{}, errors.Forbidden("only providers and administrators can review claims")
	}
	if !in.Status.ReviewOutcome() {
		return claim.Claim{}, errors.Validation("status must be one of: under_review, approved, denied")
	}

	c, err := s.claims.GetClaim(ctx, claimID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return claim.Claim{}, errors.NotFound("claim not found")
		}
		return claim.Claim{}, errors.Internal("failed to load claim", err)
	}

	approved := 0.0
	if in.Status == claim.StatusApproved {
		if in.ApprovedAmount == nil {
			return claim.Claim{}, errors.Validation("approved amount is required when approving a claim")
		}
		approved = *in.ApprovedAmount
		if approved < 0 {
			return claim.Claim{}, errors.Validation("approved amount cannot be negative")
		}
		if approved > c.ClaimAmount {
			return claim.Claim{}, errors.Validation("approved amount cannot exceed claim amount")
		}
	}

	now := s.now().UTC()
	c.Status = in.Status
	c.ApprovedAmount = approved
	c.ReviewedBy = reviewer.ID
	c.ReviewedAt = &now
	c.ReviewNotes = in.ReviewNotes

	updated, err := s.claims.UpdateClaim(ctx, c)
	if err != nil {
		return claim.Claim{}, errors.Internal("failed to update claim", err)
	}

	s.log.WithFields(map[string]any{"claim_id": claimID, "status": in.Status, "reviewed_by": reviewer.ID}).Info("claim reviewed")
	return updated, nil
}

// SetStatus is the administrator override: it sets any of the five states
// and touches only the status field. It deliberately does not re-check the
// approved-amount invariant that Review enforces.
func (s *Service) SetStatus(ctx context.Context, claimID string, status claim.Status) (claim.Claim, error) {
	if !status.Valid() {
		return claim.Claim{}, errors.Validation("status must be one of: submitted, under_review, approved, denied, paid")
	}

	c, err := s.claims.GetClaim(ctx, claimID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return claim.Claim{}, errors.NotFound("claim not found")
		}
		return claim.Claim{}, errors.Internal("failed to load claim", err)
	}

	c.Status = status
	updated, err := s.claims.UpdateClaim(ctx, c)
	if err != nil {
		return claim.Claim{}, errors.Internal("failed to update claim", err)
	}

	s.log.WithFields(map[string]any{"claim_id": claimID, "status": status}).Info("claim status overridden")
	return updated, nil
}

// Get returns a claim, subject to the caller's view rights: patients see
// only their own claims.
func (s *Service) Get(ctx context.Context, caller user.User, id string) (claim.Claim, error) {
	c, err := s.claims.GetClaim(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return claim.Claim{}, errors.NotFound("claim not found")
		}
		return claim.Claim{}, errors.Internal("failed to load claim", err)
	}

	if !authz.Decide(caller.Role, caller.ID, c.UserID, authz.OpViewResource) {
		return claim.Claim{}, errors.Forbidden("you can only view your own claims")
	}
	return c, nil
}

// List returns the claims visible to the caller: patients get their own,
// providers and administrators get everything.
func (s *Service) List(ctx context.Context, caller user.User) ([]claim.Claim, error) {
	var (
		list []claim.Claim
		err  error
	)
	if caller.Role == user.RolePatient {
		list, err = s.claims.ListClaimsByUser(ctx, caller.ID)
	} else {
		list, err = s.claims.ListClaims(ctx)
	}
	if err != nil {
		return nil, errors.Internal("failed to list claims", err)
	}
	return list, nil
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
}
