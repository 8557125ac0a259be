// Package policies implements policy issuance and lifecycle: creation with
// generated policy numbers, field updates, and status changes.
package policies

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/medbridge/insurance-api/internal/authz"
	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/refnum"
	"github.com/medbridge/insurance-api/internal/storage"
	"github.com/medbridge/insurance-api/pkg/logger"
)

// CreateInput carries the fields accepted when issuing a policy. The payer
// fields are optional; an empty PayerProgram leaves the policy unassigned.
type CreateInput struct {
	UserID         string
	PolicyType     string
	CoverageAmount float64
	PremiumAmount  float64
	Status         policy.Status
	StartDate      time.Time
	EndDate        time.Time

	PayerProgram     policy.Program
	PayerName        string
	PayerID          string
	PlanName         string
	DeductibleAmount float64
	OutOfPocketMax   float64
	MedicarePart     string
	MedicaidState    string
}

// UpdateInput carries optional field-level mutations. Nil fields keep their
// stored value; amounts and the date window are re-validated either way.
type UpdateInput struct {
	PolicyType     *string
	CoverageAmount *float64
	PremiumAmount  *float64
	Status         *policy.Status
	StartDate      *time.Time
	EndDate        *time.Time

	PayerProgram     *policy.Program
	PayerName        *string
	PayerID          *string
	PlanName         *string
	DeductibleAmount *float64
	OutOfPocketMax   *float64
	MedicarePart     *string
	MedicaidState    *string
}

// ProgramStats aggregates the policies assigned to one payer program.
type ProgramStats struct {
	TotalPolicies   int     `json:"total_policies"`
	ActivePolicies  int     `json:"active_policies"`
	TotalCoverage   float64 `json:"total_coverage"`
	TotalPremium    float64 `json:"total_premium"`
	AverageCoverage float64 `json:"average_coverage"`
}

const programValues = "medicare, medicaid, commercial, other_government"

// Service implements the policy lifecycle.
type Service struct {
	policies storage.PolicyStore
	users    storage.UserStore
	log      *logger.Logger
}

// New creates the policies service.
func New(policies storage.PolicyStore, users storage.UserStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("policies")
	}
	return &Service{policies: policies, users: users, log: log}
}

func validateTerms(coverage, premium float64, start, end time.Time) error {
	if coverage <= 0 {
		return errors.Validation("coverage amount must be positive")
	}
	if premium <= 0 {
		return errors.Validation("premium amount must be positive")
	}
	if start.IsZero() || end.IsZero() {
		return errors.Validation("start_date and end_date are required")
	}
	if !end.After(start) {
		return errors.Validation("end date must be after start date")
	}
	return nil
}

// Create issues a new policy for the subject user, generating a unique
// policy number. createdBy records the issuing caller.
func (s *Service) Create(ctx context.Context, createdBy string, in CreateInput) (policy.Policy, error) {
	if in.UserID == "" {
		return policy.Policy{}, errors.Validation("user_id is required")
	}
	if in.PolicyType == "" {
		return policy.Policy{}, errors.Validation("policy_type is required")
	}
	if err := validateTerms(in.CoverageAmount, in.PremiumAmount, in.StartDate, in.EndDate); err != nil {
		return policy.Policy{}, err
	}
	if in.PayerProgram != "" && !in.PayerProgram.Valid() {
		return policy.Policy{}, errors.Validation("payer_program must be one of: " + programValues)
	}

	status := in.Status
	if status == "" {
		status = policy.StatusActive
	}
	if !status.Valid() {
		return policy.Policy{}, errors.Validation("status must be one of: active, inactive, suspended, cancelled")
	}

	if _, err := s.users.GetUser(ctx, in.UserID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return policy.Policy{}, errors.NotFound("user not found")
		}
		return policy.Policy{}, errors.Internal("failed to load user", err)
	}

	number, err := refnum.Unique(ctx, refnum.PolicyPrefix, s.policies.PolicyNumberExists)
	if err != nil {
		return policy.Policy{}, errors.Internal("failed to generate policy number", err)
	}

	created, err := s.policies.CreatePolicy(ctx, policy.Policy{
		PolicyNumber:   number,
		UserID:         in.UserID,
		PolicyType:     in.PolicyType,
		CoverageAmount: in.CoverageAmount,
		PremiumAmount:  in.PremiumAmount,
		Status:         status,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,

		PayerProgram:     in.PayerProgram,
		PayerName:        in.PayerName,
		PayerID:          in.PayerID,
		PlanName:         in.PlanName,
		DeductibleAmount: in.DeductibleAmount,
		OutOfPocketMax:   in.OutOfPocketMax,
		MedicarePart:     in.MedicarePart,
		MedicaidState:    in.MedicaidState,

		CreatedBy: createdBy,
	})
	if err != nil {
		// unique policy_number collided between check and insert: treat as internal
		return policy.Policy{}, errors.Internal("failed to create policy", err)
	}

	s.log.WithFields(map[string]any{"policy_id": created.ID, "policy_number": created.PolicyNumber}).Info("policy created")
	return created, nil
}

// Get returns a policy, subject to the caller's view rights: patients see
// only their own policies.
func (s *Service) Get(ctx context.Context, caller user.User, id string) (policy.Policy, error) {
	p, err := s.policies.GetPolicy(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return policy.Policy{}, errors.NotFound("policy not found")
		}
		return policy.Policy{}, errors.Internal("failed to load policy", err)
	}

	if !authz.Decide(caller.Role, caller.ID, p.UserID, authz.OpViewResource) {
		return policy.Policy{}, errors.Forbidden("you can only view your own policies")
	}
	return p, nil
}

// List returns the policies visible to the caller: patients get their own,
// providers and administrators get everyone's, optionally filtered by
// subject user or payer program. The user filter takes precedence when both
// are supplied.
func (s *Service) List(ctx context.Context, caller user.User, filterUserID, filterProgram string) ([]policy.Policy, error) {
	var (
		list []policy.Policy
		err  error
	)
	switch {
	case caller.Role == user.RolePatient:
		list, err = s.policies.ListPoliciesByUser(ctx, caller.ID)
	case filterUserID != "":
		list, err = s.policies.ListPoliciesByUser(ctx, filterUserID)
	case filterProgram != "":
		program := policy.Program(filterProgram)
		if !program.Valid() {
			return nil, errors.Validation("payer_program must be one of: " + programValues)
		}
		list, err = s.policies.ListPoliciesByProgram(ctx, program)
	default:
		list, err = s.policies.ListPolicies(ctx)
	}
	if err != nil {
		return nil, errors.Internal("failed to list policies", err)
	}
	return list, nil
}

// ProgramStats aggregates all policies by payer program. Every known program
// appears in the result, with zero counts when nothing is assigned to it.
func (s *Service) ProgramStats(ctx context.Context) (map[policy.Program]ProgramStats, error) {
	list, err := s.policies.ListPolicies(ctx)
	if err != nil {
		return nil, errors.Internal("failed to list policies", err)
	}

	stats := make(map[policy.Program]ProgramStats, len(policy.Programs()))
	for _, program := range policy.Programs() {
		stats[program] = ProgramStats{}
	}
	for _, p := range list {
		if p.PayerProgram == "" {
			continue
		}
		st := stats[p.PayerProgram]
		st.TotalPolicies++
		if p.Status == policy.StatusActive {
			st.ActivePolicies++
		}
		st.TotalCoverage += p.CoverageAmount
		st.TotalPremium += p.PremiumAmount
		stats[p.PayerProgram] = st
	}
	for program, st := range stats {
		if st.TotalPolicies > 0 {
			st.AverageCoverage = st.TotalCoverage / float64(st.TotalPolicies)
			stats[program] = st
		}
	}
	return stats, nil
}

// Update applies field-level mutations, re-validating amounts and the date
// window against the resulting row. The policy number never changes.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (policy.Policy, error) {
	p, err := s.policies.GetPolicy(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return policy.Policy{}, errors.NotFound("policy not found")
		}
		return policy.Policy{}, errors.Internal("failed to load policy", err)
	}

	if in.PolicyType != nil {
		p.PolicyType = *in.PolicyType
	}
	if in.CoverageAmount != nil {
		p.CoverageAmount = *in.CoverageAmount
	}
	if in.PremiumAmount != nil {
		p.PremiumAmount = *in.PremiumAmount
	}
	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = *in.EndDate
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return policy.Policy{}, errors.Validation("status must be one of: active, inactive, suspended, cancelled")
		}
		p.Status = *in.Status
	}
	if in.PayerProgram != nil {
		if *in.PayerProgram != "" && !in.PayerProgram.Valid() {
			return policy.Policy{}, errors.Validation("payer_program must be one of: " + programValues)
		}
		p.PayerProgram = *in.PayerProgram
	}
	if in.PayerName != nil {
		p.PayerName = *in.PayerName
	}
	if in.PayerID != nil {
		p.PayerID = *in.PayerID
	}
	if in.PlanName != nil {
		p.PlanName = *in.PlanName
	}
	if in.DeductibleAmount != nil {
		p.DeductibleAmount = *in.DeductibleAmount
	}
	if in.OutOfPocketMax != nil {
		p.OutOfPocketMax = *in.OutOfPocketMax
	}
	if in.MedicarePart != nil {
		p.MedicarePart = *in.MedicarePart
	}
	if in.MedicaidState != nil {
		p.MedicaidState = *in.MedicaidState
	}

	if err := validateTerms(p.CoverageAmount, p.PremiumAmount, p.StartDate, p.EndDate); err != nil {
		return policy.Policy{}, err
	}

	updated, err := s.policies.UpdatePolicy(ctx, p)
	if err != nil {
		return policy.Policy{}, errors.Internal("failed to update policy", err)
	}
	return updated, nil
}

// SetStatus transitions the policy status. Any transition is legal; a
// non-active policy simply stops accepting new claims. Existing claims are
// unaffected.
func (s *Service) SetStatus(ctx context.Context, id string, status policy.Status) (policy.Policy, error) {
	if !status.Valid() {
		return policy.Policy{}, errors.Validation("status must be one of: active, inactive, suspended, cancelled")
	}

	p, err := s.policies.GetPolicy(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return policy.Policy{}, errors.NotFound("policy not found")
		}
		return policy.Policy{}, errors.Internal("failed to load policy", err)
	}

	p.Status = status
	updated, err := s.policies.UpdatePolicy(ctx, p)
	if err != nil {
		return policy.Policy{}, errors.Internal("failed to update policy", err)
	}

	s.log.WithFields(map[string]any{"policy_id": id, "status": status}).Info("policy status changed")
	return updated, nil
}
