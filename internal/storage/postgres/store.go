// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/medbridge/insurance-api/internal/domain/claim"
	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.PolicyStore = (*Store)(nil)
var _ storage.ClaimStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// uniqueViolation is the postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return storage.ErrDuplicate
	}
	return err
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role, phone, address, date_of_birth, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)
	`, u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.Phone, u.Address, u.DateOfBirth, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return user.User{}, mapWriteError(err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	u.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, password_hash = $3, full_name = $4, role = $5,
		    phone = $6, address = $7, date_of_birth = NULLIF($8, ''), is_active = $9, updated_at = $10
		WHERE id = $1
	`, u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.Phone, u.Address, u.DateOfBirth, u.IsActive, u.UpdatedAt)
	if err != nil {
		return user.User{}, mapWriteError(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.User{}, storage.ErrNotFound
	}
	return s.GetUser(ctx, u.ID)
}

const userColumns = `id, email, password_hash, full_name, role, COALESCE(phone, ''), COALESCE(address, ''), COALESCE(date_of_birth::text, ''), is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.Phone, &u.Address, &u.DateOfBirth, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, storage.ErrNotFound
	}
	return u, err
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// --- PolicyStore ------------------------------------------------------------

func (s *Store) CreatePolicy(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO policies (id, policy_number, user_id, policy_type, coverage_amount, premium_amount, status, start_date, end_date,
		                      payer_program, payer_name, payer_id, plan_name, deductible_amount, out_of_pocket_max, medicare_part, medicaid_state,
		                      created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $14, $15, $16, $17, NULLIF($18, '')::uuid, $19, $20)
	`, p.ID, p.PolicyNumber, p.UserID, p.PolicyType, p.CoverageAmount, p.PremiumAmount, p.Status, p.StartDate, p.EndDate,
		p.PayerProgram, p.PayerName, p.PayerID, p.PlanName, p.DeductibleAmount, p.OutOfPocketMax, p.MedicarePart, p.MedicaidState,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return policy.Policy{}, mapWriteError(err)
	}
	return p, nil
}

func (s *Store) UpdatePolicy(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	p.UpdatedAt = time.Now().UTC()

	// policy_number and created_by are immutable and deliberately absent here
	result, err := s.db.ExecContext(ctx, `
		UPDATE policies
		SET user_id = $2, policy_type = $3, coverage_amount = $4, premium_amount = $5,
		    status = $6, start_date = $7, end_date = $8,
		    payer_program = NULLIF($9, ''), payer_name = $10, payer_id = $11, plan_name = $12,
		    deductible_amount = $13, out_of_pocket_max = $14, medicare_part = $15, medicaid_state = $16,
		    updated_at = $17
		WHERE id = $1
	`, p.ID, p.UserID, p.PolicyType, p.CoverageAmount, p.PremiumAmount, p.Status, p.StartDate, p.EndDate,
		p.PayerProgram, p.PayerName, p.PayerID, p.PlanName, p.DeductibleAmount, p.OutOfPocketMax, p.MedicarePart, p.MedicaidState,
		p.UpdatedAt)
	if err != nil {
		return policy.Policy{}, mapWriteError(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return policy.Policy{}, storage.ErrNotFound
	}
	return s.GetPolicy(ctx, p.ID)
}

const policyColumns = `id, policy_number, user_id, policy_type, coverage_amount, premium_amount, status, start_date, end_date,
	COALESCE(payer_program, ''), COALESCE(payer_name, ''), COALESCE(payer_id, ''), COALESCE(plan_name, ''),
	deductible_amount, out_of_pocket_max, COALESCE(medicare_part, ''), COALESCE(medicaid_state, ''),
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanPolicy(row interface{ Scan(...any) error }) (policy.Policy, error) {
	var p policy.Policy
	err := row.Scan(&p.ID, &p.PolicyNumber, &p.UserID, &p.PolicyType, &p.CoverageAmount,
		&p.PremiumAmount, &p.Status, &p.StartDate, &p.EndDate,
		&p.PayerProgram, &p.PayerName, &p.PayerID, &p.PlanName,
		&p.DeductibleAmount, &p.OutOfPocketMax, &p.MedicarePart, &p.MedicaidState,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return policy.Policy{}, storage.ErrNotFound
	}
	return p, err
}

func (s *Store) GetPolicy(ctx context.Context, id string) (policy.Policy, error) {
	return scanPolicy(s.db.QueryRowContext(ctx, `SELECT `+policyColumns+` FROM policies WHERE id = $1`, id))
}

func (s *Store) ListPolicies(ctx context.Context) ([]policy.Policy, error) {
	return s.queryPolicies(ctx, `SELECT `+policyColumns+` FROM policies ORDER BY created_at`)
}

func (s *Store) ListPoliciesByUser(ctx context.Context, userID string) ([]policy.Policy, error) {
	return s.queryPolicies(ctx, `SELECT `+policyColumns+` FROM policies WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (s *Store) ListPoliciesByProgram(ctx context.Context, program policy.Program) ([]policy.Policy, error) {
	return s.queryPolicies(ctx, `SELECT `+policyColumns+` FROM policies WHERE payer_program = $1 ORDER BY created_at`, program)
}

func (s *Store) queryPolicies(ctx context.Context, query string, args ...any) ([]policy.Policy, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []policy.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) PolicyNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM policies WHERE policy_number = $1)`, number).Scan(&exists)
	return exists, err
}

// --- ClaimStore -------------------------------------------------------------

func (s *Store) CreateClaim(ctx context.Context, c claim.Claim) (claim.Claim, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO claims (id, claim_number, policy_id, user_id, claim_amount, approved_amount, status,
		                    diagnosis, treatment_details, provider_name, service_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, c.ID, c.ClaimNumber, c.PolicyID, c.UserID, c.ClaimAmount, c.ApprovedAmount, c.Status,
		c.Diagnosis, c.TreatmentDetails, c.ProviderName, c.ServiceDate, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return claim.Claim{}, mapWriteError(err)
	}
	return c, nil
}

func (s *Store) UpdateClaim(ctx context.Context, c claim.Claim) (claim.Claim, error) {
	c.UpdatedAt = time.Now().UTC()

	reviewedBy := sql.NullString{String: c.ReviewedBy, Valid: c.ReviewedBy != ""}
	var reviewedAt sql.NullTime
	if c.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *c.ReviewedAt, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE claims
		SET approved_amount = $2, status = $3, reviewed_by = $4, reviewed_at = $5,
		    review_notes = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.ApprovedAmount, c.Status, reviewedBy, reviewedAt, c.ReviewNotes, c.UpdatedAt)
	if err != nil {
		return claim.Claim{}, mapWriteError(err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return claim.Claim{}, storage.ErrNotFound
	}
	return s.GetClaim(ctx, c.ID)
}

const claimColumns = `id, claim_number, policy_id, user_id, claim_amount, approved_amount, status,
	diagnosis, treatment_details, provider_name, service_date,
	reviewed_by, reviewed_at, COALESCE(review_notes, ''), created_at, updated_at`

func scanClaim(row interface{ Scan(...any) error }) (claim.Claim, error) {
	var (
		c          claim.Claim
		reviewedBy sql.NullString
		reviewedAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.PolicyID, &c.UserID, &c.ClaimAmount, &c.ApprovedAmount,
		&c.Status, &c.Diagnosis, &c.TreatmentDetails, &c.ProviderName, &c.ServiceDate,
		&reviewedBy, &reviewedAt, &c.ReviewNotes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return claim.Claim{}, storage.ErrNotFound
	}
	if err != nil {
		return claim.Claim{}, err
	}
	if reviewedBy.Valid {
		c.ReviewedBy = reviewedBy.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		c.ReviewedAt = &t
	}
	return c, nil
}

func (s *Store) GetClaim(ctx context.Context, id string) (claim.Claim, error) {
	return scanClaim(s.db.QueryRowContext(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id))
}

func (s *Store) ListClaims(ctx context.Context) ([]claim.Claim, error) {
	return s.queryClaims(ctx, `SELECT `+claimColumns+` FROM claims ORDER BY created_at`)
}

func (s *Store) ListClaimsByUser(ctx context.Context, userID string) ([]claim.Claim, error) {
	return s.queryClaims(ctx, `SELECT `+claimColumns+` FROM claims WHERE user_id = $1 ORDER BY created_at`, userID)
}

func (s *Store) queryClaims(ctx context.Context, query string, args ...any) ([]claim.Claim, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []claim.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) ClaimNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM claims WHERE claim_number = $1)`, number).Scan(&exists)
	return exists, err
}
