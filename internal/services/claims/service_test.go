package claims

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/medbridge/insurance-api/internal/domain/claim"
	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/storage/memory"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with status %d, got nil", want)
	}
	if got := errors.HTTPStatus(err); got != want {
		t.Fatalf("Expected status %d, got %d (%v)", want, got, err)
	}
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	patient  user.User
	other    user.User
	provider user.User
	admin    user.User
	policy   policy.Policy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	svc := New(store, store, nil)

	seed := func(email string, role user.Role) user.User {
		u, err := store.CreateUser(ctx, user.User{
			Email: email, PasswordHash: "irrelevant", FullName: "Test User",
			Role: role, IsActive: true,
		})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		return u
	}

	f := &fixture{
		svc:      svc,
		store:    store,
		patient:  seed("patient@example.com", user.RolePatient),
		other:    seed("other@example.com", user.RolePatient),
		provider: seed("provider@example.com", user.RoleProvider),
		admin:    seed("admin@example.com", user.RoleAdministrator),
	}

	p, err := store.CreatePolicy(ctx, policy.Policy{
		PolicyNumber:   "POL0000000001",
		UserID:         f.patient.ID,
		PolicyType:     "comprehensive",
		CoverageAmount: 100000,
		PremiumAmount:  250,
		Status:         policy.StatusActive,
		StartDate:      date("2024-01-01"),
		EndDate:        date("2024-12-31"),
	})
	if err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}
	f.policy = p
	return f
}

func validSubmit(policyID string) SubmitInput {
	return SubmitInput{
		PolicyID:         policyID,
		ClaimAmount:      1200,
		Diagnosis:        "sprained ankle",
		TreatmentDetails: "x-ray and brace",
		ProviderName:     "City Hospital",
		ServiceDate:      date("2024-03-10"),
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("Success", func(t *testing.T) {
		c, err := f.svc.Submit(ctx, f.patient, validSubmit(f.policy.ID))
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if !strings.HasPrefix(c.ClaimNumber, "CLM") || len(c.ClaimNumber) != 13 {
			t.Errorf("Unexpected claim number format: %s", c.ClaimNumber)
		}
		if c.Status != claim.StatusSubmitted {
			t.Errorf("Expected status submitted, got %s", c.Status)
		}
		if c.ApprovedAmount != 0 {
			t.Errorf("Expected approved amount 0, got %f", c.ApprovedAmount)
		}
		if c.UserID != f.patient.ID {
			t.Errorf("Expected claimant %s, got %s", f.patient.ID, c.UserID)
		}
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		in := validSubmit(f.policy.ID)
		in.ClaimAmount = 0
		_, err := f.svc.Submit(ctx, f.patient, in)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("MissingClinicalFields", func(t *testing.T) {
		in := validSubmit(f.policy.ID)
		in.Diagnosis = ""
		_, err := f.svc.Submit(ctx, f.patient, in)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("FutureServiceDate", func(t *testing.T) {
		in := validSubmit(f.policy.ID)
		in.ServiceDate = time.Now().UTC().AddDate(0, 0, 2)
		_, err := f.svc.Submit(ctx, f.patient, in)
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("ServiceDateTodayAccepted", func(t *testing.T) {
		in := validSubmit(f.policy.ID)
		in.ServiceDate = time.Now().UTC().Truncate(24 * time.Hour)
		if _, err := f.svc.Submit(ctx, f.patient, in); err != nil {
			t.Fatalf("Submit failed for today's service date: %v", err)
		}
	})

	t.Run("UnknownPolicy", func(t *testing.T) {
		_, err := f.svc.Submit(ctx, f.patient, validSubmit("missing-id"))
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("OtherPatientsPolicy", func(t *testing.T) {
		_, err := f.svc.Submit(ctx, f.other, validSubmit(f.policy.ID))
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("AdminCannotSubmitForOthers", func(t *testing.T) {
		_, err := f.svc.Submit(ctx, f.admin, validSubmit(f.policy.ID))
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("InactivePolicy", func(t *testing.T) {
		suspended := f.policy
		suspended.Status = policy.StatusSuspended
		if _, err := f.store.UpdatePolicy(ctx, suspended); err != nil {
			t.Fatalf("UpdatePolicy failed: %v", err)
		}

		_, err := f.svc.Submit(ctx, f.patient, validSubmit(f.policy.ID))
		assertStatus(t, err, http.StatusBadRequest)

		// reactivation restores submission
		suspended.Status = policy.StatusActive
		if _, err := f.store.UpdatePolicy(ctx, suspended); err != nil {
			t.Fatalf("UpdatePolicy failed: %v", err)
		}
		if _, err := f.svc.Submit(ctx, f.patient, validSubmit(f.policy.ID)); err != nil {
			t.Fatalf("Submit failed after reactivation: %v", err)
		}
	})
}

func TestReview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submitted, err := f.svc.Submit(ctx, f.patient, validSubmit(f.policy.ID))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	amount := func(v float64) *float64 { return &v }

	t.Run("PatientCannotReview", func(t *testing.T) {
		_, err := f.svc.Review(ctx, f.patient, submitted.ID, ReviewInput{Status: claim.StatusApproved, ApprovedAmount: amount(100)})
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("RejectsNonReviewStatus", func(t *testing.T) {
		_, err := f.svc.Review(ctx, f.provider, submitted.ID, ReviewInput{Status: claim.StatusPaid})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("ApproveRequiresAmount", func(t *testing.T) {
		_, err := f.svc.Review(ctx, f.provider, submitted.ID, ReviewInput{Status: claim.StatusApproved})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("OverCapLeavesClaimUnchanged", func(t *testing.T) {
		_, err := f.svc.Review(ctx, f.provider, submitted.ID, ReviewInput{
			Status:         claim.StatusApproved,
			ApprovedAmount: amount(submitted.ClaimAmount + 1),
		})
		assertStatus(t, err, http.StatusBadRequest)

		c, err := f.store.GetClaim(ctx, submitted.ID)
		if err != nil {
			t.Fatalf("GetClaim failed: %v", err)
		}
		if c.Status != claim.StatusSubmitted || c.ApprovedAmount != 0 || c.ReviewedBy != "" {
			t.Errorf("Failed review must not mutate the claim: %+v", c)
		}
	})

	t.Run("NegativeAmountRejected", func(t *testing.T) {
		_, err := f.svc.Review(ctx, f.provider, submitted.ID, ReviewInput{
			Status:         claim.StatusApproved,
			ApprovedAmount: amount(-1),
		})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("UnderReviewForcesZero", func(t *testing.T) {
		c, err := f.svc.Review(ctx, f.provider, submitted.ID, ReviewInput{
			Status:         claim.StatusUnderReview,
			ApprovedAmount: amount(500),
			ReviewNotes:    "requesting documentation",
		})
		if err != nil {
			t.Fatalf("Review failed: %v", err)
		}
		if c.Status != claim.StatusUnderReview {
			t.Errorf("Expected under_review, got %s", c.Status)
		}
		if c.ApprovedAmount != 0 {
			t.Errorf("Expected forced zero approved amount, got %f", c.ApprovedAmount)
		}
		if c.ReviewNotes != "requesting documentation" {
			t.Errorf("Expected review notes recorded, got %q", c.ReviewNotes)
		}
	})

	t.Run("Approve", func(t *testing.T) {
		c, err := f.svc.Review(ctx, f.provider, submitted.ID, ReviewInput{
			Status:         claim.StatusApproved,
			ApprovedAmount: amount(1000),
			ReviewNotes:    "approved at negotiated rate",
		})
		if err != nil {
			t.Fatalf("Review failed: %v", err)
		}
		if c.Status != claim.StatusApproved || c.ApprovedAmount != 1000 {
			t.Errorf("Unexpected review result: %+v", c)
		}
		if c.ReviewedBy != f.provider.ID {
			t.Errorf("Expected reviewer %s, got %s", f.provider.ID, c.ReviewedBy)
		}
		if c.ReviewedAt == nil {
			t.Error("Expected reviewed_at to be set")
		}
	})

	t.Run("DenyForcesZero", func(t *testing.T) {
		c, err := f.svc.Review(ctx, f.admin, submitted.ID, ReviewInput{
			Status:         claim.StatusDenied,
			ApprovedAmount: amount(999),
		})
		if err != nil {
			t.Fatalf("Review failed: %v", err)
		}
		if c.Status != claim.StatusDenied || c.ApprovedAmount != 0 {
			t.Errorf("Denial must force approved amount to zero: %+v", c)
		}
	})

	t.Run("FullApprovalAtCap", func(t *testing.T) {
		c, err := f.svc.Review(ctx, f.provider, submitted.ID, ReviewInput{
			Status:         claim.StatusApproved,
			ApprovedAmount: amount(submitted.ClaimAmount),
		})
		if err != nil {
			t.Fatalf("Review failed: %v", err)
		}
		if c.ApprovedAmount != submitted.ClaimAmount {
			t.Errorf("Expected full approval %f, got %f", submitted.ClaimAmount, c.ApprovedAmount)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.svc.Review(ctx, f.provider, "missing-id", ReviewInput{Status: claim.StatusDenied})
		assertStatus(t, err, http.StatusNotFound)
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	submitted, err := f.svc.Submit(ctx, f.patient, validSubmit(f.policy.ID))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	t.Run("OverrideToPaid", func(t *testing.T) {
		c, err := f.svc.SetStatus(ctx, submitted.ID, claim.StatusPaid)
		if err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		if c.Status != claim.StatusPaid {
			t.Errorf("Expected paid, got %s", c.Status)
		}
		// the override touches only the status field
		if c.ApprovedAmount != submitted.ApprovedAmount || c.ReviewedBy != "" {
			t.Errorf("Override must not touch review fields: %+v", c)
		}
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		_, err := f.svc.SetStatus(ctx, submitted.ID, claim.Status("archived"))
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.svc.SetStatus(ctx, "missing-id", claim.StatusDenied)
		assertStatus(t, err, http.StatusNotFound)
	})
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	mine, err := f.svc.Submit(ctx, f.patient, validSubmit(f.policy.ID))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	t.Run("OwnerSeesClaim", func(t *testing.T) {
		c, err := f.svc.Get(ctx, f.patient, mine.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if c.ID != mine.ID {
			t.Errorf("Expected claim %s, got %s", mine.ID, c.ID)
		}
	})

	t.Run("OtherPatientDenied", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.other, mine.ID)
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("ProviderSeesClaim", func(t *testing.T) {
		if _, err := f.svc.Get(ctx, f.provider, mine.ID); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	})

	t.Run("PatientListScopedToOwn", func(t *testing.T) {
		list, err := f.svc.List(ctx, f.other)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Expected no claims for other patient, got %d", len(list))
		}

		list, err = f.svc.List(ctx, f.patient)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("Expected 1 claim, got %d", len(list))
		}
	})

	t.Run("AdminSeesAll", func(t *testing.T) {
		list, err := f.svc.List(ctx, f.admin)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("Expected 1 claim, got %d", len(list))
		}
	})
}
