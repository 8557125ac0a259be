package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/storage"
)

// TestStoreIntegration runs against a real database when TEST_DATABASE_DSN is
// set. The schema must already be migrated.
func TestStoreIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	store := New(db)

	u, err := store.CreateUser(ctx, user.User{
		Email:        "integration@example.com",
		PasswordHash: "hash",
		FullName:     "Integration Test",
		Role:         user.RolePatient,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM policies WHERE user_id = $1`, u.ID)
		db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	})

	got, err := store.GetUserByEmail(ctx, "INTEGRATION@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("Expected %s, got %s", u.ID, got.ID)
	}

	_, err = store.CreateUser(ctx, user.User{Email: "integration@example.com", FullName: "Clone"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	p, err := store.CreatePolicy(ctx, policy.Policy{
		PolicyNumber:   "POL0000000042",
		UserID:         u.ID,
		PolicyType:     "comprehensive",
		CoverageAmount: 1000,
		PremiumAmount:  10,
		Status:         policy.StatusActive,
		StartDate:      got.CreatedAt,
		EndDate:        got.CreatedAt.AddDate(1, 0, 0),
		CreatedBy:      u.ID,
	})
	if err != nil {
		t.Fatalf("CreatePolicy failed: %v", err)
	}

	exists, err := store.PolicyNumberExists(ctx, p.PolicyNumber)
	if err != nil || !exists {
		t.Errorf("Expected policy number to exist, got %v, %v", exists, err)
	}

	p.Status = policy.StatusSuspended
	updated, err := store.UpdatePolicy(ctx, p)
	if err != nil {
		t.Fatalf("UpdatePolicy failed: %v", err)
	}
	if updated.Status != policy.StatusSuspended {
		t.Errorf("Expected suspended, got %s", updated.Status)
	}
}
