package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/medbridge/insurance-api/internal/domain/policy"
	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestCreateUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	u, err := store.CreateUser(context.Background(), user.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FullName:     "Alice",
		Role:         user.RolePatient,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if u.ID == "" {
		t.Error("Expected generated ID")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	_, err := store.CreateUser(context.Background(), user.User{Email: "alice@example.com"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetUser(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	cols := []string{"id", "email", "password_hash", "full_name", "role", "phone", "address", "date_of_birth", "is_active", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("u1", "alice@example.com", "hash", "Alice", "patient", "", "", "1990-05-01", true, now, now))

	u, err := store.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.Email != "alice@example.com" || u.Role != user.RolePatient {
		t.Errorf("Unexpected user: %+v", u)
	}
	if u.DateOfBirth != "1990-05-01" {
		t.Errorf("Expected date of birth, got %q", u.DateOfBirth)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetUser(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePolicy_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE policies").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdatePolicy(context.Background(), policy.Policy{ID: "missing"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListPoliciesByProgram(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	cols := []string{"id", "policy_number", "user_id", "policy_type", "coverage_amount", "premium_amount",
		"status", "start_date", "end_date",
		"payer_program", "payer_name", "payer_id", "plan_name",
		"deductible_amount", "out_of_pocket_max", "medicare_part", "medicaid_state",
		"created_by", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT .+ FROM policies WHERE payer_program").
		WithArgs(policy.ProgramMedicare).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p1", "POL0000000001", "u1", "comprehensive", 100000.0, 250.0,
				"active", now, now,
				"medicare", "CMS", "1234", "Part B Standard",
				240.0, 8000.0, "B", "",
				"u2", now, now))

	list, err := store.ListPoliciesByProgram(context.Background(), policy.ProgramMedicare)
	if err != nil {
		t.Fatalf("ListPoliciesByProgram failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 policy, got %d", len(list))
	}
	if list[0].PayerProgram != policy.ProgramMedicare || list[0].MedicarePart != "B" {
		t.Errorf("Unexpected policy: %+v", list[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPolicyNumberExists(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("POL0000000001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.PolicyNumberExists(context.Background(), "POL0000000001")
	if err != nil {
		t.Fatalf("PolicyNumberExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected number to exist")
	}
}

func TestClaimNumberExists(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("CLM0000000001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := store.ClaimNumberExists(context.Background(), "CLM0000000001")
	if err != nil {
		t.Fatalf("ClaimNumberExists failed: %v", err)
	}
	if exists {
		t.Error("Expected number to be free")
	}
}
