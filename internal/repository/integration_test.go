//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/payform/payform/internal/testutil"
)

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAllSchemas(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schemas: %v", err)
	}

	return ctx, repo
}

// ============================================================================
// User Repository Integration Tests
// ============================================================================

func TestIntegrationUserRepository_CreateUser(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("create"))

	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("CreateUser should assign an ID")
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}

	if retrieved.Email != user.Email {
		t.Errorf("Email mismatch: got %q, want %q", retrieved.Email, user.Email)
	}
	if retrieved.PasswordHash != user.PasswordHash {
		t.Error("PasswordHash mismatch")
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	email := testutil.UniqueEmail("dup")
	user1 := testutil.NewTestUser(t, email)
	user2 := testutil.NewTestUser(t, email)

	if err := repo.CreateUser(ctx, user1); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	err := repo.CreateUser(ctx, user2)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetByEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("byemail"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %d, want %d", retrieved.ID, user.ID)
	}
}

func TestIntegrationUserRepository_NotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if _, err := repo.GetUserByID(ctx, 999999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}

	if _, err := repo.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

// ============================================================================
// Payment Form Repository Integration Tests
// ============================================================================

func TestIntegrationPaymentFormRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueEmail("form-owner"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	form := testutil.NewTestPaymentForm(t, user.ID)
	form.Description = "Monthly subscription"

	if err := repo.CreatePaymentForm(ctx, form); err != nil {
		t.Fatalf("CreatePaymentForm failed: %v", err)
	}
	if form.ID == 0 {
		t.Fatal("CreatePaymentForm should assign an ID")
	}

	retrieved, err := repo.GetPaymentFormByID(ctx, form.ID)
	if err != nil {
		t.Fatalf("GetPaymentFormByID failed: %v", err)
	}

	if retrieved.UserID != user.ID {
		t.Errorf("UserID mismatch: got %d, want %d", retrieved.UserID, user.ID)
	}
	if retrieved.Amount != form.Amount {
		t.Errorf("Amount mismatch: got %v, want %v", retrieved.Amount, form.Amount)
	}
	if retrieved.Currency != "USD" {
		t.Errorf("Currency mismatch: got %q, want USD", retrieved.Currency)
	}
}

func TestIntegrationPaymentFormRepository_NotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if _, err := repo.GetPaymentFormByID(ctx, 999999); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("Expected ErrFormNotFound, got: %v", err)
	}
}

func TestIntegrationPaymentFormRepository_ListByUser(t *testing.T) {
	ctx, repo := newTestEnv(t)

	owner := testutil.NewTestUser(t, testutil.UniqueEmail("list-owner"))
	other := testutil.NewTestUser(t, testutil.UniqueEmail("list-other"))
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		form := testutil.NewTestPaymentForm(t, owner.ID)
		if err := repo.CreatePaymentForm(ctx, form); err != nil {
			t.Fatalf("CreatePaymentForm failed: %v", err)
		}
	}
	otherForm := testutil.NewTestPaymentForm(t, other.ID)
	if err := repo.CreatePaymentForm(ctx, otherForm); err != nil {
		t.Fatalf("CreatePaymentForm failed: %v", err)
	}

	forms, err := repo.ListPaymentFormsByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListPaymentFormsByUser failed: %v", err)
	}
	if len(forms) != 3 {
		t.Errorf("expected 3 forms, got %d", len(forms))
	}
	for _, form := range forms {
		if form.UserID != owner.ID {
			t.Errorf("form %d belongs to user %d, want %d", form.ID, form.UserID, owner.ID)
		}
	}
}

// ============================================================================
// Payment Repository Integration Tests
// ============================================================================

func TestIntegrationPaymentRepository_CreateAndList(t *testing.T) {
	ctx, repo := newTestEnv(t)

	owner := testutil.NewTestUser(t, testutil.UniqueEmail("pay-owner"))
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	form := testutil.NewTestPaymentForm(t, owner.ID)
	if err := repo.CreatePaymentForm(ctx, form); err != nil {
		t.Fatalf("CreatePaymentForm failed: %v", err)
	}

	payment := testutil.NewTestPayment(t, form.ID)
	if err := repo.CreatePayment(ctx, payment); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if payment.ID == 0 {
		t.Fatal("CreatePayment should assign an ID")
	}

	history, err := repo.ListPaymentsByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListPaymentsByUser failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(history))
	}
	if history[0].FormID != form.ID {
		t.Errorf("FormID mismatch: got %d, want %d", history[0].FormID, form.ID)
	}
}

func TestIntegrationPaymentRepository_HistoryScopedToOwner(t *testing.T) {
	ctx, repo := newTestEnv(t)

	owner := testutil.NewTestUser(t, testutil.UniqueEmail("scope-owner"))
	stranger := testutil.NewTestUser(t, testutil.UniqueEmail("scope-stranger"))
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(ctx, stranger); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	form := testutil.NewTestPaymentForm(t, owner.ID)
	if err := repo.CreatePaymentForm(ctx, form); err != nil {
		t.Fatalf("CreatePaymentForm failed: %v", err)
	}
	payment := testutil.NewTestPayment(t, form.ID)
	if err := repo.CreatePayment(ctx, payment); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	history, err := repo.ListPaymentsByUser(ctx, stranger.ID)
	if err != nil {
		t.Fatalf("ListPaymentsByUser failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("stranger should see no payments, got %d", len(history))
	}
}
