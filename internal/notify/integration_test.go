//go:build integration

package notify

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/payform/payform/internal/model"
	"github.com/payform/payform/internal/repository"
	"github.com/payform/payform/internal/testutil"
)

// newOutboxEnv opens the outbox database and seeds a payment for
// notifications to reference.
func newOutboxEnv(t *testing.T) (context.Context, *Repository, *model.Payment) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	seed, err := repository.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(seed.Close)

	unlock, err := testutil.AcquireDBLock(ctx, seed.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAllSchemas(ctx, seed.Pool()); err != nil {
		t.Fatalf("reset schemas: %v", err)
	}

	owner := testutil.NewTestUser(t, testutil.UniqueEmail("outbox-owner"))
	if err := seed.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	form := testutil.NewTestPaymentForm(t, owner.ID)
	if err := seed.CreatePaymentForm(ctx, form); err != nil {
		t.Fatalf("CreatePaymentForm failed: %v", err)
	}
	payment := testutil.NewTestPayment(t, form.ID)
	if err := seed.CreatePayment(ctx, payment); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("open outbox db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return ctx, NewRepository(db), payment
}

func TestIntegrationOutbox_CreateAndGet(t *testing.T) {
	ctx, repo, payment := newOutboxEnv(t)

	n := testutil.NewTestNotification(t, payment.ID, "owner@example.com")
	if err := repo.CreateNotification(ctx, n); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}

	retrieved, err := repo.GetNotification(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNotification failed: %v", err)
	}

	if retrieved.PaymentID != payment.ID {
		t.Errorf("PaymentID mismatch: got %d, want %d", retrieved.PaymentID, payment.ID)
	}
	if retrieved.Recipient != "owner@example.com" {
		t.Errorf("Recipient mismatch: got %q", retrieved.Recipient)
	}
	if retrieved.Status != model.NotificationStatusPending {
		t.Errorf("Status = %q, want pending", retrieved.Status)
	}
	if retrieved.AttemptCount != 0 {
		t.Errorf("AttemptCount = %d, want 0", retrieved.AttemptCount)
	}
	if retrieved.LastError != "" {
		t.Errorf("LastError = %q, want empty", retrieved.LastError)
	}
}

func TestIntegrationOutbox_GetNotification_NotFound(t *testing.T) {
	ctx, repo, _ := newOutboxEnv(t)

	_, err := repo.GetNotification(ctx, ulid.Make().String())
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("Expected ErrNotificationNotFound, got: %v", err)
	}
}

func TestIntegrationOutbox_DeliveryLifecycle(t *testing.T) {
	ctx, repo, payment := newOutboxEnv(t)

	n := testutil.NewTestNotification(t, payment.ID, "owner@example.com")
	if err := repo.CreateNotification(ctx, n); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}

	// A failed attempt records the error and reschedules
	nextRetry := time.Now().Add(time.Minute)
	if err := repo.UpdateDeliveryFailure(ctx, n.ID, "smtp timeout", nextRetry, false); err != nil {
		t.Fatalf("UpdateDeliveryFailure failed: %v", err)
	}

	failed, err := repo.GetNotification(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNotification failed: %v", err)
	}
	if failed.Status != model.NotificationStatusFailed {
		t.Errorf("Status = %q, want failed", failed.Status)
	}
	if failed.AttemptCount != 1 {
		t.Errorf("AttemptCount = %d, want 1", failed.AttemptCount)
	}
	if failed.LastError != "smtp timeout" {
		t.Errorf("LastError = %q, want smtp timeout", failed.LastError)
	}

	// A rescheduled notification is not due yet
	pending, err := repo.GetPendingNotifications(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingNotifications failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no due notifications, got %d", len(pending))
	}

	// Success clears the error and settles the row
	if err := repo.UpdateDeliverySuccess(ctx, n.ID); err != nil {
		t.Fatalf("UpdateDeliverySuccess failed: %v", err)
	}

	delivered, err := repo.GetNotification(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetNotification failed: %v", err)
	}
	if delivered.Status != model.NotificationStatusDelivered {
		t.Errorf("Status = %q, want delivered", delivered.Status)
	}
	if delivered.AttemptCount != 2 {
		t.Errorf("AttemptCount = %d, want 2", delivered.AttemptCount)
	}
	if delivered.LastError != "" {
		t.Errorf("LastError = %q, want cleared", delivered.LastError)
	}

	depth, err := repo.GetQueueDepth(ctx)
	if err != nil {
		t.Fatalf("GetQueueDepth failed: %v", err)
	}
	if depth != 0 {
		t.Errorf("queue depth = %d, want 0", depth)
	}
}
