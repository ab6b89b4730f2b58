// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/payform/payform/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// resetSchema applies the down then up migration for one table.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", name+".down.sql")
	upPath := filepath.Join(root, "migrations", name+".up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetUsersSchema drops and recreates the users schema for tests.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_users")
}

// ResetPaymentFormsSchema drops and recreates the payment_forms schema for tests.
func ResetPaymentFormsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_payment_forms")
}

// ResetPaymentsSchema drops and recreates the payments schema for tests.
func ResetPaymentsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_payments")
}

// ResetNotificationsSchema drops and recreates the notifications schema for tests.
func ResetNotificationsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000004_notifications")
}

// ResetAllSchemas rebuilds every table in dependency order.
func ResetAllSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range []string{
		"000001_users",
		"000002_payment_forms",
		"000003_payments",
		"000004_notifications",
	} {
		if err := resetSchema(ctx, pool, name); err != nil {
			return err
		}
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test account with sensible defaults.
// The password hash corresponds to no real password.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		CreatedAt:    time.Now().UTC(),
	}
}

// NewTestPaymentForm creates a test payment form owned by the given user.
func NewTestPaymentForm(t testing.TB, userID int64) *model.PaymentForm {
	t.Helper()
	return &model.PaymentForm{
		Name:      "Test Form",
		Amount:    25.00,
		Currency:  "USD",
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestPayment creates a test payment against the given form.
func NewTestPayment(t testing.TB, formID int64) *model.Payment {
	t.Helper()
	return &model.Payment{
		FormID:        formID,
		ApplicantName: "Test Applicant",
		Amount:        25.00,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewTestNotification creates a pending outbox notification for the
// given payment, due for immediate delivery.
func NewTestNotification(t testing.TB, paymentID int64, recipient string) *model.Notification {
	t.Helper()
	now := time.Now().UTC()
	return &model.Notification{
		ID:          ulid.Make().String(),
		PaymentID:   paymentID,
		Recipient:   recipient,
		Amount:      25.00,
		Status:      model.NotificationStatusPending,
		MaxAttempts: 5,
		NextRetryAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
