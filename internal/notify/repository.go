// Package notify implements the payment notification outbox.
// Notifications are inserted in the payment request path and drained
// asynchronously by a worker, so mail delivery never gates a payment
// response.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/payform/payform/internal/model"
)

// Repository handles notification outbox database operations.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks connectivity to the outbox database.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateNotification inserts a new pending notification.
func (r *Repository) CreateNotification(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, payment_id, recipient, amount, status,
			attempt_count, max_attempts, next_retry_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.PaymentID,
		n.Recipient,
		n.Amount,
		n.Status,
		n.AttemptCount,
		n.MaxAttempts,
		n.NextRetryAt,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetNotification retrieves a notification by ID.
func (r *Repository) GetNotification(ctx context.Context, id string) (*model.Notification, error) {
	query := `
		SELECT id, payment_id, recipient, amount, status,
			   attempt_count, max_attempts, next_retry_at,
			   COALESCE(last_error, ''), created_at, updated_at
		FROM notifications
		WHERE id = $1
	`

	var n model.Notification
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&n.PaymentID,
		&n.Recipient,
		&n.Amount,
		&n.Status,
		&n.AttemptCount,
		&n.MaxAttempts,
		&n.NextRetryAt,
		&n.LastError,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query notification: %w", err)
	}

	return &n, nil
}

// GetPendingNotifications fetches notifications due for delivery,
// oldest first.
func (r *Repository) GetPendingNotifications(ctx context.Context, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, payment_id, recipient, amount, status,
			   attempt_count, max_attempts, next_retry_at,
			   COALESCE(last_error, ''), created_at, updated_at
		FROM notifications
		WHERE status IN ('pending', 'failed') AND next_retry_at <= $1
		ORDER BY next_retry_at ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("query pending notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID,
			&n.PaymentID,
			&n.Recipient,
			&n.Amount,
			&n.Status,
			&n.AttemptCount,
			&n.MaxAttempts,
			&n.NextRetryAt,
			&n.LastError,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// UpdateDeliverySuccess marks a notification as delivered.
func (r *Repository) UpdateDeliverySuccess(ctx context.Context, id string) error {
	query := `
		UPDATE notifications
		SET status = 'delivered', attempt_count = attempt_count + 1,
			last_error = NULL, updated_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("update notification success: %w", err)
	}
	return nil
}

// UpdateDeliveryFailure records a failed attempt and schedules the next
// retry. When exhausted, the notification moves to its terminal state.
func (r *Repository) UpdateDeliveryFailure(ctx context.Context, id, errMsg string, nextRetryAt time.Time, exhausted bool) error {
	status := model.NotificationStatusFailed
	if exhausted {
		status = model.NotificationStatusExhausted
	}

	query := `
		UPDATE notifications
		SET status = $2, attempt_count = attempt_count + 1,
			last_error = $3, next_retry_at = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status, errMsg, nextRetryAt, time.Now())
	if err != nil {
		return fmt.Errorf("update notification failure: %w", err)
	}
	return nil
}

// GetQueueDepth returns the number of notifications awaiting delivery.
func (r *Repository) GetQueueDepth(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE status IN ('pending', 'failed')
	`

	var depth int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&depth); err != nil {
		return 0, fmt.Errorf("query queue depth: %w", err)
	}
	return depth, nil
}
