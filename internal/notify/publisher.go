package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/payform/payform/internal/metrics"
	"github.com/payform/payform/internal/model"
)

// Publisher queues notification records when payments are recorded.
type Publisher struct {
	repo    *Repository
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a new notification publisher.
func NewPublisher(repo *Repository, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		repo:    repo,
		logger:  logger.With("component", "notify.publisher"),
		metrics: recorder,
	}
}

// PublishPaymentNotification queues an email to the form owner about a
// recorded payment. Delivery happens asynchronously; a failure to queue is
// reported to the caller but must not fail the payment response.
func (p *Publisher) PublishPaymentNotification(ctx context.Context, recipient string, payment *model.Payment) error {
	now := time.Now()
	notification := &model.Notification{
		ID:           ulid.Make().String(),
		PaymentID:    payment.ID,
		Recipient:    recipient,
		Amount:       payment.Amount,
		Status:       model.NotificationStatusPending,
		AttemptCount: 0,
		MaxAttempts:  DefaultMaxAttempts,
		NextRetryAt:  now, // Immediate delivery
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := p.repo.CreateNotification(ctx, notification); err != nil {
		p.metrics.IncNotificationQueued("dropped")
		p.logger.Warn("failed to queue notification",
			"payment_id", payment.ID,
			"error", err,
		)
		return fmt.Errorf("queue notification: %w", err)
	}

	p.metrics.IncNotificationQueued("queued")
	p.logger.Debug("notification queued",
		"notification_id", notification.ID,
		"payment_id", payment.ID,
	)

	return nil
}
