package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/payform/payform/internal/metrics"
	"github.com/payform/payform/internal/model"
)

const (
	// DefaultBatchSize is the number of notifications to process per poll.
	DefaultBatchSize = 50
	// DefaultPollInterval is the time between polling for pending notifications.
	DefaultPollInterval = 5 * time.Second
	// DefaultMetricsInterval is how often to update queue depth metrics.
	DefaultMetricsInterval = 10 * time.Second
)

// Store is the outbox surface the worker drains. *Repository satisfies it.
type Store interface {
	GetPendingNotifications(ctx context.Context, limit int) ([]*model.Notification, error)
	UpdateDeliverySuccess(ctx context.Context, id string) error
	UpdateDeliveryFailure(ctx context.Context, id, errMsg string, nextRetryAt time.Time, exhausted bool) error
	GetQueueDepth(ctx context.Context) (int64, error)
}

// Worker delivers queued payment notifications.
type Worker struct {
	store           Store
	mailer          Mailer
	logger          *slog.Logger
	metrics         metrics.Recorder
	batchSize       int
	pollInterval    time.Duration
	metricsInterval time.Duration
	lastMetrics     time.Time
	started         bool
}

// NewWorker creates a new notification delivery worker.
func NewWorker(store Store, mailer Mailer, logger *slog.Logger, recorder metrics.Recorder) *Worker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Worker{
		store:           store,
		mailer:          mailer,
		logger:          logger.With("component", "notify.worker"),
		metrics:         recorder,
		batchSize:       DefaultBatchSize,
		pollInterval:    DefaultPollInterval,
		metricsInterval: DefaultMetricsInterval,
	}
}

// Run starts the worker loop. Blocks until context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w.started {
		return errors.New("worker already started")
	}
	w.started = true

	w.logger.Info("notification worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("process error", "error", err)
			}
		}
	}
}

// ProcessOnce fetches and processes a batch of pending notifications.
func (w *Worker) ProcessOnce(ctx context.Context) error {
	w.maybeUpdateQueueDepth(ctx)

	notifications, err := w.store.GetPendingNotifications(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending notifications: %w", err)
	}

	for _, notification := range notifications {
		if err := w.deliver(ctx, notification); err != nil {
			w.logger.Warn("delivery failed",
				"notification_id", notification.ID,
				"error", err,
			)
		}
	}

	return nil
}

// deliver attempts to send a single notification email.
func (w *Worker) deliver(ctx context.Context, notification *model.Notification) error {
	start := time.Now()
	err := w.mailer.Send(ctx, notification.Recipient, notification.Amount)
	duration := time.Since(start)

	w.metrics.ObserveNotificationDeliveryDuration(duration)

	if err != nil {
		return w.handleDeliveryError(ctx, notification, err.Error())
	}

	w.logger.Info("notification delivered",
		"notification_id", notification.ID,
		"payment_id", notification.PaymentID,
		"duration_ms", duration.Milliseconds(),
	)
	w.metrics.IncNotificationDelivery("success")
	return w.store.UpdateDeliverySuccess(ctx, notification.ID)
}

// handleDeliveryError updates notification status after a failed attempt.
func (w *Worker) handleDeliveryError(ctx context.Context, notification *model.Notification, errMsg string) error {
	nextAttempt := notification.AttemptCount + 1
	exhausted := IsExhausted(nextAttempt, notification.MaxAttempts)

	status := "failed"
	if exhausted {
		status = "exhausted"
	}

	w.logger.Warn("notification delivery failed",
		"notification_id", notification.ID,
		"attempt", nextAttempt,
		"exhausted", exhausted,
		"error", errMsg,
	)

	w.metrics.IncNotificationDelivery(status)

	nextRetryAt := NextRetryAt(notification.AttemptCount)
	return w.store.UpdateDeliveryFailure(ctx, notification.ID, errMsg, nextRetryAt, exhausted)
}

// maybeUpdateQueueDepth periodically updates the queue depth metric.
func (w *Worker) maybeUpdateQueueDepth(ctx context.Context) {
	if time.Since(w.lastMetrics) < w.metricsInterval {
		return
	}
	w.lastMetrics = time.Now()

	depth, err := w.store.GetQueueDepth(ctx)
	if err != nil {
		w.logger.Warn("failed to get queue depth", "error", err)
		return
	}
	w.metrics.SetNotificationQueueDepth(depth)
}

// SetBatchSize overrides the default batch size.
func (w *Worker) SetBatchSize(size int) {
	if size > 0 {
		w.batchSize = size
	}
}

// SetPollInterval overrides the default poll interval.
func (w *Worker) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		w.pollInterval = interval
	}
}
