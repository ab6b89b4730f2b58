package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup() {}

// IncSignIn is a no-op.
func (n *NoopRecorder) IncSignIn(status string) {}

// IncPaymentFormCreated is a no-op.
func (n *NoopRecorder) IncPaymentFormCreated() {}

// IncPaymentCreated is a no-op.
func (n *NoopRecorder) IncPaymentCreated() {}

// IncNotificationQueued is a no-op.
func (n *NoopRecorder) IncNotificationQueued(status string) {}

// IncNotificationDelivery is a no-op.
func (n *NoopRecorder) IncNotificationDelivery(status string) {}

// ObserveNotificationDeliveryDuration is a no-op.
func (n *NoopRecorder) ObserveNotificationDeliveryDuration(duration time.Duration) {}

// SetNotificationQueueDepth is a no-op.
func (n *NoopRecorder) SetNotificationQueueDepth(depth int64) {}
