package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups                      uint64
	SignInSuccesses              uint64
	SignInFailures               uint64
	PaymentFormsCreated          uint64
	PaymentsCreated              uint64
	NotificationsQueued          uint64
	NotificationsDropped         uint64
	NotificationSuccesses        uint64
	NotificationFailures         uint64
	NotificationsExhausted       uint64
	NotificationDurationCount    uint64
	NotificationDurationTotalNs  int64
	NotificationQueueDepth       int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	signups                     uint64
	signInSuccesses             uint64
	signInFailures              uint64
	paymentFormsCreated         uint64
	paymentsCreated             uint64
	notificationsQueued         uint64
	notificationsDropped        uint64
	notificationSuccesses       uint64
	notificationFailures        uint64
	notificationsExhausted      uint64
	notificationDurationCount   uint64
	notificationDurationTotalNs int64
	notificationQueueDepth      int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		Signups:                     atomic.LoadUint64(&m.signups),
		SignInSuccesses:             atomic.LoadUint64(&m.signInSuccesses),
		SignInFailures:              atomic.LoadUint64(&m.signInFailures),
		PaymentFormsCreated:         atomic.LoadUint64(&m.paymentFormsCreated),
		PaymentsCreated:             atomic.LoadUint64(&m.paymentsCreated),
		NotificationsQueued:         atomic.LoadUint64(&m.notificationsQueued),
		NotificationsDropped:        atomic.LoadUint64(&m.notificationsDropped),
		NotificationSuccesses:       atomic.LoadUint64(&m.notificationSuccesses),
		NotificationFailures:        atomic.LoadUint64(&m.notificationFailures),
		NotificationsExhausted:      atomic.LoadUint64(&m.notificationsExhausted),
		NotificationDurationCount:   atomic.LoadUint64(&m.notificationDurationCount),
		NotificationDurationTotalNs: atomic.LoadInt64(&m.notificationDurationTotalNs),
		NotificationQueueDepth:      atomic.LoadInt64(&m.notificationQueueDepth),
	}
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

// IncSignIn increments the sign-in counter for the given status.
func (m *InMemoryRecorder) IncSignIn(status string) {
	if status == "success" {
		atomic.AddUint64(&m.signInSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.signInFailures, 1)
}

// IncPaymentFormCreated increments the payment form counter.
func (m *InMemoryRecorder) IncPaymentFormCreated() {
	atomic.AddUint64(&m.paymentFormsCreated, 1)
}

// IncPaymentCreated increments the payment counter.
func (m *InMemoryRecorder) IncPaymentCreated() {
	atomic.AddUint64(&m.paymentsCreated, 1)
}

// IncNotificationQueued increments the queued counter for the given status.
func (m *InMemoryRecorder) IncNotificationQueued(status string) {
	if status == "queued" {
		atomic.AddUint64(&m.notificationsQueued, 1)
		return
	}
	atomic.AddUint64(&m.notificationsDropped, 1)
}

// IncNotificationDelivery increments the delivery counter for the given status.
func (m *InMemoryRecorder) IncNotificationDelivery(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.notificationSuccesses, 1)
	case "exhausted":
		atomic.AddUint64(&m.notificationsExhausted, 1)
	default:
		atomic.AddUint64(&m.notificationFailures, 1)
	}
}

// ObserveNotificationDeliveryDuration records a delivery duration.
func (m *InMemoryRecorder) ObserveNotificationDeliveryDuration(duration time.Duration) {
	atomic.AddUint64(&m.notificationDurationCount, 1)
	atomic.AddInt64(&m.notificationDurationTotalNs, duration.Nanoseconds())
}

// SetNotificationQueueDepth records the current queue depth.
func (m *InMemoryRecorder) SetNotificationQueueDepth(depth int64) {
	atomic.StoreInt64(&m.notificationQueueDepth, depth)
}
