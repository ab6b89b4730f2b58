// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncSignup()
	IncSignIn(status string) // status: "success" or "failure"

	// Payment metrics
	IncPaymentFormCreated()
	IncPaymentCreated()

	// Notification pipeline metrics
	IncNotificationQueued(status string)   // status: "queued" or "dropped"
	IncNotificationDelivery(status string) // status: "success", "failed", "exhausted"
	ObserveNotificationDeliveryDuration(duration time.Duration)
	SetNotificationQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
