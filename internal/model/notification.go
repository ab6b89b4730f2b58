package model

import "time"

// NotificationStatus represents the delivery state of a queued notification.
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusExhausted NotificationStatus = "exhausted"
)

// Notification is an outbox row for a payment email.
// Rows are written in the payment request path and drained by the
// notification worker, so a mail outage never blocks a payment response.
type Notification struct {
	ID           string             `json:"id"`
	PaymentID    int64              `json:"payment_id"`
	Recipient    string             `json:"recipient"`
	Amount       float64            `json:"amount"`
	Status       NotificationStatus `json:"status"`
	AttemptCount int                `json:"attempt_count"`
	MaxAttempts  int                `json:"max_attempts"`
	NextRetryAt  time.Time          `json:"next_retry_at"`
	LastError    string             `json:"last_error,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// IsTerminal returns true once no further delivery attempts will be made.
func (n *Notification) IsTerminal() bool {
	return n.Status == NotificationStatusDelivered || n.Status == NotificationStatusExhausted
}
