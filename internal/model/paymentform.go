package model

import "time"

// PaymentForm represents a payment template owned by a user.
// Payments are recorded against a form; the owner is notified on each one.
type PaymentForm struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}
