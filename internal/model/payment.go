package model

import "time"

// Payment represents a single payment recorded against a form.
type Payment struct {
	ID            int64     `json:"payment_id"`
	FormID        int64     `json:"payment_form_id"`
	ApplicantName string    `json:"applicant_name"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}
