package repository

import (
	"context"
	"fmt"

	"github.com/payform/payform/internal/model"
)

// CreatePayment inserts a new payment and assigns the generated ID.
func (r *Repository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (form_id, applicant_name, amount, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		payment.FormID,
		payment.ApplicantName,
		payment.Amount,
		payment.CreatedAt,
	).Scan(&payment.ID)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// ListPaymentsByUser retrieves all payments recorded against any of the
// user's forms, newest first.
func (r *Repository) ListPaymentsByUser(ctx context.Context, userID int64) ([]*model.Payment, error) {
	query := `
		SELECT p.id, p.form_id, p.applicant_name, p.amount, p.created_at
		FROM payments p
		JOIN payment_forms f ON f.id = p.form_id
		WHERE f.user_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var payment model.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.FormID,
			&payment.ApplicantName,
			&payment.Amount,
			&payment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
