package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payform/payform/internal/model"
)

// ErrFormNotFound indicates the requested payment form does not exist.
var ErrFormNotFound = errors.New("payment form not found")

// CreatePaymentForm inserts a new payment form and assigns the generated ID.
func (r *Repository) CreatePaymentForm(ctx context.Context, form *model.PaymentForm) error {
	query := `
		INSERT INTO payment_forms (name, description, amount, currency, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		form.Name,
		form.Description,
		form.Amount,
		form.Currency,
		form.UserID,
		form.CreatedAt,
	).Scan(&form.ID)

	if err != nil {
		return fmt.Errorf("failed to create payment form: %w", err)
	}

	return nil
}

// GetPaymentFormByID retrieves a payment form by its numeric ID.
func (r *Repository) GetPaymentFormByID(ctx context.Context, id int64) (*model.PaymentForm, error) {
	query := `
		SELECT id, name, description, amount, currency, user_id, created_at
		FROM payment_forms
		WHERE id = $1
	`

	var form model.PaymentForm
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&form.ID,
		&form.Name,
		&form.Description,
		&form.Amount,
		&form.Currency,
		&form.UserID,
		&form.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get payment form: %w", err)
	}

	return &form, nil
}

// ListPaymentFormsByUser retrieves all payment forms owned by a user,
// newest first.
func (r *Repository) ListPaymentFormsByUser(ctx context.Context, userID int64) ([]*model.PaymentForm, error) {
	query := `
		SELECT id, name, description, amount, currency, user_id, created_at
		FROM payment_forms
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment forms: %w", err)
	}
	defer rows.Close()

	var forms []*model.PaymentForm
	for rows.Next() {
		var form model.PaymentForm
		if err := rows.Scan(
			&form.ID,
			&form.Name,
			&form.Description,
			&form.Amount,
			&form.Currency,
			&form.UserID,
			&form.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment form: %w", err)
		}
		forms = append(forms, &form)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment forms: %w", err)
	}

	return forms, nil
}
