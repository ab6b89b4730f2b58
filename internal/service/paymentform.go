package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/payform/payform/internal/metrics"
	"github.com/payform/payform/internal/model"
	"github.com/payform/payform/internal/repository"
)

// Payment form service errors.
var (
	ErrFormNotFound    = errors.New("payment form not found")
	ErrInvalidFormName = errors.New("invalid form name")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Currency codes follow ISO 4217: three uppercase letters.
var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

const (
	maxFormNameLength    = 100
	maxDescriptionLength = 1000
)

// PaymentFormService handles payment form business logic.
type PaymentFormService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewPaymentFormService creates a new PaymentFormService.
func NewPaymentFormService(repo *repository.Repository, recorder metrics.Recorder) *PaymentFormService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PaymentFormService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreatePaymentFormInput defines input for creating a payment form.
type CreatePaymentFormInput struct {
	Name        string
	Description string
	Amount      float64
	Currency    string
	UserID      int64
}

// CreateForm creates a new payment form owned by the caller.
func (s *PaymentFormService) CreateForm(ctx context.Context, input CreatePaymentFormInput) (*model.PaymentForm, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxFormNameLength {
		return nil, ErrInvalidFormName
	}

	if len(input.Description) > maxDescriptionLength {
		return nil, ErrInvalidFormName
	}

	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if !currencyRegex.MatchString(currency) {
		return nil, ErrInvalidCurrency
	}

	form := &model.PaymentForm{
		Name:        name,
		Description: input.Description,
		Amount:      input.Amount,
		Currency:    currency,
		UserID:      input.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreatePaymentForm(ctx, form); err != nil {
		return nil, fmt.Errorf("create payment form: %w", err)
	}

	s.metrics.IncPaymentFormCreated()

	return form, nil
}

// GetForm retrieves a payment form owned by the caller.
// A form owned by someone else is reported as not found.
func (s *PaymentFormService) GetForm(ctx context.Context, id, userID int64) (*model.PaymentForm, error) {
	form, err := s.repo.GetPaymentFormByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	if form.UserID != userID {
		return nil, ErrFormNotFound
	}

	return form, nil
}

// ListForms retrieves all payment forms owned by the caller.
func (s *PaymentFormService) ListForms(ctx context.Context, userID int64) ([]*model.PaymentForm, error) {
	return s.repo.ListPaymentFormsByUser(ctx, userID)
}
