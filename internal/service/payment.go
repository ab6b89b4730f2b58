package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/payform/payform/internal/metrics"
	"github.com/payform/payform/internal/model"
	"github.com/payform/payform/internal/notify"
	"github.com/payform/payform/internal/repository"
)

// ErrInvalidApplicant indicates a missing or oversized applicant name.
var ErrInvalidApplicant = errors.New("invalid applicant name")

const maxApplicantNameLength = 100

// PaymentService handles payment recording and notification fan-out.
type PaymentService struct {
	repo      *repository.Repository
	publisher *notify.Publisher
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo *repository.Repository, publisher *notify.Publisher, logger *slog.Logger, recorder metrics.Recorder) *PaymentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PaymentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		metrics:   recorder,
	}
}

// CreatePaymentInput defines input for recording a payment.
type CreatePaymentInput struct {
	FormID        int64
	ApplicantName string
	Amount        float64
}

// CreatePayment records a payment against a form and queues an email
// notification to the form owner. The notification is asynchronous: a
// queue failure is logged and the payment still succeeds.
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*model.Payment, error) {
	applicant := strings.TrimSpace(input.ApplicantName)
	if applicant == "" || len(applicant) > maxApplicantNameLength {
		return nil, ErrInvalidApplicant
	}

	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	form, err := s.repo.GetPaymentFormByID(ctx, input.FormID)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	payment := &model.Payment{
		FormID:        form.ID,
		ApplicantName: applicant,
		Amount:        input.Amount,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.metrics.IncPaymentCreated()

	s.queueNotification(ctx, form, payment)

	return payment, nil
}

// ListHistory retrieves all payments recorded against the caller's forms.
func (s *PaymentService) ListHistory(ctx context.Context, userID int64) ([]*model.Payment, error) {
	return s.repo.ListPaymentsByUser(ctx, userID)
}

// queueNotification looks up the form owner and queues the payment email.
// Never fails the payment path.
func (s *PaymentService) queueNotification(ctx context.Context, form *model.PaymentForm, payment *model.Payment) {
	if s.publisher == nil {
		return
	}

	owner, err := s.repo.GetUserByID(ctx, form.UserID)
	if err != nil {
		s.logger.Warn("failed to load form owner for notification",
			"form_id", form.ID,
			"payment_id", payment.ID,
			"error", err,
		)
		return
	}

	if err := s.publisher.PublishPaymentNotification(ctx, owner.Email, payment); err != nil {
		s.logger.Warn("failed to queue payment notification",
			"payment_id", payment.ID,
			"error", err,
		)
	}
}
