package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/payform/payform/internal/auth"
	"github.com/payform/payform/internal/handler/dto"
	"github.com/payform/payform/internal/service"
)

// PaymentHandler handles HTTP requests for payment operations.
type PaymentHandler struct {
	svc    *service.PaymentService
	logger *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /payments/{formID}.
// This endpoint is public: anyone with a form's ID can submit a payment.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	formID, err := strconv.ParseInt(chi.URLParam(r, "formID"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "Form ID must be a number")
		return
	}

	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreatePaymentInput{
		FormID:        formID,
		ApplicantName: req.ApplicantName,
		Amount:        req.Amount,
	}

	payment, err := h.svc.CreatePayment(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("payment_created",
		"payment_id", payment.ID,
		"form_id", formID,
	)

	writeJSON(w, http.StatusCreated, dto.ToPaymentResponse(payment))
}

// History handles GET /api/v1/payment-history.
// Returns every payment made against any of the caller's forms.
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	payments, err := h.svc.ListHistory(r.Context(), authCtx.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToPaymentHistoryResponse(payments))
}

// handleServiceError maps payment service errors to HTTP responses.
func (h *PaymentHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		h.writeError(w, http.StatusNotFound, "FORM_NOT_FOUND", "Payment form not found")
	case errors.Is(err, service.ErrInvalidApplicant):
		h.writeError(w, http.StatusBadRequest, "INVALID_APPLICANT", "Invalid applicant name")
	case errors.Is(err, service.ErrInvalidAmount):
		h.writeError(w, http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be positive")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *PaymentHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
